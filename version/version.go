// This file is part of Spindle.
//
// Spindle is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Spindle is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Spindle.  If not, see <https://www.gnu.org/licenses/>.

// Package version records the version of the program and the vcs revision
// it was built from, where the build information makes that available.
package version

import (
	"runtime/debug"
)

// The name to use when referring to the application.
const ApplicationName = "Spindle"

// set by the build system. empty for a plain "go build"
var version string

var revision string

// Version returns the version string and the vcs revision. Either may be
// empty depending on how the program was built.
func Version() (string, string) {
	return version, revision
}

func init() {
	info, ok := debug.ReadBuildInfo()
	if ok {
		var modified bool
		for _, v := range info.Settings {
			switch v.Key {
			case "vcs.revision":
				revision = v.Value
			case "vcs.modified":
				modified = v.Value == "true"
			}
		}
		if revision != "" && modified {
			revision += "+dirty"
		}
	}

	if revision == "" {
		revision = "no revision information"
	}
	if version == "" {
		version = "unreleased"
	}
}
