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

// Package viz renders the live state of a peripheral as a graphviz dot
// graph. Useful when debugging decoder or register state: pipe the output
// through dot to get a picture of the structure at the moment of capture.
package viz

import (
	"fmt"
	"io"

	"github.com/bradleyjkemp/memviz"
	"github.com/mothlab/spindle/hardware"
)

// Write renders the peripheral state graph to the io.Writer in dot format.
func Write(w io.Writer, per *hardware.Peripheral) error {
	if per == nil {
		return fmt.Errorf("viz: no peripheral to visualise")
	}
	memviz.Map(w, per)
	return nil
}
