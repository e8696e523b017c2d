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

package script_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mothlab/spindle/bench"
	"github.com/mothlab/spindle/bench/script"
	"github.com/mothlab/spindle/hardware"
	"github.com/mothlab/spindle/test"
)

// writeScript puts a Lua script in a temporary file and returns the path.
func writeScript(t *testing.T, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "bench.lua")
	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestBringUpSequence(t *testing.T) {
	filename := writeScript(t, `
reset()
write(0x00, 0x01)
write(0x01, 0xcc)
if out() ~= 0xcc then
	error(string.format("expected 0xcc on direct bus, got %#x", out()))
end
print("direct bus ok")
`)

	drv := bench.NewDriver(hardware.NewPeripheral(), 2)
	output := &strings.Builder{}
	test.ExpectSuccess(t, script.RunWithDriver(filename, drv, output))
	test.ExpectEquality(t, output.String(), "direct bus ok\n")
	test.ExpectEquality(t, drv.Out(), 0xcc)
}

func TestPwmMeasurement(t *testing.T) {
	filename := writeScript(t, `
reset()
write(0x02, 0x01)
write(0x04, 0x80)
idle(1000)
f = freq()
if f < 2970 or f > 3030 then
	error(string.format("pwm frequency %f out of range", f))
end
d = duty()
if d < 0.495 or d > 0.505 then
	error(string.format("pwm duty %f out of range", d))
end
`)

	drv := bench.NewDriver(hardware.NewPeripheral(), 2)
	test.ExpectSuccess(t, script.RunWithDriver(filename, drv, &strings.Builder{}))
}

func TestScriptError(t *testing.T) {
	// measuring a period with the PWM disabled raises a Lua error which
	// must surface as a Go error
	filename := writeScript(t, `
reset()
period()
`)
	err := script.Run(filename, &strings.Builder{})
	test.ExpectFailure(t, err)
}

func TestMissingScript(t *testing.T) {
	err := script.Run(filepath.Join(t.TempDir(), "no-such.lua"), &strings.Builder{})
	test.ExpectFailure(t, err)
}
