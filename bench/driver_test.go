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

package bench_test

import (
	"testing"

	"github.com/mothlab/spindle/bench"
	"github.com/mothlab/spindle/hardware"
	"github.com/mothlab/spindle/hardware/clocks"
	"github.com/mothlab/spindle/hardware/registers"
	"github.com/mothlab/spindle/test"
)

// newBench returns a driver around a freshly reset peripheral. the short
// half period keeps the tests fast; the protocol does not depend on the
// serial-clock rate
func newBench() *bench.Driver {
	drv := bench.NewDriver(hardware.NewPeripheral(), 2)
	drv.Reset()
	return drv
}

func TestWriteThenObserve(t *testing.T) {
	drv := newBench()

	for _, data := range []uint8{0x00, 0x01, 0x7f, 0x80, 0xcc, 0xff} {
		test.ExpectSuccess(t, drv.Write(registers.DirectOut, data))
		test.ExpectEquality(t, drv.BusOut(), data)
		test.ExpectEquality(t, drv.Per.Regs.OutputEnable, 0x00)
		test.ExpectEquality(t, drv.Per.Regs.PwmEnable, 0x00)
		test.ExpectEquality(t, drv.Per.Regs.PwmDuty, 0x00)
	}

	test.ExpectSuccess(t, drv.Write(registers.OutputEnable, 0x01))
	test.ExpectSuccess(t, drv.Write(registers.DirectOut, 0xf0))
	test.ExpectEquality(t, drv.Out(), 0xf0)
	test.ExpectEquality(t, drv.BusOut(), 0xf0)

	test.ExpectSuccess(t, drv.Write(registers.PwmEnable, 0x01))
	test.ExpectSuccess(t, drv.Write(registers.PwmDuty, 0xcf))
	test.ExpectEquality(t, drv.Per.Regs.PwmEnable, 0x01)
	test.ExpectEquality(t, drv.Per.Regs.PwmDuty, 0xcf)
	test.ExpectEquality(t, drv.Out(), 0xf0)
}

func TestUnmappedWriteNoOp(t *testing.T) {
	drv := newBench()
	test.ExpectSuccess(t, drv.Write(registers.OutputEnable, 0x01))
	test.ExpectSuccess(t, drv.Write(registers.DirectOut, 0xcc))

	for _, addr := range []registers.Address{0x03, 0x30, 0x41, 0x7f} {
		test.ExpectSuccess(t, drv.Write(addr, 0xaa))
		test.ExpectEquality(t, drv.Out(), 0xcc)
		test.ExpectEquality(t, drv.Per.Regs.OutputEnable, 0x01)
		test.ExpectEquality(t, drv.Per.Regs.DirectOut, 0xcc)
		test.ExpectEquality(t, drv.Per.Regs.PwmEnable, 0x00)
		test.ExpectEquality(t, drv.Per.Regs.PwmDuty, 0x00)
	}

	// addresses wider than seven bits cannot be framed
	test.ExpectFailure(t, drv.Write(registers.Address(0x80), 0x00))
}

func TestReadNoOp(t *testing.T) {
	drv := newBench()
	test.ExpectSuccess(t, drv.Write(registers.OutputEnable, 0x01))
	test.ExpectSuccess(t, drv.Write(registers.DirectOut, 0xf0))

	test.ExpectSuccess(t, drv.Read(registers.OutputEnable, 0xbe))
	test.ExpectSuccess(t, drv.Read(registers.Address(0x30), 0xbe))
	test.ExpectSuccess(t, drv.Read(registers.Address(0x41), 0xef))

	test.ExpectEquality(t, drv.Out(), 0xf0)
	test.ExpectEquality(t, drv.Per.Regs.OutputEnable, 0x01)
	test.ExpectEquality(t, drv.Per.Regs.DirectOut, 0xf0)
}

// enablePwm performs the configuration sequence of the reference bench:
// output enable, PWM enable, then the duty value.
func enablePwm(t *testing.T, drv *bench.Driver, duty uint8) {
	t.Helper()
	test.ExpectSuccess(t, drv.Write(registers.OutputEnable, 0x01))
	test.ExpectSuccess(t, drv.Write(registers.PwmEnable, 0x01))
	test.ExpectSuccess(t, drv.Write(registers.PwmDuty, duty))
	drv.Idle(1000)
}

func TestPwmFrequency(t *testing.T) {
	drv := newBench()
	enablePwm(t, drv, 0x80)

	period, err := drv.MeasurePeriod()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, period, clocks.PWMPeriodTicks)

	freq := float64(clocks.SystemClockHz) / float64(period)
	if freq < 2970 || freq > 3030 {
		t.Errorf("PWM frequency %f outside 3000Hz +/-1%%", freq)
	}
}

func TestPwmDuty(t *testing.T) {
	drv := newBench()
	enablePwm(t, drv, 0x80)

	duty, err := drv.MeasureDuty()
	test.ExpectSuccess(t, err)
	test.ExpectApproximate(t, duty, 0.5, 0.005)

	test.ExpectSuccess(t, drv.Write(registers.PwmDuty, 0x40))
	drv.Idle(clocks.PWMPeriodTicks)
	duty, err = drv.MeasureDuty()
	test.ExpectSuccess(t, err)
	test.ExpectApproximate(t, duty, 0.25, 0.005)
}

func TestPwmSaturation(t *testing.T) {
	drv := newBench()

	// duty 0x00: constant low for a whole period. there are no edges so the
	// period measurement must fail
	enablePwm(t, drv, 0x00)
	test.ExpectEquality(t, drv.MeasureHighFraction(clocks.PWMPeriodTicks), 0.0)
	_, err := drv.MeasurePeriod()
	test.ExpectFailure(t, err)

	// duty 0xff: constant high for a whole period
	test.ExpectSuccess(t, drv.Write(registers.PwmDuty, 0xff))
	drv.Idle(clocks.PWMPeriodTicks)
	test.ExpectEquality(t, drv.MeasureHighFraction(clocks.PWMPeriodTicks), 1.0)
}

func TestPwmDisabled(t *testing.T) {
	drv := newBench()
	test.ExpectSuccess(t, drv.Write(registers.PwmDuty, 0x80))
	drv.Idle(1000)

	// duty set but PWM not enabled: pin stays low
	test.ExpectEquality(t, drv.MeasureHighFraction(2*clocks.PWMPeriodTicks), 0.0)

	// disabling mid-run pulls the pin low again
	test.ExpectSuccess(t, drv.Write(registers.PwmEnable, 0x01))
	drv.Idle(1000)
	if drv.MeasureHighFraction(clocks.PWMPeriodTicks) == 0.0 {
		t.Errorf("PWM pin showed no activity after enable")
	}
	test.ExpectSuccess(t, drv.Write(registers.PwmEnable, 0x00))
	test.ExpectEquality(t, drv.MeasureHighFraction(clocks.PWMPeriodTicks), 0.0)
}

func TestReferenceSequence(t *testing.T) {
	drv := newBench()

	// the concrete scenario from the reference bench: a write of 0xf0 to
	// OUTPUT_ENABLE stores the whole byte but bit 0 is clear, so the
	// direct-mapped bus stays at zero until an enable with bit 0 set
	test.ExpectSuccess(t, drv.Write(registers.OutputEnable, 0xf0))
	test.ExpectEquality(t, drv.Per.Regs.OutputEnable, 0xf0)
	test.ExpectEquality(t, drv.Out(), 0x00)

	test.ExpectSuccess(t, drv.Write(registers.DirectOut, 0xf0))
	test.ExpectEquality(t, drv.BusOut(), 0xf0)
	test.ExpectEquality(t, drv.Out(), 0x00)

	test.ExpectSuccess(t, drv.Write(registers.OutputEnable, 0xf1))
	test.ExpectEquality(t, drv.Out(), 0xf0)
}

func TestTickAccounting(t *testing.T) {
	drv := bench.NewDriver(hardware.NewPeripheral(), 2)
	start := drv.Ticks()
	drv.Idle(100)
	test.ExpectEquality(t, drv.Ticks()-start, uint64(100))
}
