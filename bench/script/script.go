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

// Package script runs Lua bench scripts against a simulated peripheral.
// A script drives the bus through the bench driver and inspects the output
// pins, so a complete bring-up sequence can be expressed in a few lines:
//
//	reset()
//	write(0x00, 0x01)       -- output enable
//	write(0x02, 0x01)       -- pwm enable
//	write(0x04, 0x80)       -- 50% duty
//	idle(1000)
//	print(string.format("pwm frequency %.1fHz", freq()))
//
// The functions registered with the Lua state are thin wrappers over the
// bench.Driver API. Failures inside the driver are raised as Lua errors.
package script

import (
	"fmt"
	"io"

	"github.com/mothlab/spindle/bench"
	"github.com/mothlab/spindle/hardware"
	"github.com/mothlab/spindle/hardware/clocks"
	"github.com/mothlab/spindle/hardware/registers"
	"github.com/mothlab/spindle/logger"

	lua "github.com/yuin/gopher-lua"
)

// Run executes the Lua script in the named file against a freshly created
// peripheral. Output from the script's print() goes to the output writer.
func Run(filename string, output io.Writer) error {
	drv := bench.NewDriver(hardware.NewPeripheral(), bench.DefaultHalfPeriod)
	return RunWithDriver(filename, drv, output)
}

// RunWithDriver executes the Lua script in the named file against an
// existing bench driver. Used when the caller wants to attach a waveform
// sampler or inspect the peripheral after the script completes.
func RunWithDriver(filename string, drv *bench.Driver, output io.Writer) error {
	L := lua.NewState()
	defer L.Close()

	registerBenchAPI(L, drv, output)

	logger.Logf("script", "running %s", filename)
	if err := L.DoFile(filename); err != nil {
		return fmt.Errorf("script: %w", err)
	}

	return nil
}

func registerBenchAPI(L *lua.LState, drv *bench.Driver, output io.Writer) {
	L.SetGlobal("reset", L.NewFunction(func(L *lua.LState) int {
		drv.Reset()
		return 0
	}))

	L.SetGlobal("write", L.NewFunction(func(L *lua.LState) int {
		addr := L.CheckInt(1)
		data := L.CheckInt(2)
		if err := drv.Write(registers.Address(addr), uint8(data)); err != nil {
			L.RaiseError("%v", err)
		}
		return 0
	}))

	L.SetGlobal("read", L.NewFunction(func(L *lua.LState) int {
		addr := L.CheckInt(1)
		data := L.CheckInt(2)
		if err := drv.Read(registers.Address(addr), uint8(data)); err != nil {
			L.RaiseError("%v", err)
		}
		return 0
	}))

	L.SetGlobal("idle", L.NewFunction(func(L *lua.LState) int {
		drv.Idle(L.CheckInt(1))
		return 0
	}))

	L.SetGlobal("out", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(drv.Out()))
		return 1
	}))

	L.SetGlobal("bus", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(drv.BusOut()))
		return 1
	}))

	L.SetGlobal("pwm", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(drv.PWM()))
		return 1
	}))

	L.SetGlobal("ticks", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(drv.Ticks()))
		return 1
	}))

	L.SetGlobal("period", L.NewFunction(func(L *lua.LState) int {
		period, err := drv.MeasurePeriod()
		if err != nil {
			L.RaiseError("%v", err)
		}
		L.Push(lua.LNumber(period))
		return 1
	}))

	L.SetGlobal("freq", L.NewFunction(func(L *lua.LState) int {
		period, err := drv.MeasurePeriod()
		if err != nil {
			L.RaiseError("%v", err)
		}
		L.Push(lua.LNumber(float64(clocks.SystemClockHz) / float64(period)))
		return 1
	}))

	L.SetGlobal("duty", L.NewFunction(func(L *lua.LState) int {
		duty, err := drv.MeasureDuty()
		if err != nil {
			L.RaiseError("%v", err)
		}
		L.Push(lua.LNumber(duty))
		return 1
	}))

	L.SetGlobal("log", L.NewFunction(func(L *lua.LState) int {
		logger.Log("script", L.CheckString(1))
		return 0
	}))

	// route print() to the caller's writer rather than stdout
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		top := L.GetTop()
		for i := 1; i <= top; i++ {
			if i > 1 {
				fmt.Fprint(output, "\t")
			}
			fmt.Fprint(output, L.ToStringMeta(L.Get(i)).String())
		}
		fmt.Fprintln(output)
		return 0
	}))
}
