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

// Package bench models the controller side of the serial bus. The peripheral
// core is a passive slave so exercising it requires something to generate
// the chip-select, serial-clock and data waveforms of a bus master. The
// Driver type does that, one system-clock tick at a time.
//
// The Driver is the programmatic interface used by tests and by the Lua
// bench scripts in the script sub-package. It also carries the measurement
// helpers that watch the PWM pin over many ticks.
package bench

import (
	"fmt"

	"github.com/mothlab/spindle/hardware"
	"github.com/mothlab/spindle/hardware/clocks"
	"github.com/mothlab/spindle/hardware/registers"
	"github.com/mothlab/spindle/hardware/spi"
)

// DefaultHalfPeriod is the default number of system-clock ticks per half
// serial-clock period. It matches the reference bench: a 10us half period
// at the 10MHz system clock.
const DefaultHalfPeriod = 100

// interFrameGap is the number of quiet ticks the driver inserts after
// deasserting chip-select at the end of a transaction.
const interFrameGap = 600

// Sampler functions receive the level of the PWM pin after every tick the
// driver advances. Used by the trace package to record waveforms.
type Sampler func(high bool)

// Driver generates controller-side bus waveforms against a Peripheral.
type Driver struct {
	Per *hardware.Peripheral

	halfPeriod int
	lines      spi.LineState
	ticks      uint64

	sampler Sampler
}

// NewDriver is the preferred method of initialisation for the Driver type.
// A halfPeriod below 1 selects DefaultHalfPeriod.
func NewDriver(per *hardware.Peripheral, halfPeriod int) *Driver {
	if halfPeriod < 1 {
		halfPeriod = DefaultHalfPeriod
	}
	return &Driver{
		Per:        per,
		halfPeriod: halfPeriod,
		lines:      spi.Quiet,
	}
}

// SetSampler attaches a function that receives the PWM pin level after every
// tick. A nil sampler detaches.
func (drv *Driver) SetSampler(sampler Sampler) {
	drv.sampler = sampler
}

// Ticks returns the number of system-clock ticks elapsed since the driver
// was created.
func (drv *Driver) Ticks() uint64 {
	return drv.ticks
}

// step advances the peripheral one tick with the current line state.
func (drv *Driver) step() {
	drv.Per.Step(drv.lines)
	drv.ticks++
	if drv.sampler != nil {
		drv.sampler(drv.Per.PWMOut())
	}
}

// run advances the peripheral n ticks with the current line state.
func (drv *Driver) run(n int) {
	for i := 0; i < n; i++ {
		drv.step()
	}
}

// Reset quietens the bus and asserts the system reset line for a few ticks,
// as the reference bench does.
func (drv *Driver) Reset() {
	drv.lines = spi.Quiet
	drv.run(5)
	drv.Per.Reset()
	drv.run(5)
}

// Idle advances the simulation n ticks with the bus quiet.
func (drv *Driver) Idle(n int) {
	drv.lines = spi.Quiet
	drv.run(n)
}

// Write sends a complete write transaction for the given address and data.
func (drv *Driver) Write(addr registers.Address, data uint8) error {
	return drv.transact(true, addr, data)
}

// Read sends a complete read transaction. The peripheral has no read-data
// path so the transaction has no observable effect, but the bench needs to
// be able to send one to prove exactly that.
func (drv *Driver) Read(addr registers.Address, data uint8) error {
	return drv.transact(false, addr, data)
}

func (drv *Driver) transact(write bool, addr registers.Address, data uint8) error {
	if addr > 0x7f {
		return fmt.Errorf("bench: address %#02x does not fit in seven bits", uint8(addr))
	}

	frame := uint16(addr)<<8 | uint16(data)
	if write {
		frame |= 0x8000
	}

	// chip-select active, serial clock low
	drv.lines = spi.LineState{CS: false, SClk: false, SDI: false}
	drv.step()

	// sixteen bits, most significant first. data is presented with the
	// clock low and held across the rising edge
	for i := 0; i < 16; i++ {
		bit := frame&(0x8000>>i) != 0
		drv.lines = spi.LineState{CS: false, SClk: false, SDI: bit}
		drv.run(drv.halfPeriod)
		drv.lines = spi.LineState{CS: false, SClk: true, SDI: bit}
		drv.run(drv.halfPeriod)
	}

	// end of transaction. chip-select inactive and a gap before the next
	drv.lines = spi.Quiet
	drv.run(interFrameGap)

	return nil
}

// Out returns the current level of the direct-mapped output bus.
func (drv *Driver) Out() uint8 {
	return drv.Per.Out()
}

// BusOut returns the current level of the second output bus.
func (drv *Driver) BusOut() uint8 {
	return drv.Per.BusOut()
}

// PWM returns the current level of the PWM pin.
func (drv *Driver) PWM() bool {
	return drv.Per.PWMOut()
}

// measurement limit. if the PWM pin shows no edges in this many ticks it is
// either disabled or saturated
const measureLimit = 4 * clocks.PWMPeriodTicks

// MeasurePeriod runs the simulation with the bus quiet until it has seen two
// consecutive rising edges on the PWM pin, returning the number of ticks
// between them. An error is returned if the pin shows no edges, which is the
// case when the PWM is disabled or the duty cycle is saturated.
func (drv *Driver) MeasurePeriod() (int, error) {
	if _, err := drv.nextRisingEdge(); err != nil {
		return 0, err
	}
	period, err := drv.nextRisingEdge()
	if err != nil {
		return 0, err
	}
	return period, nil
}

// MeasureDuty runs the simulation with the bus quiet over one full PWM
// period, returning the fraction of the period the PWM pin was high. An
// error is returned if the pin shows no edges.
func (drv *Driver) MeasureDuty() (float64, error) {
	if _, err := drv.nextRisingEdge(); err != nil {
		return 0, err
	}

	high, err := drv.nextFallingEdge()
	if err != nil {
		return 0, err
	}

	rest, err := drv.nextRisingEdge()
	if err != nil {
		return 0, err
	}

	return float64(high) / float64(high+rest), nil
}

// MeasureHighFraction advances the simulation n ticks with the bus quiet and
// returns the fraction of ticks the PWM pin was high. Unlike MeasureDuty it
// works for saturated waveforms with no edges.
func (drv *Driver) MeasureHighFraction(n int) float64 {
	drv.lines = spi.Quiet
	high := 0
	for i := 0; i < n; i++ {
		drv.step()
		if drv.Per.PWMOut() {
			high++
		}
	}
	return float64(high) / float64(n)
}

func (drv *Driver) nextRisingEdge() (int, error) {
	drv.lines = spi.Quiet
	last := drv.Per.PWMOut()
	for i := 1; i <= measureLimit; i++ {
		drv.step()
		if !last && drv.Per.PWMOut() {
			return i, nil
		}
		last = drv.Per.PWMOut()
	}
	return 0, fmt.Errorf("bench: no rising edge on PWM pin in %d ticks", measureLimit)
}

func (drv *Driver) nextFallingEdge() (int, error) {
	drv.lines = spi.Quiet
	last := drv.Per.PWMOut()
	for i := 1; i <= measureLimit; i++ {
		drv.step()
		if last && !drv.Per.PWMOut() {
			return i, nil
		}
		last = drv.Per.PWMOut()
	}
	return 0, fmt.Errorf("bench: no falling edge on PWM pin in %d ticks", measureLimit)
}
