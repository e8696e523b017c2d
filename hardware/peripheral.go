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

package hardware

import (
	"fmt"

	"github.com/mothlab/spindle/hardware/clocks"
	"github.com/mothlab/spindle/hardware/pwm"
	"github.com/mothlab/spindle/hardware/registers"
	"github.com/mothlab/spindle/hardware/spi"
)

// Peripheral is the main container for the simulated components of the
// register-controlled peripheral.
type Peripheral struct {
	Regs *registers.File
	SPI  *spi.Decoder
	PWM  *pwm.Generator

	// output pin state, refreshed at the end of every Step()
	out    uint8
	busOut uint8
}

// NewPeripheral creates a new Peripheral and everything associated with the
// hardware, wired together and in the reset state.
func NewPeripheral() *Peripheral {
	per := &Peripheral{}
	per.Regs = registers.NewFile()
	per.SPI = spi.NewDecoder(per.Regs)
	per.PWM = pwm.NewGenerator(clocks.PWMPrescale)
	return per
}

func (per *Peripheral) String() string {
	return fmt.Sprintf("%s / %s / %s", per.Regs, per.SPI, per.PWM)
}

// Reset emulates the system reset line: registers to zero, PWM counter to
// zero, decoder to IDLE. Normal operation resumes on the next Step().
func (per *Peripheral) Reset() {
	per.Regs.Reset()
	per.SPI.Reset()
	per.PWM.Reset()
	per.out = 0
	per.busOut = 0
}

// Step advances the peripheral state one tick of the system clock. The
// update order is fixed: the PWM generator steps first, observing the
// register file as it stood at the end of the previous tick; the decoder
// then samples the bus lines and may commit a register write; the output
// pins are refreshed last. A write committed on tick T is therefore visible
// to the PWM output no earlier than tick T+1.
func (per *Peripheral) Step(lines spi.LineState) {
	per.PWM.Step(per.Regs.PwmEnabled(), per.Regs.PwmDuty)
	per.SPI.Step(lines)

	if per.Regs.OutputEnabled() {
		per.out = per.Regs.DirectOut
	} else {
		per.out = 0
	}
	per.busOut = per.Regs.DirectOut
}

// Out is the direct-mapped output bus. It carries the DIRECT_OUT register
// value while bit 0 of OUTPUT_ENABLE is set and is forced to zero otherwise.
func (per *Peripheral) Out() uint8 {
	return per.out
}

// BusOut is the second output bus. It carries the raw DIRECT_OUT register
// value regardless of any enable bit.
func (per *Peripheral) BusOut() uint8 {
	return per.busOut
}

// PWMOut is the instantaneous level of the single-bit PWM output pin.
func (per *Peripheral) PWMOut() bool {
	return per.PWM.Out()
}
