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

// Package pwm implements the PWM generator of the peripheral: an 8-bit
// free-running counter behind a prescale stage, compared against the duty
// register every tick.
//
// The counter advances unconditionally, whether or not the PWM output is
// enabled. Enable and duty changes only affect the gating of the output, so
// toggling the enable bit mid-cycle never needs the counter to resynchronise
// and the output phase is continuous.
//
// The duty endpoints saturate exactly: a duty of 0x00 holds the output low
// for the whole period and a duty of 0xFF holds it high for the whole
// period. These are explicit cases, not approximations of 0/256 and 255/256.
package pwm

import "fmt"

// Generator is the PWM counter/comparator stage.
type Generator struct {
	// number of system-clock ticks between counter advances
	prescale int

	// ticks remaining until the next counter advance
	remaining int

	// Counter is the free-running 8-bit counter. It wraps naturally after
	// 255 and is zeroed only by Reset()
	Counter uint8

	out bool
}

// NewGenerator is the preferred method of initialisation for the Generator
// type. A prescale value below 1 is treated as 1 (no prescaling).
func NewGenerator(prescale int) *Generator {
	if prescale < 1 {
		prescale = 1
	}
	gen := &Generator{prescale: prescale}
	gen.Reset()
	return gen
}

func (gen *Generator) String() string {
	return fmt.Sprintf("counter=%#02x remaining=%d out=%v", gen.Counter, gen.remaining, gen.out)
}

// Reset zeroes the counter and the prescale count, as on a system reset.
func (gen *Generator) Reset() {
	gen.Counter = 0
	gen.remaining = gen.prescale
	gen.out = false
}

// Step advances the generator one tick of the system clock. The enabled and
// duty arguments are the register values the generator observes this tick;
// the caller is responsible for ensuring they are the values from the
// previous tick so that a register write is never visible in the same tick
// it committed.
func (gen *Generator) Step(enabled bool, duty uint8) {
	gen.remaining--
	if gen.remaining <= 0 {
		gen.Counter++
		gen.remaining = gen.prescale
	}

	switch {
	case !enabled:
		gen.out = false
	case duty == 0x00:
		gen.out = false
	case duty == 0xff:
		gen.out = true
	default:
		gen.out = gen.Counter < duty
	}
}

// Out is the instantaneous level of the PWM output pin.
func (gen *Generator) Out() bool {
	return gen.out
}
