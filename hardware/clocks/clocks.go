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

// Package clocks defines the constant values that define the speed of the
// system clock driving the peripheral and of the PWM stage derived from it.
//
// The PWM prescale value is a calibration constant. The nominal PWM frequency
// of the reference hardware is 3kHz and the prescale value is chosen so that
// the 8-bit PWM counter divides the system clock down to that frequency. It
// cannot be derived from the protocol so if the system clock changes the
// prescale value must be recalibrated.
package clocks

const (
	// SystemClockHz is the frequency of the reference system clock.
	SystemClockHz = 10_000_000

	// SystemClockPeriodNs is the period of one system-clock tick.
	SystemClockPeriodNs = 1_000_000_000 / SystemClockHz
)

const (
	// PWMPrescale is the number of system-clock ticks between advances of
	// the free-running PWM counter.
	PWMPrescale = 13

	// PWMCounterWrap is the number of values the PWM counter passes through
	// before wrapping.
	PWMCounterWrap = 256

	// PWMPeriodTicks is the length of one full PWM period measured in
	// system-clock ticks.
	PWMPeriodTicks = PWMCounterWrap * PWMPrescale
)

// PWMFrequency is the PWM output frequency for the reference system clock.
// Approximately 3005Hz with the values above.
const PWMFrequency = float64(SystemClockHz) / float64(PWMPeriodTicks)
