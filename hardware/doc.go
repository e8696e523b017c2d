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

// Package hardware is the composition point for the simulated peripheral.
// The sub-packages implement the individual blocks: the serial frame decoder
// (spi), the register file (registers) and the PWM generator (pwm), with the
// clock constants collected in the clocks package.
//
// The design is fully synchronous with a single clock domain. The Peripheral
// type's Step() function is the only scheduling primitive: it advances every
// block exactly one system-clock tick, in a fixed order that gives register
// writes a propagation latency of one tick before the PWM generator can see
// them.
package hardware
