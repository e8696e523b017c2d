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

// Package spi implements the serial frame decoder of the peripheral. The
// peripheral is a passive SPI slave: it never drives the serial clock or
// chip-select lines, it only samples them once per system-clock tick.
//
// Frames are sixteen bits, sent most-significant-bit first: one read/write
// bit, seven address bits and eight data bits. Data is sampled on the rising
// edge of the serial clock with the controller expected to hold the data
// line stable across that edge (the CPOL=0/CPHA=0 convention).
//
// A frame commits to the register file the moment its sixteenth bit is
// latched. If chip-select stays active the decoder re-arms for a further
// frame. Deasserting chip-select with a frame in progress discards the
// partial frame without committing anything.
package spi

import (
	"fmt"

	"github.com/mothlab/spindle/hardware/registers"
	"github.com/mothlab/spindle/logger"
)

// LineState is the level of each serial bus line as sampled on one tick of
// the system clock. True means the line is high. Note that chip-select is
// active low, so CS==false means the peripheral is selected.
type LineState struct {
	CS   bool
	SClk bool
	SDI  bool
}

// Quiet is the state of the bus lines when no controller is driving them.
var Quiet = LineState{CS: true, SClk: false, SDI: false}

// Frame is one complete 16-bit serial transaction.
type Frame struct {
	Write bool
	Addr  registers.Address
	Data  uint8
}

func (fr Frame) String() string {
	rw := "read"
	if fr.Write {
		rw = "write"
	}
	return fmt.Sprintf("%s addr=%#02x data=%#02x", rw, uint8(fr.Addr), fr.Data)
}

// number of bits in a frame and the positions of the fields within the
// assembled accumulator
const (
	frameBits = 16
	writeMask = 0x8000
	addrMask  = 0x7f00
	dataMask  = 0x00ff
)

// splitFrame unpacks the 16-bit accumulator into its three fields.
func splitFrame(accum uint16) Frame {
	return Frame{
		Write: accum&writeMask == writeMask,
		Addr:  registers.Address((accum & addrMask) >> 8),
		Data:  uint8(accum & dataMask),
	}
}

// Bus is the connection from the decoder to the register file. The decoder
// makes exactly one Apply call per completed frame.
type Bus interface {
	Apply(write bool, addr registers.Address, data uint8)
}

type state int

const (
	stateIdle state = iota
	stateFraming
)

func (st state) String() string {
	switch st {
	case stateIdle:
		return "IDLE"
	case stateFraming:
		return "FRAMING"
	}
	panic("unknown decoder state")
}

// Decoder is the bit-shift state machine that reassembles command frames
// from the sampled bus lines.
type Decoder struct {
	bus Bus

	st    state
	accum uint16
	bits  int

	// line levels from the previous tick, for edge detection. both lines
	// idle high/low respectively after reset
	lastCS   bool
	lastSClk bool
}

// NewDecoder is the preferred method of initialisation for the Decoder type.
func NewDecoder(bus Bus) *Decoder {
	dec := &Decoder{bus: bus}
	dec.Reset()
	return dec
}

func (dec *Decoder) String() string {
	return fmt.Sprintf("%s bits=%d accum=%#04x", dec.st, dec.bits, dec.accum)
}

// Reset returns the decoder to the IDLE state, forgetting any frame in
// progress. The previous line levels are set to the quiet bus state.
func (dec *Decoder) Reset() {
	dec.st = stateIdle
	dec.accum = 0
	dec.bits = 0
	dec.lastCS = Quiet.CS
	dec.lastSClk = Quiet.SClk
}

// Step advances the decoder one tick of the system clock, sampling the bus
// lines. At most one register-file commit happens per completed frame.
func (dec *Decoder) Step(lines LineState) {
	csFall := dec.lastCS && !lines.CS
	csRise := !dec.lastCS && lines.CS
	sclkRise := !dec.lastSClk && lines.SClk
	dec.lastCS = lines.CS
	dec.lastSClk = lines.SClk

	switch dec.st {
	case stateIdle:
		if csFall {
			// chip-select active edge. framing always restarts from bit 0,
			// nothing survives from before the previous deassertion
			dec.st = stateFraming
			dec.accum = 0
			dec.bits = 0
		}

	case stateFraming:
		if csRise {
			if dec.bits > 0 {
				logger.Logf("spi", "chip-select deasserted mid-frame: %d bits discarded", dec.bits)
			}
			dec.st = stateIdle
			dec.accum = 0
			dec.bits = 0
			return
		}

		if sclkRise {
			dec.accum <<= 1
			if lines.SDI {
				dec.accum |= 0x01
			}
			dec.bits++

			if dec.bits == frameBits {
				fr := splitFrame(dec.accum)
				dec.bus.Apply(fr.Write, fr.Addr, fr.Data)

				// re-arm. if chip-select stays active the next rising edge
				// begins a new frame
				dec.accum = 0
				dec.bits = 0
			}
		}
	}
}
