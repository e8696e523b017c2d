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

// Package registers implements the register file of the peripheral and the
// address validation that guards it.
//
// The address space is seven bits wide but only four addresses are mapped.
// The gap at 0x03 is a deliberate feature of the hardware and not an
// oversight. Decoding is therefore done over a closed set of register
// identifiers with an explicit Unmapped value, rather than with a range
// check.
//
// The bus has no path for signalling errors back to the controller. Writes
// to unmapped addresses and all read requests are absorbed silently, leaving
// every register untouched.
package registers

import (
	"fmt"

	"github.com/mothlab/spindle/logger"
)

// Address is a value in the 7-bit address space of the serial bus.
type Address uint8

// The mapped addresses. All other values in the address space, including the
// gap at 0x03, are unmapped.
const (
	OutputEnable Address = 0x00
	DirectOut    Address = 0x01
	PwmEnable    Address = 0x02
	PwmDuty      Address = 0x04
)

// Register identifies one of the registers in the file. The Unmapped value
// is a real member of the set and is the decode result for every address
// outside the mapped group.
type Register int

// The list of valid Register values.
const (
	RegOutputEnable Register = iota
	RegDirectOut
	RegPwmEnable
	RegPwmDuty
	RegUnmapped
)

func (reg Register) String() string {
	switch reg {
	case RegOutputEnable:
		return "OUTPUT_ENABLE"
	case RegDirectOut:
		return "DIRECT_OUT"
	case RegPwmEnable:
		return "PWM_ENABLE"
	case RegPwmDuty:
		return "PWM_DUTY"
	case RegUnmapped:
		return "UNMAPPED"
	}
	panic("unknown register")
}

// Decode returns the register a bus address refers to.
func Decode(addr Address) Register {
	switch addr {
	case OutputEnable:
		return RegOutputEnable
	case DirectOut:
		return RegDirectOut
	case PwmEnable:
		return RegPwmEnable
	case PwmDuty:
		return RegPwmDuty
	}
	return RegUnmapped
}

// File is the register file of the peripheral. It is mutated only by the
// Apply() function, called by the serial decoder when a frame commits, and
// read by the PWM generator and the output pin drivers.
type File struct {
	OutputEnable uint8
	DirectOut    uint8
	PwmEnable    uint8
	PwmDuty      uint8
}

// NewFile is the preferred method of initialisation for the File type.
func NewFile() *File {
	fl := &File{}
	fl.Reset()
	return fl
}

func (fl *File) String() string {
	return fmt.Sprintf("OE=%#02x DO=%#02x PE=%#02x PD=%#02x",
		fl.OutputEnable, fl.DirectOut, fl.PwmEnable, fl.PwmDuty)
}

// Reset returns every register to zero, as on a system reset.
func (fl *File) Reset() {
	fl.OutputEnable = 0
	fl.DirectOut = 0
	fl.PwmEnable = 0
	fl.PwmDuty = 0
}

// Apply is the single mutation point for the register file. A read request
// or a write to an unmapped address has no effect. A write to a mapped
// address replaces the whole register byte.
func (fl *File) Apply(write bool, addr Address, data uint8) {
	if !write {
		logger.Logf("registers", "read request for %#02x ignored (no read path)", uint8(addr))
		return
	}

	switch Decode(addr) {
	case RegOutputEnable:
		fl.OutputEnable = data
	case RegDirectOut:
		fl.DirectOut = data
	case RegPwmEnable:
		fl.PwmEnable = data
	case RegPwmDuty:
		fl.PwmDuty = data
	case RegUnmapped:
		logger.Logf("registers", "write to unmapped address %#02x ignored", uint8(addr))
	}
}

// OutputEnabled returns the state of bit 0 of the OUTPUT_ENABLE register.
// The other bits of the register are stored but have no meaning.
func (fl *File) OutputEnabled() bool {
	return fl.OutputEnable&0x01 == 0x01
}

// PwmEnabled returns the state of bit 0 of the PWM_ENABLE register. The
// other bits of the register are stored but have no meaning.
func (fl *File) PwmEnabled() bool {
	return fl.PwmEnable&0x01 == 0x01
}
