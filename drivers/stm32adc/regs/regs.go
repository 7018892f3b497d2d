// Package regs describes the STM32F3 ADC register block as data: register
// offsets plus (offset, bit position, bit width) field descriptors. Nothing
// here touches hardware; the driver and the simulator both read these tables.
package regs

import "adcctl-go/x/mathx"

// Reg is a byte offset inside a register block.
type Reg uint16

// Field is one named bit-field of a register.
type Field struct {
	Reg   Reg
	Pos   uint8
	Width uint8
}

// Mask returns the in-place mask of the field.
func (f Field) Mask() uint32 { return mathx.LowMask[uint32](f.Width) << f.Pos }

// Encode shifts v into place, dropping bits wider than the field.
func (f Field) Encode(v uint32) uint32 { return (v << f.Pos) & f.Mask() }

// Decode extracts the field from a register word.
func (f Field) Decode(word uint32) uint32 { return (word & f.Mask()) >> f.Pos }

// Max is the largest value the field can hold.
func (f Field) Max() uint32 { return mathx.LowMask[uint32](f.Width) }

// Update accumulates several fields of one register so they can be applied
// in a single read-modify-write.
type Update struct {
	Reg   Reg
	Mask  uint32
	Value uint32
}

// On starts an update of reg.
func On(reg Reg) Update { return Update{Reg: reg} }

// Put sets field f to v. f must belong to the update's register.
func (u Update) Put(f Field, v uint32) Update {
	if f.Reg != u.Reg {
		panic("regs: field from another register")
	}
	u.Mask |= f.Mask()
	u.Value = (u.Value &^ f.Mask()) | f.Encode(v)
	return u
}

// Flag sets or clears a one-bit field.
func (u Update) Flag(f Field, on bool) Update {
	if on {
		return u.Put(f, 1)
	}
	return u.Put(f, 0)
}

// Clear zeroes every listed field.
func (u Update) Clear(fs ...Field) Update {
	for _, f := range fs {
		u = u.Put(f, 0)
	}
	return u
}

// Apply merges the update into word.
func (u Update) Apply(word uint32) uint32 { return (word &^ u.Mask) | (u.Value & u.Mask) }
