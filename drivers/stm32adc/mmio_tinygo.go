//go:build tinygo

package stm32adc

import (
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"

	"adcctl-go/drivers/stm32adc/regs"
)

// MMIO is a RegisterFile over a memory-mapped register block.
type MMIO struct{ base uintptr }

// NewMMIO maps the register block at base.
func NewMMIO(base uintptr) *MMIO { return &MMIO{base: base} }

func (m *MMIO) reg(r regs.Reg) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(m.base + uintptr(r)))
}

func (m *MMIO) ReadField(r regs.Reg, mask uint32) uint32 { return m.reg(r).Get() & mask }

func (m *MMIO) WriteField(r regs.Reg, mask, value uint32) { m.reg(r).Set(value & mask) }

// ReadModifyWrite runs with interrupts masked so a handler touching the same
// register cannot interleave.
func (m *MMIO) ReadModifyWrite(r regs.Reg, mask, value uint32) {
	st := interrupt.Disable()
	p := m.reg(r)
	p.Set((p.Get() &^ mask) | (value & mask))
	interrupt.Restore(st)
}
