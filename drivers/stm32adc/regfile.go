// Package stm32adc drives the enable/disable lifecycle and the disabled-state
// configuration of STM32F3 ADC instances.
//
// The driver never touches memory directly. Every access goes through a
// RegisterFile (MMIO on TinyGo, an I2C bridge, or a simulator in tests), and
// clock-domain resets go through a ClockGate. Register layouts live in the
// regs package as data.
package stm32adc

import "adcctl-go/drivers/stm32adc/regs"

// RegisterFile is a word-addressable view of one register block.
//
// Masks and values are in place (already shifted). ReadModifyWrite must be a
// single atomic update as seen by the peripheral. WriteField is one store with
// every bit outside mask written as zero; it is what write-1-to-clear status
// registers need.
type RegisterFile interface {
	ReadField(reg regs.Reg, mask uint32) uint32
	WriteField(reg regs.Reg, mask, value uint32)
	ReadModifyWrite(reg regs.Reg, mask, value uint32)
}

// ClockGate controls the bus clock and the reset line of a common domain.
// ForceReset/ReleaseReset affect every instance sharing the domain.
type ClockGate interface {
	EnableClock(d DomainID)
	ForceReset(d DomainID)
	ReleaseReset(d DomainID)
}

func get(rf RegisterFile, f regs.Field) uint32 {
	return f.Decode(rf.ReadField(f.Reg, f.Mask()))
}

func apply(rf RegisterFile, u regs.Update) {
	rf.ReadModifyWrite(u.Reg, u.Mask, u.Value)
}

// request sets one read-set CR bit. Zeros written to the other read-set bits
// have no effect on hardware.
func request(rf RegisterFile, bit regs.Field) {
	rf.ReadModifyWrite(regs.CR, regs.CRReadSet, bit.Mask())
}
