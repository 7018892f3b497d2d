//go:build tinygo && stm32f3

package stm32adc

import (
	"runtime/volatile"
	"unsafe"
)

// Peripheral addresses on the AHB3 bus.
const (
	adcBase     = 0x5000_0000
	rccBase     = 0x4002_1000
	rccAHBENR   = rccBase + 0x14
	rccAHBRSTR  = rccBase + 0x28
	ahbADC12Bit = 1 << 28 // ADC1 on single-ADC parts
	ahbADC34Bit = 1 << 29
)

var (
	ahbenr  = (*volatile.Register32)(unsafe.Pointer(uintptr(rccAHBENR)))
	ahbrstr = (*volatile.Register32)(unsafe.Pointer(uintptr(rccAHBRSTR)))
)

// InstanceBase returns the register block address of id.
func InstanceBase(id InstanceID) uintptr {
	switch id {
	case ADC1:
		return adcBase
	case ADC2:
		return adcBase + 0x100
	case ADC3:
		return adcBase + 0x400
	case ADC4:
		return adcBase + 0x500
	}
	return 0
}

// CommonBase returns the common block address of d.
func CommonBase(d DomainID) uintptr {
	if d == DomainADC34 {
		return adcBase + 0x700
	}
	return adcBase + 0x300
}

// RCC is the ClockGate of the on-chip reset and clock controller.
type RCC struct{}

func rccBit(d DomainID) uint32 {
	if d == DomainADC34 {
		return ahbADC34Bit
	}
	return ahbADC12Bit
}

func (RCC) EnableClock(d DomainID) {
	ahbenr.SetBits(rccBit(d))
	_ = ahbenr.Get() // the enable takes effect after one bus read
}

func (RCC) ForceReset(d DomainID)   { ahbrstr.SetBits(rccBit(d)) }
func (RCC) ReleaseReset(d DomainID) { ahbrstr.ClearBits(rccBit(d)) }
