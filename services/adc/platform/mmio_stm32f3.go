// services/adc/platform/mmio_stm32f3.go
//go:build tinygo && stm32f3

package platform

import "adcctl-go/drivers/stm32adc"

// MCU is the on-chip board: MMIO register files and the RCC clock gate.
type MCU struct{}

func (MCU) Common(d stm32adc.DomainID) (stm32adc.RegisterFile, bool) {
	return stm32adc.NewMMIO(stm32adc.CommonBase(d)), true
}

func (MCU) Instance(id stm32adc.InstanceID) (stm32adc.RegisterFile, bool) {
	base := stm32adc.InstanceBase(id)
	if base == 0 {
		return nil, false
	}
	return stm32adc.NewMMIO(base), true
}

func (MCU) Clock() stm32adc.ClockGate { return stm32adc.RCC{} }
