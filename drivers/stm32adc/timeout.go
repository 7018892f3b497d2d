package stm32adc

import "adcctl-go/x/mathx"

// DefaultTimeoutCycles is one ADC clock cycle at the highest CPU to ADC
// clock ratio: synchronous clock with AHB prescaler 512, APB prescaler 16
// and ADC prescaler 4.
const DefaultTimeoutCycles uint32 = 512 * 16 * 4

// TimeoutCycles sizes a SafeDisable budget for adcClocks ADC clock cycles,
// given the CPU and ADC clock rates. A zero rate yields the default.
func TimeoutCycles(cpuHz, adcHz, adcClocks uint32) uint32 {
	if cpuHz == 0 || adcHz == 0 {
		return DefaultTimeoutCycles
	}
	return mathx.SatMul(mathx.CeilDiv(cpuHz, adcHz), adcClocks)
}
