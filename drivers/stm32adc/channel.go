package stm32adc

import (
	"adcctl-go/drivers/stm32adc/regs"
	"adcctl-go/errcode"
)

// SamplingTime values are the SMPx encodings.
type SamplingTime uint8

const (
	Sample1_5 SamplingTime = iota
	Sample2_5
	Sample4_5
	Sample7_5
	Sample19_5
	Sample61_5
	Sample181_5
	Sample601_5
)

// halfCycles is the sampling time in half ADC clock cycles.
var halfCycles = [...]uint16{3, 5, 9, 15, 39, 123, 363, 1203}

// HalfCycles returns the sampling duration in half ADC clock cycles.
func (s SamplingTime) HalfCycles() uint16 {
	if int(s) < len(halfCycles) {
		return halfCycles[s]
	}
	return 0
}

// ConfigureChannel sets the sampling time and the single-ended or
// differential mode of ch. Channel 0 has neither. The instance must be
// disabled.
func (a *Instance) ConfigureChannel(ch Channel, st SamplingTime, differential bool) error {
	const op = "configure_channel"
	if a.active() {
		return errcode.InstanceActive
	}
	f, ok := regs.SMP(uint8(ch))
	if !ok {
		return errcode.New(errcode.InvalidParams, op, "channel out of 1..18")
	}
	if st > Sample601_5 {
		return errcode.New(errcode.InvalidParams, op, "sampling time")
	}
	apply(a.rf, regs.On(f.Reg).Put(f, uint32(st)))
	bit := regs.Field{Reg: regs.DIFSEL, Pos: uint8(ch), Width: 1}
	apply(a.rf, regs.On(regs.DIFSEL).Flag(bit, differential))
	return nil
}

// SamplingTime reads back the sampling time of ch.
func (a *Instance) SamplingTime(ch Channel) (SamplingTime, bool) {
	f, ok := regs.SMP(uint8(ch))
	if !ok {
		return 0, false
	}
	return SamplingTime(get(a.rf, f)), true
}

// Differential reports whether ch is configured differential.
func (a *Instance) Differential(ch Channel) bool {
	if ch == 0 || ch > MaxChannel {
		return false
	}
	return get(a.rf, regs.Field{Reg: regs.DIFSEL, Pos: uint8(ch), Width: 1}) == 1
}
