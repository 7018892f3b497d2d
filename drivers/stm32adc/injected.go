package stm32adc

import (
	"adcctl-go/drivers/stm32adc/regs"
	"adcctl-go/errcode"
)

// InjectedQueueDepth is the number of JSQR contexts the hardware queues.
const InjectedQueueDepth = 2

// InjectedConfig is the bulk configuration of the injected group.
type InjectedConfig struct {
	Trigger         TriggerSource
	Edge            Edge
	Ranks           []Channel
	Discontinuous   uint8 // 0 or 1: hardware converts one rank per trigger
	AutoFromRegular bool  // convert after the regular group, no trigger of its own
}

// Len is the sequence length.
func (c InjectedConfig) Len() int { return len(c.Ranks) }

// DefaultInjectedConfig is software start, no discontinuous mode, independent
// of the regular group.
func DefaultInjectedConfig() InjectedConfig { return InjectedConfig{} }

// InjectedConfig returns the last applied injected configuration.
func (a *Instance) InjectedConfig() InjectedConfig {
	c := a.inj
	c.Ranks = append([]Channel(nil), a.inj.Ranks...)
	return c
}

// ConfigureInjected writes CFGR then JSQR, then empties the context queue and
// acknowledges the overflow flag the flush raises. The instance must be
// disabled.
func (a *Instance) ConfigureInjected(cfg InjectedConfig) error {
	const op = "configure_injected"
	if a.active() {
		return errcode.InstanceActive
	}
	if err := validRanks(op, cfg.Ranks, MaxInjectedRanks); err != nil {
		return err
	}
	switch {
	case cfg.Discontinuous > 1:
		return errcode.New(errcode.InvalidParams, op, "discontinuous window must be 0 or 1")
	case cfg.AutoFromRegular && cfg.Discontinuous > 0:
		return errcode.New(errcode.InvalidParams, op, "auto injection excludes discontinuous mode")
	case cfg.AutoFromRegular && cfg.Trigger != TriggerSoftware:
		return errcode.New(errcode.InvalidParams, op, "auto injection needs software trigger")
	case cfg.Edge > EdgeBoth:
		return errcode.New(errcode.InvalidParams, op, "field out of range")
	}
	var jextsel, jexten uint32
	if cfg.Trigger != TriggerSoftware {
		code, ok := a.dom.variant.triggerCode(groupInjected, a.id, cfg.Trigger)
		if !ok {
			return errcode.New(errcode.Unsupported, op, "trigger "+cfg.Trigger.String())
		}
		jextsel, jexten = code, cfg.Edge.exten()
	} else {
		cfg.Edge = EdgeRising
	}

	apply(a.rf, regs.On(regs.CFGR).
		Flag(regs.CFGR_JDISCEN, cfg.Discontinuous > 0).
		Flag(regs.CFGR_JAUTO, cfg.AutoFromRegular))

	jl := uint32(0)
	if len(cfg.Ranks) > 0 {
		jl = uint32(len(cfg.Ranks) - 1)
	}
	u := regs.On(regs.JSQR).
		Put(regs.JSQR_JL, jl).
		Put(regs.JSQR_JEXTSEL, jextsel).
		Put(regs.JSQR_JEXTEN, jexten)
	for rank := 1; rank <= MaxInjectedRanks; rank++ {
		f, _ := regs.JSQ(rank)
		v := uint32(0)
		if rank <= len(cfg.Ranks) {
			v = uint32(cfg.Ranks[rank-1])
		}
		u = u.Put(f, v)
	}
	apply(a.rf, u)

	a.flushInjectedQueue()

	cfg.Ranks = append([]Channel(nil), cfg.Ranks...)
	a.inj = cfg
	return nil
}

// flushInjectedQueue pulses JQM and then clears JQOVF. The flush itself can
// raise JQOVF, so the acknowledge must come after it.
func (a *Instance) flushInjectedQueue() {
	apply(a.rf, regs.On(regs.CFGR).Flag(regs.CFGR_JQM, true))
	apply(a.rf, regs.On(regs.CFGR).Flag(regs.CFGR_JQM, false))
	a.rf.WriteField(regs.ISR, regs.ISR_JQOVF.Mask(), regs.ISR_JQOVF.Mask())
}
