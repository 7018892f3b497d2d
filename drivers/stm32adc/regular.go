package stm32adc

import (
	"adcctl-go/drivers/stm32adc/regs"
	"adcctl-go/errcode"
)

// Channel is an analog input number, 0..MaxChannel.
type Channel uint8

const MaxChannel Channel = 18

const (
	MaxRegularRanks  = 16
	MaxInjectedRanks = 4
	MaxDiscontinuous = 8
)

// RegularDMA selects how regular results are moved out of DR.
type RegularDMA uint8

const (
	DMANone      RegularDMA = iota
	DMALimited              // stops at the end of the DMA transfer count
	DMAUnlimited            // circular DMA
)

// Overrun selects what happens to DR when a result is not read in time.
type Overrun uint8

const (
	OverrunPreserve Overrun = iota
	OverrunOverwrite
)

// RegularConfig is the bulk configuration of the regular group.
type RegularConfig struct {
	Trigger       TriggerSource
	Edge          Edge      // ignored for software start
	Ranks         []Channel // conversion order; duplicates allowed
	Discontinuous uint8     // ranks per trigger, 0 disables
	Continuous    bool
	DMA           RegularDMA
	Overrun       Overrun
}

// Len is the sequence length.
func (c RegularConfig) Len() int { return len(c.Ranks) }

// DefaultRegularConfig is software start, single shot, no DMA, data
// overwritten on overrun.
func DefaultRegularConfig() RegularConfig {
	return RegularConfig{Overrun: OverrunOverwrite}
}

// RegularConfig returns the last applied regular configuration.
func (a *Instance) RegularConfig() RegularConfig {
	c := a.reg
	c.Ranks = append([]Channel(nil), a.reg.Ranks...)
	return c
}

func validRanks(op string, ranks []Channel, max int) error {
	if len(ranks) > max {
		return errcode.New(errcode.InvalidParams, op, "too many ranks")
	}
	for _, ch := range ranks {
		if ch > MaxChannel {
			return errcode.New(errcode.InvalidParams, op, "channel out of range")
		}
	}
	return nil
}

// ConfigureRegular writes trigger, mode and DMA policy in one update of CFGR,
// then the sequencer registers. The instance must be disabled.
// Discontinuous mode is dropped for sequences of zero or one rank.
func (a *Instance) ConfigureRegular(cfg RegularConfig) error {
	const op = "configure_regular"
	if a.active() {
		return errcode.InstanceActive
	}
	if err := validRanks(op, cfg.Ranks, MaxRegularRanks); err != nil {
		return err
	}
	if len(cfg.Ranks) <= 1 {
		cfg.Discontinuous = 0
	}
	switch {
	case cfg.Discontinuous > MaxDiscontinuous:
		return errcode.New(errcode.InvalidParams, op, "discontinuous window out of 0..8")
	case cfg.Discontinuous > 0 && cfg.Continuous:
		return errcode.New(errcode.InvalidParams, op, "discontinuous and continuous are exclusive")
	case cfg.Edge > EdgeBoth || cfg.DMA > DMAUnlimited || cfg.Overrun > OverrunOverwrite:
		return errcode.New(errcode.InvalidParams, op, "field out of range")
	}
	var extsel, exten uint32
	if cfg.Trigger != TriggerSoftware {
		code, ok := a.dom.variant.triggerCode(groupRegular, a.id, cfg.Trigger)
		if !ok {
			return errcode.New(errcode.Unsupported, op, "trigger "+cfg.Trigger.String())
		}
		extsel, exten = code, cfg.Edge.exten()
	} else {
		cfg.Edge = EdgeRising
	}

	u := regs.On(regs.CFGR).
		Put(regs.CFGR_EXTSEL, extsel).
		Put(regs.CFGR_EXTEN, exten).
		Flag(regs.CFGR_DISCEN, cfg.Discontinuous > 0).
		Put(regs.CFGR_DISCNUM, 0).
		Flag(regs.CFGR_CONT, cfg.Continuous).
		Flag(regs.CFGR_DMAEN, cfg.DMA != DMANone).
		Flag(regs.CFGR_DMACFG, cfg.DMA == DMAUnlimited).
		Put(regs.CFGR_OVRMOD, uint32(cfg.Overrun))
	if cfg.Discontinuous > 0 {
		u = u.Put(regs.CFGR_DISCNUM, uint32(cfg.Discontinuous-1))
	}
	apply(a.rf, u)
	writeSequence(a.rf, cfg.Ranks)

	cfg.Ranks = append([]Channel(nil), cfg.Ranks...)
	a.reg = cfg
	return nil
}

// writeSequence updates SQR1..SQR4, one read-modify-write each. Ranks past
// the sequence length are cleared.
func writeSequence(rf RegisterFile, ranks []Channel) {
	l := uint32(0)
	if len(ranks) > 0 {
		l = uint32(len(ranks) - 1)
	}
	for _, reg := range regs.SQRegs {
		u := regs.On(reg)
		if reg == regs.SQR1 {
			u = u.Put(regs.SQR1_L, l)
		}
		for rank := 1; rank <= MaxRegularRanks; rank++ {
			f, _ := regs.SQ(rank)
			if f.Reg != reg {
				continue
			}
			v := uint32(0)
			if rank <= len(ranks) {
				v = uint32(ranks[rank-1])
			}
			u = u.Put(f, v)
		}
		apply(rf, u)
	}
}
