package stm32adc

import (
	"adcctl-go/drivers/stm32adc/regs"
	"adcctl-go/errcode"
)

// State is the lifecycle position of an instance.
type State uint8

const (
	Disabled State = iota
	Enabling
	Enabled
	StoppingConversions
	Disabling
	// Unknown means hardware did not follow the protocol. Only a domain
	// reset (ResetCommon) is known to recover it.
	Unknown
)

func (s State) String() string {
	switch s {
	case Disabled:
		return "disabled"
	case Enabling:
		return "enabling"
	case Enabled:
		return "enabled"
	case StoppingConversions:
		return "stopping"
	case Disabling:
		return "disabling"
	default:
		return "unknown"
	}
}

// DisableReport describes the last SafeDisable run.
type DisableReport struct {
	AlreadyOff      bool   // hardware was off, nothing was written
	StopPolls       uint32 // CR reads while waiting for ADSTP/JADSTP
	DisablePolls    uint32 // CR reads while waiting for ADDIS
	StopTimedOut    bool
	DisableTimedOut bool
}

// LastDisable returns the report of the most recent SafeDisable.
func (a *Instance) LastDisable() DisableReport { return a.last }

// Enable requests ADEN and marks the instance enabled. It does not wait for
// ADRDY; see Ready.
func (a *Instance) Enable() error {
	if a.active() {
		return errcode.InstanceActive
	}
	request(a.rf, regs.CR_ADEN)
	if a.rf.ReadField(regs.CR, regs.CR_ADEN.Mask()) == 0 {
		return errcode.New(errcode.Error, "enable", "enable request not accepted")
	}
	a.enabled = true
	a.setState(Enabling)
	return nil
}

// SafeDisable stops both groups and disables the instance.
//
// Both triggers are forced to software start, running conversions are
// stopped, the injected queue is flushed and ADDIS is requested. Each of the
// two waits may read CR up to timeoutCycles+1 times. A timeout never cuts the
// sequence short; the first one is returned once every step has run, and the
// caller should check State or Enabled before trusting the hardware is off.
func (a *Instance) SafeDisable(timeoutCycles uint32) error {
	a.last = DisableReport{}
	cr := a.rf.ReadField(regs.CR, regs.CR_ADEN.Mask()|regs.CR_ADDIS.Mask())
	if cr == 0 {
		a.last.AlreadyOff = true
		a.enabled = false
		a.disableInProgress = false
		a.setState(Disabled)
		return nil
	}

	var first error
	a.disableInProgress = true
	a.setState(StoppingConversions)

	apply(a.rf, regs.On(regs.CFGR).Clear(regs.CFGR_EXTEN, regs.CFGR_EXTSEL))
	apply(a.rf, regs.On(regs.JSQR).Clear(regs.JSQR_JEXTEN, regs.JSQR_JEXTSEL))
	a.reg.Trigger, a.reg.Edge = TriggerSoftware, EdgeRising
	a.inj.Trigger, a.inj.Edge = TriggerSoftware, EdgeRising

	cr = a.rf.ReadField(regs.CR, regs.CRRequests)
	if cr&regs.CR_ADSTART.Mask() != 0 && cr&regs.CR_ADSTP.Mask() == 0 {
		request(a.rf, regs.CR_ADSTP)
	}
	cr = a.rf.ReadField(regs.CR, regs.CRRequests)
	if cr&regs.CR_JADSTART.Mask() != 0 && cr&regs.CR_JADSTP.Mask() == 0 {
		request(a.rf, regs.CR_JADSTP)
	}

	var ok bool
	a.last.StopPolls, ok = a.poll(regs.CRStops, timeoutCycles)
	if !ok {
		a.last.StopTimedOut = true
		first = errcode.Timeout
	}

	a.flushInjectedQueue()

	a.setState(Disabling)
	cr = a.rf.ReadField(regs.CR, regs.CR_ADEN.Mask()|regs.CR_ADDIS.Mask())
	if cr&regs.CR_ADEN.Mask() != 0 && cr&regs.CR_ADDIS.Mask() == 0 {
		request(a.rf, regs.CR_ADDIS)
	}

	a.last.DisablePolls, ok = a.poll(regs.CR_ADDIS.Mask(), timeoutCycles)
	if !ok {
		a.last.DisableTimedOut = true
		if first == nil {
			first = errcode.Timeout
		}
	}

	cr = a.rf.ReadField(regs.CR, regs.CR_ADEN.Mask()|regs.CR_ADDIS.Mask())
	a.enabled = cr&regs.CR_ADEN.Mask() != 0
	a.disableInProgress = cr&regs.CR_ADDIS.Mask() != 0
	if a.enabled || a.disableInProgress {
		a.setState(Unknown)
		if first == nil {
			first = errcode.New(errcode.UnknownState, "safe_disable", "disable not acknowledged")
		}
		return first
	}
	a.setState(Disabled)
	return first
}

// poll reads CR until no bit of mask is set. budget bounds the re-reads.
func (a *Instance) poll(mask, budget uint32) (polls uint32, ok bool) {
	for {
		polls++
		if a.rf.ReadField(regs.CR, mask) == 0 {
			return polls, true
		}
		if budget == 0 {
			return polls, false
		}
		budget--
	}
}

// HardReset returns every instance register to its reset value. Hardware
// must be settled: with the shadow enabled, or any enable, disable, start or
// stop bit set, it returns UnknownState without writing anything.
func (a *Instance) HardReset() error {
	if a.enabled {
		return errcode.New(errcode.UnknownState, "hard_reset", "instance enabled")
	}
	if a.rf.ReadField(regs.CR, regs.CRRequests) != 0 {
		a.setState(Unknown)
		return errcode.New(errcode.UnknownState, "hard_reset", "request pending in hardware")
	}
	rf := a.rf

	rf.ReadModifyWrite(regs.IER, regs.IER_ALL.Mask(), 0)
	rf.WriteField(regs.ISR, regs.ISR_ALL.Mask(), regs.ISR_ALL.Mask())

	apply(rf, regs.On(regs.CR).Clear(regs.CR_ADVREGEN, regs.CR_ADCALDIF))
	apply(rf, regs.On(regs.CR).Put(regs.CR_ADVREGEN, regs.VregDisabled))

	rf.ReadModifyWrite(regs.CFGR, allBits, 0)
	apply(rf, regs.On(regs.SMPR1).Clear(regs.SMPR1_ALL))
	apply(rf, regs.On(regs.SMPR2).Clear(regs.SMPR2_ALL))

	apply(rf, regs.On(regs.TR1).Put(regs.TR1_LT1, 0).Put(regs.TR1_HT1, regs.TR1_HT1.Max()))
	apply(rf, regs.On(regs.TR2).Put(regs.TR2_LT2, 0).Put(regs.TR2_HT2, regs.TR2_HT2.Max()))
	apply(rf, regs.On(regs.TR3).Put(regs.TR3_LT3, 0).Put(regs.TR3_HT3, regs.TR3_HT3.Max()))

	apply(rf, regs.On(regs.SQR1).Clear(regs.SQR1_ALL))
	apply(rf, regs.On(regs.SQR2).Clear(regs.SQR2_ALL))
	apply(rf, regs.On(regs.SQR3).Clear(regs.SQR3_ALL))
	apply(rf, regs.On(regs.SQR4).Clear(regs.SQR4_ALL))
	apply(rf, regs.On(regs.JSQR).Clear(regs.JSQR_ALL))

	// Clearing JSQR queues an empty context.
	a.flushInjectedQueue()

	for _, reg := range regs.OFRRegs {
		off, ch, en := regs.OFR(reg)
		apply(rf, regs.On(reg).Clear(off, ch, en))
	}
	apply(rf, regs.On(regs.AWD2CR).Clear(regs.AWD2CR_CH))
	apply(rf, regs.On(regs.AWD3CR).Clear(regs.AWD3CR_CH))
	apply(rf, regs.On(regs.DIFSEL).Clear(regs.DIFSEL_CH))
	apply(rf, regs.On(regs.CALFACT).Clear(regs.CALFACT_ALL))

	a.resetShadow()
	return nil
}

const allBits = ^uint32(0)
