package stm32adc

import (
	"adcctl-go/drivers/stm32adc/regs"
	"adcctl-go/errcode"
)

// Resolution values are the CFGR RES encodings.
type Resolution uint8

const (
	Res12Bit Resolution = iota
	Res10Bit
	Res8Bit
	Res6Bit
)

// Bits returns the sample width.
func (r Resolution) Bits() int { return 12 - 2*int(r) }

// ResolutionFromBits maps 12/10/8/6 to a Resolution.
func ResolutionFromBits(bits int) (Resolution, bool) {
	switch bits {
	case 12:
		return Res12Bit, true
	case 10:
		return Res10Bit, true
	case 8:
		return Res8Bit, true
	case 6:
		return Res6Bit, true
	}
	return 0, false
}

type Alignment uint8

const (
	AlignRight Alignment = iota
	AlignLeft
)

type LowPower uint8

const (
	LowPowerNone LowPower = iota
	LowPowerAutoWait
)

// InstanceConfig holds the per-instance settings independent of the groups.
type InstanceConfig struct {
	Resolution Resolution
	Alignment  Alignment
	LowPower   LowPower
}

// DefaultInstanceConfig is 12-bit, right aligned, no low-power mode.
func DefaultInstanceConfig() InstanceConfig { return InstanceConfig{} }

// Instance is one converter. The caller owns it through its Domain; the
// driver only changes it through these methods.
type Instance struct {
	id  InstanceID
	dom *Domain
	rf  RegisterFile

	cfg       InstanceConfig
	reg       RegularConfig
	inj       InjectedConfig
	multimode Multimode

	state             State
	enabled           bool
	disableInProgress bool
	last              DisableReport

	onTransition func(id InstanceID, from, to State)
}

func (a *Instance) ID() InstanceID          { return a.id }
func (a *Instance) Domain() *Domain         { return a.dom }
func (a *Instance) Config() InstanceConfig  { return a.cfg }
func (a *Instance) Multimode() Multimode    { return a.multimode }
func (a *Instance) State() State            { return a.state }
func (a *Instance) Enabled() bool           { return a.enabled }
func (a *Instance) DisableInProgress() bool { return a.disableInProgress }

// OnTransition installs fn to observe every state change. nil removes it.
func (a *Instance) OnTransition(fn func(id InstanceID, from, to State)) { a.onTransition = fn }

func (a *Instance) setState(s State) {
	if s == a.state {
		return
	}
	from := a.state
	a.state = s
	if a.onTransition != nil {
		a.onTransition(a.id, from, s)
	}
}

// active reports whether configuration must be refused: the shadow says
// enabled, or hardware still has the enable bit set.
func (a *Instance) active() bool {
	return a.enabled || a.rf.ReadField(regs.CR, regs.CR_ADEN.Mask()) != 0
}

// resetShadow returns every software copy to power-up values.
func (a *Instance) resetShadow() {
	a.cfg = InstanceConfig{}
	a.reg = RegularConfig{}
	a.inj = InjectedConfig{}
	a.multimode = Independent
	a.enabled = false
	a.disableInProgress = false
	a.last = DisableReport{}
	a.setState(Disabled)
}

// Configure writes resolution, alignment and low-power mode in one update
// of CFGR. The instance must be disabled.
func (a *Instance) Configure(cfg InstanceConfig) error {
	const op = "configure_instance"
	if a.active() {
		return errcode.InstanceActive
	}
	if cfg.Resolution > Res6Bit || cfg.Alignment > AlignLeft || cfg.LowPower > LowPowerAutoWait {
		return errcode.New(errcode.InvalidParams, op, "field out of range")
	}
	apply(a.rf, regs.On(regs.CFGR).
		Put(regs.CFGR_RES, uint32(cfg.Resolution)).
		Put(regs.CFGR_ALIGN, uint32(cfg.Alignment)).
		Put(regs.CFGR_AUTDLY, uint32(cfg.LowPower)))
	a.cfg = cfg
	return nil
}

// Regulator drives the internal voltage regulator through its mandatory
// intermediate state. The instance must be disabled.
func (a *Instance) Regulator(on bool) error {
	if a.active() {
		return errcode.InstanceActive
	}
	final := regs.VregDisabled
	if on {
		final = regs.VregEnabled
	}
	apply(a.rf, regs.On(regs.CR).Put(regs.CR_ADVREGEN, regs.VregIntermediate))
	apply(a.rf, regs.On(regs.CR).Put(regs.CR_ADVREGEN, final))
	return nil
}

// RegulatorOn reports whether the regulator is in the enabled state.
func (a *Instance) RegulatorOn() bool {
	return get(a.rf, regs.CR_ADVREGEN) == regs.VregEnabled
}
