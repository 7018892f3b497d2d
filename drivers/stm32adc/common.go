package stm32adc

import (
	"adcctl-go/drivers/stm32adc/regs"
	"adcctl-go/errcode"
	"adcctl-go/x/mathx"
)

// ClockMode selects the ADC kernel clock of a domain.
type ClockMode uint8

const (
	ClockAsync    ClockMode = iota // PLL output, asynchronous to the bus
	ClockSyncDiv1                  // AHB clock
	ClockSyncDiv2
	ClockSyncDiv4
)

// Multimode is the dual-ADC combination of a domain. Values are the CCR DUAL
// encodings.
type Multimode uint8

const (
	Independent            Multimode = 0
	DualRegSimultInjSimult Multimode = 1
	DualRegSimultInjAltern Multimode = 2
	DualRegInterlInjSimult Multimode = 3
	DualInjSimult          Multimode = 5
	DualRegSimult          Multimode = 6
	DualRegInterl          Multimode = 7
	DualInjAltern          Multimode = 9
)

func (m Multimode) valid() bool {
	switch m {
	case Independent, DualRegSimultInjSimult, DualRegSimultInjAltern, DualRegInterlInjSimult,
		DualInjSimult, DualRegSimult, DualRegInterl, DualInjAltern:
		return true
	}
	return false
}

// MultiDMA is the regular-group DMA policy shared by a dual pair.
type MultiDMA uint8

const (
	MultiDMAEachADC MultiDMA = iota
	MultiDMALimited12_10
	MultiDMALimited8_6
	MultiDMAUnlimited12_10
	MultiDMAUnlimited8_6
)

func (m MultiDMA) fields() (mdma, dmacfg uint32) {
	switch m {
	case MultiDMALimited12_10:
		return 0b10, 0
	case MultiDMALimited8_6:
		return 0b11, 0
	case MultiDMAUnlimited12_10:
		return 0b10, 1
	case MultiDMAUnlimited8_6:
		return 0b11, 1
	}
	return 0, 0
}

// CommonConfig holds the settings shared by every instance of a domain.
// Multimode, MultiDMA and TwoSamplingDelay only reach hardware when the
// domain has two attached members and Multimode is not Independent.
type CommonConfig struct {
	Clock            ClockMode
	Multimode        Multimode
	MultiDMA         MultiDMA
	TwoSamplingDelay uint8 // ADC clock cycles, 1..12
}

// DefaultCommonConfig returns the conventional start-up settings.
func DefaultCommonConfig() CommonConfig {
	return CommonConfig{
		Clock:            ClockSyncDiv2,
		Multimode:        Independent,
		MultiDMA:         MultiDMAEachADC,
		TwoSamplingDelay: 1,
	}
}

// resetCommonConfig mirrors CCR after a domain reset.
func resetCommonConfig() CommonConfig {
	return CommonConfig{Clock: ClockAsync, TwoSamplingDelay: 1}
}

// Domain is the shared handle of one common block and its member instances.
// It is not safe for concurrent use; callers serialize access per domain.
type Domain struct {
	id      DomainID
	variant ChipVariant
	common  RegisterFile
	clock   ClockGate
	members []*Instance
	cfg     CommonConfig
}

// NewDomain binds the common block of domain id. clock may be nil when the
// platform cannot reset the domain; ResetCommon then reports NotApplicable.
func NewDomain(v ChipVariant, id DomainID, common RegisterFile, clock ClockGate) (*Domain, error) {
	if len(v.Members(id)) == 0 {
		return nil, errcode.New(errcode.UnknownDomain, "new_domain", id.String()+" on "+v.String())
	}
	return &Domain{id: id, variant: v, common: common, clock: clock, cfg: resetCommonConfig()}, nil
}

func (d *Domain) ID() DomainID         { return d.id }
func (d *Domain) Variant() ChipVariant { return d.variant }
func (d *Domain) Config() CommonConfig { return d.cfg }
func (d *Domain) Members() []*Instance { return append([]*Instance(nil), d.members...) }

// Instance returns the attached member id, if any.
func (d *Domain) Instance(id InstanceID) (*Instance, bool) {
	for _, a := range d.members {
		if a.id == id {
			return a, true
		}
	}
	return nil, false
}

// Attach registers the caller-owned register block of instance id with the
// domain. Each instance can be attached once.
func (d *Domain) Attach(id InstanceID, rf RegisterFile) (*Instance, error) {
	const op = "attach"
	if dom, ok := d.variant.DomainOf(id); !ok || dom != d.id {
		return nil, errcode.New(errcode.UnknownInstance, op, id.String()+" not in "+d.id.String())
	}
	if _, dup := d.Instance(id); dup {
		return nil, errcode.New(errcode.InvalidParams, op, id.String()+" already attached")
	}
	a := &Instance{id: id, dom: d, rf: rf}
	a.resetShadow()
	d.members = append(d.members, a)
	return a, nil
}

// EnableClock turns on the bus clock of the domain.
func (d *Domain) EnableClock() error {
	if d.clock == nil {
		return errcode.NotApplicable
	}
	d.clock.EnableClock(d.id)
	return nil
}

// ResetCommon pulses the domain reset line. Every instance of the domain
// returns to its power-up state, attached or not, enabled or not. It never
// polls and never fails; without a clock gate it reports NotApplicable.
func (d *Domain) ResetCommon() error {
	if d.clock == nil {
		return errcode.NotApplicable
	}
	d.clock.ForceReset(d.id)
	d.clock.ReleaseReset(d.id)
	d.cfg = resetCommonConfig()
	for _, a := range d.members {
		a.resetShadow()
	}
	return nil
}

// ConfigureCommon writes clock and multimode settings in one update of CCR.
// Every member must be disabled.
func (d *Domain) ConfigureCommon(cfg CommonConfig) error {
	const op = "configure_common"
	for _, a := range d.members {
		if a.active() {
			return errcode.InstanceActive
		}
	}
	if cfg.Clock > ClockSyncDiv4 {
		return errcode.New(errcode.InvalidParams, op, "clock mode")
	}
	if !cfg.Multimode.valid() || cfg.MultiDMA > MultiDMAUnlimited8_6 {
		return errcode.New(errcode.InvalidParams, op, "multimode")
	}
	multi := cfg.Multimode != Independent
	if multi {
		if !d.variant.Multimode() || len(d.members) < 2 {
			return errcode.New(errcode.InvalidParams, op, "multimode needs two attached instances")
		}
		if !mathx.Between(cfg.TwoSamplingDelay, 1, 12) {
			return errcode.New(errcode.InvalidParams, op, "two-sampling delay out of 1..12")
		}
	}

	u := regs.On(regs.CCR).
		Put(regs.CCR_CKMODE, uint32(cfg.Clock)).
		Clear(regs.CCR_DUAL, regs.CCR_DELAY, regs.CCR_MDMA, regs.CCR_DMACFG)
	if multi {
		mdma, dmacfg := cfg.MultiDMA.fields()
		u = u.Put(regs.CCR_DUAL, uint32(cfg.Multimode)).
			Put(regs.CCR_DELAY, uint32(cfg.TwoSamplingDelay-1)).
			Put(regs.CCR_MDMA, mdma).
			Put(regs.CCR_DMACFG, dmacfg)
	} else {
		cfg.MultiDMA = MultiDMAEachADC
		cfg.TwoSamplingDelay = 1
	}
	apply(d.common, u)

	d.cfg = cfg
	for _, a := range d.members {
		a.multimode = cfg.Multimode
	}
	return nil
}
