// services/adc/service.go
package adc

import (
	"context"
	"time"

	"adcctl-go/bus"
	"adcctl-go/drivers/stm32adc"
	"adcctl-go/errcode"
	"adcctl-go/types"
	"adcctl-go/x/jsonx"
	"adcctl-go/x/mathx"
)

// Platform hands out the register files and clock gate of one board. The
// host build backs them with simulated blocks, the tinygo build with MMIO.
type Platform interface {
	Common(d stm32adc.DomainID) (stm32adc.RegisterFile, bool)
	Instance(id stm32adc.InstanceID) (stm32adc.RegisterFile, bool)
	Clock() stm32adc.ClockGate // nil when the board cannot pulse resets
}

const (
	// readyPoll is how often instances in the enabling state are checked.
	readyPoll = 2 * time.Millisecond

	// maxBudget bounds the poll budget a single disable request may ask for.
	maxBudget uint32 = 1 << 22
)

// -----------------------------------------------------------------------------
// Entry point
// -----------------------------------------------------------------------------

func Run(ctx context.Context, conn *bus.Connection, plat Platform) {
	s := &service{
		conn:    conn,
		plat:    plat,
		timeout: stm32adc.DefaultTimeoutCycles,
		domains: map[stm32adc.DomainID]*stm32adc.Domain{},
		insts:   map[stm32adc.InstanceID]*stm32adc.Instance{},
		want:    map[stm32adc.InstanceID]bool{},
		errs:    map[stm32adc.InstanceID]string{},
	}
	s.loop(ctx)
}

type service struct {
	conn *bus.Connection
	plat Platform

	variant stm32adc.ChipVariant
	timeout uint32

	domains map[stm32adc.DomainID]*stm32adc.Domain
	insts   map[stm32adc.InstanceID]*stm32adc.Instance
	want    map[stm32adc.InstanceID]bool   // enabled by the last plan
	errs    map[stm32adc.InstanceID]string // last failed operation per instance

	timer *time.Timer
}

// -----------------------------------------------------------------------------
// Main loop
// -----------------------------------------------------------------------------

func (s *service) loop(ctx context.Context) {
	cfgSub := s.conn.Subscribe(bus.T("config", "adc"))
	ctrlSub := s.conn.Subscribe(bus.T("adc", "+", "control", "+"))
	domSub := s.conn.Subscribe(bus.T("adc", "domain", "+", "control", "+"))
	defer s.conn.Unsubscribe(cfgSub)
	defer s.conn.Unsubscribe(ctrlSub)
	defer s.conn.Unsubscribe(domSub)

	s.timer = time.NewTimer(time.Hour)
	stopTimer(s.timer)

	s.publishState("idle", nil)
	println("[adc] awaiting config")

	armed := false
	for {
		// At most one pending tick; other traffic leaves it alone.
		switch enabling := s.enabling(); {
		case enabling && !armed:
			resetTimer(s.timer, readyPoll)
			armed = true
		case !enabling && armed:
			stopTimer(s.timer)
			armed = false
		}

		select {
		case <-ctx.Done():
			s.publishState("stopped", nil)
			return

		case msg := <-cfgSub.Channel():
			var cfg types.ADCConfig
			if err := jsonx.Decode(msg.Payload, &cfg); err != nil {
				println("[adc] config decode failed:", err.Error())
				s.publishState("error", err)
				continue
			}
			if err := s.applyConfig(cfg); err != nil {
				println("[adc] config failed:", err.Error())
				s.publishState("error", err)
				continue
			}
			println("[adc] configured", s.variant.String())
			s.publishState("configured", nil)

		case msg := <-ctrlSub.Channel():
			s.handleControl(msg)

		case msg := <-domSub.Channel():
			s.handleDomainControl(msg)

		case <-s.timer.C:
			armed = false
			for _, a := range s.insts {
				if a.State() == stm32adc.Enabling {
					a.Ready()
				}
			}
		}
	}
}

func (s *service) enabling() bool {
	for _, a := range s.insts {
		if a.State() == stm32adc.Enabling {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------
// Configuration
// -----------------------------------------------------------------------------

type instancePlan struct {
	id       stm32adc.InstanceID
	cfg      stm32adc.InstanceConfig
	regular  stm32adc.RegularConfig
	injected stm32adc.InjectedConfig
	channels []types.ADCChannel
	enable   bool
}

func (s *service) applyConfig(cfg types.ADCConfig) error {
	v, ok := stm32adc.ParseVariant(cfg.Chip)
	if !ok {
		return errcode.New(errcode.InvalidParams, "config", "unknown chip "+cfg.Chip)
	}
	if len(s.domains) > 0 && v != s.variant {
		return errcode.New(errcode.Unsupported, "config", "chip cannot change at runtime")
	}
	s.variant = v
	s.timeout = mathx.Clamp(cfg.TimeoutCycles, 0, maxBudget)
	if s.timeout == 0 {
		s.timeout = stm32adc.DefaultTimeoutCycles
	}
	for _, dc := range cfg.Domains {
		if err := s.applyDomain(dc); err != nil {
			return err
		}
	}
	return nil
}

// applyDomain parses the whole domain plan before touching hardware, takes
// every member down, then writes common, instance and group settings in
// that order.
func (s *service) applyDomain(dc types.ADCDomain) error {
	id, ok := stm32adc.ParseDomain(dc.ID)
	if !ok {
		return errcode.New(errcode.UnknownDomain, "config", dc.ID)
	}
	common, err := commonConfig(dc)
	if err != nil {
		return err
	}
	plans := make([]instancePlan, 0, len(dc.Instances))
	for _, in := range dc.Instances {
		p, err := s.plan(id, in)
		if err != nil {
			return err
		}
		plans = append(plans, p)
	}

	dom, err := s.domain(id)
	if err != nil {
		return err
	}
	for _, p := range plans {
		if _, err := s.instance(dom, p.id); err != nil {
			return err
		}
	}

	for _, a := range dom.Members() {
		if err := s.disable(a, s.timeout); err != nil {
			return err
		}
	}
	if err := dom.ConfigureCommon(common); err != nil {
		return err
	}

	planned := map[stm32adc.InstanceID]bool{}
	for _, a := range dom.Members() {
		s.want[a.ID()] = false
	}
	for _, p := range plans {
		planned[p.id] = true
		a, _ := dom.Instance(p.id)
		if err := s.configure(a, p); err != nil {
			s.fail(a, err)
			return err
		}
		s.want[p.id] = p.enable
	}
	for _, a := range dom.Members() {
		if s.want[a.ID()] {
			if err := s.enable(a); err != nil {
				return err
			}
		} else if !planned[a.ID()] {
			s.publishInstance(a)
		}
	}
	return nil
}

func (s *service) plan(d stm32adc.DomainID, in types.ADCInstance) (instancePlan, error) {
	id, ok := stm32adc.ParseInstance(in.ID)
	if !ok {
		return instancePlan{}, errcode.New(errcode.UnknownInstance, "config", in.ID)
	}
	if dd, ok := s.variant.DomainOf(id); !ok || dd != d {
		return instancePlan{}, errcode.New(errcode.UnknownInstance, "config", in.ID+" not in "+d.String())
	}
	p := instancePlan{id: id, channels: in.Channels, enable: in.Enable}
	var err error
	if p.cfg, err = instanceConfig(in); err != nil {
		return p, err
	}
	if p.regular, err = regularConfig(in.Regular); err != nil {
		return p, err
	}
	if p.injected, err = injectedConfig(in.Injected); err != nil {
		return p, err
	}
	for _, ch := range in.Channels {
		if _, err := samplingTime(ch.Sampling); err != nil {
			return p, err
		}
	}
	return p, nil
}

func (s *service) configure(a *stm32adc.Instance, p instancePlan) error {
	if err := a.Configure(p.cfg); err != nil {
		return err
	}
	for _, ch := range p.channels {
		st, _ := samplingTime(ch.Sampling)
		if err := a.ConfigureChannel(stm32adc.Channel(ch.Channel), st, ch.Differential); err != nil {
			return err
		}
	}
	if err := a.ConfigureRegular(p.regular); err != nil {
		return err
	}
	if err := a.ConfigureInjected(p.injected); err != nil {
		return err
	}
	delete(s.errs, a.ID())
	return nil
}

func (s *service) domain(id stm32adc.DomainID) (*stm32adc.Domain, error) {
	if dom, ok := s.domains[id]; ok {
		return dom, nil
	}
	common, ok := s.plat.Common(id)
	if !ok {
		return nil, errcode.New(errcode.UnknownDomain, "config", id.String()+" not on this board")
	}
	dom, err := stm32adc.NewDomain(s.variant, id, common, s.plat.Clock())
	if err != nil {
		return nil, err
	}
	if err := dom.EnableClock(); err != nil && err != errcode.NotApplicable {
		return nil, err
	}
	s.domains[id] = dom
	return dom, nil
}

func (s *service) instance(dom *stm32adc.Domain, id stm32adc.InstanceID) (*stm32adc.Instance, error) {
	if a, ok := dom.Instance(id); ok {
		return a, nil
	}
	rf, ok := s.plat.Instance(id)
	if !ok {
		return nil, errcode.New(errcode.UnknownInstance, "config", id.String()+" not on this board")
	}
	a, err := dom.Attach(id, rf)
	if err != nil {
		return nil, err
	}
	a.OnTransition(func(id stm32adc.InstanceID, from, to stm32adc.State) {
		println("[adc]", id.String(), from.String(), "->", to.String())
		s.publishInstance(a)
	})
	s.insts[id] = a
	s.publishInstance(a)
	return a, nil
}

// -----------------------------------------------------------------------------
// Lifecycle verbs
// -----------------------------------------------------------------------------

func (s *service) enable(a *stm32adc.Instance) error {
	if !a.RegulatorOn() {
		if err := a.Regulator(true); err != nil {
			s.fail(a, err)
			return err
		}
	}
	if err := a.Enable(); err != nil {
		s.fail(a, err)
		return err
	}
	return nil
}

// disable runs SafeDisable and treats a timeout that still ended with the
// instance off as success.
func (s *service) disable(a *stm32adc.Instance, budget uint32) error {
	err := a.SafeDisable(budget)
	if err == nil {
		return nil
	}
	if a.State() == stm32adc.Disabled {
		println("[adc]", a.ID().String(), "disable:", err.Error())
		return nil
	}
	s.fail(a, err)
	return err
}

func (s *service) fail(a *stm32adc.Instance, err error) {
	s.errs[a.ID()] = string(errcode.Of(err))
	s.publishInstance(a)
}

// handleControl serves adc/<instance>/control/<verb>.
func (s *service) handleControl(msg *bus.Message) {
	if len(msg.Topic) < 4 {
		return
	}
	name, _ := msg.Topic[1].(string)
	verb, _ := msg.Topic[3].(string)
	id, ok := stm32adc.ParseInstance(name)
	if !ok {
		s.reply(msg, nil, errcode.UnknownInstance)
		return
	}
	a, ok := s.insts[id]
	if !ok {
		s.reply(msg, nil, errcode.UnknownInstance)
		return
	}

	var err error
	switch verb {
	case "enable":
		err = s.enable(a)
		if err == nil {
			s.want[id] = true
		}
	case "disable":
		var req types.ADCDisable
		if msg.Payload != nil {
			if derr := jsonx.Decode(msg.Payload, &req); derr != nil {
				s.reply(msg, a, errcode.InvalidPayload)
				return
			}
		}
		budget := req.TimeoutCycles
		if budget == 0 {
			budget = s.timeout
		}
		budget = mathx.Clamp(budget, 1, maxBudget)
		s.want[id] = false
		// Report the raw outcome, timeout included.
		err = a.SafeDisable(budget)
		if err != nil && a.State() != stm32adc.Disabled {
			s.fail(a, err)
		}
	case "hard_reset":
		err = a.HardReset()
		if err != nil {
			s.fail(a, err)
		} else {
			delete(s.errs, id)
			s.want[id] = false
			s.publishInstance(a)
		}
	case "state":
	default:
		err = errcode.New(errcode.InvalidParams, "control", "unknown verb "+verb)
	}
	s.reply(msg, a, err)
}

// handleDomainControl serves adc/domain/<domain>/control/reset.
func (s *service) handleDomainControl(msg *bus.Message) {
	if len(msg.Topic) < 5 {
		return
	}
	name, _ := msg.Topic[2].(string)
	verb, _ := msg.Topic[4].(string)
	id, ok := stm32adc.ParseDomain(name)
	if !ok {
		s.reply(msg, nil, errcode.UnknownDomain)
		return
	}
	dom, ok := s.domains[id]
	if !ok {
		s.reply(msg, nil, errcode.UnknownDomain)
		return
	}
	if verb != "reset" {
		s.reply(msg, nil, errcode.New(errcode.InvalidParams, "control", "unknown verb "+verb))
		return
	}
	err := dom.ResetCommon()
	if err == nil {
		println("[adc]", id.String(), "domain reset")
		for _, a := range dom.Members() {
			delete(s.errs, a.ID())
			s.want[a.ID()] = false
			s.publishInstance(a)
		}
	}
	s.reply(msg, nil, err)
}

// -----------------------------------------------------------------------------
// Publishing
// -----------------------------------------------------------------------------

func (s *service) publishState(level string, err error) {
	st := types.ADCServiceState{Level: level, Instances: len(s.insts), TS: time.Now().UnixNano()}
	if len(s.domains) > 0 {
		st.Chip = s.variant.String()
	}
	if err != nil {
		st.Error = err.Error()
	}
	s.conn.Publish(s.conn.NewMessage(bus.T("adc", "state"), st, true))
}

func (s *service) publishInstance(a *stm32adc.Instance) {
	st := types.ADCInstanceState{
		ID:                a.ID().String(),
		Domain:            a.Domain().ID().String(),
		State:             a.State().String(),
		Enabled:           a.Enabled(),
		DisableInProgress: a.DisableInProgress(),
		Error:             s.errs[a.ID()],
		TS:                time.Now().UnixNano(),
	}
	s.conn.Publish(s.conn.NewMessage(bus.T("adc", st.ID, "state"), st, true))
}

func (s *service) reply(req *bus.Message, a *stm32adc.Instance, err error) {
	ack := types.ADCAck{OK: err == nil}
	if err != nil {
		ack.Error = string(errcode.Of(err))
	}
	if a != nil {
		ack.State = a.State().String()
	}
	s.conn.Reply(req, ack, false)
}
