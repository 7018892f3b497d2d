// services/adc/platform/sim.go
package platform

import (
	"sync"

	"adcctl-go/drivers/stm32adc"
	"adcctl-go/drivers/stm32adc/adcsim"
	"adcctl-go/drivers/stm32adc/i2cbridge"

	"tinygo.org/x/drivers"
)

// BridgeAddr is the I2C address the simulated bridge answers at.
const BridgeAddr = 0x2A

// Block selectors on the bridge: instances use their id, commons 0x10+domain.
func instanceBlock(id stm32adc.InstanceID) uint8 { return uint8(id) }
func commonBlock(d stm32adc.DomainID) uint8      { return 0x10 + uint8(d) }

// members lists the instances wired to each reset line.
var members = map[stm32adc.DomainID][]stm32adc.InstanceID{
	stm32adc.DomainADC1:  {stm32adc.ADC1},
	stm32adc.DomainADC12: {stm32adc.ADC1, stm32adc.ADC2},
	stm32adc.DomainADC34: {stm32adc.ADC3, stm32adc.ADC4},
}

// Sim is a board of simulated converters. Every instance and common block
// exists; the chip variant in the plan decides which ones are used.
type Sim struct {
	mu      sync.Mutex
	blocks  map[stm32adc.InstanceID]*adcsim.Block
	commons map[stm32adc.DomainID]*adcsim.Common
	pulses  map[stm32adc.DomainID]int
	clocks  map[stm32adc.DomainID]bool

	bus     drivers.I2C // nil: direct access
	clients []*i2cbridge.Client
}

// NewSim builds four simulated instances and their common blocks.
func NewSim(opt adcsim.Options) *Sim {
	s := &Sim{
		blocks:  make(map[stm32adc.InstanceID]*adcsim.Block),
		commons: make(map[stm32adc.DomainID]*adcsim.Common),
		pulses:  make(map[stm32adc.DomainID]int),
		clocks:  make(map[stm32adc.DomainID]bool),
	}
	for _, id := range []stm32adc.InstanceID{stm32adc.ADC1, stm32adc.ADC2, stm32adc.ADC3, stm32adc.ADC4} {
		s.blocks[id] = adcsim.New(opt)
	}
	for d := range members {
		s.commons[d] = adcsim.NewCommon()
	}
	return s
}

// NewBridgedSim is NewSim with every register access carried as I2C frames
// through a loopback bridge target.
func NewBridgedSim(opt adcsim.Options) *Sim {
	s := NewSim(opt)
	t := i2cbridge.NewTarget(BridgeAddr)
	s.Serve(t)
	s.bus = t
	return s
}

func (s *Sim) Common(d stm32adc.DomainID) (stm32adc.RegisterFile, bool) {
	c, ok := s.commons[d]
	if !ok {
		return nil, false
	}
	if s.bus != nil {
		return s.client(commonBlock(d)), true
	}
	return c, true
}

func (s *Sim) Instance(id stm32adc.InstanceID) (stm32adc.RegisterFile, bool) {
	b, ok := s.blocks[id]
	if !ok {
		return nil, false
	}
	if s.bus != nil {
		return s.client(instanceBlock(id)), true
	}
	return b, true
}

func (s *Sim) client(block uint8) *i2cbridge.Client {
	c := i2cbridge.NewClient(s.bus, BridgeAddr, block)
	s.clients = append(s.clients, c)
	return c
}

// BridgeErr returns the first latched transport error of any bridge client.
func (s *Sim) BridgeErr() error { return firstErr(s.clients) }

func (s *Sim) Clock() stm32adc.ClockGate { return simClock{s} }

// Block exposes the simulated instance for inspection.
func (s *Sim) Block(id stm32adc.InstanceID) *adcsim.Block { return s.blocks[id] }

// CommonBlock exposes the simulated common block of d.
func (s *Sim) CommonBlock(d stm32adc.DomainID) *adcsim.Common { return s.commons[d] }

// Pulses counts reset pulses on d.
func (s *Sim) Pulses(d stm32adc.DomainID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pulses[d]
}

// ClockEnabled reports whether EnableClock ran for d.
func (s *Sim) ClockEnabled(d stm32adc.DomainID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clocks[d]
}

// simClock resets every block on a domain's line like the RCC does.
type simClock struct{ s *Sim }

func (c simClock) EnableClock(d stm32adc.DomainID) {
	c.s.mu.Lock()
	c.s.clocks[d] = true
	c.s.mu.Unlock()
}

func (c simClock) ForceReset(d stm32adc.DomainID) {
	c.s.mu.Lock()
	c.s.pulses[d]++
	c.s.mu.Unlock()
	for _, id := range members[d] {
		c.s.blocks[id].Reset()
	}
	if cm := c.s.commons[d]; cm != nil {
		cm.Reset()
	}
}

func (simClock) ReleaseReset(stm32adc.DomainID) {}
