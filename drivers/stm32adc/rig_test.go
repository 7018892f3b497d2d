package stm32adc

import (
	"testing"

	"adcctl-go/drivers/stm32adc/adcsim"
)

// fakeClock resets the simulated blocks of a domain like the RCC would.
type fakeClock struct {
	blocks  map[DomainID][]*adcsim.Block
	commons map[DomainID]*adcsim.Common
	enabled map[DomainID]bool
	held    map[DomainID]bool
	pulses  int
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		blocks:  make(map[DomainID][]*adcsim.Block),
		commons: make(map[DomainID]*adcsim.Common),
		enabled: make(map[DomainID]bool),
		held:    make(map[DomainID]bool),
	}
}

func (c *fakeClock) EnableClock(d DomainID) { c.enabled[d] = true }

func (c *fakeClock) ForceReset(d DomainID) {
	c.held[d] = true
	c.pulses++
	for _, b := range c.blocks[d] {
		b.Reset()
	}
	if cm := c.commons[d]; cm != nil {
		cm.Reset()
	}
}

func (c *fakeClock) ReleaseReset(d DomainID) { c.held[d] = false }

type rig struct {
	dom    *Domain
	common *adcsim.Common
	clock  *fakeClock
	blocks map[InstanceID]*adcsim.Block
	inst   map[InstanceID]*Instance
}

// newRig attaches simulated blocks for ids to domain d of chip v.
func newRig(t *testing.T, v ChipVariant, d DomainID, ids ...InstanceID) *rig {
	t.Helper()
	r := &rig{
		common: adcsim.NewCommon(),
		clock:  newFakeClock(),
		blocks: make(map[InstanceID]*adcsim.Block),
		inst:   make(map[InstanceID]*Instance),
	}
	r.clock.commons[d] = r.common
	dom, err := NewDomain(v, d, r.common, r.clock)
	if err != nil {
		t.Fatalf("NewDomain: %v", err)
	}
	r.dom = dom
	for _, id := range ids {
		b := adcsim.New(adcsim.DefaultOptions())
		a, err := dom.Attach(id, b)
		if err != nil {
			t.Fatalf("Attach(%v): %v", id, err)
		}
		r.clock.blocks[d] = append(r.clock.blocks[d], b)
		r.blocks[id] = b
		r.inst[id] = a
	}
	return r
}

func newADC1(t *testing.T) (*Instance, *adcsim.Block) {
	t.Helper()
	r := newRig(t, F303xC, DomainADC12, ADC1)
	return r.inst[ADC1], r.blocks[ADC1]
}
