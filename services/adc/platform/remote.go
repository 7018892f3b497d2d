// services/adc/platform/remote.go
package platform

import (
	"adcctl-go/drivers/stm32adc"
	"adcctl-go/drivers/stm32adc/i2cbridge"

	"tinygo.org/x/drivers"
)

// Remote reaches a converter board through a bridge on bus. The far side
// owns the reset lines, so Clock is nil and domain resets report
// not_applicable.
type Remote struct {
	bus     drivers.I2C
	addr    uint16
	clients []*i2cbridge.Client
}

func NewRemote(bus drivers.I2C, addr uint16) *Remote {
	return &Remote{bus: bus, addr: addr}
}

func (r *Remote) Common(d stm32adc.DomainID) (stm32adc.RegisterFile, bool) {
	if _, ok := members[d]; !ok {
		return nil, false
	}
	return r.client(commonBlock(d)), true
}

func (r *Remote) Instance(id stm32adc.InstanceID) (stm32adc.RegisterFile, bool) {
	if id < stm32adc.ADC1 || id > stm32adc.ADC4 {
		return nil, false
	}
	return r.client(instanceBlock(id)), true
}

func (r *Remote) Clock() stm32adc.ClockGate { return nil }

func (r *Remote) client(block uint8) *i2cbridge.Client {
	c := i2cbridge.NewClient(r.bus, r.addr, block)
	r.clients = append(r.clients, c)
	return c
}

// Err returns the first latched transport error of any client.
func (r *Remote) Err() error { return firstErr(r.clients) }

// Serve exposes the blocks of sim on t, using the selectors Remote expects.
func (s *Sim) Serve(t *i2cbridge.Target) {
	for id, b := range s.blocks {
		t.Serve(instanceBlock(id), b)
	}
	for d, c := range s.commons {
		t.Serve(commonBlock(d), c)
	}
}

func firstErr(cs []*i2cbridge.Client) error {
	for _, c := range cs {
		if err := c.Err(); err != nil {
			return err
		}
	}
	return nil
}
