package adcsim

import (
	"sync"

	"adcctl-go/drivers/stm32adc/regs"
)

// Common is a simulated common block. Its registers are plain storage.
type Common struct {
	mu     sync.Mutex
	words  map[regs.Reg]uint32
	writes int
}

func NewCommon() *Common {
	c := &Common{}
	c.Reset()
	return c
}

func (c *Common) Reset() {
	c.mu.Lock()
	c.words = make(map[regs.Reg]uint32, len(regs.CommonRegs))
	for _, r := range regs.CommonRegs {
		c.words[r] = 0
	}
	c.mu.Unlock()
}

func (c *Common) ReadField(reg regs.Reg, mask uint32) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.words[reg] & mask
}

func (c *Common) WriteField(reg regs.Reg, mask, value uint32) {
	c.mu.Lock()
	c.writes++
	c.words[reg] = value & mask
	c.mu.Unlock()
}

func (c *Common) ReadModifyWrite(reg regs.Reg, mask, value uint32) {
	c.mu.Lock()
	c.writes++
	c.words[reg] = (c.words[reg] &^ mask) | (value & mask)
	c.mu.Unlock()
}

// Writes returns the number of stores so far.
func (c *Common) Writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

// Peek returns a register.
func (c *Common) Peek(reg regs.Reg) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.words[reg]
}
