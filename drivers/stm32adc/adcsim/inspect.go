package adcsim

import "adcctl-go/drivers/stm32adc/regs"

// Peek returns a register without advancing simulated time.
func (b *Block) Peek(reg regs.Reg) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.words[reg]
}

// Poke sets a register behind the driver's back; it is not logged.
func (b *Block) Poke(reg regs.Reg, v uint32) {
	b.mu.Lock()
	b.words[reg] = v
	b.mu.Unlock()
}

// Raise sets status flags as hardware would.
func (b *Block) Raise(mask uint32) {
	b.mu.Lock()
	b.words[regs.ISR] |= mask & regs.ISR_ALL.Mask()
	b.mu.Unlock()
}

// StartRegular and StartInjected mimic a trigger firing on an enabled block.
func (b *Block) StartRegular() bool  { return b.start(regs.CR_ADSTART) }
func (b *Block) StartInjected() bool { return b.start(regs.CR_JADSTART) }

func (b *Block) start(f regs.Field) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.has(regs.CR_ADEN) || b.has(regs.CR_ADDIS) {
		return false
	}
	b.set(f)
	return true
}

// Writes returns the number of stores since the last ClearLog.
func (b *Block) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.log)
}

// Log returns a copy of the write log.
func (b *Block) Log() []Write {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Write(nil), b.log...)
}

func (b *Block) ClearLog() {
	b.mu.Lock()
	b.log = b.log[:0]
	b.mu.Unlock()
}

// Requested reports whether any logged store asked for the read-set CR bit f.
func (b *Block) Requested(f regs.Field) bool {
	for _, w := range b.Log() {
		if w.Reg == regs.CR && w.Mask&f.Mask() != 0 && w.Value&f.Mask() != 0 {
			return true
		}
	}
	return false
}

// QueueLen is the number of injected contexts waiting in the queue.
func (b *Block) QueueLen() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Snapshot copies every register.
func (b *Block) Snapshot() map[regs.Reg]uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := make(map[regs.Reg]uint32, len(b.words))
	for k, v := range b.words {
		m[k] = v
	}
	return m
}
