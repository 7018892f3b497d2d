// Package adcsim simulates STM32F3 ADC register blocks closely enough to
// exercise the lifecycle code: read-set CR bits with acknowledgement delays,
// write-1-to-clear ISR, and the two-deep injected context queue. Every store
// is counted and logged.
package adcsim

import (
	"sync"

	"adcctl-go/drivers/stm32adc/regs"
)

// queueDepth is the hardware JSQR context queue depth.
const queueDepth = 2

// Options shape the simulated timing. Latencies count CR/ISR reads, which is
// how the driver's busy polls observe time passing.
type Options struct {
	EnableLatency  int // reads until ADRDY after ADEN
	StopLatency    int // reads until ADSTP/JADSTP complete
	DisableLatency int // reads until ADDIS completes

	HoldConversions bool // stop requests never complete
	HoldDisable     bool // disable requests never complete

	// FlushRaisesOverflow sets JQOVF whenever JQM goes from 0 to 1.
	FlushRaisesOverflow bool
}

// DefaultOptions returns short latencies and overflow-on-flush.
func DefaultOptions() Options {
	return Options{EnableLatency: 2, StopLatency: 3, DisableLatency: 2, FlushRaisesOverflow: true}
}

// Kind tells which primitive produced a logged write.
type Kind uint8

const (
	KindWrite Kind = iota + 1
	KindRMW
)

// Write is one logged store.
type Write struct {
	Kind  Kind
	Reg   regs.Reg
	Mask  uint32
	Value uint32
}

// Block is one simulated instance register block.
type Block struct {
	mu    sync.Mutex
	opt   Options
	words map[regs.Reg]uint32
	queue []uint32
	log   []Write

	enableIn, stopIn, jstopIn, disableIn int
	readyPending                         bool
}

// New returns a block at its reset values.
func New(opt Options) *Block {
	b := &Block{opt: opt}
	b.reset()
	return b
}

// Reset returns every register to its reset value, as a domain reset does.
// The write log is kept.
func (b *Block) Reset() {
	b.mu.Lock()
	b.reset()
	b.mu.Unlock()
}

func (b *Block) reset() {
	b.words = make(map[regs.Reg]uint32, len(regs.InstanceRegs))
	for _, r := range regs.InstanceRegs {
		b.words[r] = regs.ResetValue(r)
	}
	b.queue = b.queue[:0]
	b.enableIn, b.stopIn, b.jstopIn, b.disableIn = 0, 0, 0, 0
	b.readyPending = false
}

// SetOptions replaces the timing options.
func (b *Block) SetOptions(opt Options) {
	b.mu.Lock()
	b.opt = opt
	b.mu.Unlock()
}

func (b *Block) ReadField(reg regs.Reg, mask uint32) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if reg == regs.CR || reg == regs.ISR {
		b.tick()
	}
	return b.words[reg] & mask
}

func (b *Block) WriteField(reg regs.Reg, mask, value uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.log = append(b.log, Write{KindWrite, reg, mask, value})
	b.store(reg, value&mask)
}

func (b *Block) ReadModifyWrite(reg regs.Reg, mask, value uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.log = append(b.log, Write{KindRMW, reg, mask, value})
	b.store(reg, (b.words[reg]&^mask)|(value&mask))
}

func (b *Block) store(reg regs.Reg, word uint32) {
	switch reg {
	case regs.ISR:
		b.words[regs.ISR] &^= word
	case regs.CR:
		b.storeCR(word)
	case regs.CFGR:
		old := b.words[regs.CFGR]
		b.words[regs.CFGR] = word
		jqm := regs.CFGR_JQM.Mask()
		if old&jqm == 0 && word&jqm != 0 {
			b.queue = b.queue[:0]
			if b.opt.FlushRaisesOverflow {
				b.words[regs.ISR] |= regs.ISR_JQOVF.Mask()
			}
		}
	case regs.JSQR:
		b.words[regs.JSQR] = word
		if len(b.queue) >= queueDepth {
			b.words[regs.ISR] |= regs.ISR_JQOVF.Mask()
			return
		}
		b.queue = append(b.queue, word)
	case regs.DR, regs.JDR1, regs.JDR1 + 4, regs.JDR1 + 8, regs.JDR1 + 12:
		// read-only
	default:
		b.words[reg] = word
	}
}

func (b *Block) has(f regs.Field) bool { return b.words[regs.CR]&f.Mask() != 0 }

func (b *Block) set(f regs.Field) { b.words[regs.CR] |= f.Mask() }

func (b *Block) clear(fs ...regs.Field) {
	for _, f := range fs {
		b.words[regs.CR] &^= f.Mask()
	}
}

// storeCR applies software-writable bits directly and treats read-set bits
// as requests: writing 1 asks, writing 0 does nothing.
func (b *Block) storeCR(word uint32) {
	plain := regs.CR_ADVREGEN.Mask() | regs.CR_ADCALDIF.Mask()
	b.words[regs.CR] = (b.words[regs.CR] &^ plain) | (word & plain)
	req := func(f regs.Field) bool { return word&f.Mask() != 0 && !b.has(f) }

	if req(regs.CR_ADEN) && !b.has(regs.CR_ADDIS) {
		b.set(regs.CR_ADEN)
		b.enableIn = b.opt.EnableLatency
		b.readyPending = true
	}
	enabled := b.has(regs.CR_ADEN) && !b.has(regs.CR_ADDIS)
	if req(regs.CR_ADSTART) && enabled {
		b.set(regs.CR_ADSTART)
	}
	if req(regs.CR_JADSTART) && enabled {
		b.set(regs.CR_JADSTART)
	}
	if req(regs.CR_ADSTP) && b.has(regs.CR_ADSTART) {
		b.set(regs.CR_ADSTP)
		b.stopIn = b.opt.StopLatency
	}
	if req(regs.CR_JADSTP) && b.has(regs.CR_JADSTART) {
		b.set(regs.CR_JADSTP)
		b.jstopIn = b.opt.StopLatency
	}
	if req(regs.CR_ADDIS) && b.has(regs.CR_ADEN) {
		b.set(regs.CR_ADDIS)
		b.disableIn = b.opt.DisableLatency
	}
	// Calibration completes instantly.
	b.clear(regs.CR_ADCAL)
	b.tickDone()
}

// tick advances simulated time by one register read.
func (b *Block) tick() {
	for _, c := range []*int{&b.enableIn, &b.stopIn, &b.jstopIn, &b.disableIn} {
		if *c > 0 {
			*c--
		}
	}
	b.tickDone()
}

func (b *Block) tickDone() {
	if b.readyPending && b.enableIn == 0 {
		b.words[regs.ISR] |= regs.ISR_ADRDY.Mask()
		b.readyPending = false
	}
	if !b.opt.HoldConversions {
		if b.has(regs.CR_ADSTP) && b.stopIn == 0 {
			b.clear(regs.CR_ADSTP, regs.CR_ADSTART)
		}
		if b.has(regs.CR_JADSTP) && b.jstopIn == 0 {
			b.clear(regs.CR_JADSTP, regs.CR_JADSTART)
		}
	}
	converting := b.has(regs.CR_ADSTART) || b.has(regs.CR_JADSTART)
	if b.has(regs.CR_ADDIS) && b.disableIn == 0 && !b.opt.HoldDisable && !converting {
		b.clear(regs.CR_ADDIS, regs.CR_ADEN)
		b.readyPending = false
	}
}
