package regs

// Instance register block offsets (one block per ADC instance).
const (
	ISR     Reg = 0x00
	IER     Reg = 0x04
	CR      Reg = 0x08
	CFGR    Reg = 0x0C
	SMPR1   Reg = 0x14
	SMPR2   Reg = 0x18
	TR1     Reg = 0x20
	TR2     Reg = 0x24
	TR3     Reg = 0x28
	SQR1    Reg = 0x30
	SQR2    Reg = 0x34
	SQR3    Reg = 0x38
	SQR4    Reg = 0x3C
	DR      Reg = 0x40
	JSQR    Reg = 0x4C
	OFR1    Reg = 0x60
	OFR2    Reg = 0x64
	OFR3    Reg = 0x68
	OFR4    Reg = 0x6C
	JDR1    Reg = 0x80
	AWD2CR  Reg = 0xA0
	AWD3CR  Reg = 0xA4
	DIFSEL  Reg = 0xB0
	CALFACT Reg = 0xB4
)

// Common register block offsets (one block per domain, base + 0x300).
const (
	CSR Reg = 0x00
	CCR Reg = 0x08
	CDR Reg = 0x0C
)

// ISR and IER share one bit layout; flags are write-1-to-clear in ISR.
var (
	ISR_ADRDY = Field{ISR, 0, 1}
	ISR_EOSMP = Field{ISR, 1, 1}
	ISR_EOC   = Field{ISR, 2, 1}
	ISR_EOS   = Field{ISR, 3, 1}
	ISR_OVR   = Field{ISR, 4, 1}
	ISR_JEOC  = Field{ISR, 5, 1}
	ISR_JEOS  = Field{ISR, 6, 1}
	ISR_AWD1  = Field{ISR, 7, 1}
	ISR_AWD2  = Field{ISR, 8, 1}
	ISR_AWD3  = Field{ISR, 9, 1}
	ISR_JQOVF = Field{ISR, 10, 1}

	// ISR_ALL covers every status flag.
	ISR_ALL = Field{ISR, 0, 11}
	IER_ALL = Field{IER, 0, 11}
)

// CR. Bits ADEN..JADSTP and ADCAL are "read-set": software can only set
// them, hardware clears them.
var (
	CR_ADEN     = Field{CR, 0, 1}
	CR_ADDIS    = Field{CR, 1, 1}
	CR_ADSTART  = Field{CR, 2, 1}
	CR_JADSTART = Field{CR, 3, 1}
	CR_ADSTP    = Field{CR, 4, 1}
	CR_JADSTP   = Field{CR, 5, 1}
	CR_ADVREGEN = Field{CR, 28, 2}
	CR_ADCALDIF = Field{CR, 30, 1}
	CR_ADCAL    = Field{CR, 31, 1}
)

// CR bit masks used by the lifecycle code.
const (
	CRReadSet  uint32 = 1<<0 | 1<<1 | 1<<2 | 1<<3 | 1<<4 | 1<<5 | 1<<31
	CRRequests uint32 = 1<<0 | 1<<1 | 1<<2 | 1<<3 | 1<<4 | 1<<5
	CRStops    uint32 = 1<<4 | 1<<5
)

// ADVREGEN encodings.
const (
	VregIntermediate uint32 = 0b00
	VregEnabled      uint32 = 0b01
	VregDisabled     uint32 = 0b10
)

// CFGR.
var (
	CFGR_DMAEN   = Field{CFGR, 0, 1}
	CFGR_DMACFG  = Field{CFGR, 1, 1}
	CFGR_RES     = Field{CFGR, 3, 2}
	CFGR_ALIGN   = Field{CFGR, 5, 1}
	CFGR_EXTSEL  = Field{CFGR, 6, 4}
	CFGR_EXTEN   = Field{CFGR, 10, 2}
	CFGR_OVRMOD  = Field{CFGR, 12, 1}
	CFGR_CONT    = Field{CFGR, 13, 1}
	CFGR_AUTDLY  = Field{CFGR, 14, 1}
	CFGR_DISCEN  = Field{CFGR, 16, 1}
	CFGR_DISCNUM = Field{CFGR, 17, 3}
	CFGR_JDISCEN = Field{CFGR, 20, 1}
	CFGR_JQM     = Field{CFGR, 21, 1}
	CFGR_AWD1SGL = Field{CFGR, 22, 1}
	CFGR_AWD1EN  = Field{CFGR, 23, 1}
	CFGR_JAWD1EN = Field{CFGR, 24, 1}
	CFGR_JAUTO   = Field{CFGR, 25, 1}
	CFGR_AWD1CH  = Field{CFGR, 26, 5}
)

// Sampling time registers: 3 bits per channel, channels 1..9 in SMPR1
// starting at bit 3, channels 10..18 in SMPR2 starting at bit 0.
func SMP(ch uint8) (Field, bool) {
	switch {
	case ch >= 1 && ch <= 9:
		return Field{SMPR1, 3 * ch, 3}, true
	case ch >= 10 && ch <= 18:
		return Field{SMPR2, 3 * (ch - 10), 3}, true
	}
	return Field{}, false
}

// Analog watchdog thresholds.
var (
	TR1_LT1 = Field{TR1, 0, 12}
	TR1_HT1 = Field{TR1, 16, 12}
	TR2_LT2 = Field{TR2, 0, 8}
	TR2_HT2 = Field{TR2, 16, 8}
	TR3_LT3 = Field{TR3, 0, 8}
	TR3_HT3 = Field{TR3, 16, 8}
)

// Regular sequencer.
var SQR1_L = Field{SQR1, 0, 4}

var sqTable = [16]Field{
	{SQR1, 6, 5}, {SQR1, 12, 5}, {SQR1, 18, 5}, {SQR1, 24, 5},
	{SQR2, 0, 5}, {SQR2, 6, 5}, {SQR2, 12, 5}, {SQR2, 18, 5}, {SQR2, 24, 5},
	{SQR3, 0, 5}, {SQR3, 6, 5}, {SQR3, 12, 5}, {SQR3, 18, 5}, {SQR3, 24, 5},
	{SQR4, 0, 5}, {SQR4, 6, 5},
}

// SQ returns the field of regular rank 1..16.
func SQ(rank int) (Field, bool) {
	if rank < 1 || rank > len(sqTable) {
		return Field{}, false
	}
	return sqTable[rank-1], true
}

// SQRegs lists the regular sequencer registers in order.
var SQRegs = [4]Reg{SQR1, SQR2, SQR3, SQR4}

// Injected sequencer and trigger (JSQR).
var (
	JSQR_JL      = Field{JSQR, 0, 2}
	JSQR_JEXTSEL = Field{JSQR, 2, 4}
	JSQR_JEXTEN  = Field{JSQR, 6, 2}
)

var jsqTable = [4]Field{{JSQR, 8, 5}, {JSQR, 14, 5}, {JSQR, 20, 5}, {JSQR, 26, 5}}

// JSQ returns the field of injected rank 1..4.
func JSQ(rank int) (Field, bool) {
	if rank < 1 || rank > len(jsqTable) {
		return Field{}, false
	}
	return jsqTable[rank-1], true
}

// Offset registers share one layout.
var OFRRegs = [4]Reg{OFR1, OFR2, OFR3, OFR4}

// OFR returns the OFFSETy, OFFSETy_CH and OFFSETy_EN fields of reg.
func OFR(reg Reg) (offset, ch, en Field) {
	return Field{reg, 0, 12}, Field{reg, 26, 5}, Field{reg, 31, 1}
}

var (
	AWD2CR_CH   = Field{AWD2CR, 1, 18}
	AWD3CR_CH   = Field{AWD3CR, 1, 18}
	DIFSEL_CH   = Field{DIFSEL, 1, 18}
	CALFACT_S   = Field{CALFACT, 0, 7}
	CALFACT_D   = Field{CALFACT, 16, 7}
	CALFACT_ALL = Field{CALFACT, 0, 23}
	SMPR1_ALL   = Field{SMPR1, 3, 27}
	SMPR2_ALL   = Field{SMPR2, 0, 27}
	JSQR_ALL    = Field{JSQR, 0, 31}
	SQR1_ALL    = Field{SQR1, 0, 29}
	SQR2_ALL    = Field{SQR2, 0, 29}
	SQR3_ALL    = Field{SQR3, 0, 29}
	SQR4_ALL    = Field{SQR4, 0, 11}
)

// Common control register (CCR).
var (
	CCR_DUAL   = Field{CCR, 0, 5}
	CCR_DELAY  = Field{CCR, 8, 4}
	CCR_DMACFG = Field{CCR, 13, 1}
	CCR_MDMA   = Field{CCR, 14, 2}
	CCR_CKMODE = Field{CCR, 16, 2}
	CCR_VREFEN = Field{CCR, 22, 1}
	CCR_TSEN   = Field{CCR, 23, 1}
	CCR_VBATEN = Field{CCR, 24, 1}
)

// Reset values that differ from zero.
var ResetValues = map[Reg]uint32{
	CR:  VregDisabled << 28,
	TR1: 0x0FFF_0000,
	TR2: 0x00FF_0000,
	TR3: 0x00FF_0000,
}

// InstanceRegs lists every register of an instance block.
var InstanceRegs = []Reg{
	ISR, IER, CR, CFGR, SMPR1, SMPR2, TR1, TR2, TR3,
	SQR1, SQR2, SQR3, SQR4, DR, JSQR, OFR1, OFR2, OFR3, OFR4,
	JDR1, JDR1 + 4, JDR1 + 8, JDR1 + 12, AWD2CR, AWD3CR, DIFSEL, CALFACT,
}

// CommonRegs lists every register of a common block.
var CommonRegs = []Reg{CSR, CCR, CDR}

// ResetValue returns the documented reset value of reg.
func ResetValue(reg Reg) uint32 { return ResetValues[reg] }
