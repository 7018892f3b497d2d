package stm32adc

import "adcctl-go/drivers/stm32adc/regs"

// Flag is a set of ISR/IER bits; both registers share the layout.
type Flag uint16

const (
	FlagReady Flag = 1 << iota
	FlagEndOfSampling
	FlagEndOfConversion
	FlagEndOfSequence
	FlagOverrun
	FlagInjectedEndOfConversion
	FlagInjectedEndOfSequence
	FlagWatchdog1
	FlagWatchdog2
	FlagWatchdog3
	FlagInjectedQueueOverflow

	FlagAll = Flag(1<<11 - 1)
)

// Flags returns the pending status flags.
func (a *Instance) Flags() Flag {
	return Flag(a.rf.ReadField(regs.ISR, regs.ISR_ALL.Mask()))
}

// AckFlags clears f. ISR is write-1-to-clear, so a single store is used.
func (a *Instance) AckFlags(f Flag) {
	f &= FlagAll
	a.rf.WriteField(regs.ISR, uint32(f), uint32(f))
}

// EnableInterrupts sets the IER bits of f.
func (a *Instance) EnableInterrupts(f Flag) {
	f &= FlagAll
	a.rf.ReadModifyWrite(regs.IER, uint32(f), uint32(f))
}

// DisableInterrupts clears the IER bits of f.
func (a *Instance) DisableInterrupts(f Flag) {
	a.rf.ReadModifyWrite(regs.IER, uint32(f&FlagAll), 0)
}

// Interrupts returns the enabled interrupt sources.
func (a *Instance) Interrupts() Flag {
	return Flag(a.rf.ReadField(regs.IER, regs.IER_ALL.Mask()))
}

// Ready reports whether the instance is enabled and ready to convert. The
// first time ADRDY is seen after Enable it moves the instance to Enabled and
// acknowledges the flag.
func (a *Instance) Ready() bool {
	switch a.state {
	case Enabled:
		return true
	case Enabling:
		if a.rf.ReadField(regs.ISR, regs.ISR_ADRDY.Mask()) == 0 {
			return false
		}
		a.AckFlags(FlagReady)
		a.setState(Enabled)
		return true
	}
	return false
}

// Converting reports whether the regular or injected group is running.
func (a *Instance) Converting() (regular, injected bool) {
	cr := a.rf.ReadField(regs.CR, regs.CR_ADSTART.Mask()|regs.CR_JADSTART.Mask())
	return cr&regs.CR_ADSTART.Mask() != 0, cr&regs.CR_JADSTART.Mask() != 0
}
