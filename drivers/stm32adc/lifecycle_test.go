package stm32adc

import (
	"errors"
	"testing"

	"adcctl-go/drivers/stm32adc/adcsim"
	"adcctl-go/drivers/stm32adc/regs"
	"adcctl-go/errcode"
)

func TestEnableAndReady(t *testing.T) {
	a, _ := newADC1(t)
	if a.Ready() {
		t.Fatal("Ready before Enable")
	}
	if err := a.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if !a.Enabled() || a.State() != Enabling {
		t.Fatalf("after Enable: enabled=%v state=%v", a.Enabled(), a.State())
	}
	if err := a.Enable(); err != errcode.InstanceActive {
		t.Fatalf("second Enable err = %v", err)
	}
	ready := false
	for i := 0; i < 10 && !ready; i++ {
		ready = a.Ready()
	}
	if !ready || a.State() != Enabled {
		t.Fatalf("ready=%v state=%v", ready, a.State())
	}
	if a.Flags()&FlagReady != 0 {
		t.Fatal("ADRDY not acknowledged")
	}
	if !a.Ready() {
		t.Fatal("Ready false after acknowledge")
	}
}

func TestSafeDisableAlreadyOff(t *testing.T) {
	a, b := newADC1(t)
	if err := a.SafeDisable(DefaultTimeoutCycles); err != nil {
		t.Fatalf("SafeDisable: %v", err)
	}
	rep := a.LastDisable()
	if !rep.AlreadyOff || rep.StopPolls+rep.DisablePolls > 1 {
		t.Fatalf("report = %+v", rep)
	}
	if b.Writes() != 0 {
		t.Fatalf("writes = %d", b.Writes())
	}
	if a.Enabled() || a.State() != Disabled {
		t.Fatalf("enabled=%v state=%v", a.Enabled(), a.State())
	}
}

func TestSafeDisableIdleEnabled(t *testing.T) {
	a, _ := newADC1(t)
	if err := a.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if err := a.SafeDisable(1000); err != nil {
		t.Fatalf("SafeDisable: %v", err)
	}
	rep := a.LastDisable()
	if rep.StopPolls != 1 {
		t.Fatalf("stop polls = %d, want 1 with nothing running", rep.StopPolls)
	}
	if a.Enabled() || a.DisableInProgress() || a.State() != Disabled {
		t.Fatalf("enabled=%v pending=%v state=%v", a.Enabled(), a.DisableInProgress(), a.State())
	}
}

func TestSafeDisableTimeoutStillRequestsDisable(t *testing.T) {
	a, b := newADC1(t)
	opt := adcsim.DefaultOptions()
	opt.HoldConversions = true
	b.SetOptions(opt)

	if err := a.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if !b.StartRegular() {
		t.Fatal("StartRegular refused")
	}
	b.ClearLog()

	err := a.SafeDisable(0)
	if !errors.Is(err, errcode.Timeout) {
		t.Fatalf("err = %v, want timeout", err)
	}
	if !b.Requested(regs.CR_ADSTP) {
		t.Fatal("no regular stop request")
	}
	if !b.Requested(regs.CR_ADDIS) {
		t.Fatal("no disable request despite timeout")
	}
	rep := a.LastDisable()
	if !rep.StopTimedOut || rep.StopPolls != 1 {
		t.Fatalf("report = %+v", rep)
	}
	// Hardware is still converting, so the instance cannot be called off.
	if a.State() != Unknown || !a.Enabled() {
		t.Fatalf("state=%v enabled=%v", a.State(), a.Enabled())
	}
	if err := a.HardReset(); errcode.Of(err) != errcode.UnknownState {
		t.Fatalf("HardReset err = %v", err)
	}
}

func TestSafeDisableStopsBothGroupsAndDisarmsTriggers(t *testing.T) {
	a, b := newADC1(t)
	if err := a.ConfigureRegular(RegularConfig{Trigger: TIM1_TRGO, Ranks: []Channel{1}}); err != nil {
		t.Fatal(err)
	}
	if err := a.ConfigureInjected(InjectedConfig{Trigger: TIM1_CH4, Ranks: []Channel{2}}); err != nil {
		t.Fatal(err)
	}
	if err := a.Enable(); err != nil {
		t.Fatal(err)
	}
	b.StartRegular()
	b.StartInjected()

	if err := a.SafeDisable(1000); err != nil {
		t.Fatalf("SafeDisable: %v", err)
	}
	if !b.Requested(regs.CR_ADSTP) || !b.Requested(regs.CR_JADSTP) {
		t.Fatal("both stops must be requested")
	}
	cfgr, jsqr := b.Peek(regs.CFGR), b.Peek(regs.JSQR)
	if regs.CFGR_EXTEN.Decode(cfgr) != 0 || regs.JSQR_JEXTEN.Decode(jsqr) != 0 {
		t.Fatalf("triggers still armed: CFGR=%#x JSQR=%#x", cfgr, jsqr)
	}
	if a.RegularConfig().Trigger != TriggerSoftware || a.InjectedConfig().Trigger != TriggerSoftware {
		t.Fatal("shadow triggers not forced to software")
	}
	if b.QueueLen() != 0 || b.Peek(regs.ISR)&regs.ISR_JQOVF.Mask() != 0 {
		t.Fatal("injected queue not flushed")
	}
	if b.Peek(regs.CR)&regs.CRRequests != 0 {
		t.Fatalf("CR = %#x", b.Peek(regs.CR))
	}
}

func TestSafeDisableStopPendingNotRequestedTwice(t *testing.T) {
	a, b := newADC1(t)
	if err := a.Enable(); err != nil {
		t.Fatal(err)
	}
	b.StartRegular()
	b.ReadModifyWrite(regs.CR, regs.CRReadSet, regs.CR_ADSTP.Mask())
	b.ClearLog()

	if err := a.SafeDisable(1000); err != nil {
		t.Fatalf("SafeDisable: %v", err)
	}
	if b.Requested(regs.CR_ADSTP) {
		t.Fatal("stop requested while one was pending")
	}
}

func TestSafeDisableDisableTimeout(t *testing.T) {
	a, b := newADC1(t)
	opt := adcsim.DefaultOptions()
	opt.HoldDisable = true
	b.SetOptions(opt)
	if err := a.Enable(); err != nil {
		t.Fatal(err)
	}
	err := a.SafeDisable(5)
	if errcode.Of(err) != errcode.Timeout {
		t.Fatalf("err = %v", err)
	}
	rep := a.LastDisable()
	if rep.StopTimedOut || !rep.DisableTimedOut || rep.DisablePolls != 6 {
		t.Fatalf("report = %+v", rep)
	}
	if !a.DisableInProgress() || a.State() != Unknown {
		t.Fatalf("pending=%v state=%v", a.DisableInProgress(), a.State())
	}
}

func TestHardResetRefusedWhilePending(t *testing.T) {
	bits := []regs.Field{regs.CR_ADEN, regs.CR_ADDIS, regs.CR_ADSTART, regs.CR_JADSTART, regs.CR_ADSTP, regs.CR_JADSTP}
	for _, bit := range bits {
		a, b := newADC1(t)
		b.Poke(regs.CR, b.Peek(regs.CR)|bit.Mask())
		err := a.HardReset()
		if !errors.Is(err, errcode.UnknownState) {
			t.Fatalf("bit %d: err = %v", bit.Pos, err)
		}
		if b.Writes() != 0 {
			t.Fatalf("bit %d: %d writes", bit.Pos, b.Writes())
		}
	}

	a, b := newADC1(t)
	if err := a.Enable(); err != nil {
		t.Fatal(err)
	}
	b.ClearLog()
	if err := a.HardReset(); errcode.Of(err) != errcode.UnknownState || b.Writes() != 0 {
		t.Fatalf("enabled: err=%v writes=%d", err, b.Writes())
	}
}

func TestHardResetRestoresResetValues(t *testing.T) {
	r := newRig(t, F303xC, DomainADC12, ADC1, ADC2)
	a, b := r.inst[ADC1], r.blocks[ADC1]
	cc := CommonConfig{Clock: ClockSyncDiv1, Multimode: DualRegSimult, TwoSamplingDelay: 2}
	if err := r.dom.ConfigureCommon(cc); err != nil {
		t.Fatal(err)
	}
	if err := a.Regulator(true); err != nil {
		t.Fatal(err)
	}
	if err := a.Configure(InstanceConfig{Resolution: Res6Bit, Alignment: AlignLeft}); err != nil {
		t.Fatal(err)
	}
	if err := a.ConfigureRegular(RegularConfig{Trigger: TIM3_TRGO, Ranks: []Channel{1, 2, 3}, Continuous: true, DMA: DMALimited}); err != nil {
		t.Fatal(err)
	}
	if err := a.ConfigureInjected(InjectedConfig{Ranks: []Channel{4, 5}, AutoFromRegular: true}); err != nil {
		t.Fatal(err)
	}
	if err := a.ConfigureChannel(3, Sample61_5, true); err != nil {
		t.Fatal(err)
	}
	a.EnableInterrupts(FlagEndOfConversion | FlagOverrun)
	b.Poke(regs.OFR2, 0x8400_0123)
	b.Poke(regs.CALFACT, 0x0040_0040)
	b.Poke(regs.AWD2CR, 0x6)
	b.Poke(regs.TR1, 0x0ABC_0011)
	b.Raise(regs.ISR_EOC.Mask() | regs.ISR_AWD1.Mask())

	if err := a.HardReset(); err != nil {
		t.Fatalf("HardReset: %v", err)
	}
	snap := b.Snapshot()
	for _, reg := range regs.InstanceRegs {
		if got, want := snap[reg], regs.ResetValue(reg); got != want {
			t.Fatalf("reg %#x = %#x, want %#x", reg, got, want)
		}
	}
	if b.QueueLen() != 0 {
		t.Fatal("queue not empty")
	}
	if a.Config() != DefaultInstanceConfig() || a.RegularConfig().Len() != 0 || a.InjectedConfig().AutoFromRegular {
		t.Fatal("shadows not reset")
	}
	if a.Multimode() != Independent {
		t.Fatal("multimode residue in shadow")
	}
	if a.State() != Disabled || a.RegulatorOn() {
		t.Fatalf("state=%v regulator=%v", a.State(), a.RegulatorOn())
	}
}

func TestEndToEnd(t *testing.T) {
	a, b := newADC1(t)
	var trail []State
	a.OnTransition(func(id InstanceID, from, to State) {
		if id != ADC1 {
			t.Fatalf("transition for %v", id)
		}
		trail = append(trail, to)
	})

	if err := a.Configure(InstanceConfig{Resolution: Res12Bit, Alignment: AlignRight, LowPower: LowPowerNone}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := a.ConfigureRegular(RegularConfig{Trigger: TriggerSoftware, Ranks: []Channel{0, 1, 2}}); err != nil {
		t.Fatalf("ConfigureRegular: %v", err)
	}
	if err := a.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if !b.StartRegular() {
		t.Fatal("StartRegular refused")
	}
	if err := a.SafeDisable(1000); err != nil {
		t.Fatalf("SafeDisable: %v", err)
	}
	if a.Enabled() {
		t.Fatal("still enabled")
	}
	want := []State{Enabling, StoppingConversions, Disabling, Disabled}
	if len(trail) != len(want) {
		t.Fatalf("trail = %v, want %v", trail, want)
	}
	for i := range want {
		if trail[i] != want[i] {
			t.Fatalf("trail = %v, want %v", trail, want)
		}
	}
}

func TestStatusFlags(t *testing.T) {
	a, b := newADC1(t)
	b.Raise(regs.ISR_EOC.Mask() | regs.ISR_EOS.Mask() | regs.ISR_OVR.Mask())
	if got := a.Flags(); got != FlagEndOfConversion|FlagEndOfSequence|FlagOverrun {
		t.Fatalf("Flags = %#x", got)
	}
	a.AckFlags(FlagEndOfConversion | FlagOverrun)
	if got := a.Flags(); got != FlagEndOfSequence {
		t.Fatalf("Flags after ack = %#x", got)
	}
	a.EnableInterrupts(FlagWatchdog1 | FlagInjectedQueueOverflow)
	a.DisableInterrupts(FlagWatchdog1)
	if got := a.Interrupts(); got != FlagInjectedQueueOverflow {
		t.Fatalf("Interrupts = %#x", got)
	}
}

func TestTimeoutCycles(t *testing.T) {
	if got := TimeoutCycles(0, 1, 1); got != DefaultTimeoutCycles {
		t.Fatalf("zero rate = %d", got)
	}
	if got := TimeoutCycles(72_000_000, 18_000_000, 10); got != 40 {
		t.Fatalf("ratio 4 = %d, want 40", got)
	}
	if got := TimeoutCycles(72_000_000, 7, 1<<20); got != ^uint32(0) {
		t.Fatalf("overflow = %d, want saturated", got)
	}
}
