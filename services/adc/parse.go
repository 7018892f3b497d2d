// services/adc/parse.go
package adc

import (
	"strconv"

	"adcctl-go/drivers/stm32adc"
	"adcctl-go/errcode"
	"adcctl-go/types"
)

// -----------------------------------------------------------------------------
// Enum tables
// -----------------------------------------------------------------------------

var clockModes = map[string]stm32adc.ClockMode{
	"async":     stm32adc.ClockAsync,
	"sync_div1": stm32adc.ClockSyncDiv1,
	"sync_div2": stm32adc.ClockSyncDiv2,
	"sync_div4": stm32adc.ClockSyncDiv4,
}

var multimodes = map[string]stm32adc.Multimode{
	"independent":                stm32adc.Independent,
	"dual_reg_simult_inj_simult": stm32adc.DualRegSimultInjSimult,
	"dual_reg_simult_inj_altern": stm32adc.DualRegSimultInjAltern,
	"dual_reg_interl_inj_simult": stm32adc.DualRegInterlInjSimult,
	"dual_inj_simult":            stm32adc.DualInjSimult,
	"dual_reg_simult":            stm32adc.DualRegSimult,
	"dual_reg_interl":            stm32adc.DualRegInterl,
	"dual_inj_altern":            stm32adc.DualInjAltern,
}

var multiDMAs = map[string]stm32adc.MultiDMA{
	"each_adc":        stm32adc.MultiDMAEachADC,
	"limited_12_10":   stm32adc.MultiDMALimited12_10,
	"limited_8_6":     stm32adc.MultiDMALimited8_6,
	"unlimited_12_10": stm32adc.MultiDMAUnlimited12_10,
	"unlimited_8_6":   stm32adc.MultiDMAUnlimited8_6,
}

var edges = map[string]stm32adc.Edge{
	"rising":  stm32adc.EdgeRising,
	"falling": stm32adc.EdgeFalling,
	"both":    stm32adc.EdgeBoth,
}

var regularDMAs = map[string]stm32adc.RegularDMA{
	"none":      stm32adc.DMANone,
	"limited":   stm32adc.DMALimited,
	"unlimited": stm32adc.DMAUnlimited,
}

var overruns = map[string]stm32adc.Overrun{
	"overwrite": stm32adc.OverrunOverwrite,
	"preserve":  stm32adc.OverrunPreserve,
}

var samplingTimes = map[string]stm32adc.SamplingTime{
	"1.5":   stm32adc.Sample1_5,
	"2.5":   stm32adc.Sample2_5,
	"4.5":   stm32adc.Sample4_5,
	"7.5":   stm32adc.Sample7_5,
	"19.5":  stm32adc.Sample19_5,
	"61.5":  stm32adc.Sample61_5,
	"181.5": stm32adc.Sample181_5,
	"601.5": stm32adc.Sample601_5,
}

// lookup resolves s in table; "" yields def.
func lookup[T any](op, what, s string, table map[string]T, def T) (T, error) {
	if s == "" {
		return def, nil
	}
	v, ok := table[s]
	if !ok {
		return def, errcode.New(errcode.InvalidParams, op, "unknown "+what+" "+strconv.Quote(s))
	}
	return v, nil
}

// -----------------------------------------------------------------------------
// Payload -> driver config
// -----------------------------------------------------------------------------

func commonConfig(d types.ADCDomain) (stm32adc.CommonConfig, error) {
	const op = "domain config"
	cfg := stm32adc.DefaultCommonConfig()
	var err error
	if cfg.Clock, err = lookup(op, "clock", d.Clock, clockModes, cfg.Clock); err != nil {
		return cfg, err
	}
	if cfg.Multimode, err = lookup(op, "multimode", d.Multimode, multimodes, cfg.Multimode); err != nil {
		return cfg, err
	}
	if cfg.MultiDMA, err = lookup(op, "multi_dma", d.MultiDMA, multiDMAs, cfg.MultiDMA); err != nil {
		return cfg, err
	}
	if d.TwoSamplingDelay != 0 {
		cfg.TwoSamplingDelay = d.TwoSamplingDelay
	}
	return cfg, nil
}

func instanceConfig(in types.ADCInstance) (stm32adc.InstanceConfig, error) {
	const op = "instance config"
	cfg := stm32adc.DefaultInstanceConfig()
	if in.Resolution != 0 {
		r, ok := stm32adc.ResolutionFromBits(in.Resolution)
		if !ok {
			return cfg, errcode.New(errcode.InvalidParams, op, "resolution "+strconv.Itoa(in.Resolution))
		}
		cfg.Resolution = r
	}
	var err error
	switch in.Align {
	case "", "right":
	case "left":
		cfg.Alignment = stm32adc.AlignLeft
	default:
		return cfg, errcode.New(errcode.InvalidParams, op, "unknown align "+strconv.Quote(in.Align))
	}
	switch in.LowPower {
	case "", "none":
	case "autowait":
		cfg.LowPower = stm32adc.LowPowerAutoWait
	default:
		err = errcode.New(errcode.InvalidParams, op, "unknown low_power "+strconv.Quote(in.LowPower))
	}
	return cfg, err
}

func trigger(op, name string) (stm32adc.TriggerSource, error) {
	t, ok := stm32adc.ParseTrigger(name)
	if !ok {
		return stm32adc.TriggerSoftware, errcode.New(errcode.InvalidParams, op, "unknown trigger "+strconv.Quote(name))
	}
	return t, nil
}

func channels(in []uint8) []stm32adc.Channel {
	out := make([]stm32adc.Channel, len(in))
	for i, c := range in {
		out[i] = stm32adc.Channel(c)
	}
	return out
}

func regularConfig(r *types.ADCRegular) (stm32adc.RegularConfig, error) {
	const op = "regular config"
	cfg := stm32adc.DefaultRegularConfig()
	if r == nil {
		return cfg, nil
	}
	var err error
	if cfg.Trigger, err = trigger(op, r.Trigger); err != nil {
		return cfg, err
	}
	if cfg.Edge, err = lookup(op, "edge", r.Edge, edges, cfg.Edge); err != nil {
		return cfg, err
	}
	if cfg.DMA, err = lookup(op, "dma", r.DMA, regularDMAs, cfg.DMA); err != nil {
		return cfg, err
	}
	if cfg.Overrun, err = lookup(op, "overrun", r.Overrun, overruns, cfg.Overrun); err != nil {
		return cfg, err
	}
	cfg.Ranks = channels(r.Ranks)
	cfg.Discontinuous = r.Discontinuous
	cfg.Continuous = r.Continuous
	return cfg, nil
}

func injectedConfig(j *types.ADCInjected) (stm32adc.InjectedConfig, error) {
	const op = "injected config"
	cfg := stm32adc.DefaultInjectedConfig()
	if j == nil {
		return cfg, nil
	}
	var err error
	if cfg.Trigger, err = trigger(op, j.Trigger); err != nil {
		return cfg, err
	}
	if cfg.Edge, err = lookup(op, "edge", j.Edge, edges, cfg.Edge); err != nil {
		return cfg, err
	}
	cfg.Ranks = channels(j.Ranks)
	cfg.Discontinuous = j.Discontinuous
	cfg.AutoFromRegular = j.Auto
	return cfg, nil
}

func samplingTime(s string) (stm32adc.SamplingTime, error) {
	return lookup("channel config", "sampling", s, samplingTimes, stm32adc.Sample1_5)
}
