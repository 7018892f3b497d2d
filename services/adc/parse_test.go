// services/adc/parse_test.go
package adc

import (
	"errors"
	"testing"

	"adcctl-go/drivers/stm32adc"
	"adcctl-go/errcode"
	"adcctl-go/types"
)

func TestCommonConfigDefaults(t *testing.T) {
	cfg, err := commonConfig(types.ADCDomain{ID: "adc12"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg != stm32adc.DefaultCommonConfig() {
		t.Fatalf("got %+v, want defaults", cfg)
	}
	cfg, err = commonConfig(types.ADCDomain{Clock: "async", Multimode: "dual_inj_altern", MultiDMA: "unlimited_8_6", TwoSamplingDelay: 7})
	if err != nil {
		t.Fatal(err)
	}
	want := stm32adc.CommonConfig{
		Clock:            stm32adc.ClockAsync,
		Multimode:        stm32adc.DualInjAltern,
		MultiDMA:         stm32adc.MultiDMAUnlimited8_6,
		TwoSamplingDelay: 7,
	}
	if cfg != want {
		t.Fatalf("got %+v, want %+v", cfg, want)
	}
}

func errOf[T any](_ T, err error) error { return err }

func TestParseRejects(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"clock", errOf(commonConfig(types.ADCDomain{Clock: "pll"}))},
		{"multimode", errOf(commonConfig(types.ADCDomain{Multimode: "triple"}))},
		{"resolution", errOf(instanceConfig(types.ADCInstance{Resolution: 11}))},
		{"align", errOf(instanceConfig(types.ADCInstance{Align: "centre"}))},
		{"low power", errOf(instanceConfig(types.ADCInstance{LowPower: "sleep"}))},
		{"trigger", errOf(regularConfig(&types.ADCRegular{Trigger: "TIM9_TRGO"}))},
		{"edge", errOf(injectedConfig(&types.ADCInjected{Edge: "up"}))},
		{"dma", errOf(regularConfig(&types.ADCRegular{DMA: "ring"}))},
		{"overrun", errOf(regularConfig(&types.ADCRegular{Overrun: "drop"}))},
	}
	for _, c := range cases {
		if !errors.Is(c.err, errcode.InvalidParams) {
			t.Fatalf("%s: err = %v, want invalid_params", c.name, c.err)
		}
	}
}

func TestGroupConfigs(t *testing.T) {
	r, err := regularConfig(nil)
	if err != nil || r.Overrun != stm32adc.OverrunOverwrite || r.Len() != 0 {
		t.Fatalf("nil regular = %+v, %v", r, err)
	}
	r, err = regularConfig(&types.ADCRegular{
		Trigger: "TIM8_TRGO", Edge: "both", Ranks: []uint8{3, 1, 3},
		Discontinuous: 2, DMA: "unlimited", Overrun: "preserve",
	})
	if err != nil {
		t.Fatal(err)
	}
	if r.Trigger != stm32adc.TIM8_TRGO || r.Edge != stm32adc.EdgeBoth || r.DMA != stm32adc.DMAUnlimited ||
		r.Overrun != stm32adc.OverrunPreserve || r.Len() != 3 || r.Ranks[0] != 3 || r.Discontinuous != 2 {
		t.Fatalf("regular = %+v", r)
	}

	j, err := injectedConfig(&types.ADCInjected{Ranks: []uint8{16, 17}, Auto: true})
	if err != nil {
		t.Fatal(err)
	}
	if j.Trigger != stm32adc.TriggerSoftware || !j.AutoFromRegular || j.Len() != 2 {
		t.Fatalf("injected = %+v", j)
	}
}

func TestSamplingTimeNames(t *testing.T) {
	for name, st := range samplingTimes {
		got, err := samplingTime(name)
		if err != nil || got != st {
			t.Fatalf("%s: %v, %v", name, got, err)
		}
	}
	if got, _ := samplingTime(""); got != stm32adc.Sample1_5 {
		t.Fatalf("default = %v", got)
	}
}
