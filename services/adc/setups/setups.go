// services/adc/setups/setups.go
package setups

import "adcctl-go/types"

// Board plans, embedded by the config service under their board names.

// F303Dual runs ADC1/ADC2 as a dual pair sampling in step, with ADC1's
// injected group following its regular group, and ADC3 on a timer.
var F303Dual = types.ADCConfig{
	Chip: "stm32f303xc",
	Domains: []types.ADCDomain{
		{
			ID:               "adc12",
			Clock:            "sync_div2",
			Multimode:        "dual_reg_simult",
			MultiDMA:         "limited_12_10",
			TwoSamplingDelay: 1,
			Instances: []types.ADCInstance{
				{
					ID: "adc1",
					Channels: []types.ADCChannel{
						{Channel: 1, Sampling: "19.5"},
						{Channel: 2, Sampling: "19.5"},
						{Channel: 16, Sampling: "181.5"}, // temperature sensor
					},
					Regular:  &types.ADCRegular{Trigger: "TIM1_TRGO", Edge: "rising", Ranks: []uint8{1, 2}, DMA: "limited"},
					Injected: &types.ADCInjected{Ranks: []uint8{16}, Auto: true},
					Enable:   true,
				},
				{
					ID:       "adc2",
					Channels: []types.ADCChannel{{Channel: 1, Sampling: "19.5"}, {Channel: 3, Sampling: "19.5"}},
					Regular:  &types.ADCRegular{Ranks: []uint8{1, 3}},
					Enable:   true,
				},
			},
		},
		{
			ID:    "adc34",
			Clock: "async",
			Instances: []types.ADCInstance{
				{
					ID:         "adc3",
					Resolution: 10,
					Channels:   []types.ADCChannel{{Channel: 5, Sampling: "61.5", Differential: true}},
					Regular: &types.ADCRegular{
						Trigger: "TIM3_TRGO", Edge: "rising",
						Ranks: []uint8{5, 5, 5, 5}, Discontinuous: 2,
					},
					Enable: true,
				},
			},
		},
	},
}

// F301Single is the one-converter part: software-started scans on ADC1.
var F301Single = types.ADCConfig{
	Chip: "stm32f301x8",
	Domains: []types.ADCDomain{
		{
			ID:    "adc1",
			Clock: "sync_div4",
			Instances: []types.ADCInstance{
				{
					ID:       "adc1",
					Channels: []types.ADCChannel{{Channel: 1, Sampling: "7.5"}, {Channel: 2, Sampling: "7.5"}},
					Regular:  &types.ADCRegular{Ranks: []uint8{1, 2}, Continuous: true, Overrun: "overwrite"},
					Enable:   true,
				},
			},
		},
	},
}
