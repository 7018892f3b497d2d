package types

// ------------------------
// ADC configuration (topic "config/adc")
// ------------------------

// ADCConfig is the full plan for the converters of one chip.
type ADCConfig struct {
	Chip          string      `json:"chip"`                     // "stm32f303xc", "stm32f303x8", "stm32f301x8"
	TimeoutCycles uint32      `json:"timeout_cycles,omitempty"` // SafeDisable budget; 0 => driver default
	Domains       []ADCDomain `json:"domains"`
}

type ADCDomain struct {
	ID               string        `json:"id"`                           // "adc1", "adc12", "adc34"
	Clock            string        `json:"clock,omitempty"`              // "async", "sync_div1", "sync_div2", "sync_div4"
	Multimode        string        `json:"multimode,omitempty"`          // "independent", "dual_reg_simult", ...
	MultiDMA         string        `json:"multi_dma,omitempty"`          // "each_adc", "limited_12_10", ...
	TwoSamplingDelay uint8         `json:"two_sampling_delay,omitempty"` // 1..12 ADC cycles
	Instances        []ADCInstance `json:"instances"`
}

type ADCInstance struct {
	ID         string       `json:"id"`                   // "adc1".."adc4"
	Resolution int          `json:"resolution,omitempty"` // 12, 10, 8, 6; 0 => 12
	Align      string       `json:"align,omitempty"`      // "right", "left"
	LowPower   string       `json:"low_power,omitempty"`  // "none", "autowait"
	Channels   []ADCChannel `json:"channels,omitempty"`
	Regular    *ADCRegular  `json:"regular,omitempty"`
	Injected   *ADCInjected `json:"injected,omitempty"`
	Enable     bool         `json:"enable,omitempty"` // enable once configured
}

type ADCChannel struct {
	Channel      uint8  `json:"channel"`            // 1..18
	Sampling     string `json:"sampling,omitempty"` // "1.5", "2.5", ... "601.5" ADC cycles
	Differential bool   `json:"differential,omitempty"`
}

type ADCRegular struct {
	Trigger       string  `json:"trigger,omitempty"` // "software" or e.g. "TIM1_TRGO"
	Edge          string  `json:"edge,omitempty"`    // "rising", "falling", "both"
	Ranks         []uint8 `json:"ranks"`
	Discontinuous uint8   `json:"discontinuous,omitempty"`
	Continuous    bool    `json:"continuous,omitempty"`
	DMA           string  `json:"dma,omitempty"`     // "none", "limited", "unlimited"
	Overrun       string  `json:"overrun,omitempty"` // "overwrite", "preserve"
}

type ADCInjected struct {
	Trigger       string  `json:"trigger,omitempty"`
	Edge          string  `json:"edge,omitempty"`
	Ranks         []uint8 `json:"ranks"`
	Discontinuous uint8   `json:"discontinuous,omitempty"` // 0 or 1
	Auto          bool    `json:"auto,omitempty"`          // convert after the regular group
}

// ------------------------
// ADC control (topic "adc/<id>/control/<verb>")
// ------------------------

type ADCDisable struct {
	TimeoutCycles uint32 `json:"timeout_cycles,omitempty"` // 0 => configured budget
}

type ADCAck struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"` // errcode string
	State string `json:"state,omitempty"` // instance state after the verb
}

// ------------------------
// ADC state (retained)
// ------------------------

type ADCInstanceState struct {
	ID                string `json:"id"`
	Domain            string `json:"domain"`
	State             string `json:"state"` // "disabled", "enabling", "enabled", "stopping", "disabling", "unknown"
	Enabled           bool   `json:"enabled"`
	DisableInProgress bool   `json:"disable_in_progress,omitempty"`
	Error             string `json:"error,omitempty"`
	TS                int64  `json:"ts_ns"`
}

type ADCServiceState struct {
	Level     string `json:"level"` // "idle", "configured", "error"
	Chip      string `json:"chip,omitempty"`
	Instances int    `json:"instances"`
	Error     string `json:"error,omitempty"`
	TS        int64  `json:"ts_ns"`
}
