package stm32adc

// InstanceID names one physical converter.
type InstanceID uint8

const (
	ADC1 InstanceID = iota + 1
	ADC2
	ADC3
	ADC4
)

func (id InstanceID) String() string {
	switch id {
	case ADC1:
		return "adc1"
	case ADC2:
		return "adc2"
	case ADC3:
		return "adc3"
	case ADC4:
		return "adc4"
	default:
		return "adc?"
	}
}

// upper reports whether the instance sits on the ADC3/4 side, which has its
// own trigger multiplexer.
func (id InstanceID) upper() bool { return id == ADC3 || id == ADC4 }

// DomainID names a common domain: one clock, one reset line, one CCR.
type DomainID uint8

const (
	DomainADC1 DomainID = iota + 1
	DomainADC12
	DomainADC34
)

func (d DomainID) String() string {
	switch d {
	case DomainADC1:
		return "adc1"
	case DomainADC12:
		return "adc12"
	case DomainADC34:
		return "adc34"
	default:
		return "adc??"
	}
}

// ChipVariant selects the instance set, the domain map and the allowed
// trigger sources.
type ChipVariant uint8

const (
	F303xC ChipVariant = iota + 1 // ADC1..ADC4, two domains, multimode
	F303x8                        // ADC1..ADC2, multimode
	F301x8                        // ADC1 only
)

func (v ChipVariant) String() string {
	switch v {
	case F303xC:
		return "stm32f303xc"
	case F303x8:
		return "stm32f303x8"
	case F301x8:
		return "stm32f301x8"
	default:
		return "unknown"
	}
}

// Domains lists the common domains present on the chip.
func (v ChipVariant) Domains() []DomainID {
	switch v {
	case F303xC:
		return []DomainID{DomainADC12, DomainADC34}
	case F303x8:
		return []DomainID{DomainADC12}
	case F301x8:
		return []DomainID{DomainADC1}
	}
	return nil
}

// Members lists the instances of domain d on this chip.
func (v ChipVariant) Members(d DomainID) []InstanceID {
	switch {
	case v == F303xC && d == DomainADC12, v == F303x8 && d == DomainADC12:
		return []InstanceID{ADC1, ADC2}
	case v == F303xC && d == DomainADC34:
		return []InstanceID{ADC3, ADC4}
	case v == F301x8 && d == DomainADC1:
		return []InstanceID{ADC1}
	}
	return nil
}

// DomainOf returns the domain hosting id, or false when the chip lacks it.
func (v ChipVariant) DomainOf(id InstanceID) (DomainID, bool) {
	for _, d := range v.Domains() {
		for _, m := range v.Members(d) {
			if m == id {
				return d, true
			}
		}
	}
	return 0, false
}

// Multimode reports whether the chip supports dual-ADC modes.
func (v ChipVariant) Multimode() bool { return v == F303xC || v == F303x8 }

// ParseVariant maps a part name to a ChipVariant.
func ParseVariant(s string) (ChipVariant, bool) {
	for _, v := range []ChipVariant{F303xC, F303x8, F301x8} {
		if s == v.String() {
			return v, true
		}
	}
	return 0, false
}

// ParseInstance maps "adc1".."adc4" to an InstanceID.
func ParseInstance(s string) (InstanceID, bool) {
	for _, id := range []InstanceID{ADC1, ADC2, ADC3, ADC4} {
		if s == id.String() {
			return id, true
		}
	}
	return 0, false
}

// ParseDomain maps "adc1", "adc12" or "adc34" to a DomainID.
func ParseDomain(s string) (DomainID, bool) {
	for _, d := range []DomainID{DomainADC1, DomainADC12, DomainADC34} {
		if s == d.String() {
			return d, true
		}
	}
	return 0, false
}
