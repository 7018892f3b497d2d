package stm32adc

// TriggerSource is the closed set of conversion start sources across the
// supported parts. TriggerSoftware is the zero value.
type TriggerSource uint8

const (
	TriggerSoftware TriggerSource = iota
	TIM1_CH1
	TIM1_CH2
	TIM1_CH3
	TIM1_CH4
	TIM1_TRGO
	TIM1_TRGO2
	TIM2_CH1
	TIM2_CH2
	TIM2_CH3
	TIM2_TRGO
	TIM3_CH1
	TIM3_CH3
	TIM3_CH4
	TIM3_TRGO
	TIM4_CH1
	TIM4_CH3
	TIM4_CH4
	TIM4_TRGO
	TIM6_TRGO
	TIM7_TRGO
	TIM8_CH1
	TIM8_CH2
	TIM8_CH4
	TIM8_TRGO
	TIM8_TRGO2
	TIM15_TRGO
	EXTI2
	EXTI11
	EXTI15
	triggerCount
)

var triggerNames = [triggerCount]string{
	"software",
	"TIM1_CH1", "TIM1_CH2", "TIM1_CH3", "TIM1_CH4", "TIM1_TRGO", "TIM1_TRGO2",
	"TIM2_CH1", "TIM2_CH2", "TIM2_CH3", "TIM2_TRGO",
	"TIM3_CH1", "TIM3_CH3", "TIM3_CH4", "TIM3_TRGO",
	"TIM4_CH1", "TIM4_CH3", "TIM4_CH4", "TIM4_TRGO",
	"TIM6_TRGO", "TIM7_TRGO",
	"TIM8_CH1", "TIM8_CH2", "TIM8_CH4", "TIM8_TRGO", "TIM8_TRGO2",
	"TIM15_TRGO",
	"EXTI2", "EXTI11", "EXTI15",
}

func (t TriggerSource) String() string {
	if t < triggerCount {
		return triggerNames[t]
	}
	return "trigger?"
}

// ParseTrigger maps a name such as "TIM1_TRGO" or "software" to a source.
func ParseTrigger(s string) (TriggerSource, bool) {
	if s == "" {
		return TriggerSoftware, true
	}
	for i, n := range triggerNames {
		if n == s {
			return TriggerSource(i), true
		}
	}
	return 0, false
}

// Edge selects the active edge of an external trigger.
type Edge uint8

const (
	EdgeRising Edge = iota
	EdgeFalling
	EdgeBoth
)

// exten is the EXTEN/JEXTEN encoding; 0 means software start.
func (e Edge) exten() uint32 { return uint32(e) + 1 }

type group uint8

const (
	groupRegular group = iota
	groupInjected
)

const noTrigger = TriggerSoftware

// Multiplexer tables, indexed by EXTSEL/JEXTSEL code.
var (
	regularLower = [16]TriggerSource{
		TIM1_CH1, TIM1_CH2, TIM1_CH3, TIM2_CH2, TIM3_TRGO, TIM4_CH4, EXTI11, TIM8_TRGO,
		TIM8_TRGO2, TIM1_TRGO, TIM1_TRGO2, TIM2_TRGO, TIM4_TRGO, TIM6_TRGO, TIM15_TRGO, TIM3_CH4,
	}
	regularUpper = [16]TriggerSource{
		TIM3_CH1, TIM2_CH3, TIM1_CH3, TIM8_CH1, TIM8_TRGO, EXTI2, TIM4_CH1, TIM2_TRGO,
		TIM8_TRGO2, TIM1_TRGO, TIM1_TRGO2, TIM3_TRGO, TIM4_TRGO, TIM7_TRGO, TIM15_TRGO, TIM2_CH1,
	}
	injectedLower = [16]TriggerSource{
		TIM1_TRGO, TIM1_CH4, TIM2_TRGO, TIM2_CH1, TIM3_CH4, TIM4_TRGO, EXTI15, TIM8_CH4,
		TIM1_TRGO2, TIM8_TRGO, TIM8_TRGO2, TIM3_CH3, TIM3_TRGO, TIM3_CH1, TIM6_TRGO, TIM15_TRGO,
	}
	injectedUpper = [16]TriggerSource{
		TIM1_TRGO, TIM1_CH4, TIM4_CH3, TIM8_CH2, TIM8_CH4, TIM4_CH4, TIM4_TRGO, TIM1_TRGO2,
		TIM8_TRGO, TIM8_TRGO2, TIM1_CH3, TIM3_TRGO, TIM2_TRGO, TIM7_TRGO, TIM15_TRGO, noTrigger,
	}
)

// Sources wired on the smallest part; its timer set lacks TIM2..4 and TIM8.
var (
	f301Regular  = []TriggerSource{TIM1_CH1, TIM1_CH2, TIM1_CH3, EXTI11, TIM1_TRGO, TIM1_TRGO2, TIM2_TRGO, TIM6_TRGO, TIM15_TRGO}
	f301Injected = []TriggerSource{TIM1_TRGO, TIM1_CH4, EXTI15, TIM1_TRGO2, TIM6_TRGO, TIM15_TRGO}
)

func (v ChipVariant) allows(g group, t TriggerSource) bool {
	switch v {
	case F303xC:
		return true
	case F303x8:
		return !(g == groupRegular && t == TIM8_TRGO2)
	case F301x8:
		set := f301Regular
		if g == groupInjected {
			set = f301Injected
		}
		for _, s := range set {
			if s == t {
				return true
			}
		}
	}
	return false
}

// triggerCode returns the multiplexer code of t for instance id. Software
// start has no code and is reported as not found.
func (v ChipVariant) triggerCode(g group, id InstanceID, t TriggerSource) (uint32, bool) {
	if t == TriggerSoftware || t >= triggerCount || !v.allows(g, t) {
		return 0, false
	}
	var table *[16]TriggerSource
	switch {
	case g == groupRegular && !id.upper():
		table = &regularLower
	case g == groupRegular:
		table = &regularUpper
	case !id.upper():
		table = &injectedLower
	default:
		table = &injectedUpper
	}
	for code, s := range table {
		if s == t {
			return uint32(code), true
		}
	}
	return 0, false
}

// RegularTriggerSupported reports whether t can start regular conversions on id.
func (v ChipVariant) RegularTriggerSupported(id InstanceID, t TriggerSource) bool {
	if t == TriggerSoftware {
		return true
	}
	_, ok := v.triggerCode(groupRegular, id, t)
	return ok
}

// InjectedTriggerSupported reports whether t can start injected conversions on id.
func (v ChipVariant) InjectedTriggerSupported(id InstanceID, t TriggerSource) bool {
	if t == TriggerSoftware {
		return true
	}
	_, ok := v.triggerCode(groupInjected, id, t)
	return ok
}
