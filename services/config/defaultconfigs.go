package config

import (
	"encoding/json"

	"adcctl-go/services/adc/setups"
	"adcctl-go/types"
)

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: board name (same value placed in ctx under CtxBoardKey)
// Val: raw JSON document, one top-level key per service
// -----------------------------------------------------------------------------

// cfgBridgeTarget serves simulated converters to a remote controller over a
// serial port and runs no local plan.
const cfgBridgeTarget = `{
  "bridge": {
      "transport": {"type": "serial", "serial": {"port": "/dev/ttyACM0", "baud": 115200}}
  },
  "heartbeat": {
      "interval": 5
  }
}`

var embeddedConfigs = map[string][]byte{
	"f303-dual":     document(setups.F303Dual),
	"f301-single":   document(setups.F301Single),
	"bridge-target": []byte(cfgBridgeTarget),
}

// document wraps an ADC plan with the default heartbeat.
func document(plan types.ADCConfig) []byte {
	b, err := json.Marshal(map[string]any{
		"adc":       plan,
		"heartbeat": types.HeartbeatConfig{IntervalS: 2},
	})
	if err != nil {
		panic(err)
	}
	return b
}

// Boards lists the embedded board names.
func Boards() []string {
	names := make([]string, 0, len(embeddedConfigs))
	for k := range embeddedConfigs {
		names = append(names, k)
	}
	return names
}
