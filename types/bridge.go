package types

// ------------------------
// Register bridge (topic "config/bridge")
// ------------------------

type BridgeConfig struct {
	Transport BridgeTransport `json:"transport"`
}

type BridgeTransport struct {
	Type   string        `json:"type"` // "serial" or a registered transport
	Serial *BridgeSerial `json:"serial,omitempty"`
}

type BridgeSerial struct {
	Port string `json:"port"`           // host device path, e.g. "/dev/ttyACM0"
	Baud int    `json:"baud,omitempty"` // 0 => 115200
}

// BridgeState is retained on "bridge/state".
type BridgeState struct {
	Level  string `json:"level"`  // "idle", "up", "degraded", "error"
	Status string `json:"status"` // short machine string
	Served uint64 `json:"served,omitempty"`
	Error  string `json:"error,omitempty"`
	TS     int64  `json:"ts_ns"`
}

// ------------------------
// Heartbeat (topic "config/heartbeat", "heartbeat")
// ------------------------

type HeartbeatConfig struct {
	IntervalS  int `json:"interval,omitempty"`    // seconds; 0 => 1
	IntervalMS int `json:"interval_ms,omitempty"` // overrides IntervalS
}

type Heartbeat struct {
	Seq    uint64 `json:"seq"`
	Uptime int64  `json:"uptime_s"`
	TS     int64  `json:"ts_ns"`
}
