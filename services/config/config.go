package config

import (
	"context"

	"adcctl-go/bus"
	"adcctl-go/errcode"

	"github.com/andreyvit/tinyjson"
)

// -----------------------------------------------------------------------------
// String constants (live in flash, not RAM)
// -----------------------------------------------------------------------------

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxBoardKey  = "board" // context key used for the board name
)

// EmbeddedConfigLookup allows overriding how configs are resolved, e.g. from
// a file on the host.
var EmbeddedConfigLookup = func(board string) ([]byte, bool) {
	b, ok := embeddedConfigs[board]
	return b, ok
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// publishConfig splits the board document into one retained message per
// top-level key, on config/<key>. Each service decodes its own section.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	const op = "config"
	board, _ := ctx.Value(CtxBoardKey).(string)
	if board == "" {
		return errcode.New(errcode.InvalidParams, op, "missing board name in context")
	}

	raw, ok := EmbeddedConfigLookup(board)
	if !ok || len(raw) == 0 {
		return errcode.New(errcode.InvalidParams, op, "no embedded config for board: "+board)
	}

	m, err := parseDocument(raw)
	if err != nil {
		return &errcode.E{C: errcode.InvalidPayload, Op: op, Msg: "config is not a JSON object", Err: err}
	}

	for k, v := range m {
		conn.Publish(&bus.Message{
			Topic:    bus.T(configPrefix, k),
			Payload:  v,
			Retained: true,
		})
	}
	return nil
}

// parseDocument turns a tinyjson panic on malformed input into an error.
func parseDocument(raw []byte) (m map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = errcode.New(errcode.InvalidPayload, "config", "malformed document")
			}
		}
	}()

	r := tinyjson.Raw(raw)
	val := r.Value()
	r.EnsureEOF()

	m, ok := val.(map[string]any)
	if !ok {
		return nil, errcode.New(errcode.InvalidPayload, "config", "top level is not an object")
	}
	return m, nil
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.publishConfig(ctx, conn); err != nil {
			println("[config]", err.Error())
		}
	}()
}
