// Package jsonx decodes bus payloads into typed values.
package jsonx

import (
	"encoding/json"

	"adcctl-go/errcode"
)

// Decode accepts raw JSON ([]byte, json.RawMessage or string), a T or *T
// as published in-process, or any value that marshals to the shape of T,
// such as a map[string]any.
func Decode[T any](src any, dst *T) error {
	var b []byte
	switch v := src.(type) {
	case *T:
		if v == nil {
			return errcode.New(errcode.InvalidPayload, "decode", "nil payload")
		}
		*dst = *v
		return nil
	case T:
		*dst = v
		return nil
	case []byte:
		b = v
	case json.RawMessage:
		b = v
	case string:
		b = []byte(v)
	default:
		var err error
		if b, err = json.Marshal(v); err != nil {
			return &errcode.E{C: errcode.InvalidPayload, Op: "decode", Err: err}
		}
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return &errcode.E{C: errcode.InvalidPayload, Op: "decode", Err: err}
	}
	return nil
}
