package jsonx

import (
	"encoding/json"
	"testing"

	"adcctl-go/errcode"
)

type sample struct {
	N    int    `json:"n"`
	Name string `json:"name,omitempty"`
}

func TestDecode(t *testing.T) {
	cases := []struct {
		name string
		src  any
		want sample
	}{
		{"bytes", []byte(`{"n":1}`), sample{N: 1}},
		{"raw", json.RawMessage(`{"n":2,"name":"x"}`), sample{N: 2, Name: "x"}},
		{"string", `{"n":3}`, sample{N: 3}},
		{"value", sample{N: 4}, sample{N: 4}},
		{"pointer", &sample{N: 5}, sample{N: 5}},
		{"map", map[string]any{"n": 6}, sample{N: 6}},
	}
	for _, c := range cases {
		var got sample
		if err := Decode(c.src, &got); err != nil || got != c.want {
			t.Fatalf("%s: got %+v, %v; want %+v", c.name, got, err, c.want)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	var s sample
	for _, src := range []any{`{"n":"x"}`, []byte(`{`), (*sample)(nil), func() {}} {
		if err := Decode(src, &s); errcode.Of(err) != errcode.InvalidPayload {
			t.Fatalf("%T: err = %v", src, err)
		}
	}
}
