package errcode

import "errors"

// Code is a stable error identifier shared by the driver and the bus.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Lifecycle outcomes. Callers pick a recovery path from these:
// reconfigure after disabling, poll again, or reset the whole domain.
const (
	OK             Code = "ok"
	InstanceActive Code = "instance_active" // instance must be disabled first
	Timeout        Code = "timeout"         // bounded poll ran out; advisory
	UnknownState   Code = "unknown_state"   // only a domain clock reset recovers
	NotApplicable  Code = "not_applicable"  // no effect, not a failure
)

// Validation and service codes.
const (
	InvalidParams   Code = "invalid_params"
	Unsupported     Code = "unsupported"
	InvalidPayload  Code = "invalid_payload"
	UnknownInstance Code = "unknown_instance"
	UnknownDomain   Code = "unknown_domain"

	Error Code = "error" // generic fallback
)

// E keeps the operation and a short message next to a Code.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is(err, errcode.X) match a wrapped code.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// New wraps c with an operation name and message.
func New(c Code, op, msg string) *E {
	return &E{C: c, Op: op, Msg: msg}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	return Error
}

// Recoverable reports whether the caller can retry without a domain reset.
func Recoverable(err error) bool {
	switch Of(err) {
	case OK, InstanceActive, Timeout, NotApplicable:
		return true
	default:
		return false
	}
}
