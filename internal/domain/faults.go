package domain

import (
	"errors"
	"fmt"
)

// FaultKind classifies a failure for callers that need to branch on it.
type FaultKind string

const (
	// ConfigurationError covers bad paths and missing manifests.
	ConfigurationError FaultKind = "CONFIGURATION_ERROR"
	// ToolUnavailable means the analyzer binary was not found on PATH.
	ToolUnavailable FaultKind = "TOOL_UNAVAILABLE"
	// ProcessFailure means the analyzer exited nonzero without producing
	// a single parseable diagnostic. Distinct from a clean run.
	ProcessFailure FaultKind = "PROCESS_FAILURE"
	// ParseError marks a malformed analyzer output line. Recovered and
	// counted, never fatal to a run.
	ParseError FaultKind = "PARSE_ERROR"
	// ProtocolError covers malformed request frames and unknown
	// methods or tool names. Always recoverable with a hint.
	ProtocolError FaultKind = "PROTOCOL_ERROR"
	// InternalError is an unexpected fault inside a handler.
	InternalError FaultKind = "INTERNAL_ERROR"
)

// Fault is the error type shared by all core components. Every fault
// carries a short actionable hint in addition to the machine-readable
// kind.
type Fault struct {
	Kind    FaultKind
	Message string
	Hint    string
	cause   error
}

func NewFault(kind FaultKind, message, hint string) *Fault {
	return &Fault{Kind: kind, Message: message, Hint: hint}
}

// WrapFault attaches a cause for unwrapping.
func WrapFault(kind FaultKind, message, hint string, cause error) *Fault {
	return &Fault{Kind: kind, Message: message, Hint: hint, cause: cause}
}

func (f *Fault) Error() string {
	if f.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", f.Kind, f.Message, f.cause)
	}
	return fmt.Sprintf("[%s] %s", f.Kind, f.Message)
}

func (f *Fault) Unwrap() error { return f.cause }

// KindOf returns the fault kind of err, or InternalError when err is not
// a Fault.
func KindOf(err error) FaultKind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return InternalError
}

// HintOf returns the actionable hint attached to err, if any.
func HintOf(err error) string {
	var f *Fault
	if errors.As(err, &f) {
		return f.Hint
	}
	return ""
}
