// Package failure defines the error taxonomy shared by the poll cycle.
//
// Every component returns a *Error tagged with a Kind so the controller can
// switch on the kind instead of matching message text. The underlying cause
// (if any) stays reachable through errors.Unwrap for diagnostics.
package failure

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure.
type Kind int

const (
	// KindUnknown is returned by KindOf for nil or untagged errors.
	KindUnknown Kind = iota
	// KindConfiguration: a required secret is missing. Fatal.
	KindConfiguration
	// KindSourceUnavailable: transport failure, non-success status or unparseable body.
	KindSourceUnavailable
	// KindSchema: payload does not have the expected shape.
	KindSchema
	// KindEmptySequence: records field present but empty.
	KindEmptySequence
	// KindUnknownStatus: status value outside the known set.
	KindUnknownStatus
	// KindNotificationDelivery: the notifier call failed.
	KindNotificationDelivery
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration_error"
	case KindSourceUnavailable:
		return "source_unavailable"
	case KindSchema:
		return "schema_error"
	case KindEmptySequence:
		return "empty_sequence"
	case KindUnknownStatus:
		return "unknown_status"
	case KindNotificationDelivery:
		return "notification_delivery_error"
	default:
		return "unknown"
	}
}

// Fatal reports whether a failure of this kind must stop the process.
func (k Kind) Fatal() bool { return k == KindConfiguration }

// Error is a classified failure.
//
// Detail is a short machine-friendly reason (e.g. "missing_records",
// "http_status"). Value carries the offending raw value when there is one
// (unknown status string, HTTP status code, missing secret names).
type Error struct {
	Kind   Kind
	Op     string
	Detail string
	Value  any
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Detail != "" {
		b.WriteString(" (")
		b.WriteString(e.Detail)
		b.WriteString(")")
	}
	if e.Value != nil {
		fmt.Fprintf(&b, " value=%v", e.Value)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// New returns a classified error without an underlying cause.
func New(kind Kind, op, detail string) *Error {
	return &Error{Kind: kind, Op: op, Detail: detail}
}

// Wrap classifies err. A nil err still yields a non-nil *Error.
func Wrap(kind Kind, op, detail string, err error) *Error {
	return &Error{Kind: kind, Op: op, Detail: detail, Err: err}
}

// WithValue attaches the offending value and returns e for chaining.
func (e *Error) WithValue(v any) *Error {
	e.Value = v
	return e
}

// KindOf extracts the Kind of err, looking through wrapping.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// DetailOf returns the Detail of the outermost *Error in err's chain.
func DetailOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Detail
	}
	return ""
}
