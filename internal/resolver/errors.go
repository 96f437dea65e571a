package resolver

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a resolution failure.
type ErrorKind string

const (
	// KindInvalidSpec reports a spec that is nil or lacks a declaration list.
	KindInvalidSpec ErrorKind = "invalid_spec"
	// KindMissingRequired reports a required variable that resolved to empty
	// even after default substitution.
	KindMissingRequired ErrorKind = "missing_required"
	// KindNotAnInteger reports an int variable whose value does not denote a
	// finite whole number.
	KindNotAnInteger ErrorKind = "not_an_integer"
	// KindBelowMin and KindAboveMax report an integer outside declared bounds.
	KindBelowMin ErrorKind = "below_min"
	KindAboveMax ErrorKind = "above_max"
	// KindEnumMismatch reports an enum variable matching none of its allowed
	// options.
	KindEnumMismatch ErrorKind = "enum_mismatch"
)

// Error reports the first violation encountered while resolving a spec.
// Name names the offending variable and is empty for spec-shape failures.
// Limit carries the violated bound for KindBelowMin/KindAboveMax; Allowed
// carries the option list for KindEnumMismatch.
type Error struct {
	Kind    ErrorKind
	Name    string
	Limit   float64
	Allowed []string

	reason string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidSpec:
		return fmt.Sprintf("invalid spec: %s", e.reason)
	case KindMissingRequired:
		return fmt.Sprintf("required variable %s is not set", e.Name)
	case KindNotAnInteger:
		return fmt.Sprintf("variable %s must be an integer", e.Name)
	case KindBelowMin:
		return fmt.Sprintf("variable %s must be >= %v", e.Name, e.Limit)
	case KindAboveMax:
		return fmt.Sprintf("variable %s must be <= %v", e.Name, e.Limit)
	case KindEnumMismatch:
		return fmt.Sprintf("variable %s must be one of [%s]", e.Name, strings.Join(e.Allowed, ", "))
	}
	return fmt.Sprintf("variable %s failed validation", e.Name)
}

// KindOf extracts the ErrorKind from err, or the empty string when err does
// not wrap a resolver Error.
func KindOf(err error) ErrorKind {
	var resErr *Error
	if errors.As(err, &resErr) {
		return resErr.Kind
	}
	return ""
}

func invalidSpec(reason string) *Error {
	return &Error{Kind: KindInvalidSpec, reason: reason}
}
