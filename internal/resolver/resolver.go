package resolver

import (
	"math"
	"strconv"
	"strings"

	"github.com/dkrasnov/envguard/internal/schema"
)

// Resolver turns a declaration spec plus a raw value source into a
// normalized, type-checked configuration. Construct instances with New; each
// caller or test owns its own Resolver instead of sharing process state.
type Resolver struct {
	source Source
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSource injects the lookup source. A nil source is ignored and the
// process environment stays in effect.
func WithSource(source Source) Option {
	return func(r *Resolver) {
		if source != nil {
			r.source = source
		}
	}
}

// New creates a Resolver reading from the process environment unless
// overridden via WithSource.
func New(opts ...Option) *Resolver {
	r := &Resolver{source: OSEnv{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetSource replaces the lookup source. Passing nil restores the process
// environment.
func (r *Resolver) SetSource(source Source) {
	if source == nil {
		source = OSEnv{}
	}
	r.source = source
}

// Load resolves every declaration in spec against the current source, in
// declaration order. The first violation aborts the whole call; no partial
// result is ever returned. Declarations whose name is empty after trimming
// are skipped silently rather than treated as errors.
func (r *Resolver) Load(spec *schema.Spec) (Resolved, error) {
	if spec == nil {
		return nil, invalidSpec("spec must not be nil")
	}
	if spec.Global == nil {
		return nil, invalidSpec("global must be a list of declarations")
	}

	resolved := make(Resolved, len(spec.Global))
	for _, entry := range spec.Global {
		name := entry.NormalizedName()
		if name == "" {
			continue
		}

		value := r.rawValue(name)
		if value == "" {
			if def, ok := entry.DefaultString(); ok {
				value = def
			}
		}
		if value == "" {
			if entry.Required {
				return nil, &Error{Kind: KindMissingRequired, Name: name}
			}
			// Optional and empty: no coercion is attempted.
			resolved[name] = stringValue("")
			continue
		}

		coerced, err := coerce(entry, name, value)
		if err != nil {
			return nil, err
		}
		resolved[name] = coerced
	}

	return resolved, nil
}

func (r *Resolver) rawValue(name string) string {
	raw, ok := r.source.Lookup(name)
	if !ok {
		return ""
	}
	return strings.TrimSpace(raw)
}

func coerce(entry schema.EntrySpec, name, value string) (Value, error) {
	switch entry.Type {
	case schema.TypeInt:
		return coerceInt(entry, name, value)
	case schema.TypeEnum:
		return coerceEnum(entry, name, value)
	default:
		return stringValue(value), nil
	}
}

func coerceInt(entry schema.EntrySpec, name, value string) (Value, error) {
	parsed, ok := parseInteger(value)
	if !ok {
		return Value{}, &Error{Kind: KindNotAnInteger, Name: name}
	}
	if entry.Min != nil && float64(parsed) < *entry.Min {
		return Value{}, &Error{Kind: KindBelowMin, Name: name, Limit: *entry.Min}
	}
	if entry.Max != nil && float64(parsed) > *entry.Max {
		return Value{}, &Error{Kind: KindAboveMax, Name: name, Limit: *entry.Max}
	}
	return intValue(parsed), nil
}

// parseInteger accepts base-10 integers plus float notations that denote a
// finite whole number, e.g. "8080", "42.0" and "1e3".
func parseInteger(s string) (int64, bool) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// coerceEnum matches case-insensitively and resolves to the canonical casing
// declared in Allowed. The first matching option wins; duplicate
// case-insensitive entries in Allowed are tolerated.
func coerceEnum(entry schema.EntrySpec, name, value string) (Value, error) {
	for _, option := range entry.Allowed {
		if strings.EqualFold(option, value) {
			return stringValue(option), nil
		}
	}
	return Value{}, &Error{
		Kind:    KindEnumMismatch,
		Name:    name,
		Allowed: append([]string(nil), entry.Allowed...),
	}
}
