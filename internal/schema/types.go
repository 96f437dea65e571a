package schema

import (
	"fmt"
	"strings"
)

// EntryType identifies how a declared variable's raw value is coerced.
type EntryType string

const (
	// TypeString leaves the resolved value as-is. It is the behaviour when a
	// declaration names no type at all.
	TypeString EntryType = "string"
	// TypeInt coerces the value to an integer, with optional bounds.
	TypeInt EntryType = "int"
	// TypeEnum matches the value case-insensitively against an allowed set.
	TypeEnum EntryType = "enum"
)

// EntrySpec declares a single configuration variable: its lookup name, how
// its raw value is coerced, and the constraints enforced during resolution.
// Min and Max apply only to int entries; Allowed only to enum entries.
type EntrySpec struct {
	Name     string    `yaml:"name" json:"name"`
	Type     EntryType `yaml:"type,omitempty" json:"type,omitempty"`
	Default  any       `yaml:"default,omitempty" json:"default,omitempty"`
	Required bool      `yaml:"required,omitempty" json:"required,omitempty"`
	Min      *float64  `yaml:"min,omitempty" json:"min,omitempty"`
	Max      *float64  `yaml:"max,omitempty" json:"max,omitempty"`
	Allowed  []string  `yaml:"allowed,omitempty" json:"allowed,omitempty"`
}

// NormalizedName returns the trimmed lookup key for the entry. An empty
// result marks the declaration as unusable; such entries contribute nothing
// to a resolved configuration.
func (e EntrySpec) NormalizedName() string {
	return strings.TrimSpace(e.Name)
}

// DefaultString returns the trimmed string form of the declared default and
// whether a default is present at all. YAML scalars of any kind (numbers,
// booleans) are stringified.
func (e EntrySpec) DefaultString() (string, bool) {
	if e.Default == nil {
		return "", false
	}
	return strings.TrimSpace(fmt.Sprint(e.Default)), true
}

// Spec is an ordered list of variable declarations under the global key.
type Spec struct {
	Global []EntrySpec `yaml:"global" json:"global"`
}

// Clone returns a deep copy of the spec. Allowed lists and bound pointers
// are duplicated so callers cannot alias stored state.
func (s *Spec) Clone() *Spec {
	if s == nil {
		return nil
	}
	out := &Spec{}
	if s.Global != nil {
		out.Global = make([]EntrySpec, len(s.Global))
		for i, entry := range s.Global {
			out.Global[i] = entry.clone()
		}
	}
	return out
}

func (e EntrySpec) clone() EntrySpec {
	if e.Allowed != nil {
		e.Allowed = append([]string(nil), e.Allowed...)
	}
	if e.Min != nil {
		min := *e.Min
		e.Min = &min
	}
	if e.Max != nil {
		max := *e.Max
		e.Max = &max
	}
	return e
}
