package resolver

import "os"

// Source supplies raw string values for variable lookups. The resolver only
// ever reads through a Source; implementations are never mutated by it.
type Source interface {
	Lookup(name string) (string, bool)
}

// OSEnv reads from the process environment. It is the source a Resolver
// starts with unless another one is injected.
type OSEnv struct{}

// Lookup returns the environment variable value and whether it is set.
func (OSEnv) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// MapSource serves lookups from a plain map. It backs test isolation and
// resolution of caller-supplied value snapshots.
type MapSource map[string]string

// Lookup returns the mapped value and whether the key is present.
func (m MapSource) Lookup(name string) (string, bool) {
	value, ok := m[name]
	return value, ok
}
