// Package resolver implements the fail-fast environment configuration core.
// A Resolver reads raw string values through a Source (the process
// environment by default, any map for tests), applies the declarations of a
// schema.Spec entry by entry — default substitution, required-value
// enforcement, integer and enum coercion — and returns either a fully
// resolved configuration or a typed Error describing the first violation.
// There is no partial success: callers either get every declared value or
// none.
package resolver
