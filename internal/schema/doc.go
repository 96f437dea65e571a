// Package schema defines the declaration model for environment variable
// specs: which variables exist, how their raw values are typed, and which
// constraints apply. Declarations are authored in YAML files or submitted as
// JSON through the API; the resolver package consumes them unchanged.
package schema
