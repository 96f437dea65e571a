// Package config loads the service's runtime configuration from multiple
// sources (YAML files, environment variables, CLI flags) with precedence:
// CLI flags > YAML config > Environment variables > Defaults. Environment
// overrides are read through the resolver core against a built-in
// declaration, so the service applies its own fail-fast validation to itself.
package config
