// Package config defines the format-agnostic model for dataset definitions,
// the Loader interface for reading them from declarative sources, and the
// pure validation that turns raw input into a trusted DatasetDefinition.
//
// The `config.Model` is the single source of truth for the `registry` and
// `scan` packages. Concrete Loader implementations, such as for HCL and
// YAML, are provided in separate packages.
package config
