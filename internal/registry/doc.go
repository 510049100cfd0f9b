// Package registry provides the central store of resolved dataset
// definitions.
//
// The Registry maps dataset names to validated definitions together with
// their compiled filename matchers. Matchers are compiled once at
// registration, so a malformed filename format or schema override is
// rejected up front rather than on first use, and every later match is a
// pure lookup against immutable state.
package registry
