// Package hcl implements the config.Loader interface for dataset
// definitions written in HCL. It parses definition files, decodes them
// against the schema package, and translates the result into the
// format-agnostic config model.
package hcl
