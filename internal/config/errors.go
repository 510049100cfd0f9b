package config

import "fmt"

// SchemaError reports a missing or malformed field in a dataset definition.
type SchemaError struct {
	Dataset string
	Field   string
	Msg     string
}

func (e *SchemaError) Error() string {
	if e.Dataset == "" {
		return fmt.Sprintf("definition field %q: %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("dataset %q: field %q: %s", e.Dataset, e.Field, e.Msg)
}
