package config

import (
	"errors"
	"fmt"
)

// Validate performs a strict structural check of a dataset definition.
// It is pure: no I/O, no mutation, no silent defaults. Every violation is
// reported as a SchemaError; multiple violations are joined.
func Validate(def *DatasetDefinition) error {
	var errs []error

	fail := func(field, format string, args ...any) {
		errs = append(errs, &SchemaError{
			Dataset: def.Name,
			Field:   field,
			Msg:     fmt.Sprintf(format, args...),
		})
	}

	if def.Name == "" {
		fail("name", "must not be empty")
	}

	for category := range def.HasFiles {
		if !IsCategory(category) {
			fail("has_files", "unknown file category %q", category)
		}
	}

	checkCategoryKeys := func(field string, keys []string) {
		for _, category := range keys {
			if !IsCategory(category) {
				fail(field, "unknown file category %q", category)
			} else if _, ok := def.HasFiles[category]; !ok {
				fail(field, "category %q has no has_files entry", category)
			}
		}
	}
	checkCategoryKeys("filename_format", mapKeys(def.FilenameFormat))
	checkCategoryKeys("filename_format_schema_overrides", mapKeys(def.SchemaOverrides))
	checkCategoryKeys("resources", mapKeys(def.Resources))
	checkCategoryKeys("extract", mapKeys(def.Extract))
	checkCategoryKeys("custom_read_kwargs", mapKeys(def.ReadOptions))

	// Every declared filename format needs an override entry, even if the
	// override map itself is empty.
	for category := range def.FilenameFormat {
		if _, ok := def.SchemaOverrides[category]; !ok {
			fail("filename_format_schema_overrides", "category %q has no entry", category)
		}
	}

	for category, resources := range def.Resources {
		for i, res := range resources {
			field := fmt.Sprintf("resources.%s[%d]", category, i)
			if res.URL == "" {
				fail(field, "url must not be empty")
			}
			if res.Filename == "" {
				fail(field, "filename must not be empty")
			}
			if res.MD5 == "" {
				fail(field, "md5 must not be empty")
			}
		}
	}

	if def.Experiment == nil {
		fail("experiment", "block is required")
	} else {
		exp := def.Experiment
		checkPositive := func(field string, v float64) {
			if v <= 0 {
				fail(field, "must be positive, got %v", v)
			}
		}
		checkPositive("experiment.screen_width_px", float64(exp.ScreenWidthPx))
		checkPositive("experiment.screen_height_px", float64(exp.ScreenHeightPx))
		checkPositive("experiment.screen_width_cm", exp.ScreenWidthCm)
		checkPositive("experiment.screen_height_cm", exp.ScreenHeightCm)
		checkPositive("experiment.distance_cm", exp.DistanceCm)
		checkPositive("experiment.sampling_rate", exp.SamplingRate)
		if !exp.Origin.IsValid() {
			fail("experiment.origin", "%q is not one of the recognized origins", exp.Origin)
		}
	}

	if def.TimeUnit != "" {
		switch def.TimeUnit {
		case TimeUnitMs, TimeUnitS, TimeUnitUs, TimeUnitStep:
		default:
			fail("time_unit", "%q is not a recognized time unit", def.TimeUnit)
		}
	}

	return errors.Join(errs...)
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
