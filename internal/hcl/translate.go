// This file contains the logic for translating decoded HCL schema structs
// into the format-agnostic model defined in the config package.

package hcl

import (
	"context"
	"fmt"

	"github.com/vk/gazeset/internal/config"
	"github.com/vk/gazeset/internal/scalar"
	"github.com/vk/gazeset/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// translateDataset converts one HCL dataset block into the agnostic model.
func (l *Loader) translateDataset(ctx context.Context, ds *schema.Dataset) (*config.DatasetDefinition, error) {
	def := &config.DatasetDefinition{
		Name:            ds.Name,
		LongName:        ds.LongName,
		HasFiles:        make(map[string]bool),
		Resources:       make(map[string][]*config.Resource),
		Extract:         make(map[string]bool),
		FilenameFormat:  make(map[string]string),
		SchemaOverrides: make(map[string]map[string]scalar.Kind),
		ReadOptions:     make(map[string]map[string]cty.Value),
	}

	if ds.Experiment != nil {
		def.Experiment = &config.Experiment{
			ScreenWidthPx:  ds.Experiment.ScreenWidthPx,
			ScreenHeightPx: ds.Experiment.ScreenHeightPx,
			ScreenWidthCm:  ds.Experiment.ScreenWidthCm,
			ScreenHeightCm: ds.Experiment.ScreenHeightCm,
			DistanceCm:     ds.Experiment.DistanceCm,
			Origin:         config.Origin(ds.Experiment.Origin),
			SamplingRate:   ds.Experiment.SamplingRate,
		}
	}

	if ds.Gaze != nil {
		def.TimeColumn = ds.Gaze.TimeColumn
		def.TimeUnit = ds.Gaze.TimeUnit
		def.PixelColumns = ds.Gaze.PixelColumns
	}

	for _, fg := range ds.Files {
		if _, dup := def.HasFiles[fg.Category]; dup {
			return nil, fmt.Errorf("dataset %q: duplicate files block for category %q", ds.Name, fg.Category)
		}

		// A declared files block means the category is present unless the
		// definition says otherwise.
		present := true
		if fg.Present != nil {
			present = *fg.Present
		}
		def.HasFiles[fg.Category] = present

		if fg.Extract {
			def.Extract[fg.Category] = true
		}

		for _, res := range fg.Resources {
			def.Resources[fg.Category] = append(def.Resources[fg.Category], &config.Resource{
				URL:      res.URL,
				Filename: res.Filename,
				MD5:      res.MD5,
			})
		}

		if fg.FilenameFormat != "" {
			def.FilenameFormat[fg.Category] = fg.FilenameFormat
		}

		// Every category with a filename format gets an override entry,
		// even when the block is absent.
		if fg.FilenameFormat != "" || fg.SchemaOverrides != nil {
			overrides, err := l.translateOverrides(ctx, ds.Name, fg)
			if err != nil {
				return nil, err
			}
			def.SchemaOverrides[fg.Category] = overrides
		}

		if fg.ReadOptions != nil {
			options, err := l.translateReadOptions(ds.Name, fg)
			if err != nil {
				return nil, err
			}
			def.ReadOptions[fg.Category] = options
		}
	}

	return def, nil
}

// translateOverrides decodes a schema_overrides block into placeholder
// kind assignments.
func (l *Loader) translateOverrides(ctx context.Context, datasetName string, fg *schema.Files) (map[string]scalar.Kind, error) {
	overrides := make(map[string]scalar.Kind)
	if fg.SchemaOverrides == nil || fg.SchemaOverrides.Body == nil {
		return overrides, nil
	}

	attrs, diags := fg.SchemaOverrides.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("dataset %q, files %q: %w", datasetName, fg.Category, diags)
	}

	for name, attr := range attrs {
		kind, err := kindExprToScalarKind(ctx, attr.Expr)
		if err != nil {
			return nil, &config.SchemaError{
				Dataset: datasetName,
				Field:   fmt.Sprintf("files.%s.schema_overrides.%s", fg.Category, name),
				Msg:     err.Error(),
			}
		}
		overrides[name] = kind
	}
	return overrides, nil
}

// translateReadOptions evaluates a read_options block into literal values
// for an external tabular reader. Only constant expressions are allowed.
func (l *Loader) translateReadOptions(datasetName string, fg *schema.Files) (map[string]cty.Value, error) {
	options := make(map[string]cty.Value)
	if fg.ReadOptions == nil || fg.ReadOptions.Body == nil {
		return options, nil
	}

	attrs, diags := fg.ReadOptions.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("dataset %q, files %q: %w", datasetName, fg.Category, diags)
	}

	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, &config.SchemaError{
				Dataset: datasetName,
				Field:   fmt.Sprintf("files.%s.read_options.%s", fg.Category, name),
				Msg:     diags.Error(),
			}
		}
		options[name] = val
	}
	return options, nil
}
