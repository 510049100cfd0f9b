// Package yaml implements the config.Loader interface for dataset
// definitions written in YAML, the format used by published dataset
// registry entries. One file holds one or more definition documents.
package yaml

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/vk/gazeset/internal/config"
	"github.com/vk/gazeset/internal/ctxlog"
	"github.com/vk/gazeset/internal/fsutil"
	"github.com/vk/gazeset/internal/scalar"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// Loader is the YAML-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML definition loader.
func NewLoader() *Loader {
	return &Loader{}
}

// document mirrors the on-disk registry entry shape.
type document struct {
	Name       string                 `yaml:"name"`
	LongName   string                 `yaml:"long_name"`
	HasFiles   map[string]bool        `yaml:"has_files"`
	Resources  map[string][]*resource `yaml:"resources"`
	Extract    map[string]bool        `yaml:"extract"`
	Experiment *experiment            `yaml:"experiment"`

	FilenameFormat  map[string]string               `yaml:"filename_format"`
	SchemaOverrides map[string]map[string]yaml.Node `yaml:"filename_format_schema_overrides"`

	TimeColumn   string   `yaml:"time_column"`
	TimeUnit     string   `yaml:"time_unit"`
	PixelColumns []string `yaml:"pixel_columns"`

	ReadKwargs map[string]map[string]yaml.Node `yaml:"custom_read_kwargs"`
}

type resource struct {
	URL      string `yaml:"url"`
	Filename string `yaml:"filename"`
	MD5      string `yaml:"md5"`
}

type experiment struct {
	ScreenWidthPx  int     `yaml:"screen_width_px"`
	ScreenHeightPx int     `yaml:"screen_height_px"`
	ScreenWidthCm  float64 `yaml:"screen_width_cm"`
	ScreenHeightCm float64 `yaml:"screen_height_cm"`
	DistanceCm     float64 `yaml:"distance_cm"`
	Origin         string  `yaml:"origin"`
	SamplingRate   float64 `yaml:"sampling_rate"`
}

// Load reads every .yaml/.yml file under the given paths and merges the
// definitions into a validated model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths))

	var files []string
	for _, ext := range []string{".yaml", ".yml"} {
		found, err := fsutil.FindByExtension(paths, ext)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	sort.Strings(files)
	logger.Debug("Discovered definition files.", "count", len(files))

	model := config.NewModel()
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", file, err)
		}
		if err := l.mergeSource(model, file, src); err != nil {
			return nil, err
		}
	}

	logger.Debug("YAML loading complete.", "datasets", len(model.Datasets))
	return model, nil
}

// LoadSource decodes definition documents from an in-memory source into a
// fresh model.
func (l *Loader) LoadSource(ctx context.Context, filename string, src []byte) (*config.Model, error) {
	model := config.NewModel()
	if err := l.mergeSource(model, filename, src); err != nil {
		return nil, err
	}
	return model, nil
}

func (l *Loader) mergeSource(model *config.Model, filename string, src []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(src))
	decoder.KnownFields(true)

	for {
		var doc document
		err := decoder.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", filename, err)
		}

		def, err := translateDocument(&doc)
		if err != nil {
			return fmt.Errorf("%s: %w", filename, err)
		}
		if err := config.Validate(def); err != nil {
			return fmt.Errorf("%s: %w", filename, err)
		}
		if _, exists := model.Datasets[def.Name]; exists {
			return fmt.Errorf("%s: duplicate dataset %q", filename, def.Name)
		}
		model.Datasets[def.Name] = def
	}
}

// translateDocument converts one decoded YAML document into the agnostic
// model.
func translateDocument(doc *document) (*config.DatasetDefinition, error) {
	def := &config.DatasetDefinition{
		Name:            doc.Name,
		LongName:        doc.LongName,
		HasFiles:        make(map[string]bool),
		Resources:       make(map[string][]*config.Resource),
		Extract:         make(map[string]bool),
		FilenameFormat:  make(map[string]string),
		SchemaOverrides: make(map[string]map[string]scalar.Kind),
		TimeColumn:      doc.TimeColumn,
		TimeUnit:        doc.TimeUnit,
		PixelColumns:    doc.PixelColumns,
		ReadOptions:     make(map[string]map[string]cty.Value),
	}

	for category, present := range doc.HasFiles {
		def.HasFiles[category] = present
	}
	for category, extract := range doc.Extract {
		def.Extract[category] = extract
	}
	for category, format := range doc.FilenameFormat {
		def.FilenameFormat[category] = format
		// The registry convention allows the override entry to be omitted
		// when no placeholder is retyped.
		if _, ok := doc.SchemaOverrides[category]; !ok {
			def.SchemaOverrides[category] = map[string]scalar.Kind{}
		}
	}
	for category, resources := range doc.Resources {
		for _, res := range resources {
			def.Resources[category] = append(def.Resources[category], &config.Resource{
				URL:      res.URL,
				Filename: res.Filename,
				MD5:      res.MD5,
			})
		}
	}

	if doc.Experiment != nil {
		def.Experiment = &config.Experiment{
			ScreenWidthPx:  doc.Experiment.ScreenWidthPx,
			ScreenHeightPx: doc.Experiment.ScreenHeightPx,
			ScreenWidthCm:  doc.Experiment.ScreenWidthCm,
			ScreenHeightCm: doc.Experiment.ScreenHeightCm,
			DistanceCm:     doc.Experiment.DistanceCm,
			Origin:         config.Origin(doc.Experiment.Origin),
			SamplingRate:   doc.Experiment.SamplingRate,
		}
	}

	for category, overrides := range doc.SchemaOverrides {
		kinds := make(map[string]scalar.Kind, len(overrides))
		for name, node := range overrides {
			kind, err := nodeToKind(node)
			if err != nil {
				return nil, &config.SchemaError{
					Dataset: doc.Name,
					Field:   fmt.Sprintf("filename_format_schema_overrides.%s.%s", category, name),
					Msg:     err.Error(),
				}
			}
			kinds[name] = kind
		}
		def.SchemaOverrides[category] = kinds
	}

	for category, kwargs := range doc.ReadKwargs {
		options := make(map[string]cty.Value, len(kwargs))
		for name, node := range kwargs {
			val, err := nodeToCty(&node)
			if err != nil {
				return nil, &config.SchemaError{
					Dataset: doc.Name,
					Field:   fmt.Sprintf("custom_read_kwargs.%s.%s", category, name),
					Msg:     err.Error(),
				}
			}
			options[name] = val
		}
		def.ReadOptions[category] = options
	}

	return def, nil
}

// nodeToKind resolves a schema override node into a scalar kind. Both the
// tagged form (`subject_id: !int64`) and the plain string form
// (`subject_id: int64`) are accepted.
func nodeToKind(node yaml.Node) (scalar.Kind, error) {
	if tag := node.Tag; strings.HasPrefix(tag, "!") && !strings.HasPrefix(tag, "!!") {
		return scalar.ParseKind(strings.TrimPrefix(tag, "!"))
	}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!str" {
		return scalar.ParseKind(node.Value)
	}
	return scalar.String, fmt.Errorf("expected a scalar kind keyword, got node tag %q", node.Tag)
}

// nodeToCty converts a literal YAML node into a cty value. Scalars and
// sequences of scalars are supported; anything deeper has no equivalent in
// reader options.
func nodeToCty(node *yaml.Node) (cty.Value, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!str":
			return cty.StringVal(node.Value), nil
		case "!!int":
			var n int64
			if err := node.Decode(&n); err != nil {
				return cty.NilVal, err
			}
			return cty.NumberIntVal(n), nil
		case "!!float":
			var f float64
			if err := node.Decode(&f); err != nil {
				return cty.NilVal, err
			}
			return cty.NumberFloatVal(f), nil
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return cty.NilVal, err
			}
			return cty.BoolVal(b), nil
		case "!!null":
			return cty.NullVal(cty.DynamicPseudoType), nil
		default:
			return cty.NilVal, fmt.Errorf("unsupported scalar tag %q", node.Tag)
		}
	case yaml.SequenceNode:
		vals := make([]cty.Value, 0, len(node.Content))
		for _, item := range node.Content {
			val, err := nodeToCty(item)
			if err != nil {
				return cty.NilVal, err
			}
			vals = append(vals, val)
		}
		if len(vals) == 0 {
			return cty.EmptyTupleVal, nil
		}
		return cty.TupleVal(vals), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported node kind %d", node.Kind)
	}
}
