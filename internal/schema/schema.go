// Package schema defines the HCL block structure of dataset definition
// files. These structs are decode targets only; the validated,
// format-agnostic representation lives in the config package.
package schema

import "github.com/hashicorp/hcl/v2"

// Document represents the top-level structure of a definition file. One
// file may declare any number of datasets.
type Document struct {
	Datasets []*Dataset `hcl:"dataset,block"`
	Body     hcl.Body   `hcl:",remain"`
}

// Dataset represents a `dataset "<Name>"` block.
type Dataset struct {
	Name       string      `hcl:"name,label"`
	LongName   string      `hcl:"long_name,optional"`
	Experiment *Experiment `hcl:"experiment,block"`
	Gaze       *Gaze       `hcl:"gaze,block"`
	Files      []*Files    `hcl:"files,block"`
}

// Experiment represents the `experiment` block: screen geometry, viewer
// distance, coordinate origin, and sampling rate.
type Experiment struct {
	ScreenWidthPx  int     `hcl:"screen_width_px"`
	ScreenHeightPx int     `hcl:"screen_height_px"`
	ScreenWidthCm  float64 `hcl:"screen_width_cm"`
	ScreenHeightCm float64 `hcl:"screen_height_cm"`
	DistanceCm     float64 `hcl:"distance_cm"`
	Origin         string  `hcl:"origin"`
	SamplingRate   float64 `hcl:"sampling_rate"`
}

// Gaze represents the `gaze` block describing the recorded sample columns.
type Gaze struct {
	TimeColumn   string   `hcl:"time_column,optional"`
	TimeUnit     string   `hcl:"time_unit,optional"`
	PixelColumns []string `hcl:"pixel_columns,optional"`
}

// Files represents a `files "<category>"` block for one file category.
type Files struct {
	Category        string           `hcl:"category,label"`
	Present         *bool            `hcl:"present,optional"`
	Extract         bool             `hcl:"extract,optional"`
	FilenameFormat  string           `hcl:"filename_format,optional"`
	SchemaOverrides *SchemaOverrides `hcl:"schema_overrides,block"`
	ReadOptions     *ReadOptions     `hcl:"read_options,block"`
	Resources       []*Resource      `hcl:"resource,block"`
}

// SchemaOverrides holds the raw body of a `schema_overrides` block. Each
// attribute names a filename placeholder and its value is a scalar kind
// keyword expression.
type SchemaOverrides struct {
	Body hcl.Body `hcl:",remain"`
}

// ReadOptions holds the raw body of a `read_options` block. Each attribute
// is a literal value passed through to an external tabular reader.
type ReadOptions struct {
	Body hcl.Body `hcl:",remain"`
}

// Resource represents a `resource` block: one downloadable archive.
type Resource struct {
	URL      string `hcl:"url"`
	Filename string `hcl:"filename"`
	MD5      string `hcl:"md5"`
}
