package config

import (
	"github.com/vk/gazeset/internal/scalar"
	"github.com/zclconf/go-cty/cty"
)

// The closed set of file categories a dataset may declare.
const (
	CategoryGaze                       = "gaze"
	CategoryPrecomputedEvents          = "precomputed_events"
	CategoryPrecomputedReadingMeasures = "precomputed_reading_measures"
)

// Categories returns the closed category set in declaration order.
func Categories() []string {
	return []string{
		CategoryGaze,
		CategoryPrecomputedEvents,
		CategoryPrecomputedReadingMeasures,
	}
}

// IsCategory reports whether name belongs to the closed category set.
func IsCategory(name string) bool {
	switch name {
	case CategoryGaze, CategoryPrecomputedEvents, CategoryPrecomputedReadingMeasures:
		return true
	}
	return false
}

// Origin designates the screen corner used as the pixel-coordinate
// reference point.
type Origin string

const (
	OriginUpperLeft  Origin = "upper left"
	OriginLowerLeft  Origin = "lower left"
	OriginUpperRight Origin = "upper right"
	OriginLowerRight Origin = "lower right"
	OriginCenter     Origin = "center"
)

// IsValid reports whether the origin belongs to the closed enumeration.
func (o Origin) IsValid() bool {
	switch o {
	case OriginUpperLeft, OriginLowerLeft, OriginUpperRight, OriginLowerRight, OriginCenter:
		return true
	}
	return false
}

// Recognized time units for the recording's time column.
const (
	TimeUnitMs   = "ms"
	TimeUnitS    = "s"
	TimeUnitUs   = "us"
	TimeUnitStep = "step"
)

// Experiment holds the recording geometry and rate of a dataset.
type Experiment struct {
	ScreenWidthPx  int     `json:"screen_width_px"`
	ScreenHeightPx int     `json:"screen_height_px"`
	ScreenWidthCm  float64 `json:"screen_width_cm"`
	ScreenHeightCm float64 `json:"screen_height_cm"`
	DistanceCm     float64 `json:"distance_cm"`
	Origin         Origin  `json:"origin"`
	SamplingRate   float64 `json:"sampling_rate"`
}

// Resource is one downloadable archive of a file category. Fetching and
// extraction are the responsibility of an external collaborator; this
// model only carries the declaration.
type Resource struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	MD5      string `json:"md5"`
}

// DatasetDefinition is the format-agnostic representation of one dataset.
// It is constructed once by a Loader and immutable thereafter. All maps
// are keyed by file category.
type DatasetDefinition struct {
	Name     string `json:"name"`
	LongName string `json:"long_name,omitempty"`

	HasFiles  map[string]bool        `json:"has_files"`
	Resources map[string][]*Resource `json:"resources,omitempty"`
	Extract   map[string]bool        `json:"extract,omitempty"`

	Experiment *Experiment `json:"experiment"`

	FilenameFormat  map[string]string                 `json:"filename_format"`
	SchemaOverrides map[string]map[string]scalar.Kind `json:"-"`

	TimeColumn   string   `json:"time_column,omitempty"`
	TimeUnit     string   `json:"time_unit,omitempty"`
	PixelColumns []string `json:"pixel_columns,omitempty"`

	ReadOptions map[string]map[string]cty.Value `json:"-"`
}

// Model is the unified representation of every dataset definition loaded
// from one or more declarative sources.
type Model struct {
	Datasets map[string]*DatasetDefinition
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{Datasets: make(map[string]*DatasetDefinition)}
}
