package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gazeset/internal/config"
	"github.com/vk/gazeset/internal/scalar"
	"github.com/zclconf/go-cty/cty"
)

const toyDefinition = `
dataset "ToyDataset" {
  long_name = "Toy eye-tracking dataset"

  experiment {
    screen_width_px  = 1280
    screen_height_px = 1024
    screen_width_cm  = 38
    screen_height_cm = 30.2
    distance_cm      = 68
    origin           = "upper left"
    sampling_rate    = 1000
  }

  gaze {
    time_column   = "timestamp"
    time_unit     = "ms"
    pixel_columns = ["x", "y"]
  }

  files "gaze" {
    extract         = true
    filename_format = "trial_{text_id:d}_{page_id:d}.csv"

    schema_overrides {
      text_id = int64
      page_id = int64
    }

    read_options {
      separator = ","
      has_header = true
    }

    resource {
      url      = "https://example.com/toy.zip"
      filename = "toy.zip"
      md5      = "4da622457997b2be90e8b1f1b4fc9972"
    }
  }

  files "precomputed_events" {
    present = false
  }
}
`

// ctyComparer makes cty values comparable for go-cmp.
var ctyComparer = cmp.Comparer(func(a, b cty.Value) bool {
	return a.RawEquals(b)
})

func TestLoadSource(t *testing.T) {
	loader := NewLoader()
	model, err := loader.LoadSource(context.Background(), "toy.hcl", []byte(toyDefinition))
	require.NoError(t, err)
	require.Len(t, model.Datasets, 1)

	def, ok := model.Datasets["ToyDataset"]
	require.True(t, ok)

	assert.Equal(t, "ToyDataset", def.Name)
	assert.Equal(t, "Toy eye-tracking dataset", def.LongName)

	assert.Equal(t, map[string]bool{
		config.CategoryGaze:              true,
		config.CategoryPrecomputedEvents: false,
	}, def.HasFiles)

	require.NotNil(t, def.Experiment)
	assert.Equal(t, 1280, def.Experiment.ScreenWidthPx)
	assert.Equal(t, 1024, def.Experiment.ScreenHeightPx)
	assert.Equal(t, 38.0, def.Experiment.ScreenWidthCm)
	assert.Equal(t, 30.2, def.Experiment.ScreenHeightCm)
	assert.Equal(t, 68.0, def.Experiment.DistanceCm)
	assert.Equal(t, config.OriginUpperLeft, def.Experiment.Origin)
	assert.Equal(t, 1000.0, def.Experiment.SamplingRate)

	assert.Equal(t, "timestamp", def.TimeColumn)
	assert.Equal(t, config.TimeUnitMs, def.TimeUnit)
	assert.Equal(t, []string{"x", "y"}, def.PixelColumns)

	assert.Equal(t, "trial_{text_id:d}_{page_id:d}.csv", def.FilenameFormat[config.CategoryGaze])
	assert.Equal(t, map[string]scalar.Kind{
		"text_id": scalar.Int64,
		"page_id": scalar.Int64,
	}, def.SchemaOverrides[config.CategoryGaze])

	require.Len(t, def.Resources[config.CategoryGaze], 1)
	res := def.Resources[config.CategoryGaze][0]
	assert.Equal(t, "https://example.com/toy.zip", res.URL)
	assert.Equal(t, "toy.zip", res.Filename)
	assert.Equal(t, "4da622457997b2be90e8b1f1b4fc9972", res.MD5)
	assert.True(t, def.Extract[config.CategoryGaze])

	options := def.ReadOptions[config.CategoryGaze]
	require.NotNil(t, options)
	assert.True(t, cty.StringVal(",").RawEquals(options["separator"]))
	assert.True(t, cty.True.RawEquals(options["has_header"]))
}

func TestLoadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "toy.hcl"), []byte(toyDefinition), 0o644))

	loader := NewLoader()
	model, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)
	require.Contains(t, model.Datasets, "ToyDataset")
}

func TestLoadIsIdempotent(t *testing.T) {
	loader := NewLoader()

	first, err := loader.LoadSource(context.Background(), "toy.hcl", []byte(toyDefinition))
	require.NoError(t, err)
	second, err := loader.LoadSource(context.Background(), "toy.hcl", []byte(toyDefinition))
	require.NoError(t, err)

	if diff := cmp.Diff(first.Datasets, second.Datasets, ctyComparer); diff != "" {
		t.Fatalf("resolved definitions differ between loads (-first +second):\n%s", diff)
	}
}

func TestLoadDuplicateDataset(t *testing.T) {
	loader := NewLoader()
	_, err := loader.LoadSource(context.Background(), "dup.hcl", []byte(toyDefinition+toyDefinition))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate dataset")
}

func TestLoadRejectsBadOrigin(t *testing.T) {
	src := []byte(`
dataset "BadOrigin" {
  experiment {
    screen_width_px  = 1280
    screen_height_px = 1024
    screen_width_cm  = 38
    screen_height_cm = 30.2
    distance_cm      = 68
    origin           = "top"
    sampling_rate    = 1000
  }
}
`)
	loader := NewLoader()
	_, err := loader.LoadSource(context.Background(), "bad.hcl", src)
	require.Error(t, err)

	var schemaErr *config.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "experiment.origin", schemaErr.Field)
}

func TestLoadRejectsUnknownOverrideKind(t *testing.T) {
	src := []byte(`
dataset "BadKind" {
  experiment {
    screen_width_px  = 1280
    screen_height_px = 1024
    screen_width_cm  = 38
    screen_height_cm = 30.2
    distance_cm      = 68
    origin           = "center"
    sampling_rate    = 1000
  }

  files "gaze" {
    filename_format = "sub_{subject_id}.csv"
    schema_overrides {
      subject_id = decimal
    }
  }
}
`)
	loader := NewLoader()
	_, err := loader.LoadSource(context.Background(), "bad.hcl", src)
	require.Error(t, err)

	var schemaErr *config.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Msg, "unknown scalar kind")
}

func TestLoadRejectsMalformedHCL(t *testing.T) {
	loader := NewLoader()
	_, err := loader.LoadSource(context.Background(), "broken.hcl", []byte(`dataset "X" {`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}
