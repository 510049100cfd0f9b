package datasets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gazeset/internal/config"
	"github.com/vk/gazeset/internal/registry"
)

func TestBuiltinDefinitionsResolve(t *testing.T) {
	model, err := Builtin(context.Background())
	require.NoError(t, err)

	for _, name := range []string{"ToyDataset", "InteRead", "SBSAT"} {
		assert.Contains(t, model.Datasets, name)
	}
}

func TestBuiltinDefinitionsRegister(t *testing.T) {
	ctx := context.Background()
	model, err := Builtin(ctx)
	require.NoError(t, err)

	r := registry.New()
	require.NoError(t, r.RegisterModel(ctx, model))

	ds, ok := r.Lookup("InteRead")
	require.True(t, ok)

	values, err := ds.Match(config.CategoryGaze, "reader7_T3_raw_data.tsv")
	require.NoError(t, err)
	assert.Contains(t, values, "subject_id")
	assert.Contains(t, values, "text_id")
}
