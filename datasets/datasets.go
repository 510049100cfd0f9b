// Package datasets ships the built-in dataset definitions embedded in the
// binary. Each .hcl file in this directory declares one published
// eye-tracking dataset; user-supplied definition paths extend or shadow
// nothing here, they are simply registered alongside.
package datasets

import (
	"context"
	"embed"
	"fmt"
	"sort"

	"github.com/vk/gazeset/internal/config"
	"github.com/vk/gazeset/internal/hcl"
)

//go:embed *.hcl
var builtin embed.FS

// Builtin parses every embedded definition file into a single model.
func Builtin(ctx context.Context) (*config.Model, error) {
	entries, err := builtin.ReadDir(".")
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	loader := hcl.NewLoader()
	model := config.NewModel()

	for _, name := range names {
		src, err := builtin.ReadFile(name)
		if err != nil {
			return nil, err
		}
		fileModel, err := loader.LoadSource(ctx, name, src)
		if err != nil {
			return nil, fmt.Errorf("embedded definition %s: %w", name, err)
		}
		for dsName, def := range fileModel.Datasets {
			if _, exists := model.Datasets[dsName]; exists {
				return nil, fmt.Errorf("embedded definition %s: duplicate dataset %q", name, dsName)
			}
			model.Datasets[dsName] = def
		}
	}
	return model, nil
}
