package hcl

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/gazeset/internal/config"
	"github.com/vk/gazeset/internal/ctxlog"
	"github.com/vk/gazeset/internal/fsutil"
	"github.com/vk/gazeset/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL definition loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every .hcl file under the given paths, decodes the dataset
// blocks, and merges them into a validated model. Duplicate dataset names
// across files are an error.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindByExtension(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	logger.Debug("Discovered definition files.", "count", len(files))

	model := config.NewModel()
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %w", file, diags)
		}
		if err := l.mergeBody(ctx, model, file, hclFile); err != nil {
			return nil, err
		}
	}

	logger.Debug("HCL loading complete.", "datasets", len(model.Datasets))
	return model, nil
}

// LoadSource decodes dataset blocks from an in-memory definition source,
// such as the embedded built-in datasets, into a fresh model.
func (l *Loader) LoadSource(ctx context.Context, filename string, src []byte) (*config.Model, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, diags)
	}

	model := config.NewModel()
	if err := l.mergeBody(ctx, model, filename, hclFile); err != nil {
		return nil, err
	}
	return model, nil
}

// mergeBody decodes one parsed file and merges its datasets into model.
func (l *Loader) mergeBody(ctx context.Context, model *config.Model, filename string, file *hcl.File) error {
	var doc schema.Document
	diags := gohcl.DecodeBody(file.Body, nil, &doc)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode %s: %w", filename, diags)
	}

	for _, ds := range doc.Datasets {
		def, err := l.translateDataset(ctx, ds)
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
	return nil
}
