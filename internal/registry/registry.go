package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/gazeset/internal/config"
	"github.com/vk/gazeset/internal/ctxlog"
	"github.com/vk/gazeset/internal/pattern"
	"github.com/zclconf/go-cty/cty"
)

// Dataset is a registered definition together with its compiled filename
// matchers, cached per file category. It is immutable after registration.
type Dataset struct {
	Def      *config.DatasetDefinition
	matchers map[string]*pattern.Matcher
}

// Registry holds all registered datasets for a single application instance.
type Registry struct {
	datasets map[string]*Dataset
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{datasets: make(map[string]*Dataset)}
}

// Register validates a definition, compiles a matcher for every declared
// filename format, and stores the dataset under its name. Duplicate names
// are rejected.
func (r *Registry) Register(ctx context.Context, def *config.DatasetDefinition) error {
	logger := ctxlog.FromContext(ctx)

	if err := config.Validate(def); err != nil {
		return err
	}
	if _, exists := r.datasets[def.Name]; exists {
		return fmt.Errorf("dataset %q is already registered", def.Name)
	}

	matchers := make(map[string]*pattern.Matcher, len(def.FilenameFormat))
	for category, format := range def.FilenameFormat {
		matcher, err := pattern.Compile(format, def.SchemaOverrides[category])
		if err != nil {
			return fmt.Errorf("dataset %q, category %q: %w", def.Name, category, err)
		}
		matchers[category] = matcher
	}

	r.datasets[def.Name] = &Dataset{Def: def, matchers: matchers}
	logger.Debug("Dataset registered.", "dataset", def.Name, "matchers", len(matchers))
	return nil
}

// RegisterModel registers every dataset in a loaded model.
func (r *Registry) RegisterModel(ctx context.Context, model *config.Model) error {
	// Deterministic order so the first error is stable.
	names := make([]string, 0, len(model.Datasets))
	for name := range model.Datasets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := r.Register(ctx, model.Datasets[name]); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the dataset registered under name.
func (r *Registry) Lookup(name string) (*Dataset, bool) {
	ds, ok := r.datasets[name]
	return ds, ok
}

// Names returns all registered dataset names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.datasets))
	for name := range r.datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Matcher returns the compiled matcher for a file category, if the
// dataset declares a filename format for it.
func (d *Dataset) Matcher(category string) (*pattern.Matcher, bool) {
	m, ok := d.matchers[category]
	return m, ok
}

// Match extracts typed metadata from filename using the matcher of the
// given category.
func (d *Dataset) Match(category, filename string) (map[string]cty.Value, error) {
	m, ok := d.matchers[category]
	if !ok {
		return nil, fmt.Errorf("dataset %q declares no filename format for category %q", d.Def.Name, category)
	}
	return m.Match(filename)
}

// MatchAny tries every category with files present, in the fixed category
// order, and returns the first match. It returns pattern.ErrNoMatch when
// no category matches.
func (d *Dataset) MatchAny(filename string) (string, map[string]cty.Value, error) {
	for _, category := range config.Categories() {
		if !d.Def.HasFiles[category] {
			continue
		}
		m, ok := d.matchers[category]
		if !ok {
			continue
		}
		values, err := m.Match(filename)
		if err == nil {
			return category, values, nil
		}
		if _, isCast := err.(*pattern.CastError); isCast {
			// The filename conforms to this category's pattern but carries
			// an unparseable field value. Surface that instead of trying
			// weaker categories.
			return category, nil, err
		}
	}
	return "", nil, fmt.Errorf("%q: %w", filename, pattern.ErrNoMatch)
}
