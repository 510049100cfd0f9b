package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/gazeset/datasets"
	"github.com/vk/gazeset/internal/config"
	"github.com/vk/gazeset/internal/ctxlog"
	"github.com/vk/gazeset/internal/hcl"
	"github.com/vk/gazeset/internal/registry"
	"github.com/vk/gazeset/internal/yaml"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App with the built-in dataset definitions registered,
// including its own isolated logger and registry.
func NewApp(outW, logW io.Writer, appConfig *Config) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()

	if !appConfig.SkipBuiltin {
		builtin, err := datasets.Builtin(ctx)
		if err != nil {
			// The embedded definitions ship with the binary; failing to
			// resolve them is a programmer error.
			panic(fmt.Errorf("failed to load built-in definitions: %w", err))
		}
		if err := reg.RegisterModel(ctx, builtin); err != nil {
			panic(fmt.Errorf("failed to register built-in definitions: %w", err))
		}
		logger.Debug("Built-in definitions registered.", "count", len(builtin.Datasets))
	}

	return &App{
		outW:     outW,
		logger:   logger,
		config:   appConfig,
		registry: reg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// loadDefinitions reads user-supplied definition files of every supported
// format from path into a single model.
func (a *App) loadDefinitions(ctx context.Context, path string) (*config.Model, error) {
	merged := config.NewModel()

	loaders := []config.Loader{hcl.NewLoader(), yaml.NewLoader()}
	for _, loader := range loaders {
		model, err := loader.Load(ctx, path)
		if err != nil {
			return nil, err
		}
		for name, def := range model.Datasets {
			if _, exists := merged.Datasets[name]; exists {
				return nil, fmt.Errorf("duplicate dataset %q across definition files", name)
			}
			merged.Datasets[name] = def
		}
	}
	return merged, nil
}
