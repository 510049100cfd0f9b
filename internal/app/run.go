package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vk/gazeset/internal/checksum"
	"github.com/vk/gazeset/internal/config"
	"github.com/vk/gazeset/internal/ctxlog"
	"github.com/vk/gazeset/internal/registry"
	"github.com/vk/gazeset/internal/scan"
	"github.com/zclconf/go-cty/cty"
)

// Run executes the configured command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.config.Command)

	// Every command except validate works against the populated registry.
	if a.config.Command != CommandValidate && a.config.DefinitionsPath != "" {
		model, err := a.loadDefinitions(ctx, a.config.DefinitionsPath)
		if err != nil {
			return fmt.Errorf("failed to load definitions: %w", err)
		}
		if err := a.registry.RegisterModel(ctx, model); err != nil {
			return fmt.Errorf("failed to register definitions: %w", err)
		}
	}

	switch a.config.Command {
	case CommandList:
		return a.runList()
	case CommandShow:
		return a.runShow()
	case CommandValidate:
		return a.runValidate(ctx)
	case CommandScan:
		return a.runScan(ctx)
	case CommandVerify:
		return a.runVerify(ctx)
	default:
		return fmt.Errorf("unknown command %q", a.config.Command)
	}
}

func (a *App) runList() error {
	for _, name := range a.registry.Names() {
		fmt.Fprintln(a.outW, name)
	}
	return nil
}

// definitionView is the JSON projection of a definition for `show`. The
// override kinds are rendered as their keywords.
type definitionView struct {
	*config.DatasetDefinition
	SchemaOverrides map[string]map[string]string `json:"filename_format_schema_overrides,omitempty"`
}

func (a *App) runShow() error {
	ds, ok := a.registry.Lookup(a.config.Dataset)
	if !ok {
		return fmt.Errorf("unknown dataset %q", a.config.Dataset)
	}

	overrides := make(map[string]map[string]string, len(ds.Def.SchemaOverrides))
	for category, kinds := range ds.Def.SchemaOverrides {
		rendered := make(map[string]string, len(kinds))
		for name, kind := range kinds {
			rendered[name] = kind.String()
		}
		overrides[category] = rendered
	}

	enc := json.NewEncoder(a.outW)
	enc.SetIndent("", "  ")
	return enc.Encode(definitionView{
		DatasetDefinition: ds.Def,
		SchemaOverrides:   overrides,
	})
}

func (a *App) runValidate(ctx context.Context) error {
	model, err := a.loadDefinitions(ctx, a.config.DefinitionsPath)
	if err != nil {
		return err
	}
	if len(model.Datasets) == 0 {
		return fmt.Errorf("no definitions found under %s", a.config.DefinitionsPath)
	}

	// Loading already validated each definition; registering additionally
	// compiles every filename pattern.
	staging := registry.New()
	if err := staging.RegisterModel(ctx, model); err != nil {
		return err
	}

	fmt.Fprintf(a.outW, "%d definition(s) valid\n", len(model.Datasets))
	return nil
}

func (a *App) runScan(ctx context.Context) error {
	ds, ok := a.registry.Lookup(a.config.Dataset)
	if !ok {
		return fmt.Errorf("unknown dataset %q", a.config.Dataset)
	}

	scanner := &scan.Scanner{Workers: a.config.WorkerCount, Strict: a.config.Strict}
	records, summary, err := scanner.Scan(ctx, ds, a.config.DataDir)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(a.outW)
	for _, record := range records {
		fields := make(map[string]any, len(record.Fields))
		for name, val := range record.Fields {
			fields[name] = renderCty(val)
		}
		if err := enc.Encode(map[string]any{
			"path":     record.Path,
			"category": record.Category,
			"fields":   fields,
		}); err != nil {
			return err
		}
	}

	a.logger.Info("Scan finished.", "matched", summary.Matched, "skipped", summary.Skipped)
	return nil
}

func (a *App) runVerify(ctx context.Context) error {
	ds, ok := a.registry.Lookup(a.config.Dataset)
	if !ok {
		return fmt.Errorf("unknown dataset %q", a.config.Dataset)
	}

	reports, err := checksum.Verify(ctx, ds.Def, a.config.DataDir)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(a.outW)
	failed := 0
	for _, report := range reports {
		if report.Status != checksum.StatusOK {
			failed++
		}
		if err := enc.Encode(report); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d resource(s) failed verification", failed, len(reports))
	}
	a.logger.Info("All resources verified.", "count", len(reports))
	return nil
}

// renderCty converts an extracted field value into its JSON-friendly Go
// representation.
func renderCty(val cty.Value) any {
	switch {
	case val.Type().Equals(cty.String):
		return val.AsString()
	case val.Type().Equals(cty.Bool):
		return val.True()
	case val.Type().Equals(cty.Number):
		f, _ := val.AsBigFloat().Float64()
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	default:
		return val.GoString()
	}
}
