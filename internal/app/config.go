package app

import (
	"errors"
	"fmt"
)

// Commands understood by App.Run.
const (
	CommandList     = "list"
	CommandShow     = "show"
	CommandValidate = "validate"
	CommandScan     = "scan"
	CommandVerify   = "verify"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command string
	Dataset string // show, scan, verify
	DataDir string // scan, verify

	DefinitionsPath string // extra .hcl/.yaml definition files
	SkipBuiltin     bool   // register only user-supplied definitions

	LogFormat   string
	LogLevel    string
	WorkerCount int
	Strict      bool
}

// NewConfig validates the per-command argument requirements.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case CommandList:
	case CommandValidate:
		if cfg.DefinitionsPath == "" {
			return nil, errors.New("validate requires a definitions path")
		}
	case CommandShow:
		if cfg.Dataset == "" {
			return nil, errors.New("show requires a dataset name")
		}
	case CommandScan, CommandVerify:
		if cfg.Dataset == "" {
			return nil, fmt.Errorf("%s requires a dataset name", cfg.Command)
		}
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("%s requires a data directory", cfg.Command)
		}
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}

	return &cfg, nil
}
