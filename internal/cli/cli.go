package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/gazeset/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated
// app.Config, a boolean indicating if the program should exit cleanly, or
// an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("gazeset", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
gazeset - resolver for declarative eye-tracking dataset definitions.

Usage:
  gazeset [options] COMMAND [args]

Commands:
  list                 Print every registered dataset name.
  show NAME            Print the resolved definition of a dataset as JSON.
  validate PATH        Load and validate definition files under PATH.
  scan NAME DIR        Match files under DIR against NAME's filename patterns.
  verify NAME DIR      Check declared resource archives under DIR against
                       their md5 checksums.

Options:
`)
		flagSet.PrintDefaults()
	}

	definitionsFlag := flagSet.String("definitions", "", "Path to extra definition files or a directory of them.")
	dFlag := flagSet.String("d", "", "Path to extra definition files (shorthand).")
	skipBuiltinFlag := flagSet.Bool("no-builtin", false, "Do not register the built-in dataset definitions.")
	strictFlag := flagSet.Bool("strict", false, "Abort a scan on the first file that matches no pattern.")
	workersFlag := flagSet.Int("workers", 4, "Number of concurrent workers for scanning.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No command provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	definitionsPath := *definitionsFlag
	if definitionsPath == "" {
		definitionsPath = *dFlag
	}

	command := flagSet.Arg(0)
	cfg := app.Config{
		Command:         command,
		DefinitionsPath: definitionsPath,
		SkipBuiltin:     *skipBuiltinFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		WorkerCount:     *workersFlag,
		Strict:          *strictFlag,
	}

	switch command {
	case app.CommandShow:
		cfg.Dataset = flagSet.Arg(1)
	case app.CommandValidate:
		// The positional path wins over the -d flag.
		if flagSet.Arg(1) != "" {
			cfg.DefinitionsPath = flagSet.Arg(1)
		}
	case app.CommandScan, app.CommandVerify:
		cfg.Dataset = flagSet.Arg(1)
		cfg.DataDir = flagSet.Arg(2)
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "command", config.Command)
	return config, false, nil
}
