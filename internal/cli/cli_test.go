package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gazeset/internal/app"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name       string
		args       []string
		shouldExit bool
		expectErr  bool
		expected   *app.Config
	}{
		{
			name:       "no arguments prints usage",
			args:       []string{},
			shouldExit: true,
		},
		{
			name: "list command",
			args: []string{"list"},
			expected: &app.Config{
				Command:     app.CommandList,
				LogFormat:   "text",
				LogLevel:    "info",
				WorkerCount: 4,
			},
		},
		{
			name: "show with dataset name",
			args: []string{"show", "InteRead"},
			expected: &app.Config{
				Command:     app.CommandShow,
				Dataset:     "InteRead",
				LogFormat:   "text",
				LogLevel:    "info",
				WorkerCount: 4,
			},
		},
		{
			name: "scan with options",
			args: []string{"--strict", "--workers", "8", "--log-level", "debug", "scan", "SBSAT", "/data/sbsat"},
			expected: &app.Config{
				Command:     app.CommandScan,
				Dataset:     "SBSAT",
				DataDir:     "/data/sbsat",
				LogFormat:   "text",
				LogLevel:    "debug",
				WorkerCount: 8,
				Strict:      true,
			},
		},
		{
			name: "validate with positional path",
			args: []string{"validate", "./defs"},
			expected: &app.Config{
				Command:         app.CommandValidate,
				DefinitionsPath: "./defs",
				LogFormat:       "text",
				LogLevel:        "info",
				WorkerCount:     4,
			},
		},
		{
			name: "definitions shorthand flag",
			args: []string{"-d", "./defs", "--no-builtin", "list"},
			expected: &app.Config{
				Command:         app.CommandList,
				DefinitionsPath: "./defs",
				SkipBuiltin:     true,
				LogFormat:       "text",
				LogLevel:        "info",
				WorkerCount:     4,
			},
		},
		{
			name:      "show without dataset name",
			args:      []string{"show"},
			expectErr: true,
		},
		{
			name:      "scan without data directory",
			args:      []string{"scan", "SBSAT"},
			expectErr: true,
		},
		{
			name:      "validate without path",
			args:      []string{"validate"},
			expectErr: true,
		},
		{
			name:      "unknown command",
			args:      []string{"frobnicate"},
			expectErr: true,
		},
		{
			name:      "invalid log level",
			args:      []string{"--log-level", "verbose", "list"},
			expectErr: true,
		},
		{
			name:      "invalid log format",
			args:      []string{"--log-format", "xml", "list"},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			config, shouldExit, err := Parse(tc.args, out)

			if tc.expectErr {
				require.Error(t, err)
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, 2, exitErr.Code)
				return
			}
			require.NoError(t, err)

			if tc.shouldExit {
				assert.True(t, shouldExit)
				assert.Contains(t, out.String(), "Usage:")
				return
			}
			require.False(t, shouldExit)
			assert.Equal(t, tc.expected, config)
		})
	}
}
