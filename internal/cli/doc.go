// Package cli parses command-line arguments into an app.Config and owns
// the user-facing usage text and exit codes.
package cli
