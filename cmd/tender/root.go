package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloudx-io/opentender/config"
	"github.com/cloudx-io/opentender/server"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailed  = 1
	exitInvalid = 2
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "tender",
	Short: "Procurement preference scoring engine",
	Long: `Tender scores and ranks procurement bids under three preference policies:

  - SME preference (price and technical weighting, SME-only eligibility)
  - National product preference (mandatory-list value and national share adjustments)
  - High-value project preference (local content and listed-company bonuses)

Results are reported as localised tables (Arabic by default) and can be
signed as COSE receipts for later audit.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries the process exit code for a command failure.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit code %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// failed reports an unsuccessful outcome that has already been printed.
func failed() error {
	return &exitError{code: exitFailed}
}

// invalid wraps err as an input or runtime error.
func invalid(format string, args ...any) error {
	return &exitError{code: exitInvalid, err: fmt.Errorf(format, args...)}
}

// exitCode maps a command error to a process exit code. Errors that are not
// exitErrors come from cobra itself, such as unknown flags.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitInvalid
}

// Execute runs the root command and exits with the command's exit code.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		var ee *exitError
		if !errors.As(err, &ee) || ee.err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	os.Exit(exitCode(err))
}

// loadConfig loads the configuration named by --config, or the defaults when
// none is given. TENDER_* environment variables apply either way.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, invalid("load configuration: %w", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// newLogger builds the CLI logger. Only warnings are shown unless --verbose.
func newLogger() *zap.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	logger, err := server.NewLogger(config.LogConfig{Level: level, Format: "console"})
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults apply when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
