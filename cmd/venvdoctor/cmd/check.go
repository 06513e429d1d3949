package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/venvtools/venvdoctor/internal/check"
	"github.com/venvtools/venvdoctor/internal/config"
)

func newCheckCmd() *cobra.Command {
	opts := checkOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the Python environment and diagnose issues",
		Long: `Run the environment checks in fixed order, stopping at the first
unmet condition:

  1. The configured interpreter kind is recognized (python/python3)
  2. A Python interpreter can be located and probed
  3. Its major version matches the required kind
  4. It runs inside an isolated virtual environment
  5. Every required library imports and reports a version

Without a configuration file the defaults check python3, torch, and
torch.utils.tensorboard. Place a .venvdoctor.yaml in the project root
to check a different stack.

Use --verbose for a per-check summary.
Use --json for machine-readable output.`,
		Example: `  # Run checks
  venvdoctor check

  # Probe a specific interpreter
  venvdoctor check --python .venv/bin/python3

  # JSON output for scripting
  venvdoctor check --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show per-check summary and details")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().StringVar(&opts.python, "python", "", "Interpreter executable to probe (default: python3, then python)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Config file to use (default: discovered .venvdoctor.yaml)")

	return cmd
}

type checkOptions struct {
	verbose    bool
	jsonOutput bool
	python     string
	configPath string
}

func runCheck(cmd *cobra.Command, opts checkOptions) error {
	// Signal handling so a hung interpreter probe can be interrupted.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, cfgPath, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	dataDir := ""
	if cfgPath != "" {
		slog.Debug("Using project config", slog.String("path", cfgPath))
		dataDir = check.DataDir(filepath.Dir(cfgPath))
	}

	// JSON mode owns stdout; progress lines are suppressed.
	progress := cmd.OutOrStdout()
	if opts.jsonOutput {
		progress = io.Discard
	}

	// Report the last recorded pass before re-checking.
	if opts.verbose && !opts.jsonOutput && dataDir != "" && !check.NeedsCheck(dataDir) {
		if age := check.MarkerAge(dataDir); age > 0 {
			cmd.Printf("Last successful check: %s ago\n\n", formatAge(age))
		}
	}

	checker := check.New(
		check.WithConfig(cfg),
		check.WithPython(opts.python),
		check.WithVerbose(opts.verbose),
		check.WithOutput(progress),
	)

	results, runErr := checker.RunAll(ctx)

	if opts.jsonOutput {
		if err := outputJSON(cmd, results); err != nil {
			return err
		}
		return runErr
	}

	if opts.verbose {
		_, _ = io.WriteString(cmd.OutOrStdout(), "\n")
		checker.PrintResults(results)
	}

	if runErr != nil {
		// A stale pass record must not outlive a failing environment.
		if dataDir != "" {
			if err := check.ClearMarker(dataDir); err != nil {
				slog.Debug("Failed to clear check marker", slog.String("error", err.Error()))
			}
		}
		return runErr
	}

	// Record the pass when running inside a project (config discovered).
	if dataDir != "" {
		if err := check.MarkPassed(dataDir); err != nil {
			slog.Debug("Failed to record check marker", slog.String("error", err.Error()))
		} else if opts.verbose {
			cmd.Printf("\nRecorded pass in %s\n", dataDir)
		}
	}

	return nil
}

// formatAge renders a marker age in coarse human units.
func formatAge(d time.Duration) string {
	switch {
	case d < time.Hour:
		return "less than 1 hour"
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hour(s)", int(d.Hours()))
	default:
		return fmt.Sprintf("%d day(s)", int(d.Hours()/24))
	}
}

// loadConfig resolves the effective configuration: an explicit file, a
// discovered project file, or the built-in defaults. The configuration
// is validated here so a malformed file surfaces as a config error
// instead of a bogus downstream check failure. The interpreter-kind
// selector is left to the chain, which reports it as its first check.
func loadConfig(explicit string) (*config.Config, string, error) {
	cfg, path, err := resolveConfig(explicit)
	if err != nil {
		return nil, path, err
	}
	if err := cfg.ValidateLibraries(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func resolveConfig(explicit string) (*config.Config, string, error) {
	if explicit != "" {
		cfg, err := config.Load(explicit)
		if err != nil {
			return nil, explicit, err
		}
		return cfg, explicit, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return config.Default(), "", nil
	}
	return config.LoadOrDefault(wd)
}

// JSONOutput is the structure for JSON output.
type JSONOutput struct {
	Status string            `json:"status"`
	Checks []JSONCheckResult `json:"checks"`
	Errors []string          `json:"errors,omitempty"`
}

// JSONCheckResult is a single check result for JSON output.
type JSONCheckResult struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	Required bool   `json:"required"`
	Details  string `json:"details,omitempty"`
}

func outputJSON(cmd *cobra.Command, results []check.CheckResult) error {
	output := JSONOutput{
		Status: check.SummaryStatus(results),
		Checks: make([]JSONCheckResult, len(results)),
	}

	for i, r := range results {
		output.Checks[i] = JSONCheckResult{
			Name:     r.Name,
			Status:   statusToString(r.Status),
			Message:  r.Message,
			Required: r.Required,
			Details:  r.Details,
		}

		if r.IsCritical() {
			output.Errors = append(output.Errors, r.Name+": "+r.Message)
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func statusToString(s check.CheckStatus) string {
	switch s {
	case check.StatusPass:
		return "pass"
	case check.StatusFail:
		return "fail"
	case check.StatusSkip:
		return "skip"
	default:
		return "unknown"
	}
}
