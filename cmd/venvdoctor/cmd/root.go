// Package cmd provides the CLI commands for venvdoctor.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/venvtools/venvdoctor/internal/logging"
	"github.com/venvtools/venvdoctor/pkg/version"
)

// NewRootCmd creates the root command for the venvdoctor CLI.
func NewRootCmd() *cobra.Command {
	var debugMode bool

	cmd := &cobra.Command{
		Use:   "venvdoctor",
		Short: "Verify a Python development environment",
		Long: `venvdoctor verifies that a Python development environment is ready:

  - the interpreter's major version matches the required kind
  - the interpreter runs inside an isolated virtual environment
  - every required library imports and reports a version

Checks run in a fixed order and stop at the first unmet condition.

Just run 'venvdoctor' in your project directory to check it.`,
		Version:      version.Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// If help was explicitly requested, show it
			if len(args) > 0 {
				return cmd.Help()
			}
			return runCheck(cmd, checkOptions{})
		},
	}

	// Set version template
	cmd.SetVersionTemplate("venvdoctor version {{.Version}}\n")

	// Debug logging flag
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to stderr")

	cmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		if debugMode {
			logging.SetupDefault("debug")
		} else {
			logging.SetupDefault("info")
		}
	}

	// Add subcommands
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
