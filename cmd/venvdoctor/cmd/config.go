package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/venvtools/venvdoctor/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
		Long: `Inspect the configuration venvdoctor would check against.

The project configuration file (.venvdoctor.yaml) is discovered by
walking up from the current directory. Fields not present keep their
defaults: interpreter python3, library torch with
torch.utils.tensorboard.`,
		Example: `  # Show effective configuration
  venvdoctor config show

  # Print the discovered config file path
  venvdoctor config path`,
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}

			cfg, path, err := config.LoadOrDefault(wd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if path != "" {
				cmd.Printf("# source: %s\n", path)
			} else {
				cmd.Println("# source: built-in defaults")
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			cmd.Print(string(data))
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the discovered config file path",
		RunE: func(cmd *cobra.Command, _ []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}

			path := config.Discover(wd)
			if path == "" {
				cmd.Println("no config file found (using built-in defaults)")
				return nil
			}
			cmd.Println(path)
			return nil
		},
	}
}
