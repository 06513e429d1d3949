// Package config defines the venvdoctor configuration: which interpreter
// kind the project requires and which libraries must be importable.
//
// Without a config file the defaults reproduce the classic ML project
// check: python3, torch, and torch.utils.tensorboard.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/venvtools/venvdoctor/internal/errors"
	"github.com/venvtools/venvdoctor/internal/pyenv"
)

// ConfigFileName is the project configuration file discovered by walking
// up from the working directory.
const ConfigFileName = ".venvdoctor.yaml"

// Library describes one importable dependency to verify.
type Library struct {
	// Name is the distribution name, e.g. "torch" or "scikit-learn".
	Name string `yaml:"name"`

	// Module overrides the import name when it differs from Name.
	// Empty means derive it (scikit-learn -> sklearn, etc.).
	Module string `yaml:"module,omitempty"`

	// Imports lists extra from-imports to verify after the library
	// itself loads. Each entry is "module" or "module:name", e.g.
	// "torch.utils.tensorboard:SummaryWriter".
	Imports []string `yaml:"imports,omitempty"`
}

// ImportName returns the module name used in "import <module>".
func (l Library) ImportName() string {
	if l.Module != "" {
		return l.Module
	}
	return pyenv.ModuleName(l.Name)
}

// Config is the complete venvdoctor configuration.
type Config struct {
	// Interpreter selects the required interpreter kind: "python3"
	// (major version 3) or "python" (major version 2).
	Interpreter string `yaml:"interpreter"`

	// Python optionally pins the interpreter executable to probe.
	// Empty means python3 then python on PATH.
	Python string `yaml:"python,omitempty"`

	// Libraries are the importable dependencies to verify, in order.
	Libraries []Library `yaml:"libraries"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Interpreter: "python3",
		Libraries: []Library{
			{
				Name:    "torch",
				Imports: []string{"torch.utils.tensorboard:SummaryWriter"},
			},
		},
	}
}

// RequiredMajor maps the interpreter kind selector to the required
// major version. An unrecognized selector is a configuration-validity
// failure, raised before any version comparison happens.
func (c *Config) RequiredMajor() (int, error) {
	switch c.Interpreter {
	case "python":
		return 2, nil
	case "python3":
		return 3, nil
	default:
		return 0, errors.ConfigurationError(
			fmt.Sprintf("Unrecognized python interpreter: %s", c.Interpreter), nil)
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if _, err := c.RequiredMajor(); err != nil {
		return err
	}
	return c.ValidateLibraries()
}

// ValidateLibraries checks the library entries only. The check chain
// uses this so the interpreter-kind selector is still reported by its
// own check rather than rejected up front.
func (c *Config) ValidateLibraries() error {
	for i, lib := range c.Libraries {
		if strings.TrimSpace(lib.Name) == "" {
			return errors.New(errors.ErrCodeConfigInvalid,
				fmt.Sprintf("libraries[%d]: name must not be empty", i), nil)
		}
	}
	return nil
}

// Load reads and parses a configuration file. Fields not present keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("read config %s: %v", path, err), err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("parse config %s: %v", path, err), err)
	}

	return cfg, nil
}

// Discover walks up from startDir looking for a project config file.
// Returns the file path, or empty string if none exists up to the
// filesystem root.
func Discover(startDir string) string {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}

	currentDir := absDir
	for {
		candidate := filepath.Join(currentDir, ConfigFileName)
		if fileExists(candidate) {
			return candidate
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// LoadOrDefault loads the discovered project config, or returns the
// defaults when no config file exists. The returned path is empty when
// defaults are in effect.
func LoadOrDefault(startDir string) (*Config, string, error) {
	path := Discover(startDir)
	if path == "" {
		return Default(), "", nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// ParseImport splits an Imports entry of the form "module" or
// "module:name" into its parts.
func ParseImport(entry string) (module, name string) {
	if i := strings.IndexByte(entry, ':'); i >= 0 {
		return entry[:i], entry[i+1:]
	}
	return entry, ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
