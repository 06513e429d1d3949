package check

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/venvtools/venvdoctor/internal/config"
	"github.com/venvtools/venvdoctor/internal/errors"
	"github.com/venvtools/venvdoctor/internal/pyenv"
)

// CheckStatus represents the result of a single environment check.
type CheckStatus int

const (
	// StatusPass indicates the check passed.
	StatusPass CheckStatus = iota
	// StatusFail indicates the check failed. Every failure is fatal:
	// the chain stops and later checks are not attempted.
	StatusFail
	// StatusSkip indicates the check was not attempted because an
	// earlier check already failed.
	StatusSkip
)

// String returns the string representation of a CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusFail:
		return "FAIL"
	case StatusSkip:
		return "SKIP"
	default:
		return "UNKNOWN"
	}
}

// CheckResult holds the result of a single environment check.
type CheckResult struct {
	Name    string      `json:"name"`
	Status  CheckStatus `json:"status"`
	Message string      `json:"message"`
	Details string      `json:"details,omitempty"`
	// Required marks checks whose failure aborts the run. Every link
	// in the fail-fast chain is required.
	Required bool `json:"required"`
}

// IsCritical returns true if this is a required check that failed.
func (r CheckResult) IsCritical() bool {
	return r.Required && r.Status == StatusFail
}

// Prober abstracts interpreter access so the check chain can run
// against synthetic runtime metadata in tests.
type Prober interface {
	// Locate resolves the interpreter executable to probe.
	Locate(explicit string) (string, error)
	// Probe captures the interpreter's runtime metadata.
	Probe(ctx context.Context, exe string) (pyenv.Info, error)
	// ImportVersion imports a module and returns its reported version.
	ImportVersion(ctx context.Context, exe, module string) (string, error)
	// ImportFrom performs "from module import name".
	ImportFrom(ctx context.Context, exe, module, name string) error
}

// systemProber probes the real interpreter via os/exec.
type systemProber struct{}

func (systemProber) Locate(explicit string) (string, error) {
	return pyenv.Locate(explicit)
}

func (systemProber) Probe(ctx context.Context, exe string) (pyenv.Info, error) {
	return pyenv.Probe(ctx, exe)
}

func (systemProber) ImportVersion(ctx context.Context, exe, module string) (string, error) {
	return pyenv.ImportVersion(ctx, exe, module)
}

func (systemProber) ImportFrom(ctx context.Context, exe, module, name string) error {
	return pyenv.ImportFrom(ctx, exe, module, name)
}

// Checker runs the environment check chain.
type Checker struct {
	cfg     *config.Config
	python  string
	verbose bool
	output  io.Writer
	prober  Prober
}

// Option configures a Checker.
type Option func(*Checker)

// WithConfig sets the configuration to check against.
func WithConfig(cfg *config.Config) Option {
	return func(c *Checker) {
		if cfg != nil {
			c.cfg = cfg
		}
	}
}

// WithPython overrides the interpreter executable to probe.
func WithPython(python string) Option {
	return func(c *Checker) {
		c.python = python
	}
}

// WithVerbose enables detail output in PrintResults.
func WithVerbose(verbose bool) Option {
	return func(c *Checker) {
		c.verbose = verbose
	}
}

// WithOutput sets the writer for diagnostic status lines.
func WithOutput(w io.Writer) Option {
	return func(c *Checker) {
		c.output = w
	}
}

// WithProber replaces interpreter access, for tests.
func WithProber(p Prober) Option {
	return func(c *Checker) {
		c.prober = p
	}
}

// New creates a new Checker with the given options.
func New(opts ...Option) *Checker {
	c := &Checker{
		cfg:    config.Default(),
		output: os.Stdout,
		prober: systemProber{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// step is one link in the fail-fast chain: a named predicate that
// returns a pass message or the error that aborts the run.
type step struct {
	name string
	run  func(ctx context.Context) (string, error)
}

// RunAll evaluates the check chain in fixed order, stopping at the
// first failure. Checks after a failure are recorded as skipped. The
// returned error is the failure that stopped the chain, nil on a full
// pass.
func (c *Checker) RunAll(ctx context.Context) ([]CheckResult, error) {
	steps := c.plan()
	results := make([]CheckResult, 0, len(steps))

	for i, s := range steps {
		msg, err := s.run(ctx)
		if err != nil {
			results = append(results, failResult(s.name, err))
			for _, rest := range steps[i+1:] {
				results = append(results, CheckResult{
					Name:     rest.name,
					Status:   StatusSkip,
					Message:  "not attempted",
					Required: true,
				})
			}
			return results, err
		}
		results = append(results, CheckResult{
			Name:     s.name,
			Status:   StatusPass,
			Message:  msg,
			Required: true,
		})
	}

	c.printf(">>> Development environment passes all tests!\n")
	return results, nil
}

// plan builds the ordered chain. The interpreter metadata captured by
// the probe step feeds every later predicate.
func (c *Checker) plan() []step {
	var (
		requiredMajor int
		exe           string
		info          pyenv.Info
	)

	steps := []step{
		{
			name: "interpreter_kind",
			run: func(_ context.Context) (string, error) {
				major, err := c.cfg.RequiredMajor()
				if err != nil {
					return "", err
				}
				requiredMajor = major
				return fmt.Sprintf("%s (major version %d)", c.cfg.Interpreter, major), nil
			},
		},
		{
			name: "interpreter",
			run: func(ctx context.Context) (string, error) {
				explicit := c.python
				if explicit == "" {
					explicit = c.cfg.Python
				}
				located, err := c.prober.Locate(explicit)
				if err != nil {
					return "", err
				}
				exe = located

				probed, err := c.prober.Probe(ctx, exe)
				if err != nil {
					return "", err
				}
				info = probed

				c.printf("Using interpreter: %s\n", info.Executable)
				return info.Executable, nil
			},
		},
		{
			name: "python_version",
			run: func(_ context.Context) (string, error) {
				if info.Major != requiredMajor {
					return "", errors.VersionMismatchError(fmt.Sprintf(
						"This project requires Python %d. Found: Python %s",
						requiredMajor, info.Version)).
						WithDetail("required_major", fmt.Sprintf("%d", requiredMajor)).
						WithDetail("actual", info.ShortVersion())
				}
				c.printf("python version == %s\n", info.Version)
				return info.ShortVersion(), nil
			},
		},
		{
			name: "venv_isolation",
			run: func(_ context.Context) (string, error) {
				if !info.Isolated() {
					return "", errors.NotIsolatedError(
						"venv not activated. Please first activate the project's virtual environment, "+
							"then re-run the check. To debug, use `which python` inside the activated "+
							"environment to confirm the interpreter path.").
						WithDetail("prefix", info.Prefix).
						WithDetail("base_prefix", info.BasePrefix).
						WithSuggestion("source .venv/bin/activate")
				}
				return fmt.Sprintf("prefix %s", info.Prefix), nil
			},
		},
	}

	for _, lib := range c.cfg.Libraries {
		lib := lib // captured by the step closures
		module := lib.ImportName()

		steps = append(steps, step{
			name: "library:" + lib.Name,
			run: func(ctx context.Context) (string, error) {
				c.printf("## Testing %s.\n", lib.Name)
				version, err := c.prober.ImportVersion(ctx, exe, module)
				if err != nil {
					return "", err
				}
				c.printf("Loaded %s %s.\n", lib.Name, version)
				return version, nil
			},
		})

		for _, entry := range lib.Imports {
			importModule, importName := config.ParseImport(entry)
			steps = append(steps, step{
				name: "import:" + importModule,
				run: func(ctx context.Context) (string, error) {
					if err := c.prober.ImportFrom(ctx, exe, importModule, importName); err != nil {
						return "", err
					}
					c.printf("imported %s\n", importModule)
					return "importable", nil
				},
			})
		}
	}

	return steps
}

// failResult turns the aborting error into a result entry. CheckError
// messages are used verbatim so the user sees the exact diagnostic
// (including propagated interpreter tracebacks).
func failResult(name string, err error) CheckResult {
	result := CheckResult{
		Name:     name,
		Status:   StatusFail,
		Required: true,
	}
	if ce, ok := err.(*errors.CheckError); ok {
		result.Message = ce.Message
		result.Details = ce.Suggestion
	} else {
		result.Message = err.Error()
	}
	return result
}

func (c *Checker) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.output, format, args...)
}

// HasFailures returns true if any check failed.
func HasFailures(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

// SummaryStatus returns a summary status string for the results.
func SummaryStatus(results []CheckResult) string {
	if HasFailures(results) {
		return "failed"
	}
	return "ready"
}
