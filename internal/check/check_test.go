package check

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venvtools/venvdoctor/internal/config"
	cerrors "github.com/venvtools/venvdoctor/internal/errors"
	"github.com/venvtools/venvdoctor/internal/pyenv"
)

// fakeProber supplies synthetic interpreter metadata so the chain runs
// without a real Python installation.
type fakeProber struct {
	exe       string
	locateErr error
	info      pyenv.Info
	probeErr  error
	versions  map[string]string
	importErr map[string]error
	fromErr   map[string]error

	locateCalls int
	probeCalls  int
}

func (f *fakeProber) Locate(string) (string, error) {
	f.locateCalls++
	if f.locateErr != nil {
		return "", f.locateErr
	}
	return f.exe, nil
}

func (f *fakeProber) Probe(context.Context, string) (pyenv.Info, error) {
	f.probeCalls++
	if f.probeErr != nil {
		return pyenv.Info{}, f.probeErr
	}
	return f.info, nil
}

func (f *fakeProber) ImportVersion(_ context.Context, _, module string) (string, error) {
	if err := f.importErr[module]; err != nil {
		return "", err
	}
	if v, ok := f.versions[module]; ok {
		return v, nil
	}
	return "", cerrors.DependencyError(
		fmt.Sprintf("ModuleNotFoundError: No module named '%s'", module), nil)
}

func (f *fakeProber) ImportFrom(_ context.Context, _, module, _ string) error {
	return f.fromErr[module]
}

func venvInfo() pyenv.Info {
	return pyenv.Info{
		Executable: "/home/dev/project/.venv/bin/python3",
		Version:    "3.11.4 (main, Jun  7 2023, 00:00:00) [GCC 12.2.0]",
		Major:      3,
		Minor:      11,
		Micro:      4,
		Prefix:     "/home/dev/project/.venv",
		BasePrefix: "/usr",
	}
}

func torchProber() *fakeProber {
	return &fakeProber{
		exe:      "/home/dev/project/.venv/bin/python3",
		info:     venvInfo(),
		versions: map[string]string{"torch": "2.1.0"},
	}
}

func TestCheckStatus_String(t *testing.T) {
	tests := []struct {
		status CheckStatus
		want   string
	}{
		{StatusPass, "PASS"},
		{StatusFail, "FAIL"},
		{StatusSkip, "SKIP"},
		{CheckStatus(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestRunAll_FullPass_OutputOrder(t *testing.T) {
	var out bytes.Buffer
	checker := New(WithOutput(&out), WithProber(torchProber()))

	results, err := checker.RunAll(context.Background())
	require.NoError(t, err)

	for _, r := range results {
		assert.Equal(t, StatusPass, r.Status, r.Name)
		assert.True(t, r.Required, r.Name)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Equal(t, []string{
		"Using interpreter: /home/dev/project/.venv/bin/python3",
		"python version == 3.11.4 (main, Jun  7 2023, 00:00:00) [GCC 12.2.0]",
		"## Testing torch.",
		"Loaded torch 2.1.0.",
		"imported torch.utils.tensorboard",
		">>> Development environment passes all tests!",
	}, lines)
}

func TestRunAll_Python2_WithPython3Required(t *testing.T) {
	prober := torchProber()
	prober.info.Version = "2.7.18 (default, Jul  1 2022, 00:00:00)"
	prober.info.Major = 2
	prober.info.Minor = 7
	prober.info.Micro = 18

	var out bytes.Buffer
	checker := New(WithOutput(&out), WithProber(prober))

	results, err := checker.RunAll(context.Background())
	require.Error(t, err)

	assert.Equal(t, cerrors.ErrCodeVersionMismatch, cerrors.GetCode(err))
	assert.Contains(t, err.Error(),
		"This project requires Python 3. Found: Python 2.7.18 (default, Jul  1 2022, 00:00:00)")

	// No further checks attempted after the mismatch.
	byName := resultsByName(results)
	assert.Equal(t, StatusFail, byName["python_version"].Status)
	assert.Equal(t, StatusSkip, byName["venv_isolation"].Status)
	assert.Equal(t, StatusSkip, byName["library:torch"].Status)
	assert.NotContains(t, out.String(), "passes all tests")
}

func TestRunAll_UnrecognizedKind_FailsBeforeProbe(t *testing.T) {
	prober := torchProber()
	cfg := config.Default()
	cfg.Interpreter = "python4"

	checker := New(WithOutput(&bytes.Buffer{}), WithProber(prober), WithConfig(cfg))

	results, err := checker.RunAll(context.Background())
	require.Error(t, err)

	assert.Equal(t, cerrors.ErrCodeUnrecognizedInterpreter, cerrors.GetCode(err))
	assert.Contains(t, err.Error(), "python4")

	// The selector is validated before any interpreter work happens.
	assert.Zero(t, prober.locateCalls)
	assert.Zero(t, prober.probeCalls)

	byName := resultsByName(results)
	assert.Equal(t, StatusFail, byName["interpreter_kind"].Status)
	assert.Equal(t, StatusSkip, byName["python_version"].Status)
}

func TestRunAll_NotIsolated(t *testing.T) {
	prober := torchProber()
	prober.info.Prefix = "/usr"
	prober.info.BasePrefix = "/usr"

	var out bytes.Buffer
	checker := New(WithOutput(&out), WithProber(prober))

	results, err := checker.RunAll(context.Background())
	require.Error(t, err)

	assert.Equal(t, cerrors.ErrCodeNotIsolated, cerrors.GetCode(err))
	assert.Contains(t, err.Error(), "venv not activated")

	byName := resultsByName(results)
	assert.Equal(t, StatusPass, byName["python_version"].Status)
	assert.Equal(t, StatusFail, byName["venv_isolation"].Status)
	assert.Equal(t, StatusSkip, byName["library:torch"].Status)
}

func TestRunAll_NotIsolated_EvenWhenVersionWouldFailLater(t *testing.T) {
	// Isolation is only reached when the version check passes; a correct
	// version with equal prefixes must still fail on isolation.
	prober := torchProber()
	prober.info.Prefix = prober.info.BasePrefix

	_, err := New(WithOutput(&bytes.Buffer{}), WithProber(prober)).RunAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, cerrors.ErrCodeNotIsolated, cerrors.GetCode(err))
}

func TestRunAll_MissingLibrary_PropagatesImportError(t *testing.T) {
	traceback := "Traceback (most recent call last):\n" +
		"  File \"<string>\", line 1, in <module>\n" +
		"ModuleNotFoundError: No module named 'torch'"
	prober := torchProber()
	prober.importErr = map[string]error{
		"torch": cerrors.DependencyError(traceback, nil),
	}

	var out bytes.Buffer
	checker := New(WithOutput(&out), WithProber(prober))

	results, err := checker.RunAll(context.Background())
	require.Error(t, err)

	// The interpreter's own import failure surfaces unmodified.
	ce, ok := err.(*cerrors.CheckError)
	require.True(t, ok)
	assert.Equal(t, traceback, ce.Message)

	byName := resultsByName(results)
	assert.Equal(t, StatusFail, byName["library:torch"].Status)
	assert.Equal(t, StatusSkip, byName["import:torch.utils.tensorboard"].Status)
}

func TestRunAll_SubmoduleImportFailure(t *testing.T) {
	prober := torchProber()
	prober.fromErr = map[string]error{
		"torch.utils.tensorboard": cerrors.DependencyError(
			"ImportError: TensorBoard logging requires TensorBoard", nil),
	}

	results, err := New(WithOutput(&bytes.Buffer{}), WithProber(prober)).RunAll(context.Background())
	require.Error(t, err)

	byName := resultsByName(results)
	assert.Equal(t, StatusPass, byName["library:torch"].Status)
	assert.Equal(t, StatusFail, byName["import:torch.utils.tensorboard"].Status)
}

func TestRunAll_InterpreterNotFound(t *testing.T) {
	prober := torchProber()
	prober.locateErr = cerrors.New(cerrors.ErrCodeInterpreterNotFound,
		"no python interpreter found on PATH (tried python3, python)", nil)

	_, err := New(WithOutput(&bytes.Buffer{}), WithProber(prober)).RunAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, cerrors.ErrCodeInterpreterNotFound, cerrors.GetCode(err))
}

func TestRunAll_MultipleLibraries(t *testing.T) {
	cfg := config.Default()
	cfg.Libraries = []config.Library{
		{Name: "numpy"},
		{Name: "scikit-learn"},
	}
	prober := torchProber()
	prober.versions = map[string]string{
		"numpy":   "1.26.0",
		"sklearn": "1.3.2",
	}

	var out bytes.Buffer
	results, err := New(WithOutput(&out), WithProber(prober), WithConfig(cfg)).RunAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, results, 6)

	assert.Contains(t, out.String(), "Loaded numpy 1.26.0.")
	assert.Contains(t, out.String(), "Loaded scikit-learn 1.3.2.")
}

func TestCheckResult_IsCritical(t *testing.T) {
	tests := []struct {
		name     string
		result   CheckResult
		expected bool
	}{
		{
			name:     "required pass is not critical",
			result:   CheckResult{Status: StatusPass, Required: true},
			expected: false,
		},
		{
			name:     "required fail is critical",
			result:   CheckResult{Status: StatusFail, Required: true},
			expected: true,
		},
		{
			name:     "required skip is not critical",
			result:   CheckResult{Status: StatusSkip, Required: true},
			expected: false,
		},
		{
			name:     "optional fail is not critical",
			result:   CheckResult{Status: StatusFail, Required: false},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.result.IsCritical())
		})
	}
}

func TestRunAll_FailureAndSkipsAreRequired(t *testing.T) {
	prober := torchProber()
	prober.info.Prefix = prober.info.BasePrefix

	results, err := New(WithOutput(&bytes.Buffer{}), WithProber(prober)).RunAll(context.Background())
	require.Error(t, err)

	byName := resultsByName(results)
	assert.True(t, byName["venv_isolation"].IsCritical())
	assert.True(t, byName["library:torch"].Required)
	assert.False(t, byName["library:torch"].IsCritical())
}

func TestHasFailuresAndSummaryStatus(t *testing.T) {
	pass := []CheckResult{{Status: StatusPass}, {Status: StatusPass}}
	fail := []CheckResult{{Status: StatusPass}, {Status: StatusFail}, {Status: StatusSkip}}

	assert.False(t, HasFailures(pass))
	assert.True(t, HasFailures(fail))
	assert.Equal(t, "ready", SummaryStatus(pass))
	assert.Equal(t, "failed", SummaryStatus(fail))
}

func TestPrintResults_Summary(t *testing.T) {
	var out bytes.Buffer
	checker := New(WithOutput(&out), WithVerbose(true))

	checker.PrintResults([]CheckResult{
		{Name: "interpreter_kind", Status: StatusPass, Message: "python3 (major version 3)"},
		{Name: "venv_isolation", Status: StatusFail, Message: "venv not activated. Please first activate the project's virtual environment, then re-run the check.", Details: "source .venv/bin/activate"},
		{Name: "library:torch", Status: StatusSkip, Message: "not attempted"},
	})

	output := out.String()
	assert.Contains(t, output, "venvdoctor environment check")
	assert.Contains(t, output, "[PASS] interpreter_kind")
	assert.Contains(t, output, "[FAIL] venv_isolation")
	assert.Contains(t, output, "[SKIP] library:torch")
	assert.Contains(t, output, "source .venv/bin/activate")
	assert.Contains(t, output, "Status: FAILED")
	assert.Contains(t, output, "1 error(s):")
}

func resultsByName(results []CheckResult) map[string]CheckResult {
	m := make(map[string]CheckResult, len(results))
	for _, r := range results {
		m[r.Name] = r
	}
	return m
}
