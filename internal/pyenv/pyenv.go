// Package pyenv probes an external Python interpreter for the runtime
// metadata venvdoctor validates: executable path, version, and the
// install/base prefixes that reveal virtual-environment isolation.
//
// All metadata is captured once into an Info value so that every check
// is a pure predicate over explicit input rather than ambient state.
package pyenv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/venvtools/venvdoctor/internal/errors"
)

// Info holds the runtime metadata of a probed Python interpreter.
type Info struct {
	// Executable is sys.executable: the absolute path of the running binary.
	Executable string `json:"executable"`

	// Version is the full sys.version string, including build details.
	Version string `json:"version"`

	// Major, Minor, Micro are the leading components of sys.version_info.
	Major int `json:"major"`
	Minor int `json:"minor"`
	Micro int `json:"micro"`

	// Prefix is sys.prefix: the environment's installation prefix.
	Prefix string `json:"prefix"`

	// BasePrefix is sys.base_prefix: the underlying base installation.
	// Equals Prefix when the interpreter is not running inside a venv.
	BasePrefix string `json:"base_prefix"`
}

// Isolated reports whether the interpreter runs inside an isolated
// virtual environment. Equal prefixes mean no isolation (PEP 405).
func (i Info) Isolated() bool {
	return i.Prefix != i.BasePrefix
}

// ShortVersion returns the dotted numeric version, e.g. "3.11.4".
func (i Info) ShortVersion() string {
	return fmt.Sprintf("%d.%d.%d", i.Major, i.Minor, i.Micro)
}

// introspectProgram prints the interpreter's own metadata as a single
// JSON object on stdout. base_prefix falls back to prefix on ancient
// interpreters that predate PEP 405.
const introspectProgram = `import sys, json; print(json.dumps({` +
	`"executable": sys.executable, ` +
	`"version": sys.version, ` +
	`"major": sys.version_info[0], ` +
	`"minor": sys.version_info[1], ` +
	`"micro": sys.version_info[2], ` +
	`"prefix": sys.prefix, ` +
	`"base_prefix": getattr(sys, "base_prefix", sys.prefix)}))`

// candidateNames is the PATH lookup order when no explicit interpreter
// is configured.
var candidateNames = []string{"python3", "python"}

// Locate resolves the interpreter executable to probe. An explicit
// path or command name takes precedence; otherwise python3 then python
// is searched on PATH.
func Locate(explicit string) (string, error) {
	if explicit != "" {
		path, err := exec.LookPath(explicit)
		if err != nil {
			return "", errors.New(errors.ErrCodeInterpreterNotFound,
				fmt.Sprintf("python interpreter %q not found: %v", explicit, err), err)
		}
		return path, nil
	}

	for _, name := range candidateNames {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	return "", errors.New(errors.ErrCodeInterpreterNotFound,
		"no python interpreter found on PATH (tried python3, python)", nil)
}

// Probe runs the interpreter with a one-line introspection program and
// parses the metadata it reports.
func Probe(ctx context.Context, exe string) (Info, error) {
	cmd := exec.CommandContext(ctx, exe, "-c", introspectProgram)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		probeErr := errors.New(errors.ErrCodeProbe,
			fmt.Sprintf("failed to probe %s: %v", exe, err), err)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			probeErr = probeErr.WithDetail("stderr", msg)
		}
		return Info{}, probeErr
	}

	return parseInfo(stdout.Bytes())
}

// parseInfo decodes the introspection program's JSON output.
func parseInfo(data []byte) (Info, error) {
	var info Info
	if err := json.Unmarshal(bytes.TrimSpace(data), &info); err != nil {
		return Info{}, errors.New(errors.ErrCodeProbe,
			fmt.Sprintf("unexpected interpreter probe output: %v", err), err)
	}
	if info.Executable == "" || info.Major == 0 {
		return Info{}, errors.New(errors.ErrCodeProbe,
			"interpreter probe returned incomplete metadata", nil)
	}
	return info, nil
}
