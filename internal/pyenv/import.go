package pyenv

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/venvtools/venvdoctor/internal/errors"
)

// libToModule maps Python distribution names to their import names for
// the cases where the two differ.
var libToModule = map[string]string{
	"scikit-learn":   "sklearn",
	"pillow":         "PIL",
	"pyyaml":         "yaml",
	"beautifulsoup4": "bs4",
}

// ModuleName returns the import name for a distribution name.
func ModuleName(lib string) string {
	if mod, ok := libToModule[strings.ToLower(lib)]; ok {
		return mod
	}
	return lib
}

// ImportVersion imports a module in the target interpreter and returns
// the version string it reports via __version__.
//
// On failure the interpreter's own error output is returned unmodified
// as the message, so the user sees the exact import failure (typically
// a ModuleNotFoundError traceback).
func ImportVersion(ctx context.Context, exe, module string) (string, error) {
	code := fmt.Sprintf("import %s; print(%s.__version__)", module, module)
	out, err := run(ctx, exe, code)
	if err != nil {
		return "", err
	}
	return out, nil
}

// ImportFrom performs a from-import in the target interpreter:
// "from <module> import <name>". An empty name degrades to a plain
// "import <module>".
func ImportFrom(ctx context.Context, exe, module, name string) error {
	code := fmt.Sprintf("import %s", module)
	if name != "" {
		code = fmt.Sprintf("from %s import %s", module, name)
	}
	_, err := run(ctx, exe, code)
	return err
}

// run executes a one-line program in the target interpreter and returns
// trimmed stdout. Import failures carry the interpreter's stderr as the
// error message, unmodified apart from whitespace trimming.
func run(ctx context.Context, exe, code string) (string, error) {
	cmd := exec.CommandContext(ctx, exe, "-c", code)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = fmt.Sprintf("%s -c %q: %v", exe, code, err)
		}
		return "", errors.DependencyError(msg, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
