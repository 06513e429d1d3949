package check

import (
	"fmt"
	"strings"

	"github.com/venvtools/venvdoctor/internal/ui"
)

// PrintResults prints a doctor-style summary of check results to the
// configured output.
func (c *Checker) PrintResults(results []CheckResult) {
	styles := ui.ForWriter(c.output)

	_, _ = fmt.Fprintln(c.output, styles.Header.Render("venvdoctor environment check"))
	_, _ = fmt.Fprintln(c.output, styles.Dim.Render("============================"))
	_, _ = fmt.Fprintln(c.output)

	for _, r := range results {
		icon := r.Status.String()
		switch r.Status {
		case StatusPass:
			icon = styles.Success.Render(icon)
		case StatusFail:
			icon = styles.Error.Render(icon)
		case StatusSkip:
			icon = styles.Warning.Render(icon)
		}

		_, _ = fmt.Fprintf(c.output, "[%s] %s: %s\n", icon, r.Name, firstLine(r.Message))
		if c.verbose && r.Details != "" {
			_, _ = fmt.Fprintf(c.output, "      %s\n", r.Details)
		}
	}

	_, _ = fmt.Fprintln(c.output)
	_, _ = fmt.Fprintf(c.output, "Status: %s\n", strings.ToUpper(SummaryStatus(results)))

	var failures []string
	for _, r := range results {
		if r.Status == StatusFail {
			failures = append(failures, r.Name+": "+firstLine(r.Message))
		}
	}

	if len(failures) > 0 {
		_, _ = fmt.Fprintln(c.output)
		_, _ = fmt.Fprintf(c.output, "%d error(s):\n", len(failures))
		for _, f := range failures {
			_, _ = fmt.Fprintf(c.output, "  - %s\n", f)
		}
	}
}

// firstLine keeps multi-line messages (interpreter tracebacks, full
// sys.version strings) to one summary line.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
