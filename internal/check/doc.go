// Package check validates a Python development environment before any
// project tooling runs.
//
// The checks form a strict linear chain evaluated in fixed order,
// stopping at the first failure:
//   - the configured interpreter-kind selector is recognized
//   - an interpreter can be located and probed
//   - its major version matches the required one
//   - it runs inside an isolated virtual environment
//     (install prefix differs from the base prefix)
//   - every configured library imports and reports a version,
//     along with any configured from-imports
//
// Use the Checker type to run the chain:
//
//	checker := check.New(check.WithConfig(cfg))
//	results, err := checker.RunAll(ctx)
//	if err != nil {
//	    // first unmet condition; remaining checks were skipped
//	}
package check
