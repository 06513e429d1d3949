package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Help(t *testing.T) {
	stdout, _, err := execute(t, "--help")
	require.NoError(t, err)

	assert.Contains(t, stdout, "venvdoctor")
	assert.Contains(t, stdout, "check")
	assert.Contains(t, stdout, "version")
}

func TestRootCmd_VersionFlag(t *testing.T) {
	stdout, _, err := execute(t, "--version")
	require.NoError(t, err)

	assert.Contains(t, stdout, "venvdoctor version")
}

func TestRootCmd_NoArgsRunsCheck(t *testing.T) {
	installFakePython(t, passingPython)

	stdout, _, err := execute(t)
	require.NoError(t, err)

	assert.Contains(t, stdout, ">>> Development environment passes all tests!")
}

func TestRootCmd_NoArgsFailsOnMissingInterpreter(t *testing.T) {
	// Empty PATH: no interpreter anywhere.
	t.Setenv("PATH", t.TempDir())

	_, _, err := execute(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no python interpreter found")
}
