package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venvtools/venvdoctor/pkg/version"
)

func TestVersionCmd_Default(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)

	assert.Contains(t, stdout, "venvdoctor")
	assert.Contains(t, stdout, version.Version)
	assert.Contains(t, stdout, "commit:")
}

func TestVersionCmd_Short(t *testing.T) {
	stdout, _, err := execute(t, "version", "--short")
	require.NoError(t, err)

	assert.Equal(t, version.Version, strings.TrimSpace(stdout))
}

func TestVersionCmd_JSON(t *testing.T) {
	stdout, _, err := execute(t, "version", "--json")
	require.NoError(t, err)

	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, version.Version, info["version"])
	assert.NotEmpty(t, info["go_version"])
}
