package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DerivesCategoryFromCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		category Category
	}{
		{"config code", ErrCodeUnrecognizedInterpreter, CategoryConfig},
		{"version mismatch", ErrCodeVersionMismatch, CategoryEnvironment},
		{"not isolated", ErrCodeNotIsolated, CategoryEnvironment},
		{"interpreter missing", ErrCodeInterpreterNotFound, CategoryDependency},
		{"module missing", ErrCodeModuleMissing, CategoryDependency},
		{"internal", ErrCodeInternal, CategoryInternal},
		{"short code", "ERR", CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, "boom", nil)
			assert.Equal(t, tt.category, err.Category)
		})
	}
}

func TestCheckError_Error(t *testing.T) {
	err := New(ErrCodeVersionMismatch, "This project requires Python 3. Found: Python 2.7.18", nil)

	assert.Equal(t, "[ERR_201_VERSION_MISMATCH] This project requires Python 3. Found: Python 2.7.18", err.Error())
}

func TestCheckError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("exit status 1")
	err := Wrap(ErrCodeModuleMissing, cause)

	require.NotNil(t, err)
	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.True(t, stderrors.Is(err, cause))
}

func TestCheckError_Is_MatchesByCode(t *testing.T) {
	a := New(ErrCodeNotIsolated, "venv not activated", nil)
	b := New(ErrCodeNotIsolated, "different message", nil)
	c := New(ErrCodeVersionMismatch, "venv not activated", nil)

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, c))
}

func TestWrap_NilError(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeModuleMissing, nil))
}

func TestCheckError_WithDetailAndSuggestion(t *testing.T) {
	err := NotIsolatedError("venv not activated").
		WithDetail("prefix", "/usr").
		WithDetail("base_prefix", "/usr").
		WithSuggestion("activate the virtual environment first")

	assert.Equal(t, "/usr", err.Details["prefix"])
	assert.Equal(t, "/usr", err.Details["base_prefix"])
	assert.Equal(t, "activate the virtual environment first", err.Suggestion)
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(ConfigurationError("Unrecognized python interpreter: python4", nil)))
	assert.True(t, IsFatal(VersionMismatchError("wrong major")))
	assert.True(t, IsFatal(DependencyError("no module named torch", nil)))
	assert.False(t, IsFatal(nil))
	assert.False(t, IsFatal(fmt.Errorf("plain error")))
}

func TestGetCodeAndCategory(t *testing.T) {
	err := VersionMismatchError("wrong major")

	assert.Equal(t, ErrCodeVersionMismatch, GetCode(err))
	assert.Equal(t, CategoryEnvironment, GetCategory(err))
	assert.Empty(t, GetCode(fmt.Errorf("plain")))
}
