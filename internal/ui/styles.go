// Package ui provides terminal styling for venvdoctor output.
package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color palette. Single accent color, errors in red, warnings in yellow.
const (
	ColorGreen  = "42"  // Pass
	ColorRed    = "196" // Fail
	ColorYellow = "220" // Warnings / skipped
	ColorGray   = "245" // Secondary text
	ColorWhite  = "255" // Headers
)

// Styles holds the styles used when rendering check results.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Dim     lipgloss.Style
}

// DefaultStyles returns colored styles for TTY output.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorWhite)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGreen)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
	}
}

// NoColorStyles returns unstyled components for plain output.
func NoColorStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Dim:     lipgloss.NewStyle(),
	}
}

// ForWriter selects styles based on whether w is a terminal.
// NO_COLOR always disables color.
func ForWriter(w io.Writer) Styles {
	if DetectNoColor() || !IsTTY(w) {
		return NoColorStyles()
	}
	return DefaultStyles()
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}

	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	return false
}

// DetectNoColor checks if the NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}
