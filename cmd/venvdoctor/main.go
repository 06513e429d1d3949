// Package main provides the entry point for the venvdoctor CLI.
package main

import (
	"os"

	"github.com/venvtools/venvdoctor/cmd/venvdoctor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
