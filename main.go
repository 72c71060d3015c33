// Package main is the entry point for the rivet CLI application.
package main

import (
	"fmt"
	"os"

	"github.com/danielolaszy/rivet/cmd"
	"github.com/danielolaszy/rivet/internal/logging"
)

// main executes the root command and handles any errors that occur.
func main() {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logging.Debug("starting rivet cli", "log_level", logLevel)

	if err := cmd.Execute(); err != nil {
		logging.Error("command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
