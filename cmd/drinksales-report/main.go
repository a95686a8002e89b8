package main

import (
	"fmt"
	"os"

	"drinksales/internal/cli"
	applog "drinksales/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentReport)

	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
