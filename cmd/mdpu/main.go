// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verbose bool

// logger builds the process logger: development output under --verbose,
// silent otherwise.
func logger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}

	return log
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "mdpu",
		Short: "Minimal digital processing unit emulator",
		Long: "mdpu assembles and executes programs for a small register\n" +
			"machine with linear memory and a downward-growing stack.",
		SilenceUsage: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(runCommand())
	rootCmd.AddCommand(checkCommand())
	rootCmd.AddCommand(debugCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
