package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "adminctl",
	Short: "Run and manage the admin back-office",
	Long: `adminctl runs a standalone admin server over the bundled demo models and
provides helpers for tokens, password digests and users.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
