package main

import (
	"os"

	"github.com/spf13/cobra"

	"licentia/internal/interfaces/cli/migrate"
	"licentia/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "licentia",
		Short: "Licentia - license and account security service",
		Long:  `Licentia guards license keys, machine activations, login attempts and admin sessions for a software vendor.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
