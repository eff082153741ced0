package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nexus",
		Short:         "Clinical scoring toolkit for emergency care",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		serveCmd(),
		migrateCmd(),
		tokenCmd(),
		menuCmd(),
		rangesCmd(),
		scoreCmd(),
	)
	return root
}
