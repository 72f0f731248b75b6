package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tankerctl",
		Short:         "罐车台账运维工具",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newMigrateCmd())

	return rootCmd
}
