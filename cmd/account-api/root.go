package main

import (
	"github.com/spf13/cobra"
)

const serviceName = "account-api"

// NewRootCmd creates the root command. Configuration comes from the
// environment; see internal/pkg/config.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Account registration and authentication service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewPurgeCmd())

	return cmd
}
