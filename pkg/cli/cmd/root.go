// Package cmd wires the kindstrap command tree.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command with version info and
// subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kindstrap",
		Short: "kindstrap bootstraps a disposable kind cluster for CI",
		Long: "kindstrap bootstraps a disposable kind (Kubernetes-in-Docker) cluster for CI:\n" +
			"it prepares the host toolchain, deletes stale clusters, creates a fresh cluster\n" +
			"from a config file, and verifies the cluster actually answers.",
		RunE:         handleRootRunE,
		SilenceUsage: true,
	}

	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)

	cmd.AddCommand(NewUpCmd())
	cmd.AddCommand(NewDownCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}

// handleRootRunE handles the bare root command.
func handleRootRunE(cmd *cobra.Command, _ []string) error {
	// The err can safely be ignored, as it can never fail at runtime.
	_ = cmd.Help()

	return nil
}
