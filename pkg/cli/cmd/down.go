package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/kindstrap/kindstrap/pkg/config"
	"github.com/kindstrap/kindstrap/pkg/provision"
	kindprovisioner "github.com/kindstrap/kindstrap/pkg/svc/provisioner/kind"
	"github.com/kindstrap/kindstrap/pkg/ui/notify"
	"github.com/kindstrap/kindstrap/pkg/ui/timer"

	"github.com/spf13/cobra"
)

// ClusterDeleter deletes every kind cluster on the host.
type ClusterDeleter interface {
	DeleteAll(ctx context.Context) ([]string, error)
}

// NewDownCmd creates the down command: the workflow's reset stage on its
// own. Deleting when no clusters exist succeeds.
func NewDownCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "down",
		Short:        "Delete all kind clusters on this host",
		Long:         "Delete every kind cluster on this host, including clusters kindstrap did not create.",
		SilenceUsage: true,
	}

	cfgManager := config.NewManager()
	cfgManager.AddFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := cfgManager.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		return HandleDownRunE(cmd, kindprovisioner.NewProvisioner(cfg.Kubeconfig))
	}

	return cmd
}

// HandleDownRunE deletes all kind clusters. Exported for testing purposes.
func HandleDownRunE(cmd *cobra.Command, deleter ClusterDeleter) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	tmr := timer.New()

	notify.Titlef(out, "🗑️", "Delete kind clusters...")

	deleted, err := deleter.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", provision.ErrClusterOperation, err)
	}

	if len(deleted) == 0 {
		notify.Infof(out, "no clusters to delete")
	} else {
		notify.Activityf(out, "deleted: %s", strings.Join(deleted, ", "))
	}

	notify.SuccessWithTimerf(out, tmr, "clusters deleted")

	return nil
}
