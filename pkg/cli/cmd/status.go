package cmd

import (
	"context"
	"fmt"

	"github.com/kindstrap/kindstrap/pkg/config"
	"github.com/kindstrap/kindstrap/pkg/k8s"
	"github.com/kindstrap/kindstrap/pkg/provision"
	"github.com/kindstrap/kindstrap/pkg/svc/provider/docker"
	"github.com/kindstrap/kindstrap/pkg/ui/notify"
	"github.com/kindstrap/kindstrap/pkg/verify"

	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command: the workflow's verification
// stage on its own, against whatever cluster the ambient kubeconfig points
// at.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "status",
		Short:        "Verify the current cluster is reachable and functional",
		SilenceUsage: true,
	}

	cfgManager := config.NewManager()
	cfgManager.AddFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := cfgManager.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		return HandleStatusRunE(cmd, func() ([]provision.Step, error) {
			return defaultVerifySteps(cmd, cfg)
		})
	}

	return cmd
}

// HandleStatusRunE runs the verification checks in order, stopping at the
// first failure. Exported for testing purposes.
func HandleStatusRunE(cmd *cobra.Command, verifySteps func() ([]provision.Step, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()

	notify.Titlef(out, "🔍", "Verify cluster...")

	steps, err := verifySteps()
	if err != nil {
		return fmt.Errorf("%w: %w", provision.ErrTooling, err)
	}

	run := provision.NewRun()

	err = run.Execute(ctx, steps...)
	if err != nil {
		return err
	}

	notify.Successf(out, "cluster verified")

	return nil
}

func defaultVerifySteps(cmd *cobra.Command, cfg *config.Config) ([]provision.Step, error) {
	engine, err := docker.NewDefaultProvider()
	if err != nil {
		return nil, err
	}

	clientset, restConfig, err := k8s.NewClientset(cfg.Kubeconfig, "")
	if err != nil {
		return nil, err
	}

	verifier := &verify.Verifier{
		Runtime:         engine,
		Clientset:       clientset,
		ControlPlaneURL: restConfig.Host,
		Writer:          cmd.OutOrStdout(),
	}

	return verifier.Steps(), nil
}
