package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kindstrap/kindstrap/pkg/config"
	"github.com/kindstrap/kindstrap/pkg/k8s"
	"github.com/kindstrap/kindstrap/pkg/k8s/readiness"
	"github.com/kindstrap/kindstrap/pkg/provision"
	"github.com/kindstrap/kindstrap/pkg/svc/provider/docker"
	kindprovisioner "github.com/kindstrap/kindstrap/pkg/svc/provisioner/kind"
	"github.com/kindstrap/kindstrap/pkg/svc/tools"
	"github.com/kindstrap/kindstrap/pkg/ui/notify"
	"github.com/kindstrap/kindstrap/pkg/ui/timer"
	"github.com/kindstrap/kindstrap/pkg/verify"

	"github.com/spf13/cobra"
)

// ToolInstaller prepares the host toolchain.
type ToolInstaller interface {
	Install(ctx context.Context) error
}

// ClusterProvisioner captures the cluster operations the workflow performs.
type ClusterProvisioner interface {
	DeleteAll(ctx context.Context) ([]string, error)
	Create(ctx context.Context, name, configPath string, wait time.Duration) error
}

// UpDeps captures the collaborators of the up command so tests can inject
// fakes for every external system.
type UpDeps struct {
	// Installer runs the toolchain install step.
	Installer ToolInstaller
	// Provisioner performs the reset and create cluster operations.
	Provisioner ClusterProvisioner
	// WaitForReady blocks until the freshly created cluster answers.
	WaitForReady func(ctx context.Context) error
	// VerifySteps builds the verification checks. Called only after the
	// cluster exists, since the clientset needs the new kubeconfig entry.
	VerifySteps func() ([]provision.Step, error)
}

// NewUpCmd creates the up command: the full install, reset, create, verify
// workflow.
func NewUpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "up",
		Short:        "Provision a fresh kind cluster and verify it",
		Long:         "Provision a fresh kind cluster for CI and verify it is reachable and minimally functional.",
		SilenceUsage: true,
	}

	cfgManager := config.NewManager()
	cfgManager.AddFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := cfgManager.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		deps, err := defaultUpDeps(cmd, cfg)
		if err != nil {
			return err
		}

		return HandleUpRunE(cmd, cfg, deps)
	}

	return cmd
}

// HandleUpRunE executes the bootstrap workflow: install, reset, skip gate,
// create, verify. Exported for testing purposes.
func HandleUpRunE(cmd *cobra.Command, cfg *config.Config, deps UpDeps) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	tmr := timer.New()
	run := provision.NewRun()

	notify.Titlef(out, "🚀", "Bootstrap kind cluster...")

	err := run.Execute(ctx, installStep(cfg, deps, cmd), resetStep(deps, cmd))
	if err != nil {
		return err
	}

	// The skip gate is the only branch point: a defined
	// SKIP_CREATE_KIND_CLUSTER ends the run successfully after the reset.
	if cfg.SkipCreate {
		run.MarkSkipped()
		notify.Infof(
			out,
			"%s is set. Skipping creating kind cluster.",
			config.SkipCreateEnvVar,
		)

		return nil
	}

	err = run.Execute(ctx, createStep(cfg, deps, cmd))
	if err != nil {
		return err
	}

	verifySteps, err := deps.VerifySteps()
	if err != nil {
		return fmt.Errorf("%w: %w", provision.ErrTooling, err)
	}

	err = run.Execute(ctx, verifySteps...)
	if err != nil {
		return err
	}

	notify.SuccessWithTimerf(out, tmr, "cluster ready")

	return nil
}

// installStep ensures the required toolchain is present and usable.
func installStep(cfg *config.Config, deps UpDeps, cmd *cobra.Command) provision.Step {
	return provision.Step{
		Name: "install",
		Fn: func(ctx context.Context) error {
			notify.Activityf(cmd.OutOrStdout(), "preparing toolchain")

			if cfg.InstallScript == "" {
				notify.Activityf(cmd.OutOrStdout(), "no install script configured")
			}

			err := deps.Installer.Install(ctx)
			if err != nil {
				return fmt.Errorf("%w: %w", provision.ErrTooling, err)
			}

			return nil
		},
	}
}

// resetStep deletes every kind cluster on the host. This is deliberately
// destructive and host-wide so the creation step starts from a clean slate.
func resetStep(deps UpDeps, cmd *cobra.Command) provision.Step {
	return provision.Step{
		Name: "reset",
		Fn: func(ctx context.Context) error {
			notify.Activityf(cmd.OutOrStdout(), "deleting existing kind clusters")

			deleted, err := deps.Provisioner.DeleteAll(ctx)
			if err != nil {
				return fmt.Errorf("%w: %w", provision.ErrClusterOperation, err)
			}

			if len(deleted) == 0 {
				notify.Activityf(cmd.OutOrStdout(), "no existing clusters")
			} else {
				notify.Activityf(
					cmd.OutOrStdout(),
					"deleted: %s",
					strings.Join(deleted, ", "),
				)
			}

			return nil
		},
	}
}

// createStep creates the cluster from the config file and waits until the
// API server answers, all within the configured readiness bound.
func createStep(cfg *config.Config, deps UpDeps, cmd *cobra.Command) provision.Step {
	return provision.Step{
		Name: "create",
		Fn: func(ctx context.Context) error {
			kindConfig, err := kindprovisioner.LoadConfig(cfg.ConfigPath)
			if err != nil {
				return fmt.Errorf("%w: %w", provision.ErrClusterOperation, err)
			}

			name := kindprovisioner.ResolveClusterName(kindConfig)

			notify.Activityf(cmd.OutOrStdout(), "creating cluster '%s'", name)

			err = deps.Provisioner.Create(ctx, name, cfg.ConfigPath, cfg.Wait)
			if err != nil {
				return fmt.Errorf("%w: %w", provision.ErrClusterOperation, err)
			}

			if deps.WaitForReady != nil {
				err = deps.WaitForReady(ctx)
				if err != nil {
					return fmt.Errorf("%w: %w", provision.ErrClusterOperation, err)
				}
			}

			return nil
		},
	}
}

// defaultUpDeps wires the real collaborators: the Docker engine, kind's
// commands, and a clientset built lazily once the cluster exists.
func defaultUpDeps(cmd *cobra.Command, cfg *config.Config) (UpDeps, error) {
	engine, err := docker.NewDefaultProvider()
	if err != nil {
		return UpDeps{}, fmt.Errorf("%w: %w", provision.ErrTooling, err)
	}

	installer := &tools.Installer{
		ScriptPath: cfg.InstallScript,
		Engine:     engine,
		Out:        cmd.OutOrStdout(),
		Err:        cmd.ErrOrStderr(),
	}

	provisioner := kindprovisioner.NewProvisioner(cfg.Kubeconfig)

	return UpDeps{
		Installer:   installer,
		Provisioner: provisioner,
		WaitForReady: func(ctx context.Context) error {
			clientset, _, clientErr := k8s.NewClientset(cfg.Kubeconfig, "")
			if clientErr != nil {
				return clientErr
			}

			return readiness.WaitForAPIServerReady(ctx, clientset, cfg.Wait)
		},
		VerifySteps: func() ([]provision.Step, error) {
			clientset, restConfig, clientErr := k8s.NewClientset(cfg.Kubeconfig, "")
			if clientErr != nil {
				return nil, clientErr
			}

			verifier := &verify.Verifier{
				Runtime:         engine,
				Clientset:       clientset,
				ControlPlaneURL: restConfig.Host,
				Writer:          cmd.OutOrStdout(),
			}

			return verifier.Steps(), nil
		},
	}, nil
}
