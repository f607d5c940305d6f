// Package config resolves the bootstrap configuration from defaults, an
// optional config file, KINDSTRAP_* environment variables, and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// SkipCreateEnvVar gates cluster creation. Its presence, not its value, is
// the signal: any defined value skips creation and verification.
const SkipCreateEnvVar = "SKIP_CREATE_KIND_CLUSTER"

// envPrefix namespaces the environment overrides for every flag.
const envPrefix = "KINDSTRAP"

// Defaults for the bootstrap workflow.
const (
	DefaultConfigPath    = "ci/k8s/kind.config.yaml"
	DefaultInstallScript = "ci/k8s/install-toolchain.sh"
	DefaultWait          = 120 * time.Second
)

// Flag names shared between flag registration and lookup.
const (
	flagConfig        = "config"
	flagWait          = "wait"
	flagInstallScript = "install-script"
	flagKubeconfig    = "kubeconfig"
)

// Config is the resolved configuration for one bootstrap run. SkipCreate is
// read once at load time and immutable afterwards.
type Config struct {
	// ConfigPath is the kind cluster config file handed to the provisioner.
	ConfigPath string
	// Wait bounds how long cluster creation blocks for readiness.
	Wait time.Duration
	// InstallScript is the toolchain install script. Empty disables it.
	InstallScript string
	// Kubeconfig is the kubeconfig path. Empty uses the ambient default.
	Kubeconfig string
	// SkipCreate reports whether SKIP_CREATE_KIND_CLUSTER was defined in
	// the environment when the configuration was loaded.
	SkipCreate bool
}

// Manager binds flags, environment, and the optional kindstrap.yaml config
// file into a Config. Priority: defaults < config file < environment < flags.
type Manager struct {
	Viper *viper.Viper

	lookupEnv func(string) (string, bool)
}

// NewManager creates a Manager with Viper initialized for the KINDSTRAP
// environment prefix and an optional kindstrap.yaml in the working directory.
func NewManager() *Manager {
	viperInstance := viper.New()
	viperInstance.SetConfigName("kindstrap")
	viperInstance.SetConfigType("yaml")
	viperInstance.AddConfigPath(".")
	viperInstance.SetEnvPrefix(envPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viperInstance.AutomaticEnv()

	viperInstance.SetDefault(flagConfig, DefaultConfigPath)
	viperInstance.SetDefault(flagWait, DefaultWait)
	viperInstance.SetDefault(flagInstallScript, DefaultInstallScript)
	viperInstance.SetDefault(flagKubeconfig, "")

	return &Manager{
		Viper:     viperInstance,
		lookupEnv: os.LookupEnv,
	}
}

// AddFlags registers the bootstrap flags on the command and binds them into
// Viper so environment variables and the config file can override defaults.
func (m *Manager) AddFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.String(flagConfig, DefaultConfigPath, "Path to the kind cluster config file")
	flags.Duration(flagWait, DefaultWait, "How long to wait for the cluster to become ready")
	flags.String(
		flagInstallScript,
		DefaultInstallScript,
		"Toolchain install script to run first (empty to skip)",
	)
	flags.String(flagKubeconfig, "", "Kubeconfig path (defaults to the ambient kubeconfig)")

	for _, name := range []string{flagConfig, flagWait, flagInstallScript, flagKubeconfig} {
		_ = m.Viper.BindPFlag(name, flags.Lookup(name))
	}
}

// Load reads the optional config file and resolves the final Config. A
// missing config file is not an error; a malformed one is.
func (m *Manager) Load() (*Config, error) {
	err := m.Viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Presence-based: the variable being defined is the signal, even when
	// its value looks empty. The value is never parsed as a boolean.
	_, skipCreate := m.lookupEnv(SkipCreateEnvVar)

	return &Config{
		ConfigPath:    m.Viper.GetString(flagConfig),
		Wait:          m.Viper.GetDuration(flagWait),
		InstallScript: m.Viper.GetString(flagInstallScript),
		Kubeconfig:    m.Viper.GetString(flagKubeconfig),
		SkipCreate:    skipCreate,
	}, nil
}
