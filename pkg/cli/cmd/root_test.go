package cmd_test

import (
	"bytes"
	"testing"

	"github.com/kindstrap/kindstrap/pkg/cli/cmd"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmdShowsHelp(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	rootCmd := cmd.NewRootCmd("dev", "none", "unknown")
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, out.String(), "kindstrap")
	assert.Contains(t, out.String(), "up")
	assert.Contains(t, out.String(), "down")
	assert.Contains(t, out.String(), "status")
}

func TestRootCmdVersion(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	rootCmd := cmd.NewRootCmd("1.2.3", "abc123", "2026-08-30")
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--version"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, out.String(), "1.2.3")
	assert.Contains(t, out.String(), "abc123")
}
