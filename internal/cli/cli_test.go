package cli_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdstream/internal/cli"
)

func findCommand(root *cobra.Command, name string) *cobra.Command {
	for _, c := range root.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	root := cli.NewRootCommand(cli.BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"})
	require.NotNil(t, root)
	assert.Equal(t, "mdstream", root.Use)
	assert.True(t, root.SilenceUsage)
	assert.True(t, root.SilenceErrors)

	for _, name := range []string{"render", "inspect", "version"} {
		assert.NotNil(t, findCommand(root, name), "missing subcommand %s", name)
	}

	for _, flag := range []string{"debug", "config", "color"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "missing persistent flag %s", flag)
	}
}

func TestRenderCommandFlags(t *testing.T) {
	t.Parallel()

	root := cli.NewRootCommand(cli.BuildInfo{})
	render := findCommand(root, "render")
	require.NotNil(t, render)

	for _, flag := range []string{"format", "flavor", "chunk-size", "chunk-jitter", "detect-language"} {
		assert.NotNil(t, render.Flags().Lookup(flag), "missing render flag %s", flag)
	}
}

func TestInspectCommandFlags(t *testing.T) {
	t.Parallel()

	root := cli.NewRootCommand(cli.BuildInfo{})
	inspect := findCommand(root, "inspect")
	require.NotNil(t, inspect)

	for _, flag := range []string{"flavor", "chunk-size"} {
		assert.NotNil(t, inspect.Flags().Lookup(flag), "missing inspect flag %s", flag)
	}
}
