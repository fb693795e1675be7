package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd_Use(t *testing.T) {
	root := NewRootCmd(NewApp())
	assert.Equal(t, "stereo", root.Use)
}

func TestNewRootCmd_HasSubcommands(t *testing.T) {
	root := NewRootCmd(NewApp())

	names := make(map[string]bool)
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{
		"index", "search", "delete", "drop-collection", "status",
		"watch", "config", "mcp", "tui", "version",
	} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestNewRootCmd_VerboseFlag(t *testing.T) {
	root := NewRootCmd(NewApp())

	flag := root.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag, "verbose flag should exist")
	assert.Equal(t, "v", flag.Shorthand)
	assert.Equal(t, "false", flag.DefValue)
}

func TestNewRootCmd_UnknownCommand(t *testing.T) {
	_, err := executeCmd(NewApp(), "frobnicate")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}
