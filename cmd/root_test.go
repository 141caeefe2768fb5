package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	// Verify expected subcommands are registered.
	expected := []string{"serve", "report", "feed", "classify", "issue", "stats", "migrate"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "civic-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestReportCommand_Flags(t *testing.T) {
	for _, name := range []string{"title", "description", "category", "lat", "lng", "classify"} {
		flag := reportCmd.Flags().Lookup(name)
		require.NotNil(t, flag, "report command should have --%s flag", name)
	}
}

func TestFeedCommand_Flags(t *testing.T) {
	for _, name := range []string{"lat", "lng", "radius-km", "search", "category", "status", "geojson"} {
		flag := feedCmd.Flags().Lookup(name)
		require.NotNil(t, flag, "feed command should have --%s flag", name)
	}
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestClassifyCommand_HasBackfill(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range classifyCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["backfill"], "classify should have a backfill subcommand")
}

func TestIssueCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range issueCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"list", "status", "upvote", "flag", "delete"} {
		assert.True(t, names[name], "issue should have a %s subcommand", name)
	}
}
