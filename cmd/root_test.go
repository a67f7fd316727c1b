package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"scrape", "index", "serve", "match"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "company-match", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestScrapeCommand_Flags(t *testing.T) {
	for _, flagName := range []string{"input", "output", "workers", "timeout", "retries", "test", "no-chrome"} {
		flag := scrapeCmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "scrape should have --%s flag", flagName)
	}
}

func TestIndexCommand_Flags(t *testing.T) {
	for _, flagName := range []string{"scraped", "names", "merged"} {
		flag := indexCmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "index should have --%s flag", flagName)
	}
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestMatchCommand_Flags(t *testing.T) {
	for _, flagName := range []string{"name", "website", "phone", "facebook"} {
		flag := matchCmd.Flags().Lookup(flagName)
		assert.NotNil(t, flag, "match should have --%s flag", flagName)
	}
}
