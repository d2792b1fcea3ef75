package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeploy_Flags(t *testing.T) {
	cmd := Deploy()

	tenantFlag := cmd.Flags().Lookup("tenant")
	require.NotNil(t, tenantFlag)
	assert.Equal(t, "t", tenantFlag.Shorthand)

	configFlagDef := cmd.Flags().Lookup("config")
	require.NotNil(t, configFlagDef)
}

func TestDeploy_RequiresDirArg(t *testing.T) {
	cmd := Deploy()

	assert.Error(t, cmd.Args(cmd, []string{}))
	assert.NoError(t, cmd.Args(cmd, []string{"./dist"}))
}

func TestDeploy_HasStatusSubcommand(t *testing.T) {
	cmd := Deploy()

	found := false
	for _, sub := range cmd.Commands() {
		if sub.Name() == "status" {
			found = true
		}
	}
	assert.True(t, found, "Expected status subcommand")
}
