package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCmd_ListsRules(t *testing.T) {
	cmd, stub, _ := newTestRootCmd(t, newListCmd())

	cmd.SetArgs([]string{"list"})
	require.NoError(t, cmd.Execute())

	assert.True(t, stub.listed)
}

func TestListCmd_RejectsPositionalArgs(t *testing.T) {
	cmd, _, _ := newTestRootCmd(t, newListCmd())

	cmd.SetArgs([]string{"list", "extra"})
	require.Error(t, cmd.Execute())
}
