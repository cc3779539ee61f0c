package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelete(t *testing.T) {
	cmd := Delete()

	require.NotNil(t, cmd)
	assert.Equal(t, "delete", cmd.Use)
	assert.Contains(t, cmd.Long, "WARNING")
	assert.NotNil(t, cmd.RunE)
}

func TestDelete_ForceFlag(t *testing.T) {
	cmd := Delete()

	flag := cmd.Flags().Lookup("force")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestDelete_HasNoShapeFlags(t *testing.T) {
	cmd := Delete()
	assert.Nil(t, cmd.Flags().Lookup("memory"), "delete does not take instance shape flags")
}
