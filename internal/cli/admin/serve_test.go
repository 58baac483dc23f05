package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePort(t *testing.T) {
	t.Run("unset flag keeps the configured port", func(t *testing.T) {
		cmd := ServeCmd()
		require.NoError(t, cmd.ParseFlags(nil))

		assert.Equal(t, "9090", resolvePort(cmd, "9090"))
	})

	t.Run("explicit flag overrides the configured port", func(t *testing.T) {
		cmd := ServeCmd()
		require.NoError(t, cmd.ParseFlags([]string{"--port", "3000"}))

		assert.Equal(t, "3000", resolvePort(cmd, "9090"))
	})

	t.Run("explicit flag equal to the default still overrides", func(t *testing.T) {
		cmd := ServeCmd()
		require.NoError(t, cmd.ParseFlags([]string{"--port", "8080"}))

		assert.Equal(t, "8080", resolvePort(cmd, "9090"))
	})
}
