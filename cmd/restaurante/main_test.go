package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestCommands(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "restaurante.yaml")
	cfg := fmt.Sprintf("database:\n  driver: sqlite\n  dsn: %q\nlog:\n  level: error\n", filepath.Join(dir, "cli.db"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	t.Run("migrate up", func(t *testing.T) {
		out, err := run(t, "migrate", "up", "--config", cfgPath)
		require.NoError(t, err)
		assert.Contains(t, out, "schema version 1 (dirty: false)")
	})

	t.Run("migrate down", func(t *testing.T) {
		out, err := run(t, "migrate", "down", "--steps", "1", "--config", cfgPath)
		require.NoError(t, err)
		assert.Contains(t, out, "schema version 0")
	})

	t.Run("seed is repeatable", func(t *testing.T) {
		for range 2 {
			out, err := run(t, "seed", "--config", cfgPath)
			require.NoError(t, err)
			assert.Contains(t, out, "seed complete")
		}
	})

	t.Run("unknown action", func(t *testing.T) {
		_, err := run(t, "migrate", "sideways", "--config", cfgPath)
		assert.ErrorContains(t, err, "unknown migrate action")
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := run(t, "migrate", "version", "--config", filepath.Join(dir, "absent.yaml"))
		assert.Error(t, err)
	})
}
