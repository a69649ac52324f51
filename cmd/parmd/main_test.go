package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a sqlite config listening on port and logging to a
// directory of its own, which it returns.
func writeConfig(t *testing.T, port int) (configPath, logDir string) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "")

	dir := t.TempDir()
	logDir = filepath.Join(dir, "logs")
	configPath = filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf(`
server:
  port: %d
database:
  driver: sqlite
  dsn: %q
reservations:
  source: database
logging:
  level: info
  directory: %q
`, port, filepath.Join(dir, "parm.db"), logDir)
	require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0o644))
	return configPath, logDir
}

func readLog(t *testing.T, dir string) string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	return string(data)
}

func TestRun_MissingConfig(t *testing.T) {
	err := run(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to load configuration")
}

func TestRun_ListenFailureReturnsError(t *testing.T) {
	busy, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer busy.Close()

	configPath, logDir := writeConfig(t, busy.Addr().(*net.TCPAddr).Port)

	err = run(context.Background(), configPath)
	assert.ErrorContains(t, err, "ListenAndServe")

	// The log was written through to the end and its file released.
	assert.Contains(t, readLog(t, logDir), "HTTP server starting")
}

func TestRun_StopsWhenContextDone(t *testing.T) {
	free, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	port := free.Addr().(*net.TCPAddr).Port
	require.NoError(t, free.Close())

	configPath, logDir := writeConfig(t, port)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, run(ctx, configPath))
	assert.Contains(t, readLog(t, logDir), "server gracefully stopped")
}
