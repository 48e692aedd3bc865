package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithEmptyPathIsNoOp(t *testing.T) {
	log, err := New("")
	require.NoError(t, err)
	require.NotNil(t, log)

	// A no-op logger must swallow writes without side effects.
	log.Info("discarded")
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "haru.log")

	log, err := New(path)
	require.NoError(t, err)

	log.Info("hello from test")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}
