package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitFiltersByLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.log")
	require.NoError(t, Init(Config{File: path, Level: "warn"}))

	Info("quiet", "id", 1)
	Warn("loud", "id", 2)
	require.NoError(t, Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "msg=loud")
	assert.Contains(t, out, "id=2")
}

func TestInitWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "relay.log")
	require.NoError(t, Init(Config{File: path, Level: "debug"}))

	Debug("handoff initiated", "id", 7)
	require.NoError(t, Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "handoff initiated")
	assert.Contains(t, string(raw), "id=7")
}

func TestInitWithoutFileDiscards(t *testing.T) {
	require.NoError(t, Init(Config{}))
	Error("dropped")
	assert.NoError(t, Close())
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "DEBUG",
		"WARNING": "WARN",
		"error":   "ERROR",
		"":        "INFO",
		"bogus":   "INFO",
	}
	for input, want := range cases {
		assert.Equal(t, want, parseLevel(input).String(), input)
	}
}
