package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	require.NoError(t, Init(Config{Level: "debug", OutputFile: path, MaxSize: 1, Quiet: true}))
	t.Cleanup(func() { logrus.SetOutput(os.Stderr) })

	assert.Equal(t, path, GetCurrentLogFile())
	assert.Equal(t, logrus.DebugLevel, Logger.GetLevel())

	WithField("component", "v20").Info("hello-from-entry")
	Debugf("value=%d", 7)
	logrus.WithField("x", 1).Warn("global-logrus")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello-from-entry")
	assert.Contains(t, string(b), "value=7")
	assert.Contains(t, string(b), "global-logrus")
}

func TestInit_BadLevelFallsBackToInfo(t *testing.T) {
	require.NoError(t, Init(Config{Level: "loud", Quiet: true}))
	t.Cleanup(func() { logrus.SetOutput(os.Stderr) })

	assert.Equal(t, logrus.InfoLevel, Logger.GetLevel())
	assert.Empty(t, GetCurrentLogFile())
}
