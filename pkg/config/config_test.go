package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSource map[string]string

func (m mapSource) GetString(key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

type failingSource struct{}

func (failingSource) GetString(string) (string, bool, error) { return "", false, errors.New("locked") }

func clearEnv(t *testing.T) {
	for _, k := range []string{"V20_BASE_URL", "V20_ACCOUNT_ID", "V20_TOKEN", "V20_TIMEOUT_SECONDS",
		"GOBET_LOG_LEVEL", "GOBET_LOG_FILE", "GOBET_SECRET_DB", "GOBET_SECRET_KEY", "GOBET_SECRET_TOKEN_KEY"} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFromFile("")
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.V20.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.V20.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Log.Compress)
	assert.Equal(t, DefaultTokenKey, cfg.Secrets.TokenKey)
	assert.Error(t, cfg.Validate())
}

func TestLoadFromFile_YAMLAndEnvOverride(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
v20:
  base_url: https://api-fxtrade.oanda.com/
  account_id: 001-001-1-001
  token: file-token
  timeout_seconds: 5
log:
  level: debug
  file: logs/x.log
  compress: false
secrets:
  token_key: env/OTHER
`)
	t.Setenv("V20_ACCOUNT_ID", "101-004-9-001")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api-fxtrade.oanda.com", cfg.V20.BaseURL)
	assert.Equal(t, "101-004-9-001", cfg.V20.AccountID)
	assert.Equal(t, "file-token", cfg.V20.Token)
	assert.Equal(t, 5*time.Second, cfg.V20.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Log.Compress)
	assert.Equal(t, "env/OTHER", cfg.Secrets.TokenKey)
	assert.NoError(t, cfg.Validate())

	lc := cfg.LoggerConfig()
	assert.Equal(t, "logs/x.log", lc.OutputFile)
	assert.Equal(t, 100, lc.MaxSize)
}

func TestLoadFromFile_BadYAML(t *testing.T) {
	clearEnv(t)
	_, err := LoadFromFile(writeFile(t, "v20: [unterminated"))
	assert.Error(t, err)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolveToken(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFromFile("")
	require.NoError(t, err)
	cfg.V20.AccountID = "acct"

	require.Error(t, cfg.ResolveToken(mapSource{}))
	require.Error(t, cfg.ResolveToken(failingSource{}))

	require.NoError(t, cfg.ResolveToken(mapSource{DefaultTokenKey: " from-badger \n"}))
	assert.Equal(t, "from-badger", cfg.V20.Token)
	assert.NoError(t, cfg.Validate())

	// 已有 token 时不再读取
	require.NoError(t, cfg.ResolveToken(failingSource{}))
}
