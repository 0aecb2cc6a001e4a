package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with no config home so only
// what the test writes is visible to Load.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, DefaultSessionKey, cfg.SessionKey)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, "none", cfg.LLM.Provider)
	assert.Equal(t, 20*time.Second, cfg.LLM.Timeout)
	assert.False(t, cfg.Storage.Enabled())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
catalog_path: /etc/sfassess/catalog.yaml
log:
  level: debug
  file: /tmp/sfassess.log
server:
  addr: ":9090"
llm:
  provider: openai
  model: gpt-4o
  timeout: 5s
`), 0o644))

	t.Setenv("SFASSESS_SERVER_ADDR", ":7070")
	t.Setenv("SFASSESS_LLM_API_KEY", "sk-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/etc/sfassess/catalog.yaml", cfg.CatalogPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/sfassess.log", cfg.Log.File)
	assert.Equal(t, ":7070", cfg.Server.Addr, "environment overrides the file")
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-env", cfg.LLM.APIKey)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)

	p := cfg.LLM.Provider()
	assert.Equal(t, "gpt-4o", p.Model)
	assert.Equal(t, "sk-env", p.APIKey)
	assert.Equal(t, 5*time.Second, p.Timeout)
	assert.Equal(t, 3, p.Retry.MaxAttempts)
}

func TestLoad_SearchPathAndDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sfassess.yaml"), []byte("session_key: other\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SFASSESS_EXPORT_DIR=/srv/exports\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SFASSESS_EXPORT_DIR") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "other", cfg.SessionKey)
	assert.Equal(t, "/srv/exports", cfg.Export.Dir)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"empty session key", func(c *Config) { c.SessionKey = "  " }, "session_key"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad server mode", func(c *Config) { c.Server.Mode = "prod" }, "server.mode"},
		{"storage missing bucket and keys", func(c *Config) { c.Storage.Endpoint = "s3.local:9000" }, "storage.bucket, storage.access_key, storage.secret_key"},
		{"storage complete", func(c *Config) {
			c.Storage = StorageConfig{Endpoint: "s3.local:9000", Bucket: "b", AccessKey: "a", SecretKey: "s"}
		}, ""},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "claude" }, "llm.provider"},
		{"auto provider", func(c *Config) { c.LLM.Provider = "auto" }, ""},
		{"negative timeout", func(c *Config) { c.LLM.Timeout = -time.Second }, "llm.timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLLMConfig_Provider(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	t.Setenv("OPENAI_API_KEY", "sk-auto")

	auto := LLMConfig{Provider: "auto"}.Provider()
	assert.Equal(t, "openai", auto.Provider)
	assert.Equal(t, "sk-auto", auto.APIKey)

	none := LLMConfig{Provider: "none"}.Provider()
	assert.Equal(t, "none", none.Provider)
	assert.Empty(t, none.APIKey, "a disabled provider never picks up keys")

	explicit := LLMConfig{Provider: "openai", APIKey: "sk-file"}.Provider()
	assert.Equal(t, "sk-file", explicit.APIKey)
}
