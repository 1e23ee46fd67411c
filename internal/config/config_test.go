package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load looks at so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GROQ_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENAI_MODEL",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
		"ASSISTANT_STORAGE", "ASSISTANT_DATA_DIR", "JWT_SECRET", "ASSISTANT_ADDR", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "groq", cfg.LLM.Provider)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout())
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "assistant.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: openai
  model: gpt-4o-mini
  timeout: 5s
storage:
  driver: sqlite
  data_dir: /var/lib/assistant
server:
  addr: ":9000"
  allowed_origins: ["https://app.example.com"]
logging:
  level: debug
  json: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 5*time.Second, cfg.LLMTimeout())
	assert.Equal(t, "/var/lib/assistant/assistant.db", cfg.StoragePath())
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Logging.JSON)
	assert.Equal(t, 5432, cfg.Storage.DBPort, "unset keys keep defaults")
}

func TestLoadBadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4.1")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "assistant")
	t.Setenv("ASSISTANT_STORAGE", "postgres")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4.1", cfg.LLM.Model)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "s3cret", cfg.Server.JWTSecret)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "host=db.internal port=6543 user=app password=pw dbname=assistant sslmode=disable", cfg.ConnString())
	assert.NoError(t, cfg.Validate())
}

func TestEnvProviderPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("GROQ_API_KEY", "gsk")
	t.Setenv("GEMINI_API_KEY", "gem")
	t.Setenv("OPENAI_MODEL", "ignored-for-gemini")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gem", cfg.LLM.APIKey)
	assert.Empty(t, cfg.LLM.Model)
}

func TestBadDBPortKeepsDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_PORT", "not-a-port")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Storage.DBPort)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"provider": func(c *Config) { c.LLM.Provider = "skynet" },
		"driver":   func(c *Config) { c.Storage.Driver = "tape" },
		"timeout":  func(c *Config) { c.LLM.Timeout = "soon" },
		"postgres": func(c *Config) { c.Storage.Driver = "postgres" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestStoragePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.DataDir = "/data"
	assert.Equal(t, "/data/assistant.json", cfg.StoragePath())
	cfg.Storage.Path = "/elsewhere/kv.json"
	assert.Equal(t, "/elsewhere/kv.json", cfg.StoragePath())
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "assistant.yaml")
	cfg := DefaultConfig()
	cfg.LLM.Provider = "none"
	cfg.Storage.Driver = "memory"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
