package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ValidProviders = []string{"groq", "openai", "gemini", "none"}
	ValidDrivers   = []string{"memory", "file", "sqlite", "postgres"}
)

const defaultLLMTimeout = 30 * time.Second

type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig selects the completion backend. Provider "none" disables remote
// calls; every reply then comes from the fallback set.
type LLMConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`
}

type StorageConfig struct {
	Driver  string `yaml:"driver"`
	DataDir string `yaml:"data_dir"`
	// Path overrides the file or sqlite location derived from DataDir.
	Path string `yaml:"path"`

	DBHost     string `yaml:"db_host"`
	DBPort     int    `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	JWTSecret      string   `yaml:"jwt_secret"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "groq",
			Timeout:  defaultLLMTimeout.String(),
		},
		Storage: StorageConfig{
			Driver:  "file",
			DataDir: defaultDataDir(),
			DBPort:  5432,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".assistant"
	}
	return filepath.Join(home, ".assistant")
}

// Load reads defaults, then the YAML file at path (if it exists), then
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	// later keys win
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "groq"
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "openai"
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "gemini"
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" && c.LLM.Provider == "openai" {
		c.LLM.Model = model
	}

	if v := os.Getenv("DB_HOST"); v != "" {
		c.Storage.DBHost = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Storage.DBPort = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Storage.DBUser = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Storage.DBPassword = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Storage.DBName = v
	}
	if v := os.Getenv("ASSISTANT_STORAGE"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("ASSISTANT_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}

	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Server.JWTSecret = v
	}
	if v := os.Getenv("ASSISTANT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// LLMTimeout returns the request timeout, defaulting to 30s when unset or
// unparsable.
func (c *Config) LLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil || d <= 0 {
		return defaultLLMTimeout
	}
	return d
}

// StoragePath is the file used by the file and sqlite drivers.
func (c *Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	name := "assistant.json"
	if c.Storage.Driver == "sqlite" {
		name = "assistant.db"
	}
	return filepath.Join(c.Storage.DataDir, name)
}

// ConnString builds the lib/pq DSN for the postgres driver.
func (c *Config) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Storage.DBHost, c.Storage.DBPort, c.Storage.DBUser, c.Storage.DBPassword, c.Storage.DBName,
	)
}

func (c *Config) Validate() error {
	if !slices.Contains(ValidProviders, c.LLM.Provider) {
		return fmt.Errorf("invalid LLM provider: %s (valid: %v)", c.LLM.Provider, ValidProviders)
	}
	if !slices.Contains(ValidDrivers, c.Storage.Driver) {
		return fmt.Errorf("invalid storage driver: %s (valid: %v)", c.Storage.Driver, ValidDrivers)
	}
	if c.LLM.Timeout != "" {
		if _, err := time.ParseDuration(c.LLM.Timeout); err != nil {
			return fmt.Errorf("invalid llm timeout %q: %w", c.LLM.Timeout, err)
		}
	}
	if c.Storage.Driver == "postgres" && (c.Storage.DBHost == "" || c.Storage.DBName == "") {
		return fmt.Errorf("postgres storage needs DB_HOST and DB_NAME")
	}
	return nil
}
