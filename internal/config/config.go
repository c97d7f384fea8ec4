package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	APIBaseURL     string        `mapstructure:"api_base_url"`
	UseMockData    bool          `mapstructure:"use_mock_data"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	LogLevel       string        `mapstructure:"log_level"`

	AIProvider    string `mapstructure:"ai_provider"` // perplexity, openai, ollama
	AIModel       string `mapstructure:"ai_model"`
	PerplexityKey string `mapstructure:"perplexity_key"`
	OpenAIKey     string `mapstructure:"openai_key"`
	OllamaURL     string `mapstructure:"ollama_url"`

	// Embedded demo backend
	ServerPort     string `mapstructure:"server_port"`
	ServerDBDriver string `mapstructure:"server_db_driver"` // sqlite3, postgres
	ServerDBDSN    string `mapstructure:"server_db_dsn"`
	JWTSecret      string `mapstructure:"jwt_secret"`
}

// ValidKeys lists the keys accepted by Set
var ValidKeys = []string{
	"api_base_url", "use_mock_data", "request_timeout", "log_level",
	"ai_provider", "ai_model", "perplexity_key", "openai_key", "ollama_url",
	"server_port", "server_db_driver", "server_db_dsn", "jwt_secret",
}

var AppConfig *Config

// Dir returns the directory holding the config file and the local database
func Dir() (string, error) {
	if dir := os.Getenv("HIREPIPE_HOME"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".hirepipe"), nil
}

// Initialize loads or creates the configuration file
func Initialize() error {
	configDir, err := Dir()
	if err != nil {
		return err
	}
	configFile := filepath.Join(configDir, "config.yaml")

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := createDefaultConfig(configFile); err != nil {
			return err
		}
	}

	cfg, err := load(configFile)
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

func load(configFile string) (*Config, error) {
	viper.SetConfigFile(configFile)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("hirepipe")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_base_url", "http://localhost:8080/api")
	v.SetDefault("use_mock_data", false)
	v.SetDefault("request_timeout", "10s")
	v.SetDefault("log_level", "warn")
	v.SetDefault("ai_provider", "perplexity")
	v.SetDefault("ai_model", "sonar-pro")
	v.SetDefault("perplexity_key", "")
	v.SetDefault("openai_key", "")
	v.SetDefault("ollama_url", "http://localhost:11434")
	v.SetDefault("server_port", "8080")
	v.SetDefault("server_db_driver", "sqlite3")
	v.SetDefault("server_db_dsn", "")
	v.SetDefault("jwt_secret", "")
}

// createDefaultConfig creates a default config file
func createDefaultConfig(path string) error {
	defaultConfig := `# hirepipe configuration
# Platform API used by the data services. When it is unreachable the
# commands fall back to built-in demo data.
api_base_url: http://localhost:8080/api
use_mock_data: false
request_timeout: 10s
log_level: warn

# AI assistant: perplexity, openai, ollama
ai_provider: perplexity
ai_model: sonar-pro
perplexity_key: ""
openai_key: ""
ollama_url: http://localhost:11434

# Embedded demo backend (hirepipe serve)
server_port: "8080"
server_db_driver: sqlite3
server_db_dsn: ""
jwt_secret: ""
`
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

// Set updates a configuration value
func Set(key, value string) error {
	if !IsValidKey(key) {
		return fmt.Errorf("invalid key %q: must be one of %v", key, ValidKeys)
	}
	viper.Set(key, value)
	return viper.WriteConfig()
}

// IsValidKey reports whether key can be written with Set
func IsValidKey(key string) bool {
	for _, k := range ValidKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get retrieves a configuration value
func Get(key string) string {
	return viper.GetString(key)
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	dir, _ := Dir()
	return filepath.Join(dir, "config.yaml")
}

// SlogLevel maps the configured log level onto slog
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
