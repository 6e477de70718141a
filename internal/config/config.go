package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

type SessionStoreType string

const (
	SessionStoreMemory SessionStoreType = "memory"
	SessionStoreRedis  SessionStoreType = "redis"
)

// bcrypt accepts costs in [4, 31].
const (
	minBcryptCost = 4
	maxBcryptCost = 31
)

// Config holds the configuration for the loanwise server and its dependencies.
type Config struct {
	// Listen is the address the loanwise server will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// SessionKey is the key used to sign the session cookie.
	// If empty, a random key is generated on every start and sessions don't survive restarts.
	SessionKey string `yaml:"session_key" mapstructure:"session_key"`
	// SessionMaxAge is the maximum age of a session in seconds.
	SessionMaxAge int `yaml:"session_max_age" mapstructure:"session_max_age"`
	// SecureCookies marks the session cookie as secure (HTTPS only).
	SecureCookies bool `yaml:"secure_cookies" mapstructure:"secure_cookies"`
	// BcryptCost is the work factor used to hash passwords.
	BcryptCost int `yaml:"bcrypt_cost" mapstructure:"bcrypt_cost"`
	// Database holds the database configuration.
	Database *DatabaseConfig `yaml:"database" mapstructure:"database"`
	// Model holds the locations of the prediction model artifacts.
	Model *ModelConfig `yaml:"model" mapstructure:"model"`
	// SessionStore holds the configuration of the server side session store.
	SessionStore *SessionStoreConfig `yaml:"session_store" mapstructure:"session_store"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	// Path is the path to the database file.
	Path string `yaml:"path" mapstructure:"path"`
}

// ModelConfig holds the paths of the externally trained model artifacts.
type ModelConfig struct {
	// Path is the path to the serialized classifier.
	Path string `yaml:"path" mapstructure:"path"`
	// ColumnsPath is the path to the ordered list of feature columns the classifier was trained on.
	ColumnsPath string `yaml:"columns_path" mapstructure:"columns_path"`
}

// SessionStoreConfig holds the configuration for the session store.
type SessionStoreConfig struct {
	// Type is the session backend to use ("memory" or "redis").
	Type SessionStoreType `yaml:"type" mapstructure:"type"`
	// RedisURL is the address of the redis server if using redis.
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url"`
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, it will use default search paths for config files.
// A missing config file is not an error, defaults and environment variables are used instead.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("LOANWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.loanwise")
		v.AddConfigPath("/etc/loanwise")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Debug("No config file found, using defaults and environment")
	} else {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	sanitizeConfig(&c)

	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	if c.SessionKey == "" {
		key, err := randomKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate session key: %w", err)
		}
		c.SessionKey = key
		log.Warn("no session_key configured, generated a random one; sessions will not survive a restart")
	}

	return &c, nil
}

// setDefaults sets default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "127.0.0.1:5000")
	v.SetDefault("session_key", "")
	v.SetDefault("session_max_age", 3600) // 1 hour
	v.SetDefault("secure_cookies", false)
	v.SetDefault("bcrypt_cost", 10)

	v.SetDefault("database.path", "./data/loanwise.db")

	v.SetDefault("model.path", "./models/loan_approval_model.json")
	v.SetDefault("model.columns_path", "./models/columns.json")

	v.SetDefault("session_store.type", SessionStoreMemory)
	v.SetDefault("session_store.redis_url", "")
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing loanwise config")
	}

	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}

	if c.SessionMaxAge <= 0 {
		return fmt.Errorf("session max age must be greater than 0")
	}

	if c.BcryptCost < minBcryptCost || c.BcryptCost > maxBcryptCost {
		return fmt.Errorf("bcrypt cost must be between %d and %d", minBcryptCost, maxBcryptCost)
	}

	if c.Database == nil || c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if c.Model == nil {
		return fmt.Errorf("missing model config")
	}
	if c.Model.Path == "" {
		return fmt.Errorf("model path is required")
	}
	if c.Model.ColumnsPath == "" {
		return fmt.Errorf("model columns path is required")
	}

	if c.SessionStore == nil {
		c.SessionStore = &SessionStoreConfig{Type: SessionStoreMemory}
	}
	switch c.SessionStore.Type {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.SessionStore.RedisURL == "" {
			return fmt.Errorf("Redis URL is required when the redis session store is enabled") //nolint:staticcheck
		}
	default:
		return fmt.Errorf("unknown session store type %q", c.SessionStore.Type)
	}

	return nil
}

// sanitizeConfig sanitizes the configuration values.
func sanitizeConfig(c *Config) {
	if c == nil {
		return
	}

	c.Listen = strings.TrimSpace(c.Listen)

	if c.Database != nil {
		c.Database.Path = strings.TrimSpace(c.Database.Path)
	}

	if c.Model != nil {
		c.Model.Path = strings.TrimSpace(c.Model.Path)
		c.Model.ColumnsPath = strings.TrimSpace(c.Model.ColumnsPath)
	}

	if c.SessionStore != nil {
		c.SessionStore.Type = SessionStoreType(strings.ToLower(strings.TrimSpace(string(c.SessionStore.Type))))
		c.SessionStore.RedisURL = strings.TrimSpace(c.SessionStore.RedisURL)
	}
}

func randomKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
