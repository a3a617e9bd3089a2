package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

// AuthConfig holds the two shared secrets and the token settings. Passwords
// may be plaintext or bcrypt hashes ($2...); the guard detects which.
type AuthConfig struct {
	AdminPassword string `mapstructure:"admin_password"`
	GuestPassword string `mapstructure:"guest_password"`
	TokenSecret   string `mapstructure:"token_secret"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours"`
}

type AssistantConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	HistoryTurns   int    `mapstructure:"history_turns"`
}

type RateLimitConfig struct {
	LoginDailyLimit int  `mapstructure:"login_daily_limit"`
	ChatEnabled     bool `mapstructure:"chat_enabled"`
	ChatDailyLimit  int  `mapstructure:"chat_daily_limit"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

var (
	appConfig *Config
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working directory.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		// environment overrides, e.g. BSR_SERVER_PORT=9000
		v.SetEnvPrefix("BSR") // baby shower registry
		v.AutomaticEnv()

		v.SetDefault("server.address", "0.0.0.0")
		v.SetDefault("server.port", 8080)
		v.SetDefault("database.path", "data/registry.db")
		v.SetDefault("auth.token_ttl_hours", 24)
		v.SetDefault("assistant.model", "gemini-2.0-flash")
		v.SetDefault("assistant.timeout_seconds", 30)
		v.SetDefault("assistant.history_turns", 10)
		v.SetDefault("rate_limit.login_daily_limit", 10)
		v.SetDefault("rate_limit.chat_enabled", true)
		v.SetDefault("rate_limit.chat_daily_limit", 100)

		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("read config: %w", err)
			return
		}

		var c Config
		if err = v.Unmarshal(&c); err != nil {
			err = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		appConfig = &c
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
