package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported LLM providers
const (
	ProviderGoogleAI = "googleai"
	ProviderOllama   = "ollama"
	ProviderOpenAI   = "openai"
)

type Config struct {
	// File is the absolute path of the config file read, empty when none was found.
	File string

	Server     ServerConfig
	Logger     LoggerConfig
	LLM        LLMConfig
	Generation GenerationConfig
	Cache      CacheConfig
	Redis      RedisConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type LoggerConfig struct {
	Level  string `yaml:"level"`
	Env    string `yaml:"env"`
	// Output is "stdout" or "stderr".
	Output string `yaml:"output"`
}

type LLMConfig struct {
	Provider    string
	Model       string
	APIKey      string `yaml:"api_key"`
	ServerURL   string `yaml:"server_url"`
	Timeout     time.Duration
	// Temperature is nil when llm.temperature is not configured.
	Temperature *float64
}

type GenerationConfig struct {
	// FailureStatus is the HTTP status used when generation yields an error record.
	FailureStatus int `yaml:"failure_status"`
}

type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 20)
	v.SetDefault("server.write_timeout", 20)
	v.SetDefault("server.idle_timeout", 20)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.output", "stdout")

	v.SetDefault("llm.provider", ProviderGoogleAI)
	v.SetDefault("llm.model", "gemini-1.5-flash")
	v.SetDefault("llm.server_url", "http://localhost:11434")
	v.SetDefault("llm.timeout", 0)

	v.SetDefault("generation.failure_status", 200)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("redis.db", 0)
}

// LoadConfig reads config.yaml (if any) and applies environment overrides.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}
	if configFile := v.ConfigFileUsed(); configFile != "" {
		cfg.File, _ = filepath.Abs(configFile)
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
			IdleTimeout:  time.Duration(v.GetInt("server.idle_timeout")) * time.Second,
		},
		Logger: LoggerConfig{
			Level:  v.GetString("logger.level"),
			Env:    v.GetString("logger.env"),
			Output: v.GetString("logger.output"),
		},
		LLM: LLMConfig{
			Provider:  strings.ToLower(v.GetString("llm.provider")),
			Model:     v.GetString("llm.model"),
			APIKey:    v.GetString("llm.api_key"),
			ServerURL: v.GetString("llm.server_url"),
			Timeout:   time.Duration(v.GetInt("llm.timeout")) * time.Second,
		},
		Generation: GenerationConfig{
			FailureStatus: v.GetInt("generation.failure_status"),
		},
		Cache: CacheConfig{
			Enabled: v.GetBool("cache.enabled"),
			TTL:     ParseTTLStringOrDefault(v.GetString("cache.ttl"), time.Hour),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
	}

	if v.IsSet("llm.temperature") {
		temperature := v.GetFloat64("llm.temperature")
		config.LLM.Temperature = &temperature
	}

	// Override with environment variables if set
	if env := os.Getenv("ENV"); env != "" {
		config.Logger.Env = env
	}
	if config.LLM.APIKey == "" {
		config.LLM.APIKey = providerAPIKeyFromEnv(config.LLM.Provider)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// providerAPIKeyFromEnv falls back to the provider's conventional key variable.
func providerAPIKeyFromEnv(provider string) string {
	switch provider {
	case ProviderGoogleAI:
		return os.Getenv("GEMINI_API_KEY")
	case ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	}
	return ""
}

// Validate checks values that would otherwise fail at first request.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGoogleAI, ProviderOllama, ProviderOpenAI:
	default:
		return fmt.Errorf("unsupported llm provider: %q", c.LLM.Provider)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	if c.Generation.FailureStatus < 200 || c.Generation.FailureStatus > 599 {
		return fmt.Errorf("generation failure status must be a valid HTTP status, got %d", c.Generation.FailureStatus)
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("llm timeout cannot be negative")
	}
	return nil
}

// CacheActive reports whether completions should go through Redis.
func (c *Config) CacheActive() bool {
	return c.Cache.Enabled && c.Redis.Address != ""
}

// ParseTTLStringOrDefault parses a duration string like "30m", returning def on failure.
func ParseTTLStringOrDefault(ttlString string, def time.Duration) time.Duration {
	if ttlString == "" {
		return def
	}
	d, err := time.ParseDuration(ttlString)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
