// Package config loads the process configuration of the safety monitor.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	AI          AIConfig          `yaml:"ai"`
	Lexicon     LexiconConfig     `yaml:"lexicon"`
	Notify      NotifyConfig      `yaml:"notify"`
	Logging     LoggingConfig     `yaml:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Integration IntegrationConfig `yaml:"integration"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	ListenAddress   string        `yaml:"listen_address"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// MaxBodyBytes limits the webhook request body.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// AIConfig configures the generative model client.
type AIConfig struct {
	// APIKey is the process-level fallback used when a request carries no aiApiKey.
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// Lexicon backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendFile   = "file"
)

// LexiconConfig selects where extra profanity words are stored.
type LexiconConfig struct {
	Backend      string        `yaml:"backend"`
	SyncInterval time.Duration `yaml:"sync_interval"`
	// Words seed the memory backend.
	Words  []string     `yaml:"words"`
	SQLite SQLiteConfig `yaml:"sqlite"`
	Redis  RedisConfig  `yaml:"redis"`
	File   FileConfig   `yaml:"file"`
}

type SQLiteConfig struct {
	Path  string `yaml:"path"`
	Table string `yaml:"table"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

type FileConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// NotifyConfig configures channel notifications for non-allowed messages.
type NotifyConfig struct {
	ReturnURL        string        `yaml:"return_url"`
	DefaultChannelID string        `yaml:"default_channel_id"`
	Timeout          time.Duration `yaml:"timeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`
}

// IntegrationConfig is published by the integration metadata endpoint.
type IntegrationConfig struct {
	AppURL          string `yaml:"app_url"`
	AppName         string `yaml:"app_name"`
	AppDescription  string `yaml:"app_description"`
	AppLogo         string `yaml:"app_logo"`
	BackgroundColor string `yaml:"background_color"`
	Category        string `yaml:"category"`
	Author          string `yaml:"author"`
	Version         string `yaml:"version"`
	CreatedAt       string `yaml:"created_at"`
	UpdatedAt       string `yaml:"updated_at"`
}
