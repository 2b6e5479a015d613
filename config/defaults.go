package config

import "time"

const (
	DefaultListenAddress   = ":3000"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxBodyBytes    = 100 << 10

	DefaultAIBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultAIModel   = "gemini-1.5-flash"
	DefaultAITimeout = 15 * time.Second

	DefaultSyncInterval  = 5 * time.Minute
	DefaultSQLiteTable   = "lexicon_words"
	DefaultRedisKey      = "safetymonitor:lexicon"
	DefaultNotifyTimeout = 5 * time.Second
	DefaultMetricsPath   = "/metrics"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero values.
func ApplyDefaults(cfg *Config) {
	s := &cfg.Server
	if s.ListenAddress == "" {
		s.ListenAddress = DefaultListenAddress
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.IdleTimeout == 0 {
		s.IdleTimeout = DefaultIdleTimeout
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = DefaultShutdownTimeout
	}
	if s.MaxBodyBytes == 0 {
		s.MaxBodyBytes = DefaultMaxBodyBytes
	}

	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = DefaultAIBaseURL
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = DefaultAIModel
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = DefaultAITimeout
	}

	l := &cfg.Lexicon
	if l.Backend == "" {
		l.Backend = BackendMemory
	}
	if l.SyncInterval == 0 {
		l.SyncInterval = DefaultSyncInterval
	}
	if l.SQLite.Table == "" {
		l.SQLite.Table = DefaultSQLiteTable
	}
	if l.Redis.Key == "" {
		l.Redis.Key = DefaultRedisKey
	}

	if cfg.Notify.Timeout == 0 {
		cfg.Notify.Timeout = DefaultNotifyTimeout
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	i := &cfg.Integration
	if i.AppURL == "" {
		i.AppURL = "http://localhost:3000"
	}
	if i.AppName == "" {
		i.AppName = "AI Safety Monitor"
	}
	if i.AppDescription == "" {
		i.AppDescription = "An AI-powered assistant that automatically monitors and filters messages for safety concerns using AI."
	}
	if i.BackgroundColor == "" {
		i.BackgroundColor = "#4A90E2"
	}
	if i.Category == "" {
		i.Category = "AI & Machine Learning"
	}
	if i.Version == "" {
		i.Version = "1.0.0"
	}
}
