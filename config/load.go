package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path, applies defaults and environment
// overrides, then validates. An empty path skips the file.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg, os.LookupEnv)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type lookupFunc func(key string) (string, bool)

// applyEnvOverrides uses SAFETY_MONITOR_SECTION_FIELD names. The short names
// used by the hosting platform (PORT, GEMINI_API_KEY, TELEX_*) are honored too;
// the prefixed form wins when both are set.
func applyEnvOverrides(cfg *Config, lookup lookupFunc) {
	get := func(keys ...string) (string, bool) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				return v, true
			}
		}
		return "", false
	}
	str := func(dst *string, keys ...string) {
		if v, ok := get(keys...); ok {
			*dst = v
		}
	}
	dur := func(dst *time.Duration, keys ...string) {
		if v, ok := get(keys...); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	str(&cfg.Server.ListenAddress, "SAFETY_MONITOR_SERVER_LISTEN_ADDRESS")
	if _, ok := get("SAFETY_MONITOR_SERVER_LISTEN_ADDRESS"); !ok {
		if port, ok := get("PORT"); ok {
			cfg.Server.ListenAddress = ":" + strings.TrimPrefix(port, ":")
		}
	}
	if v, ok := get("SAFETY_MONITOR_SERVER_MAX_BODY_BYTES"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Server.MaxBodyBytes = n
		}
	}

	str(&cfg.AI.APIKey, "SAFETY_MONITOR_AI_API_KEY", "GEMINI_API_KEY")
	str(&cfg.AI.BaseURL, "SAFETY_MONITOR_AI_BASE_URL")
	str(&cfg.AI.Model, "SAFETY_MONITOR_AI_MODEL")
	dur(&cfg.AI.Timeout, "SAFETY_MONITOR_AI_TIMEOUT")

	str(&cfg.Lexicon.Backend, "SAFETY_MONITOR_LEXICON_BACKEND")
	dur(&cfg.Lexicon.SyncInterval, "SAFETY_MONITOR_LEXICON_SYNC_INTERVAL")
	str(&cfg.Lexicon.SQLite.Path, "SAFETY_MONITOR_LEXICON_SQLITE_PATH")
	str(&cfg.Lexicon.Redis.Addr, "SAFETY_MONITOR_LEXICON_REDIS_ADDR")
	str(&cfg.Lexicon.Redis.Password, "SAFETY_MONITOR_LEXICON_REDIS_PASSWORD")
	str(&cfg.Lexicon.File.Path, "SAFETY_MONITOR_LEXICON_FILE_PATH")

	str(&cfg.Notify.ReturnURL, "SAFETY_MONITOR_NOTIFY_RETURN_URL", "TELEX_RETURN_URL")
	str(&cfg.Notify.DefaultChannelID, "SAFETY_MONITOR_NOTIFY_DEFAULT_CHANNEL_ID", "TELEX_CHANNEL_ID")

	str(&cfg.Logging.Level, "SAFETY_MONITOR_LOGGING_LEVEL", "LOG_LEVEL")
	str(&cfg.Logging.Format, "SAFETY_MONITOR_LOGGING_FORMAT")

	if v, ok := get("SAFETY_MONITOR_METRICS_ENABLED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}

	str(&cfg.Integration.AppURL, "SAFETY_MONITOR_INTEGRATION_APP_URL")
}
