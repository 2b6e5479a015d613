package config

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldError is a validation error for one configuration field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every FieldError found.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "configuration validation failed: " + e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:", len(e.Errors))
	for _, fe := range e.Errors {
		sb.WriteString("\n  - ")
		sb.WriteString(fe.Error())
	}
	return sb.String()
}

// Validate checks the configuration after defaults and overrides.
func Validate(cfg *Config) error {
	var errs []FieldError
	add := func(field, msg string) {
		errs = append(errs, FieldError{Field: field, Message: msg})
	}

	if cfg.Server.MaxBodyBytes <= 0 {
		add("server.max_body_bytes", "must be positive")
	}
	if cfg.Server.ReadTimeout < 0 || cfg.Server.WriteTimeout < 0 || cfg.Server.IdleTimeout < 0 {
		add("server", "timeouts must not be negative")
	}

	if cfg.AI.Timeout <= 0 {
		add("ai.timeout", "must be positive")
	}
	if !isHTTPURL(cfg.AI.BaseURL) {
		add("ai.base_url", "must be an http(s) URL")
	}

	switch cfg.Lexicon.Backend {
	case BackendMemory:
	case BackendSQLite:
		if cfg.Lexicon.SQLite.Path == "" {
			add("lexicon.sqlite.path", "is required for the sqlite backend")
		}
	case BackendRedis:
		if cfg.Lexicon.Redis.Addr == "" {
			add("lexicon.redis.addr", "is required for the redis backend")
		}
	case BackendFile:
		if cfg.Lexicon.File.Path == "" {
			add("lexicon.file.path", "is required for the file backend")
		}
	default:
		add("lexicon.backend", fmt.Sprintf("unknown backend %q", cfg.Lexicon.Backend))
	}
	if cfg.Lexicon.SyncInterval <= 0 {
		add("lexicon.sync_interval", "must be positive")
	}

	if cfg.Notify.ReturnURL != "" && !isHTTPURL(cfg.Notify.ReturnURL) {
		add("notify.return_url", "must be an http(s) URL")
	}

	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		add("metrics.path", "must start with /")
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
