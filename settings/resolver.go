// Package settings turns the caller-supplied settings list into a FilterConfig.
package settings

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/elum-utils/safetymonitor/models"
)

// Recognized setting labels.
const (
	LabelBannedWords      = "bannedWords"
	LabelMinSafetyScore   = "minSafetyScore"
	LabelEnableAICheck    = "enableAICheck"
	LabelCustomPrompt     = "customPrompt"
	LabelMaxMessageLength = "maxMessageLength"
	LabelNotifyAdmin      = "notifyAdmin"
	LabelAIAPIKey         = "aiApiKey"
)

const (
	DefaultMinSafetyScore   = 0.7
	DefaultEnableAICheck    = true
	DefaultMaxMessageLength = 1000
	DefaultNotifyAdmin      = true
)

// field applies one setting value to the config. It returns false when the
// value cannot be coerced; the default then stays in place.
type field func(cfg *models.FilterConfig, raw any) bool

var schema = map[string]field{
	LabelBannedWords: func(cfg *models.FilterConfig, raw any) bool {
		words, ok := toWordList(raw)
		if ok {
			cfg.BannedWords = words
		}
		return ok
	},
	LabelMinSafetyScore: func(cfg *models.FilterConfig, raw any) bool {
		f, ok := toFloat(raw)
		if !ok {
			return false
		}
		cfg.MinSafetyScore = math.Min(math.Max(f, 0), 1)
		return true
	},
	LabelEnableAICheck: func(cfg *models.FilterConfig, raw any) bool {
		b, ok := toBool(raw)
		if ok {
			cfg.EnableAICheck = b
		}
		return ok
	},
	LabelCustomPrompt: func(cfg *models.FilterConfig, raw any) bool {
		s, ok := raw.(string)
		if ok {
			cfg.CustomPrompt = s
		}
		return ok
	},
	LabelMaxMessageLength: func(cfg *models.FilterConfig, raw any) bool {
		f, ok := toFloat(raw)
		if !ok {
			return false
		}
		if f <= 0 {
			cfg.MaxMessageLength = 0
			return true
		}
		cfg.MaxMessageLength = int(math.Floor(f))
		return true
	},
	LabelNotifyAdmin: func(cfg *models.FilterConfig, raw any) bool {
		b, ok := toBool(raw)
		if ok {
			cfg.NotifyAdmin = b
		}
		return ok
	},
	LabelAIAPIKey: func(cfg *models.FilterConfig, raw any) bool {
		s, ok := raw.(string)
		if ok {
			cfg.AIAPIKey = strings.TrimSpace(s)
		}
		return ok
	},
}

// Defaults returns the built-in configuration used for absent labels.
func Defaults() models.FilterConfig {
	return models.FilterConfig{
		BannedWords:      []string{},
		MinSafetyScore:   DefaultMinSafetyScore,
		EnableAICheck:    DefaultEnableAICheck,
		MaxMessageLength: DefaultMaxMessageLength,
		NotifyAdmin:      DefaultNotifyAdmin,
	}
}

// Resolve builds a FilterConfig. The first entry for a label wins, unknown
// labels are ignored and values that cannot be coerced keep the default.
func Resolve(list []models.Setting) models.FilterConfig {
	cfg := Defaults()
	seen := make(map[string]struct{}, len(schema))
	for _, s := range list {
		apply, ok := schema[s.Label]
		if !ok {
			continue
		}
		if _, dup := seen[s.Label]; dup {
			continue
		}
		seen[s.Label] = struct{}{}
		apply(&cfg, s.Default)
	}
	return cfg
}

// SplitWords normalizes a comma-delimited list.
func SplitWords(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func toWordList(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case nil:
		return nil, false
	case string:
		return SplitWords(v), true
	case []string:
		out := make([]string, 0, len(v))
		for _, w := range v {
			out = append(out, SplitWords(w)...)
		}
		return out, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if w, ok := item.(string); ok {
				out = append(out, SplitWords(w)...)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func toFloat(raw any) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toBool(raw any) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}
