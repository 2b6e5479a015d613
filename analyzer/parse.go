package analyzer

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/elum-utils/safetymonitor/models"
)

var errNoJSONObject = errors.New("analyzer: no JSON object found in response")

// isolateJSON strips code fences and returns the span from the first '{' to the last '}'.
func isolateJSON(text string) (string, error) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", errNoJSONObject
	}
	return text[start : end+1], nil
}

// parseAnalysis decodes the model's verdict. isSafe is coerced to a boolean,
// score is clamped into [0,1] and the reason is prefixed with a status marker.
func parseAnalysis(text string) (models.SafetyAnalysisResult, error) {
	raw, err := isolateJSON(text)
	if err != nil {
		return models.SafetyAnalysisResult{}, err
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return models.SafetyAnalysisResult{}, err
	}

	isSafe := truthy(fields["isSafe"])
	res := models.SafetyAnalysisResult{
		IsSafe: isSafe,
		Score:  clampScore(fields["score"]),
	}
	if category, ok := fields["category"].(string); ok && category != "" {
		res.Category = category
	}
	if reason, ok := fields["reason"].(string); ok && reason != "" {
		marker := "⛔"
		if isSafe {
			marker = "✅"
		}
		res.Reason = marker + " " + reason
	}
	return res, nil
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	default:
		return true
	}
}

func clampScore(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case bool:
		if x {
			f = 1
		}
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) {
		return 0
	}
	return math.Min(math.Max(f, 0), 1)
}
