package settings

import "github.com/elum-utils/safetymonitor/models"

// Catalog lists the settings advertised to integration hosts. The advertised
// bannedWords default is a sample list; Resolve still falls back to an empty list.
func Catalog() []models.Setting {
	return []models.Setting{
		{
			Label:       LabelBannedWords,
			Type:        "array",
			Description: "List of words to automatically block",
			Default:     []string{"bad", "bad word", "bad words", "test"},
		},
		{
			Label:       LabelMinSafetyScore,
			Type:        "number",
			Description: "Minimum safety score (0-1) for messages to be allowed",
			Default:     DefaultMinSafetyScore,
		},
		{
			Label:       LabelEnableAICheck,
			Type:        "boolean",
			Description: "Enable AI-powered safety analysis",
			Default:     DefaultEnableAICheck,
		},
		{
			Label:       LabelCustomPrompt,
			Type:        "string",
			Description: "Custom prompt for AI safety analysis",
			Default:     "",
		},
		{
			Label:       LabelMaxMessageLength,
			Type:        "number",
			Description: "Maximum allowed message length",
			Default:     DefaultMaxMessageLength,
		},
		{
			Label:       LabelNotifyAdmin,
			Type:        "boolean",
			Description: "Notify admins about blocked/flagged messages",
			Default:     DefaultNotifyAdmin,
		},
	}
}
