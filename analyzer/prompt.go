package analyzer

import "fmt"

const promptTemplate = `You are an AI safety monitor. Analyze the following message for safety concerns.
Consider:
1. Harmful content (violence, hate speech, harassment)
2. Inappropriate content (adult content, explicit language)
3. Spam or misleading information
4. Personal information or privacy concerns

Return ONLY a JSON object in the following format (no markdown, no code blocks, just the raw JSON):
{
  "isSafe": boolean,
  "score": number between 0 and 1,
  "category": string describing the type of violation if unsafe,
  "reason": string explaining why if unsafe
}

Message to analyze: %q
`

// BuildPrompt returns customPrompt verbatim when set, otherwise the default
// classification instructions with the message embedded.
func BuildPrompt(message, customPrompt string) string {
	if customPrompt != "" {
		return customPrompt
	}
	return fmt.Sprintf(promptTemplate, message)
}
