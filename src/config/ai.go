package config

import (
	"os"
	"strings"
)

type AI struct {
	Provider     string
	GeminiKey    string
	BaseURL      string
	SystemPrompt string
	Model        string
}

// LoadAIFromEnv provides a simple env-only loader for tools that only talk to
// the model and never start the relay.
func LoadAIFromEnv() AI {
	provider := strings.TrimSpace(os.Getenv("AI_PROVIDER"))
	if provider == "" {
		provider = "gemini"
	}
	return AI{
		Provider:     provider,
		GeminiKey:    os.Getenv("GEMINI_API_KEY"),
		BaseURL:      os.Getenv("GEMINI_BASE_URL"),
		SystemPrompt: os.Getenv("AI_SYSTEM_PROMPT"),
		Model:        os.Getenv("GEMINI_MODEL"),
	}
}
