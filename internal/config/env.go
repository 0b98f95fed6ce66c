package config

import (
	"os"

	"github.com/go-playground/validator/v10"
)

// Env carries the startup-time environment contract. A missing required
// variable is fatal before the server accepts any work.
type Env struct {
	OpenAIAPIKey       string `validate:"required"`
	NotionClientID     string `validate:"required"`
	NotionClientSecret string `validate:"required"`
	NotionRedirectURI  string `validate:"required,url"`
	EncryptionKey      string `validate:"required"`
	JWTAccessSecret    string `validate:"required"`

	// Optional overrides with in-code defaults.
	AppPort       string
	LLMProvider   string
	GeminiAPIKey  string
	WhisperModel  string
	NotionBaseURL string
}

// Variable names must match what the consumers read: pkg/notion reads
// NOTION_CLIENT_ID / NOTION_CLIENT_SECRET / NOTION_REDIRECT_URI.
func LoadEnv(validate *validator.Validate) (*Env, error) {
	env := &Env{
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		NotionClientID:     os.Getenv("NOTION_CLIENT_ID"),
		NotionClientSecret: os.Getenv("NOTION_CLIENT_SECRET"),
		NotionRedirectURI:  os.Getenv("NOTION_REDIRECT_URI"),
		EncryptionKey:      os.Getenv("ENCRYPTION_KEY"),
		JWTAccessSecret:    os.Getenv("JWT_ACCESS_TOKEN_SECRET"),
		AppPort:            os.Getenv("APP_PORT"),
		LLMProvider:        os.Getenv("LLM_PROVIDER"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		WhisperModel:       os.Getenv("OPENAI_MODEL_WHISPER"),
		NotionBaseURL:      os.Getenv("NOTION_API_BASE_URL"),
	}

	if err := validate.Struct(env); err != nil {
		return nil, err
	}
	return env, nil
}
