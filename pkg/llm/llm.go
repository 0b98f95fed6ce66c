package llm

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
)

type IGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Summarize(ctx context.Context, content string) (string, error)
}

// New selects the completion provider. OpenAI is the default; set
// LLM_PROVIDER=gemini to generate with Gemini while intent parsing and
// transcription stay on OpenAI.
func New(log *logrus.Logger) (IGenerator, error) {
	if os.Getenv("LLM_PROVIDER") == "gemini" {
		return newGemini(log)
	}
	return newOpenAI(log), nil
}
