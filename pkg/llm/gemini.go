package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

type geminiGenerator struct {
	client    *genai.Client
	modelName string
	log       *logrus.Logger
}

func newGemini(log *logrus.Logger) (IGenerator, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	modelName := os.Getenv("GEMINI_MODEL_NAME")
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &geminiGenerator{
		client:    client,
		modelName: modelName,
		log:       log,
	}, nil
}

func (g *geminiGenerator) complete(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.modelName)

	res, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no response from Gemini API")
	}

	text, ok := res.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", errors.New("unexpected response format from Gemini API")
	}
	return string(text), nil
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.complete(ctx, fmt.Sprintf("Produce well-structured prose for this instruction. Markdown inline formatting is allowed.\n\n%s", prompt))
}

func (g *geminiGenerator) Summarize(ctx context.Context, content string) (string, error) {
	return g.complete(ctx, fmt.Sprintf("Summarize the following content concisely, three sentences at most.\n\n%s", content))
}
