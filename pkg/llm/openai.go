package llm

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

type openAIGenerator struct {
	client *openai.Client
	model  string
	log    *logrus.Logger
}

func newOpenAI(log *logrus.Logger) IGenerator {
	model := os.Getenv("OPENAI_MODEL_GPT")
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &openAIGenerator{
		client: openai.NewClient(os.Getenv("OPENAI_API_KEY")),
		model:  model,
		log:    log,
	}
}

func (g *openAIGenerator) complete(ctx context.Context, system, user string, maxTokens int, temperature float32) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func (g *openAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.complete(ctx,
		"You are a writing assistant for Notion. Produce well-structured prose for the user's instruction. Markdown inline formatting is allowed.",
		prompt, 800, 0.7)
}

func (g *openAIGenerator) Summarize(ctx context.Context, content string) (string, error) {
	return g.complete(ctx,
		"Summarize the following content concisely, three sentences at most.",
		content, 200, 0.5)
}
