package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"NotionVoice/internal/entity"
)

const intentFunctionName = "execute_notion_intent"

type IParser interface {
	Parse(ctx context.Context, transcription string) (*entity.Intent, int64, error)
	Validate(intent *entity.Intent) error
}

type parser struct {
	client    *openai.Client
	model     string
	validator *validator.Validate
	log       *logrus.Logger
}

func New(log *logrus.Logger, validate *validator.Validate) IParser {
	model := os.Getenv("OPENAI_MODEL_GPT")
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &parser{
		client:    openai.NewClient(os.Getenv("OPENAI_API_KEY")),
		model:     model,
		validator: validate,
		log:       log,
	}
}

// Parse asks the model for exactly one structured call of the intent function
// and validates the arguments against the closed schema. A violation is fatal
// to the utterance; there are no retries and no cross-utterance memory.
func (p *parser) Parse(ctx context.Context, transcription string) (*entity.Intent, int64, error) {
	start := time.Now()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: transcription},
		},
		Tools: []openai.Tool{intentTool},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: intentFunctionName},
		},
	})
	duration := time.Since(start).Milliseconds()
	if err != nil {
		return nil, duration, fmt.Errorf("intent completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, duration, &ParseError{Reason: "no completion choices returned"}
	}

	toolCalls := resp.Choices[0].Message.ToolCalls
	if len(toolCalls) == 0 || toolCalls[0].Function.Name != intentFunctionName {
		return nil, duration, &ParseError{Reason: "no valid tool call returned"}
	}

	var intent entity.Intent
	if err := json.Unmarshal([]byte(toolCalls[0].Function.Arguments), &intent); err != nil {
		return nil, duration, &ParseError{Reason: "malformed tool arguments", Err: err}
	}

	if err := p.Validate(&intent); err != nil {
		return nil, duration, err
	}

	p.log.WithFields(logrus.Fields{
		"action":   intent.Action,
		"duration": duration,
	}).Info("Intent parsed")

	return &intent, duration, nil
}

// Validate enforces the closed action vocabulary and the variant-specific
// required fields.
func (p *parser) Validate(intent *entity.Intent) error {
	if err := p.validator.Struct(intent); err != nil {
		return &ParseError{Reason: "intent schema violation", Err: err}
	}

	switch intent.Action {
	case entity.ActionOpenPage, entity.ActionDeletePage, entity.ActionCreatePage, entity.ActionSearchPages:
		if intent.PageQuery == "" {
			return &ParseError{Reason: fmt.Sprintf("pageQuery is required for %s", intent.Action)}
		}
	case entity.ActionCreateBlock, entity.ActionAppendTodo:
		if intent.Block == nil {
			return &ParseError{Reason: fmt.Sprintf("block is required for %s", intent.Action)}
		}
	case entity.ActionUpdateBlock:
		if intent.BlockID == "" || intent.Block == nil {
			return &ParseError{Reason: "blockId and block are required for UPDATE_BLOCK"}
		}
	case entity.ActionDeleteBlock:
		if intent.BlockID == "" {
			return &ParseError{Reason: "blockId is required for DELETE_BLOCK"}
		}
	case entity.ActionGenerateContent:
		if intent.Prompt == "" {
			return &ParseError{Reason: "prompt is required for GENERATE_CONTENT"}
		}
	case entity.ActionCreateDatabase, entity.ActionCreateKanban, entity.ActionCreateTable:
		if intent.DatabaseTitle == "" {
			return &ParseError{Reason: fmt.Sprintf("databaseTitle is required for %s", intent.Action)}
		}
	case entity.ActionAddDatabaseEntry:
		if intent.DatabaseID == "" {
			return &ParseError{Reason: "databaseId is required for ADD_DATABASE_ENTRY"}
		}
	case entity.ActionGoBack, entity.ActionSummarizePage:
		// No extra fields.
	default:
		return &ParseError{Reason: fmt.Sprintf("unknown action: %s", intent.Action)}
	}

	return nil
}

// ParseError marks an utterance whose model output did not match the schema.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("intent parsing failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("intent parsing failed: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }
