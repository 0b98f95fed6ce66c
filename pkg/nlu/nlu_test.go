package nlu

import (
	"io"
	"testing"

	"NotionVoice/internal/entity"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(t *testing.T) IParser {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(logger, validator.New(validator.WithRequiredStructEnabled()))
}

func TestValidate_AcceptsEveryDocumentedShape(t *testing.T) {
	p := newTestParser(t)

	intents := []entity.Intent{
		{Action: entity.ActionOpenPage, PageQuery: "tasks"},
		{Action: entity.ActionCreateBlock, Block: &entity.BlockSpec{Type: "paragraph", Text: "hello"}},
		{Action: entity.ActionUpdateBlock, BlockID: "b1", Block: &entity.BlockSpec{Type: "paragraph", Text: "edited"}},
		{Action: entity.ActionDeleteBlock, BlockID: "b1"},
		{Action: entity.ActionDeletePage, PageQuery: "old notes"},
		{Action: entity.ActionGoBack},
		{Action: entity.ActionCreatePage, PageQuery: "New Project"},
		{Action: entity.ActionAppendTodo, Block: &entity.BlockSpec{Type: "to_do", Text: "buy milk"}},
		{Action: entity.ActionSummarizePage},
		{Action: entity.ActionGenerateContent, Prompt: "a haiku about autumn"},
		{Action: entity.ActionCreateDatabase, DatabaseTitle: "Inventory", Columns: []string{"SKU"}},
		{Action: entity.ActionCreateKanban, DatabaseTitle: "Sprint Board"},
		{Action: entity.ActionCreateTable, DatabaseTitle: "Budget", Columns: []string{"Item", "Cost"}},
		{Action: entity.ActionAddDatabaseEntry, DatabaseID: "db1", Properties: map[string]interface{}{"Name": "Row"}},
		{Action: entity.ActionSearchPages, PageQuery: "meeting"},
	}

	for i := range intents {
		intent := intents[i]
		t.Run(string(intent.Action), func(t *testing.T) {
			assert.NoError(t, p.Validate(&intent))
		})
	}
}

func TestValidate_RejectsUnknownAction(t *testing.T) {
	p := newTestParser(t)

	err := p.Validate(&entity.Intent{Action: "EXPLODE_PAGE"})
	require.Error(t, err)
}

func TestValidate_RejectsUnsupportedBlockType(t *testing.T) {
	p := newTestParser(t)

	err := p.Validate(&entity.Intent{
		Action: entity.ActionCreateBlock,
		Block:  &entity.BlockSpec{Type: "hologram", Text: "hello"},
	})
	require.Error(t, err)
}

func TestValidate_RejectsMissingVariantFields(t *testing.T) {
	p := newTestParser(t)

	cases := map[string]entity.Intent{
		"open page without query":    {Action: entity.ActionOpenPage},
		"create block without block": {Action: entity.ActionCreateBlock},
		"update block without id":    {Action: entity.ActionUpdateBlock, Block: &entity.BlockSpec{Type: "paragraph", Text: "x"}},
		"delete block without id":    {Action: entity.ActionDeleteBlock},
		"generate without prompt":    {Action: entity.ActionGenerateContent},
		"kanban without title":       {Action: entity.ActionCreateKanban},
		"entry without database id":  {Action: entity.ActionAddDatabaseEntry, Properties: map[string]interface{}{"Name": "x"}},
		"search without query":       {Action: entity.ActionSearchPages},
	}

	for name, intent := range cases {
		intent := intent
		t.Run(name, func(t *testing.T) {
			var parseErr *ParseError
			err := p.Validate(&intent)
			require.Error(t, err)
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}
