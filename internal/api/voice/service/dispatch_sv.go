package voiceService

import (
	"NotionVoice/internal/entity"
	contextPkg "NotionVoice/pkg/context"
	"NotionVoice/pkg/notion"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Dispatch is an exhaustive switch over the action vocabulary. Every branch
// is total: missing fields and upstream failures come back as failure
// results, never as errors or panics.
func (s *voiceService) Dispatch(ctx context.Context, userID string, intent *entity.Intent) entity.ActionResult {
	requestID := contextPkg.GetRequestID(ctx)
	start := time.Now()

	client, linked := s.clientFor(userID)
	if !linked {
		return failure("Your Notion account is not linked. Use the link command first.")
	}

	userCtx := s.contextStore.Get(userID)

	// Field checks run before the dry-run gate so a preview fails the same
	// way the real action would.
	if msg, incomplete := incompleteIntent(intent); incomplete {
		return failure(msg)
	}

	if userCtx.DryRun && isMutating(intent.Action) {
		return success(fmt.Sprintf("Dry run: would %s", describe(intent)), "", "")
	}

	var result entity.ActionResult
	switch intent.Action {
	case entity.ActionOpenPage:
		result = s.openPage(ctx, userID, client, intent.PageQuery)
	case entity.ActionCreateBlock:
		result = s.createBlock(ctx, userID, client, &userCtx, intent)
	case entity.ActionUpdateBlock:
		result = s.updateBlock(ctx, client, intent)
	case entity.ActionDeleteBlock:
		result = s.deleteBlock(ctx, client, intent.BlockID)
	case entity.ActionDeletePage:
		result = s.deletePage(ctx, userID, client, intent.PageQuery)
	case entity.ActionGoBack:
		result = s.goBack(userID)
	case entity.ActionCreatePage:
		result = s.createPage(ctx, userID, client, &userCtx, intent.PageQuery)
	case entity.ActionAppendTodo:
		result = s.appendTodo(ctx, client, &userCtx, intent)
	case entity.ActionSummarizePage:
		result = s.summarizePage(ctx, client, &userCtx)
	case entity.ActionGenerateContent:
		result = s.generateContent(ctx, client, &userCtx, intent.Prompt)
	case entity.ActionCreateDatabase:
		result = s.createDatabase(ctx, client, &userCtx, intent, databaseKindPlain)
	case entity.ActionCreateKanban:
		result = s.createDatabase(ctx, client, &userCtx, intent, databaseKindKanban)
	case entity.ActionCreateTable:
		result = s.createDatabase(ctx, client, &userCtx, intent, databaseKindTable)
	case entity.ActionAddDatabaseEntry:
		result = s.addDatabaseEntry(ctx, client, intent)
	case entity.ActionSearchPages:
		result = s.searchPages(ctx, client, intent.PageQuery)
	default:
		result = failure(fmt.Sprintf("Unknown action %q", intent.Action))
	}

	result.Duration = time.Since(start).Milliseconds()
	s.contextStore.AddLatency(userID, entity.StageNotion, float64(result.Duration))

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    userID,
		"action":     intent.Action,
		"success":    result.Success,
		"notion_ms":  result.Duration,
	}).Info("Action dispatched")

	return result
}

// resolveSubject picks the page an action applies to: the explicitly locked
// target wins over the last-navigated page.
func resolveSubject(userCtx *entity.UserContext) (string, bool) {
	if userCtx.TargetPageID != "" {
		return userCtx.TargetPageID, true
	}
	if userCtx.CurrentPageID != "" {
		return userCtx.CurrentPageID, true
	}
	return "", false
}

// incompleteIntent holds the per-action required-field checks. Subject
// resolution stays in the executors since it depends on session state.
func incompleteIntent(intent *entity.Intent) (string, bool) {
	switch intent.Action {
	case entity.ActionCreateBlock:
		if intent.Block == nil {
			return "Nothing to create: the command carried no block", true
		}
	case entity.ActionUpdateBlock:
		if intent.BlockID == "" || intent.Block == nil {
			return "Updating a block needs both the block id and the new content", true
		}
	case entity.ActionDeleteBlock:
		if intent.BlockID == "" {
			return "Deleting a block needs the block id", true
		}
	case entity.ActionAppendTodo:
		if intent.Block == nil || intent.Block.Text == "" {
			return "Nothing to add: the to-do text is missing", true
		}
	case entity.ActionGenerateContent:
		if intent.Prompt == "" {
			return "Nothing to generate: the prompt is missing", true
		}
	case entity.ActionCreateDatabase, entity.ActionCreateKanban, entity.ActionCreateTable:
		if intent.DatabaseTitle == "" {
			return "The database needs a title", true
		}
	case entity.ActionAddDatabaseEntry:
		if intent.DatabaseID == "" {
			return "Adding an entry needs the database id", true
		}
		if len(intent.Properties) == 0 {
			return "The entry carried no properties", true
		}
	}
	return "", false
}

func isMutating(action entity.Action) bool {
	switch action {
	case entity.ActionOpenPage, entity.ActionGoBack, entity.ActionSearchPages:
		return false
	}
	return true
}

func describe(intent *entity.Intent) string {
	switch intent.Action {
	case entity.ActionCreateBlock:
		if intent.Block != nil {
			return fmt.Sprintf("create a %s block", intent.Block.Type)
		}
		return "create a block"
	case entity.ActionUpdateBlock:
		return fmt.Sprintf("update block %s", intent.BlockID)
	case entity.ActionDeleteBlock:
		return fmt.Sprintf("archive block %s", intent.BlockID)
	case entity.ActionDeletePage:
		return fmt.Sprintf("archive the page matching %q", intent.PageQuery)
	case entity.ActionCreatePage:
		return fmt.Sprintf("create a page titled %q", intent.PageQuery)
	case entity.ActionAppendTodo:
		return "append a to-do item"
	case entity.ActionSummarizePage:
		return "summarize the open page"
	case entity.ActionGenerateContent:
		return fmt.Sprintf("generate content for %q", intent.Prompt)
	case entity.ActionCreateDatabase, entity.ActionCreateKanban, entity.ActionCreateTable:
		return fmt.Sprintf("create a database titled %q", intent.DatabaseTitle)
	case entity.ActionAddDatabaseEntry:
		return fmt.Sprintf("add an entry to database %s", intent.DatabaseID)
	}
	return fmt.Sprintf("run %s", intent.Action)
}

func success(message, pageID, blockID string) entity.ActionResult {
	return entity.ActionResult{Success: true, Message: message, PageID: pageID, BlockID: blockID}
}

func failure(message string) entity.ActionResult {
	return entity.ActionResult{Success: false, Message: message}
}

func upstreamFailure(operation string, err error) entity.ActionResult {
	var apiErr *notion.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return failure(fmt.Sprintf("%s failed: %s", operation, apiErr.Message))
	}
	return failure(fmt.Sprintf("%s failed, please try again", operation))
}
