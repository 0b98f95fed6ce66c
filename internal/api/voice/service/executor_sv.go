package voiceService

import (
	"NotionVoice/internal/entity"
	"NotionVoice/internal/store"
	"NotionVoice/pkg/notion"
	"NotionVoice/pkg/richtext"
	"context"
	"fmt"
	"regexp"
	"strings"
)

const (
	searchPageSize    = 5
	summarizeMaxBlock = 100
)

var pageIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

// isPageID reports whether a query is shaped like a Notion page identifier,
// with or without dashes.
func isPageID(query string) bool {
	return pageIDPattern.MatchString(strings.ReplaceAll(query, "-", ""))
}

func (s *voiceService) openPage(ctx context.Context, userID string, client notion.IClient, query string) entity.ActionResult {
	page, ok := s.findPage(ctx, client, query)
	if !ok {
		return failure(fmt.Sprintf("No page found matching %q", query))
	}

	s.contextStore.SetCurrentPage(userID, page.ID)
	return success(fmt.Sprintf("Opened page %q", page.Title()), page.ID, "")
}

// findPage resolves a query to a page: identifier-shaped queries try a direct
// retrieve first and fall back to search on any failure.
func (s *voiceService) findPage(ctx context.Context, client notion.IClient, query string) (*notion.Page, bool) {
	if isPageID(query) {
		if page, err := client.RetrievePage(ctx, query); err == nil {
			return page, true
		}
	}

	pages, err := client.Search(ctx, query, searchPageSize)
	if err != nil || len(pages) == 0 {
		return nil, false
	}
	return &pages[0], true
}

func (s *voiceService) createBlock(ctx context.Context, userID string, client notion.IClient, userCtx *entity.UserContext, intent *entity.Intent) entity.ActionResult {
	pageID, ok := resolveSubject(userCtx)
	if !ok {
		return failure("No page is open. Open a page first.")
	}

	block, ok := blockFromSpec(intent.Block, intent.Options)
	if !ok {
		return failure(fmt.Sprintf("Unsupported block type %q", intent.Block.Type))
	}

	created, err := client.AppendBlockChildren(ctx, pageID, []notion.BlockRequest{block})
	if err != nil {
		return upstreamFailure("Creating the block", err)
	}

	blockID := ""
	if len(created) > 0 {
		blockID = created[0].ID
	}
	return success(fmt.Sprintf("Added a %s block", intent.Block.Type), pageID, blockID)
}

// blockFromSpec maps a block descriptor to the API block shape. Unsupported
// types fail explicitly rather than defaulting to a paragraph.
func blockFromSpec(spec *entity.BlockSpec, opts *entity.IntentOptions) (notion.BlockRequest, bool) {
	spans := richtext.Parse(spec.Text)

	switch spec.Type {
	case "paragraph", "heading_1", "heading_2", "heading_3",
		"bulleted_list_item", "numbered_list_item", "toggle", "quote":
		return notion.NewBlock(spec.Type, spans), true
	case "to_do":
		return notion.NewTodoBlock(spans), true
	case "callout":
		emoji := ""
		if opts != nil {
			emoji = opts.Emoji
		}
		return notion.NewCalloutBlock(spans, emoji), true
	case "code":
		language := ""
		if opts != nil {
			language = opts.Language
		}
		return notion.NewCodeBlock(spans, language), true
	case "divider":
		return notion.NewDividerBlock(), true
	}
	return nil, false
}

func (s *voiceService) updateBlock(ctx context.Context, client notion.IClient, intent *entity.Intent) entity.ActionResult {
	payload := notion.BlockRequest{
		intent.Block.Type: map[string]interface{}{
			"rich_text": richtext.Parse(intent.Block.Text),
		},
	}
	if err := client.UpdateBlock(ctx, intent.BlockID, payload); err != nil {
		return upstreamFailure("Updating the block", err)
	}

	return success("Block updated", "", intent.BlockID)
}

func (s *voiceService) deleteBlock(ctx context.Context, client notion.IClient, blockID string) entity.ActionResult {
	if err := client.ArchiveBlock(ctx, blockID); err != nil {
		return upstreamFailure("Archiving the block", err)
	}
	return success("Block archived", "", blockID)
}

// deletePage archives, never permanently removes. If the archived page was
// the open one, the context is cleared so later actions do not target it.
func (s *voiceService) deletePage(ctx context.Context, userID string, client notion.IClient, query string) entity.ActionResult {
	page, ok := s.findPage(ctx, client, query)
	if !ok {
		return failure(fmt.Sprintf("No page found matching %q", query))
	}

	if err := client.ArchivePage(ctx, page.ID); err != nil {
		return upstreamFailure("Archiving the page", err)
	}

	userCtx := s.contextStore.Get(userID)
	if userCtx.CurrentPageID == page.ID {
		empty := ""
		s.contextStore.Set(userID, store.ContextPatch{CurrentPageID: &empty})
	}

	return success(fmt.Sprintf("Archived page %q", page.Title()), page.ID, "")
}

func (s *voiceService) goBack(userID string) entity.ActionResult {
	pageID, ok := s.contextStore.GoBack(userID)
	if !ok {
		return failure("No page history to go back to")
	}
	return success("Went back to the previous page", pageID, "")
}

func (s *voiceService) createPage(ctx context.Context, userID string, client notion.IClient, userCtx *entity.UserContext, title string) entity.ActionResult {
	parentID, ok := resolveSubject(userCtx)
	if !ok {
		return failure("No page is open to create the new page under. Open a parent page first.")
	}

	page, err := client.CreatePage(ctx, parentID, title)
	if err != nil {
		return upstreamFailure("Creating the page", err)
	}

	s.contextStore.SetCurrentPage(userID, page.ID)
	return success(fmt.Sprintf("Created and opened page %q", title), page.ID, "")
}

func (s *voiceService) appendTodo(ctx context.Context, client notion.IClient, userCtx *entity.UserContext, intent *entity.Intent) entity.ActionResult {
	pageID, ok := resolveSubject(userCtx)
	if !ok {
		return failure("No page is open. Open a page first.")
	}

	block := notion.NewTodoBlock(richtext.Parse(intent.Block.Text))
	created, err := client.AppendBlockChildren(ctx, pageID, []notion.BlockRequest{block})
	if err != nil {
		return upstreamFailure("Adding the to-do", err)
	}

	blockID := ""
	if len(created) > 0 {
		blockID = created[0].ID
	}
	return success("To-do added", pageID, blockID)
}

// summarizePage reads up to 100 child blocks, summarizes their text through
// the language model and appends the summary. Existing content is never
// replaced.
func (s *voiceService) summarizePage(ctx context.Context, client notion.IClient, userCtx *entity.UserContext) entity.ActionResult {
	pageID, ok := resolveSubject(userCtx)
	if !ok {
		return failure("No page is open. Open a page first.")
	}

	blocks, err := client.ListBlockChildren(ctx, pageID, summarizeMaxBlock)
	if err != nil {
		return upstreamFailure("Reading the page", err)
	}

	var parts []string
	for i := range blocks {
		if text := blocks[i].PlainText(); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return failure("The page has no readable content to summarize")
	}

	summary, err := s.generator.Summarize(ctx, strings.Join(parts, "\n"))
	if err != nil {
		return upstreamFailure("Summarizing the page", err)
	}

	children := []notion.BlockRequest{
		notion.NewBlock("heading_2", richtext.Simple("Summary")),
	}
	for _, paragraph := range richtext.SplitText(summary) {
		children = append(children, notion.NewBlock("paragraph", richtext.Parse(paragraph)))
	}

	if _, err := client.AppendBlockChildren(ctx, pageID, children); err != nil {
		return upstreamFailure("Appending the summary", err)
	}
	return success("Summary appended to the page", pageID, "")
}

// generateContent produces prose from a prompt and appends it, split at
// paragraph boundaries to stay under the per-block character ceiling.
func (s *voiceService) generateContent(ctx context.Context, client notion.IClient, userCtx *entity.UserContext, prompt string) entity.ActionResult {
	pageID, ok := resolveSubject(userCtx)
	if !ok {
		return failure("No page is open. Open a page first.")
	}

	content, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return upstreamFailure("Generating content", err)
	}

	var children []notion.BlockRequest
	for _, paragraph := range richtext.SplitText(content) {
		children = append(children, notion.NewBlock("paragraph", richtext.Parse(paragraph)))
	}
	if len(children) == 0 {
		return failure("The model returned no content")
	}

	if _, err := client.AppendBlockChildren(ctx, pageID, children); err != nil {
		return upstreamFailure("Appending the content", err)
	}
	return success(fmt.Sprintf("Added %d generated block(s)", len(children)), pageID, "")
}

func (s *voiceService) searchPages(ctx context.Context, client notion.IClient, query string) entity.ActionResult {
	pages, err := client.Search(ctx, query, searchPageSize)
	if err != nil {
		return upstreamFailure("Searching", err)
	}
	if len(pages) == 0 {
		return failure(fmt.Sprintf("No pages found matching %q", query))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d page(s):", len(pages)))
	for i := range pages {
		sb.WriteString(fmt.Sprintf("\n%d. %s", i+1, pages[i].Title()))
	}

	result := success(sb.String(), pages[0].ID, "")
	return result
}
