package voiceService

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"NotionVoice/internal/entity"
	"NotionVoice/internal/store"
	cryptoPkg "NotionVoice/pkg/crypto"
	"NotionVoice/pkg/notion"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte) (string, int64, error) {
	return f.text, 42, f.err
}

type fakeParser struct {
	intent *entity.Intent
	err    error
}

func (f *fakeParser) Parse(_ context.Context, _ string) (*entity.Intent, int64, error) {
	return f.intent, 5, f.err
}

func (f *fakeParser) Validate(_ *entity.Intent) error { return nil }

type fakeGenerator struct {
	generated string
	summary   string
	err       error
}

func (f *fakeGenerator) Generate(_ context.Context, _ string) (string, error) {
	return f.generated, f.err
}

func (f *fakeGenerator) Summarize(_ context.Context, _ string) (string, error) {
	return f.summary, f.err
}

// fakeNotion is an httptest backend covering the endpoints the executors use.
type fakeNotion struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

func newFakeNotion(t *testing.T) *fakeNotion {
	t.Helper()
	f := &fakeNotion{}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeNotion) record(r *http.Request) recordedRequest {
	var body map[string]interface{}
	raw, _ := io.ReadAll(r.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Body: body}

	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()
	return rec
}

func (f *fakeNotion) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func (f *fakeNotion) lastRequest(t *testing.T) recordedRequest {
	t.Helper()
	recorded := f.recorded()
	require.NotEmpty(t, recorded)
	return recorded[len(recorded)-1]
}

func pageJSON(id, title string) map[string]interface{} {
	return map[string]interface{}{
		"id":     id,
		"object": "page",
		"properties": map[string]interface{}{
			"title": map[string]interface{}{
				"type":  "title",
				"title": []map[string]interface{}{{"plain_text": title}},
			},
		},
	}
}

func blockJSON(id, blockType, text string) map[string]interface{} {
	return map[string]interface{}{
		"id":   id,
		"type": blockType,
		blockType: map[string]interface{}{
			"rich_text": []map[string]interface{}{{"plain_text": text}},
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (f *fakeNotion) handle(w http.ResponseWriter, r *http.Request) {
	rec := f.record(r)

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/search":
		query, _ := rec.Body["query"].(string)
		results := []map[string]interface{}{}
		if strings.Contains(strings.ToLower(query), "tasks") {
			results = append(results, pageJSON("page-tasks", "Tasks"))
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/pages/"):
		id := strings.TrimPrefix(r.URL.Path, "/pages/")
		if strings.ReplaceAll(id, "-", "") == "deadbeefdeadbeefdeadbeefdeadbeef" {
			writeJSON(w, http.StatusOK, pageJSON(id, "Direct Page"))
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"code": "object_not_found", "message": "page not found",
		})

	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/pages/"):
		writeJSON(w, http.StatusOK, pageJSON(strings.TrimPrefix(r.URL.Path, "/pages/"), ""))

	case r.Method == http.MethodPost && r.URL.Path == "/pages":
		writeJSON(w, http.StatusOK, pageJSON("page-created", "New Page"))

	case r.Method == http.MethodPatch && strings.HasSuffix(r.URL.Path, "/children"):
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"results": []map[string]interface{}{blockJSON("block-created", "paragraph", "")},
		})

	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/children"):
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"results": []map[string]interface{}{
				blockJSON("b1", "paragraph", "First paragraph."),
				blockJSON("b2", "heading_1", "A heading"),
				{"id": "b3", "type": "divider", "divider": map[string]interface{}{}},
			},
		})

	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/blocks/"):
		writeJSON(w, http.StatusOK, blockJSON(strings.TrimPrefix(r.URL.Path, "/blocks/"), "paragraph", ""))

	case r.Method == http.MethodPost && r.URL.Path == "/databases":
		writeJSON(w, http.StatusOK, map[string]interface{}{"id": "db-created"})

	default:
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"code": "object_not_found", "message": "no route",
		})
	}
}

type testEnv struct {
	service      IVoiceService
	contextStore store.IContextStore
	tokenStore   store.ITokenStore
	notion       *fakeNotion
	parser       *fakeParser
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	crypto, err := cryptoPkg.NewWithKey(bytes.Repeat([]byte{0x11}, 32))
	require.NoError(t, err)

	fake := newFakeNotion(t)
	contextStore := store.NewContextStore(logger)
	tokenStore := store.NewTokenStore(crypto, logger)
	parser := &fakeParser{}

	svc := New(
		logger,
		&fakeTranscriber{text: "open page tasks"},
		parser,
		&fakeGenerator{generated: "Generated prose.", summary: "A short summary."},
		notion.NewWithBase(logger, fake.server.URL),
		contextStore,
		tokenStore,
	)

	return &testEnv{
		service:      svc,
		contextStore: contextStore,
		tokenStore:   tokenStore,
		notion:       fake,
		parser:       parser,
	}
}

func (e *testEnv) link(t *testing.T, userID string) {
	t.Helper()
	require.NoError(t, e.tokenStore.Set(userID, entity.NotionToken{AccessToken: "secret"}))
}

func TestDispatch_RequiresLinkedAccount(t *testing.T) {
	env := newTestEnv(t)

	result := env.service.Dispatch(context.Background(), "user-1", &entity.Intent{
		Action:    entity.ActionOpenPage,
		PageQuery: "tasks",
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "not linked")
	assert.Empty(t, env.notion.recorded(), "no API call without a linked account")
}

func TestDispatch_OpenPageBySearch(t *testing.T) {
	env := newTestEnv(t)
	env.link(t, "user-1")

	result := env.service.Dispatch(context.Background(), "user-1", &entity.Intent{
		Action:    entity.ActionOpenPage,
		PageQuery: "tasks",
	})

	require.True(t, result.Success, result.Message)
	assert.Equal(t, "page-tasks", result.PageID)
	assert.Contains(t, result.Message, "Tasks")
	assert.Equal(t, "page-tasks", env.contextStore.Get("user-1").CurrentPageID)
}

func TestDispatch_OpenPageByIDRetrievesDirectly(t *testing.T) {
	env := newTestEnv(t)
	env.link(t, "user-1")

	result := env.service.Dispatch(context.Background(), "user-1", &entity.Intent{
		Action:    entity.ActionOpenPage,
		PageQuery: "deadbeef-dead-beef-dead-beefdeadbeef",
	})

	require.True(t, result.Success, result.Message)
	recorded := env.notion.recorded()
	require.NotEmpty(t, recorded)
	assert.Equal(t, http.MethodGet, recorded[0].Method)
	assert.True(t, strings.HasPrefix(recorded[0].Path, "/pages/"))
}

func TestDispatch_OpenPageNoMatchFails(t *testing.T) {
	env := newTestEnv(t)
	env.link(t, "user-1")

	result := env.service.Dispatch(context.Background(), "user-1", &entity.Intent{
		Action:    entity.ActionOpenPage,
		PageQuery: "nonexistent",
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "nonexistent")
	assert.Empty(t, env.contextStore.Get("user-1").CurrentPageID)
}

func TestDispatch_CreateBlockNeedsOpenPage(t *testing.T) {
	env := newTestEnv(t)
	env.link(t, "user-1")

	result := env.service.Dispatch(context.Background(), "user-1", &entity.Intent{
		Action: entity.ActionCreateBlock,
		Block:  &entity.BlockSpec{Type: "paragraph", Text: "hello"},
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "No page is open")
}

func TestDispatch_CreateBlockOnOpenPage(t *testing.T) {
	env := newTestEnv(t)
	env.link(t, "user-1")
	env.contextStore.SetCurrentPage("user-1", "page-tasks")

	result := env.service.Dispatch(context.Background(), "user-1", &entity.Intent{
		Action: entity.ActionCreateBlock,
		Block:  &entity.BlockSpec{Type: "paragraph", Text: "hello **world**"},
	})

	require.True(t, result.Success, result.Message)
	assert.Equal(t, "block-created", result.BlockID)

	last := env.notion.lastRequest(t)
	assert.Equal(t, "/blocks/page-tasks/children", last.Path)
}

func TestDispatch_UnsupportedBlockTypeFails(t *testing.T) {
	env := newTestEnv(t)
	env.link(t, "user-1")
	env.contextStore.SetCurrentPage("user-1", "page-tasks")

	result := env.service.Dispatch(context.Background(), "user-1", &entity.Intent{
		Action: entity.ActionCreateBlock,
		Block:  &entity.BlockSpec{Type: "image", Text: "x"},
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Unsupported block type")
	assert.Empty(t, env.notion.recorded())
}

func TestDispatch_TargetPageWinsOverCurrent(t *testing.T) {
	env := newTestEnv(t)
	env.link(t, "user-1")
	env.contextStore.SetCurrentPage("user-1", "page-current")
	target := "page-target"
	env.contextStore.Set("user-1", store.ContextPatch{TargetPageID: &target})

	result := env.service.Dispatch(context.Background(), "user-1", &entity.Intent{
		Action: entity.ActionCreateBlock,
		Block:  &entity.BlockSpec{Type: "paragraph", Text: "x"},
	})

	require.True(t, result.Success, result.Message)
	assert.Equal(t, "/blocks/page-target/children", env.notion.lastRequest(t).Path)
}

func TestDispatch_GoBack(t *testing.T) {
	env := newTestEnv(t)
	env.link(t, "user-1")

	result := env.service.Dispatch(context.Background(), "user-1", &entity.Intent{Action: entity.ActionGoBack})
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "history")

	env.contextStore.SetCurrentPage("user-1", "page-a")
	env.contextStore.SetCurrentPage("user-1", "page-b")

	result = env.service.Dispatch(context.Background(), "user-1", &entity.Intent{Action: entity.ActionGoBack})
	require.True(t, result.Success)
	assert.Equal(t, "page-a", result.PageID)
}

func TestDispatch_DryRunPreviewsMutations(t *testing.T) {
	env := newTestEnv(t)
	env.link(t, "user-1")
	env.contextStore.SetCurrentPage("user-1", "page-tasks")
	dryRun := true
	env.contextStore.Set("user-1", store.ContextPatch{DryRun: &dryRun})

	result := env.service.Dispatch(context.Background(), "user-1", &entity.Intent{
		Action: entity.ActionCreateBlock,
		Block:  &entity.BlockSpec{Type: "paragraph", Text: "x"},
	})

	require.True(t, result.Success)
	assert.Contains(t, result.Message, "Dry run")
	assert.Empty(t, env.notion.recorded(), "dry-run must not touch the API")

	// Reads still execute under dry-run.
	result = env.service.Dispatch(context.Background(), "user-1", &entity.Intent{
		Action:    entity.ActionSearchPages,
		PageQuery: "tasks",
	})
	require.True(t, result.Success, result.Message)
	assert.NotEmpty(t, env.notion.recorded())
}

func TestDispatch_DryRunRejectsIncompleteIntent(t *testing.T) {
	env := newTestEnv(t)
	env.link(t, "user-1")
	env.contextStore.SetCurrentPage("user-1", "page-tasks")
	dryRun := true
	env.contextStore.Set("user-1", store.ContextPatch{DryRun: &dryRun})

	// An intent that would fail for real must not preview as success.
	result := env.service.Dispatch(context.Background(), "user-1", &entity.Intent{
		Action: entity.ActionCreateBlock,
	})

	assert.False(t, result.Success)
	assert.NotContains(t, result.Message, "Dry run")
	assert.Contains(t, result.Message, "no block")
}

func TestDispatch_MissingRequiredFieldsFail(t *testing.T) {
	env := newTestEnv(t)
	env.link(t, "user-1")
	env.contextStore.SetCurrentPage("user-1", "page-tasks")

	cases := map[string]*entity.Intent{
		"create block without block": {Action: entity.ActionCreateBlock},
		"update block without id":    {Action: entity.ActionUpdateBlock, Block: &entity.BlockSpec{Type: "paragraph", Text: "x"}},
		"delete block without id":    {Action: entity.ActionDeleteBlock},
		"todo without text":          {Action: entity.ActionAppendTodo},
		"generate without prompt":    {Action: entity.ActionGenerateContent},
		"kanban without title":       {Action: entity.ActionCreateKanban},
		"entry without database id":  {Action: entity.ActionAddDatabaseEntry, Properties: map[string]interface{}{"Name": "x"}},
		"entry without properties":   {Action: entity.ActionAddDatabaseEntry, DatabaseID: "db-1"},
	}

	for name, intent := range cases {
		result := env.service.Dispatch(context.Background(), "user-1", intent)
		assert.False(t, result.Success, name)
	}
	assert.Empty(t, env.notion.recorded(), "incomplete intents must not reach the API")
}

func TestDispatch_DeletePageArchives(t *testing.T) {
	env := newTestEnv(t)
	env.link(t, "user-1")
	env.contextStore.SetCurrentPage("user-1", "page-tasks")

	result := env.service.Dispatch(context.Background(), "user-1", &entity.Intent{
		Action:    entity.ActionDeletePage,
		PageQuery: "tasks",
	})

	require.True(t, result.Success, result.Message)

	var archived bool
	for _, rec := range env.notion.recorded() {
		if rec.Method == http.MethodPatch && rec.Path == "/pages/page-tasks" {
			archived = rec.Body["archived"] == true
		}
	}
	assert.True(t, archived, "delete must archive, never remove")
	assert.Empty(t, env.contextStore.Get("user-1").CurrentPageID, "archiving the open page clears it")
}

func TestDispatch_SummarizeAppendsWithoutReplacing(t *testing.T) {
	env := newTestEnv(t)
	env.link(t, "user-1")
	env.contextStore.SetCurrentPage("user-1", "page-tasks")

	result := env.service.Dispatch(context.Background(), "user-1", &entity.Intent{
		Action: entity.ActionSummarizePage,
	})

	require.True(t, result.Success, result.Message)

	recorded := env.notion.recorded()
	require.Len(t, recorded, 2)
	assert.Equal(t, http.MethodGet, recorded[0].Method)
	assert.Equal(t, http.MethodPatch, recorded[1].Method)
	assert.Equal(t, "/blocks/page-tasks/children", recorded[1].Path)
}

func TestDispatch_GenerateContentAppendsBlocks(t *testing.T) {
	env := newTestEnv(t)
	env.link(t, "user-1")
	env.contextStore.SetCurrentPage("user-1", "page-tasks")

	result := env.service.Dispatch(context.Background(), "user-1", &entity.Intent{
		Action: entity.ActionGenerateContent,
		Prompt: "write about autumn",
	})

	require.True(t, result.Success, result.Message)
	last := env.notion.lastRequest(t)
	assert.Equal(t, "/blocks/page-tasks/children", last.Path)
	children, ok := last.Body["children"].([]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, children)
}

func TestDispatch_CreateKanbanBuildsStatusSchema(t *testing.T) {
	env := newTestEnv(t)
	env.link(t, "user-1")
	env.contextStore.SetCurrentPage("user-1", "page-tasks")

	result := env.service.Dispatch(context.Background(), "user-1", &entity.Intent{
		Action:        entity.ActionCreateKanban,
		DatabaseTitle: "Sprint Board",
		Columns:       []string{"Backlog", "Doing", "Done", "Blocked", "Review", "Shipped"},
	})

	require.True(t, result.Success, result.Message)
	assert.Equal(t, "db-created", result.PageID)

	last := env.notion.lastRequest(t)
	require.Equal(t, "/databases", last.Path)

	properties := last.Body["properties"].(map[string]interface{})
	require.Contains(t, properties, "Name")
	require.Contains(t, properties, "Status")

	options := properties["Status"].(map[string]interface{})["select"].(map[string]interface{})["options"].([]interface{})
	require.Len(t, options, 6)
	first := options[0].(map[string]interface{})
	sixth := options[5].(map[string]interface{})
	assert.Equal(t, "gray", first["color"])
	// Color rotation wraps after five options.
	assert.Equal(t, "gray", sixth["color"])
}

func TestDispatch_AddDatabaseEntryMapsValueTypes(t *testing.T) {
	env := newTestEnv(t)
	env.link(t, "user-1")

	result := env.service.Dispatch(context.Background(), "user-1", &entity.Intent{
		Action:     entity.ActionAddDatabaseEntry,
		DatabaseID: "db-1",
		Properties: map[string]interface{}{
			"Name":  "Buy milk",
			"Done":  false,
			"Count": float64(3),
			"Tags":  []interface{}{"a", "b"},
		},
	})

	require.True(t, result.Success, result.Message)

	properties := env.notion.lastRequest(t).Body["properties"].(map[string]interface{})
	assert.Contains(t, properties["Name"].(map[string]interface{}), "title")
	assert.Contains(t, properties["Done"].(map[string]interface{}), "checkbox")
	assert.Contains(t, properties["Count"].(map[string]interface{}), "number")
	assert.Contains(t, properties["Tags"].(map[string]interface{}), "multi_select")
}

func TestDispatch_SearchPagesListsTitles(t *testing.T) {
	env := newTestEnv(t)
	env.link(t, "user-1")

	result := env.service.Dispatch(context.Background(), "user-1", &entity.Intent{
		Action:    entity.ActionSearchPages,
		PageQuery: "tasks",
	})

	require.True(t, result.Success, result.Message)
	assert.Contains(t, result.Message, "1. Tasks")

	result = env.service.Dispatch(context.Background(), "user-1", &entity.Intent{
		Action:    entity.ActionSearchPages,
		PageQuery: "nothing here",
	})
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "nothing here")
}

func TestDispatch_RecordsNotionLatency(t *testing.T) {
	env := newTestEnv(t)
	env.link(t, "user-1")

	env.service.Dispatch(context.Background(), "user-1", &entity.Intent{
		Action:    entity.ActionSearchPages,
		PageQuery: "tasks",
	})

	ctx := env.contextStore.Get("user-1")
	assert.Len(t, ctx.Latencies[entity.StageNotion], 1)
}

func TestProcessTranscript_EndToEnd(t *testing.T) {
	env := newTestEnv(t)
	env.link(t, "user-1")
	env.parser.intent = &entity.Intent{Action: entity.ActionOpenPage, PageQuery: "tasks"}

	result, err := env.service.ProcessTranscript(context.Background(), "user-1", "open page tasks")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Success)
	assert.Equal(t, "page-tasks", result.PageID)
	assert.Equal(t, "page-tasks", env.contextStore.Get("user-1").CurrentPageID)

	ctx := env.contextStore.Get("user-1")
	assert.Len(t, ctx.Latencies[entity.StageNLU], 1)
}

func TestProcessTranscript_ParseFailureIsFatalToUtterance(t *testing.T) {
	env := newTestEnv(t)
	env.link(t, "user-1")
	env.parser.err = errors.New("model exploded")

	_, err := env.service.ProcessTranscript(context.Background(), "user-1", "gibberish")
	require.Error(t, err)
}

func TestProcessChunk_ShortTranscriptDropped(t *testing.T) {
	env := newTestEnv(t)
	env.link(t, "user-1")

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := New(
		logger,
		&fakeTranscriber{text: "ok"},
		env.parser,
		&fakeGenerator{},
		notion.NewWithBase(logger, env.notion.server.URL),
		env.contextStore,
		env.tokenStore,
	)

	transcript, result, err := svc.ProcessChunk(context.Background(), "user-1", []byte{0, 0})
	require.NoError(t, err)
	assert.Nil(t, result, "transcripts under three characters are dropped")
	assert.Equal(t, "ok", transcript)

	// STT latency is still recorded for the dropped chunk.
	ctx := env.contextStore.Get("user-1")
	assert.Len(t, ctx.Latencies[entity.StageSTT], 1)
}

func TestProcessChunk_TranscriptionFailure(t *testing.T) {
	env := newTestEnv(t)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := New(
		logger,
		&fakeTranscriber{err: fmt.Errorf("upstream down")},
		env.parser,
		&fakeGenerator{},
		notion.NewWithBase(logger, env.notion.server.URL),
		env.contextStore,
		env.tokenStore,
	)

	_, _, err := svc.ProcessChunk(context.Background(), "user-1", []byte{0, 0})
	require.Error(t, err)
}
