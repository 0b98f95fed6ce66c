package store

import (
	"fmt"
	"io"
	"testing"

	"NotionVoice/internal/entity"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestContextStore_GetCreatesDefault(t *testing.T) {
	s := NewContextStore(newTestLogger())

	ctx := s.Get("user-1")
	assert.Equal(t, "user-1", ctx.UserID)
	assert.Empty(t, ctx.CurrentPageID)
	assert.Empty(t, ctx.TargetPageID)
	assert.False(t, ctx.DryRun)
	assert.False(t, ctx.NotionLinked)
	assert.Empty(t, ctx.History)
}

func TestContextStore_ResetPreservesLinkFlag(t *testing.T) {
	s := NewContextStore(newTestLogger())

	linked := true
	dryRun := true
	target := "page-t"
	s.Set("user-1", ContextPatch{NotionLinked: &linked, DryRun: &dryRun, TargetPageID: &target})
	s.SetCurrentPage("user-1", "page-a")
	s.SetCurrentPage("user-1", "page-b")
	s.AddLatency("user-1", entity.StageSTT, 120)

	s.Reset("user-1")

	ctx := s.Get("user-1")
	assert.True(t, ctx.NotionLinked, "link flag must survive a reset")
	assert.Empty(t, ctx.CurrentPageID)
	assert.Empty(t, ctx.TargetPageID)
	assert.False(t, ctx.DryRun)
	assert.Empty(t, ctx.History)
	assert.Zero(t, s.AverageLatencies("user-1").STT)
}

func TestContextStore_HistoryBoundedAtTwenty(t *testing.T) {
	s := NewContextStore(newTestLogger())

	for i := 0; i < 30; i++ {
		s.SetCurrentPage("user-1", fmt.Sprintf("page-%d", i))
	}

	ctx := s.Get("user-1")
	assert.Equal(t, "page-29", ctx.CurrentPageID)
	require.Len(t, ctx.History, 20)
	// Most recent history entry is the page previous to the current one.
	assert.Equal(t, "page-28", ctx.History[len(ctx.History)-1].PageID)
}

func TestContextStore_SetCurrentPageSamePageNoHistoryPush(t *testing.T) {
	s := NewContextStore(newTestLogger())

	s.SetCurrentPage("user-1", "page-a")
	s.SetCurrentPage("user-1", "page-a")

	ctx := s.Get("user-1")
	assert.Equal(t, "page-a", ctx.CurrentPageID)
	assert.Empty(t, ctx.History)
}

func TestContextStore_GoBack(t *testing.T) {
	s := NewContextStore(newTestLogger())

	pageID, ok := s.GoBack("user-1")
	assert.False(t, ok, "empty history must not navigate")
	assert.Empty(t, pageID)
	assert.Empty(t, s.Get("user-1").CurrentPageID)

	s.SetCurrentPage("user-1", "page-a")
	s.SetCurrentPage("user-1", "page-b")
	s.SetCurrentPage("user-1", "page-c")

	pageID, ok = s.GoBack("user-1")
	require.True(t, ok)
	assert.Equal(t, "page-b", pageID)
	assert.Equal(t, "page-b", s.Get("user-1").CurrentPageID)

	pageID, ok = s.GoBack("user-1")
	require.True(t, ok)
	assert.Equal(t, "page-a", pageID)

	_, ok = s.GoBack("user-1")
	assert.False(t, ok)
}

func TestContextStore_Latencies(t *testing.T) {
	s := NewContextStore(newTestLogger())

	avg := s.AverageLatencies("user-1")
	assert.Zero(t, avg.STT)
	assert.Zero(t, avg.NLU)
	assert.Zero(t, avg.Notion)

	s.AddLatency("user-1", entity.StageSTT, 100)
	s.AddLatency("user-1", entity.StageSTT, 200)
	avg = s.AverageLatencies("user-1")
	assert.InDelta(t, 150, avg.STT, 0.001)
	assert.Zero(t, avg.NLU)
}

func TestContextStore_LatencyRingBoundedAtFifty(t *testing.T) {
	s := NewContextStore(newTestLogger())

	for i := 0; i < 60; i++ {
		s.AddLatency("user-1", entity.StageNotion, float64(i))
	}

	ctx := s.Get("user-1")
	require.Len(t, ctx.Latencies[entity.StageNotion], 50)
	// Oldest samples fall off the front.
	assert.Equal(t, float64(10), ctx.Latencies[entity.StageNotion][0])
}

func TestContextStore_GetReturnsCopy(t *testing.T) {
	s := NewContextStore(newTestLogger())
	s.SetCurrentPage("user-1", "page-a")
	s.SetCurrentPage("user-1", "page-b")

	ctx := s.Get("user-1")
	ctx.History[0].PageID = "mutated"
	ctx.CurrentPageID = "mutated"

	fresh := s.Get("user-1")
	assert.Equal(t, "page-a", fresh.History[0].PageID)
	assert.Equal(t, "page-b", fresh.CurrentPageID)
}
