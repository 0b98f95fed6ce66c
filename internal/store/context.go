package store

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"NotionVoice/internal/entity"
)

const (
	maxHistory        = 20
	maxLatencySamples = 50
)

type IContextStore interface {
	Get(userID string) entity.UserContext
	Set(userID string, patch ContextPatch)
	Reset(userID string)
	SetCurrentPage(userID, pageID string)
	GoBack(userID string) (string, bool)
	AddLatency(userID string, stage entity.LatencyStage, ms float64)
	AverageLatencies(userID string) entity.AverageLatencies
}

// ContextPatch is a shallow partial update; nil fields are left untouched.
type ContextPatch struct {
	CurrentPageID *string
	TargetPageID  *string
	DryRun        *bool
	NotionLinked  *bool
}

type contextStore struct {
	mu       sync.Mutex
	contexts map[string]*entity.UserContext
	log      *logrus.Logger
}

func NewContextStore(log *logrus.Logger) IContextStore {
	return &contextStore{
		contexts: make(map[string]*entity.UserContext),
		log:      log,
	}
}

func newDefaultContext(userID string) *entity.UserContext {
	return &entity.UserContext{
		UserID:  userID,
		History: []entity.PageHistoryItem{},
		Latencies: map[entity.LatencyStage][]float64{
			entity.StageSTT:    {},
			entity.StageNLU:    {},
			entity.StageNotion: {},
		},
	}
}

func (s *contextStore) getLocked(userID string) *entity.UserContext {
	ctx, ok := s.contexts[userID]
	if !ok {
		ctx = newDefaultContext(userID)
		s.contexts[userID] = ctx
	}
	return ctx
}

func (s *contextStore) Get(userID string) entity.UserContext {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.getLocked(userID)

	out := *ctx
	out.History = append([]entity.PageHistoryItem(nil), ctx.History...)
	out.Latencies = make(map[entity.LatencyStage][]float64, len(ctx.Latencies))
	for stage, samples := range ctx.Latencies {
		out.Latencies[stage] = append([]float64(nil), samples...)
	}
	return out
}

func (s *contextStore) Set(userID string, patch ContextPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.getLocked(userID)
	if patch.CurrentPageID != nil {
		ctx.CurrentPageID = *patch.CurrentPageID
	}
	if patch.TargetPageID != nil {
		ctx.TargetPageID = *patch.TargetPageID
	}
	if patch.DryRun != nil {
		ctx.DryRun = *patch.DryRun
	}
	if patch.NotionLinked != nil {
		ctx.NotionLinked = *patch.NotionLinked
	}

	s.log.WithFields(logrus.Fields{
		"user_id": userID,
	}).Debug("User context updated")
}

// Reset restores defaults but keeps the Notion link flag, so a linked user
// does not have to re-authorize after clearing their session.
func (s *contextStore) Reset(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	linked := s.getLocked(userID).NotionLinked
	fresh := newDefaultContext(userID)
	fresh.NotionLinked = linked
	s.contexts[userID] = fresh

	s.log.WithFields(logrus.Fields{
		"user_id": userID,
	}).Info("User context reset")
}

// SetCurrentPage records the page the user navigated to, pushing the previous
// page onto the history. History only ever holds pages navigated away from.
func (s *contextStore) SetCurrentPage(userID, pageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.getLocked(userID)
	if ctx.CurrentPageID != "" && ctx.CurrentPageID != pageID {
		ctx.History = append(ctx.History, entity.PageHistoryItem{
			PageID:    ctx.CurrentPageID,
			Timestamp: time.Now(),
		})
		if len(ctx.History) > maxHistory {
			ctx.History = ctx.History[len(ctx.History)-maxHistory:]
		}
	}
	ctx.CurrentPageID = pageID
}

func (s *contextStore) GoBack(userID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.getLocked(userID)
	if len(ctx.History) == 0 {
		return "", false
	}

	prev := ctx.History[len(ctx.History)-1]
	ctx.History = ctx.History[:len(ctx.History)-1]
	ctx.CurrentPageID = prev.PageID
	return prev.PageID, true
}

func (s *contextStore) AddLatency(userID string, stage entity.LatencyStage, ms float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.getLocked(userID)
	samples := append(ctx.Latencies[stage], ms)
	if len(samples) > maxLatencySamples {
		samples = samples[len(samples)-maxLatencySamples:]
	}
	ctx.Latencies[stage] = samples
}

func (s *contextStore) AverageLatencies(userID string) entity.AverageLatencies {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.getLocked(userID)
	return entity.AverageLatencies{
		STT:    mean(ctx.Latencies[entity.StageSTT]),
		NLU:    mean(ctx.Latencies[entity.StageNLU]),
		Notion: mean(ctx.Latencies[entity.StageNotion]),
	}
}

func mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range samples {
		sum += v
	}
	return sum / float64(len(samples))
}
