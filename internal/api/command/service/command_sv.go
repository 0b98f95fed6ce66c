package commandService

import (
	"NotionVoice/internal/api/command"
	"NotionVoice/internal/entity"
	"NotionVoice/internal/store"
	contextPkg "NotionVoice/pkg/context"
	jwtPkg "NotionVoice/pkg/jwt"
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Execute runs a typed command through the same intent pipeline as voice,
// entering at the parser.
func (s *commandService) Execute(ctx context.Context, userID string, text string) (*entity.ActionResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, command.ErrEmptyCommand
	}
	return s.voiceService.ProcessTranscript(ctx, userID, text)
}

// SetTargetPage locks the mutation subject to the page matching the query.
// No match leaves the previous target untouched.
func (s *commandService) SetTargetPage(ctx context.Context, userID string, query string) (*entity.ActionResult, error) {
	requestID := contextPkg.GetRequestID(ctx)

	token, ok := s.tokenStore.Get(userID)
	if !ok {
		return nil, command.ErrNotionNotLinked
	}
	client := s.notionSvc.Client(token.AccessToken)

	pages, err := client.Search(ctx, query, 5)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    userID,
			"query":      query,
			"error":      err.Error(),
		}).Warn("Target page search failed")
		return &entity.ActionResult{
			Success: false,
			Message: fmt.Sprintf("Searching for %q failed, please try again", query),
		}, nil
	}
	if len(pages) == 0 {
		return &entity.ActionResult{
			Success: false,
			Message: fmt.Sprintf("No page found matching %q, target unchanged", query),
		}, nil
	}

	target := pages[0]
	s.contextStore.Set(userID, store.ContextPatch{TargetPageID: &target.ID})

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    userID,
		"page_id":    target.ID,
	}).Info("Target page locked")

	return &entity.ActionResult{
		Success: true,
		Message: fmt.Sprintf("Target locked to %q", target.Title()),
		PageID:  target.ID,
	}, nil
}

func (s *commandService) SetDryRun(userID string, enabled bool) {
	s.contextStore.Set(userID, store.ContextPatch{DryRun: &enabled})
	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"enabled": enabled,
	}).Info("Dry-run mode toggled")
}

func (s *commandService) ResetContext(userID string) {
	s.contextStore.Reset(userID)
	s.log.WithFields(logrus.Fields{
		"user_id": userID,
	}).Info("Context reset")
}

func (s *commandService) Status(userID string) *command.StatusResponse {
	userCtx := s.contextStore.Get(userID)

	return &command.StatusResponse{
		NotionLinked:  s.tokenStore.Has(userID),
		CurrentPageID: userCtx.CurrentPageID,
		TargetPageID:  userCtx.TargetPageID,
		DryRun:        userCtx.DryRun,
		HistoryDepth:  len(userCtx.History),
		Latencies:     s.contextStore.AverageLatencies(userID),
	}
}

func (s *commandService) CreateSession(userID, username string) (string, int64, error) {
	return jwtPkg.Sign(map[string]interface{}{
		"id":       userID,
		"username": username,
	}, s.sessionTTL)
}
