package command

import "NotionVoice/internal/entity"

type ExecuteRequest struct {
	Text string `json:"text" validate:"required,min=1"`
}

type TargetPageRequest struct {
	Query string `json:"query" validate:"required,min=1"`
}

type DryRunRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type CreateSessionRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Username string `json:"username" validate:"required"`
}

type SessionResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

// StatusResponse reports the session state the way a /status command shows
// it: link state, subject pages, dry-run flag, history depth and the average
// pipeline latencies.
type StatusResponse struct {
	NotionLinked  bool                    `json:"notion_linked"`
	CurrentPageID string                  `json:"current_page_id,omitempty"`
	TargetPageID  string                  `json:"target_page_id,omitempty"`
	DryRun        bool                    `json:"dry_run"`
	HistoryDepth  int                     `json:"history_depth"`
	Latencies     entity.AverageLatencies `json:"latencies_ms"`
}
