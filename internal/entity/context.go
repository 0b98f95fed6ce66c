package entity

import "time"

type LatencyStage string

const (
	StageSTT    LatencyStage = "stt"
	StageNLU    LatencyStage = "nlu"
	StageNotion LatencyStage = "notion"
)

type PageHistoryItem struct {
	PageID    string    `json:"page_id"`
	Timestamp time.Time `json:"timestamp"`
}

// UserContext holds the per-user session state that gives the pipeline its
// statefulness: which page is open, an optional locked target page, the
// navigation history and the rolling latency samples.
type UserContext struct {
	UserID        string                     `json:"user_id"`
	CurrentPageID string                     `json:"current_page_id,omitempty"`
	TargetPageID  string                     `json:"target_page_id,omitempty"`
	DryRun        bool                       `json:"dry_run"`
	History       []PageHistoryItem          `json:"history"`
	NotionLinked  bool                       `json:"notion_linked"`
	Latencies     map[LatencyStage][]float64 `json:"latencies"`
}

type AverageLatencies struct {
	STT    float64 `json:"stt"`
	NLU    float64 `json:"nlu"`
	Notion float64 `json:"notion"`
}
