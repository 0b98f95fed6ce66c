package voice

import "NotionVoice/pkg/response"

// Pipeline errors surfaced to the transport layer. Domain-level failures
// (no page open, page not found, unsupported block) travel inside
// ActionResult instead.
var (
	ErrTranscriptionFailed = response.NewError(502, "transcription failed")
	ErrIntentParseFailed   = response.NewError(422, "could not understand the command")
)
