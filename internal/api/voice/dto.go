package voice

import "NotionVoice/internal/entity"

// StreamEvent is one JSON message pushed to the websocket client. Binary
// frames travel client→server only (raw PCM); everything server→client is a
// StreamEvent.
type StreamEvent struct {
	Type       string               `json:"type"` // transcript | result | error | closed
	Transcript string               `json:"transcript,omitempty"`
	Result     *entity.ActionResult `json:"result,omitempty"`
	Error      string               `json:"error,omitempty"`
}

// ControlMessage is a text frame sent by the client on the voice stream.
type ControlMessage struct {
	Type string `json:"type" validate:"required,oneof=leave flush"`
}

type TranscriptRequest struct {
	Text string `json:"text" validate:"required,min=1"`
}
