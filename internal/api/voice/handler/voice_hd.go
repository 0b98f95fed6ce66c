package voiceHandler

import (
	"NotionVoice/internal/api/voice"
	"NotionVoice/internal/entity"
	contextPkg "NotionVoice/pkg/context"
	"NotionVoice/pkg/handlerUtil"
	jwtPkg "NotionVoice/pkg/jwt"
	"NotionVoice/pkg/log"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
)

// chunkTimeout bounds one chunk's transcribe, parse and execute pipeline.
const chunkTimeout = 60 * time.Second

// Stream is the voice session endpoint. The client sends raw PCM as binary
// frames and control messages as text frames; the server pushes StreamEvent
// JSON. Each flushed chunk runs its pipeline in its own goroutine, so a
// later chunk can finish before an earlier one — mutations across chunks of
// one utterance are not ordered.
func (h *VoiceHandler) Stream(conn *websocket.Conn) {
	user, ok := conn.Locals("user").(entity.UserLoginData)
	if !ok {
		_ = conn.WriteJSON(voice.StreamEvent{Type: "error", Error: "unauthorized"})
		_ = conn.Close()
		return
	}

	requestID, _ := conn.Locals("X-Request-ID").(string)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"user_id":    user.ID,
	}).Info("Voice stream opened")

	var writeMu sync.Mutex
	send := func(event voice.StreamEvent) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(event); err != nil {
			h.log.WithFields(log.Fields{
				"request_id": requestID,
				"user_id":    user.ID,
				"error":      err.Error(),
			}).Warn("Failed to push stream event")
		}
	}

	audioChunker := h.voiceService.NewChunker(user.ID, func(pcm []byte) {
		c, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), requestID), chunkTimeout)
		defer cancel()

		transcript, result, err := h.voiceService.ProcessChunk(c, user.ID, pcm)
		if err != nil {
			send(voice.StreamEvent{Type: "error", Error: err.Error()})
			return
		}
		if result == nil {
			return
		}
		send(voice.StreamEvent{Type: "result", Transcript: transcript, Result: result})
	})
	defer audioChunker.Close()

	for {
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			break
		}

		switch messageType {
		case websocket.BinaryMessage:
			audioChunker.Write(payload)
		case websocket.TextMessage:
			var control voice.ControlMessage
			if err := json.Unmarshal(payload, &control); err != nil {
				send(voice.StreamEvent{Type: "error", Error: "malformed control message"})
				continue
			}
			switch control.Type {
			case "flush":
				audioChunker.Flush()
			case "leave":
				send(voice.StreamEvent{Type: "closed"})
				h.log.WithFields(log.Fields{
					"request_id": requestID,
					"user_id":    user.ID,
				}).Info("Voice stream left by client")
				return
			default:
				send(voice.StreamEvent{Type: "error", Error: "unknown control message"})
			}
		}
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"user_id":    user.ID,
	}).Info("Voice stream closed")
}

// ProcessTranscript runs already-transcribed text through the intent
// pipeline. It exists for clients without an audio path and for debugging.
func (h *VoiceHandler) ProcessTranscript(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req voice.TranscriptRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	result, err := h.voiceService.ProcessTranscript(c, userData.ID, req.Text)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "process_transcript")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}
