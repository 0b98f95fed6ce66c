package voiceService

import (
	"NotionVoice/internal/api/voice"
	"NotionVoice/internal/entity"
	contextPkg "NotionVoice/pkg/context"
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// minTranscriptLength drops transcripts too short to carry a command;
// Whisper tends to hallucinate one or two characters on near-silent chunks.
const minTranscriptLength = 3

func (s *voiceService) ProcessChunk(ctx context.Context, userID string, pcm []byte) (string, *entity.ActionResult, error) {
	requestID := contextPkg.GetRequestID(ctx)

	text, sttMs, err := s.transcriber.Transcribe(ctx, pcm)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    userID,
			"error":      err.Error(),
		}).Error("Transcription failed, dropping chunk")
		return "", nil, voice.ErrTranscriptionFailed
	}
	s.contextStore.AddLatency(userID, entity.StageSTT, float64(sttMs))

	text = strings.TrimSpace(text)
	if len(text) < minTranscriptLength {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    userID,
			"transcript": text,
		}).Debug("Transcript too short, skipping")
		return text, nil, nil
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    userID,
		"transcript": text,
		"stt_ms":     sttMs,
	}).Info("Chunk transcribed")

	result, err := s.ProcessTranscript(ctx, userID, text)
	return text, result, err
}

func (s *voiceService) ProcessTranscript(ctx context.Context, userID string, text string) (*entity.ActionResult, error) {
	requestID := contextPkg.GetRequestID(ctx)

	intent, nluMs, err := s.parser.Parse(ctx, text)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    userID,
			"text":       text,
			"error":      err.Error(),
		}).Warn("Intent parsing failed")
		return nil, voice.ErrIntentParseFailed
	}
	s.contextStore.AddLatency(userID, entity.StageNLU, float64(nluMs))

	if err := s.parser.Validate(intent); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    userID,
			"action":     intent.Action,
			"error":      err.Error(),
		}).Warn("Intent failed schema validation")
		return nil, voice.ErrIntentParseFailed
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    userID,
		"action":     intent.Action,
		"nlu_ms":     nluMs,
	}).Info("Intent parsed")

	result := s.Dispatch(ctx, userID, intent)
	return &result, nil
}
