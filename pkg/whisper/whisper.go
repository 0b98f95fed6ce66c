package whisper

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

const (
	SampleRate     = 48000
	Channels       = 2
	BytesPerSample = 2
)

type ITranscriber interface {
	Transcribe(ctx context.Context, pcm []byte) (string, int64, error)
}

type transcriber struct {
	client   *openai.Client
	model    string
	language string
	log      *logrus.Logger
}

func New(log *logrus.Logger) ITranscriber {
	model := os.Getenv("OPENAI_MODEL_WHISPER")
	if model == "" {
		model = openai.Whisper1
	}

	return &transcriber{
		client:   openai.NewClient(os.Getenv("OPENAI_API_KEY")),
		model:    model,
		language: os.Getenv("WHISPER_LANGUAGE"),
		log:      log,
	}
}

// Transcribe wraps raw PCM in a WAV container, writes it to a temp file,
// sends it to Whisper and reports the transcript with the wall-clock
// duration in milliseconds. The temp file is removed on every exit path.
func (t *transcriber) Transcribe(ctx context.Context, pcm []byte) (string, int64, error) {
	start := time.Now()

	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("audio-%s.wav", uuid.NewString()))
	if err := os.WriteFile(tempPath, pcmToWAV(pcm, SampleRate, Channels), 0o600); err != nil {
		return "", 0, fmt.Errorf("failed to write temp audio file: %w", err)
	}
	defer func() {
		if err := os.Remove(tempPath); err != nil {
			t.log.WithFields(logrus.Fields{
				"path":  tempPath,
				"error": err.Error(),
			}).Warn("Failed to delete temp audio file")
		}
	}()

	req := openai.AudioRequest{
		Model:       t.model,
		FilePath:    tempPath,
		Language:    t.language,
		Temperature: 0.0,
	}

	resp, err := t.client.CreateTranscription(ctx, req)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		return "", duration, fmt.Errorf("whisper transcription failed: %w", err)
	}

	return strings.TrimSpace(resp.Text), duration, nil
}

// pcmToWAV prefixes 16-bit little-endian PCM with a 44 byte RIFF header so the
// payload is self-describing.
func pcmToWAV(pcm []byte, sampleRate, channels int) []byte {
	dataSize := len(pcm)
	header := make([]byte, 44)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataSize))
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate*channels*BytesPerSample))
	binary.LittleEndian.PutUint16(header[32:34], uint16(channels*BytesPerSample))
	binary.LittleEndian.PutUint16(header[34:36], 16) // bits per sample

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))

	return append(header, pcm...)
}
