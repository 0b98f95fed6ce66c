package voiceService

import (
	"NotionVoice/internal/entity"
	"NotionVoice/internal/store"
	"NotionVoice/pkg/chunker"
	"NotionVoice/pkg/llm"
	"NotionVoice/pkg/nlu"
	"NotionVoice/pkg/notion"
	"NotionVoice/pkg/whisper"
	"context"

	"github.com/sirupsen/logrus"
)

type IVoiceService interface {
	// ProcessChunk runs one flushed audio chunk through the full
	// transcribe, parse and execute pipeline.
	ProcessChunk(ctx context.Context, userID string, pcm []byte) (string, *entity.ActionResult, error)

	// ProcessTranscript enters the pipeline after transcription, for the
	// text-command path.
	ProcessTranscript(ctx context.Context, userID string, text string) (*entity.ActionResult, error)

	// Dispatch maps one validated intent onto a document operation.
	Dispatch(ctx context.Context, userID string, intent *entity.Intent) entity.ActionResult

	// NewChunker creates the per-session audio chunker feeding ProcessChunk.
	NewChunker(userID string, onChunk func(pcm []byte)) *chunker.Chunker
}

type voiceService struct {
	log          *logrus.Logger
	transcriber  whisper.ITranscriber
	parser       nlu.IParser
	generator    llm.IGenerator
	notionSvc    *notion.Service
	contextStore store.IContextStore
	tokenStore   store.ITokenStore
}

func New(
	log *logrus.Logger,
	transcriber whisper.ITranscriber,
	parser nlu.IParser,
	generator llm.IGenerator,
	notionSvc *notion.Service,
	contextStore store.IContextStore,
	tokenStore store.ITokenStore,
) IVoiceService {
	return &voiceService{
		log:          log,
		transcriber:  transcriber,
		parser:       parser,
		generator:    generator,
		notionSvc:    notionSvc,
		contextStore: contextStore,
		tokenStore:   tokenStore,
	}
}

func (s *voiceService) NewChunker(userID string, onChunk func(pcm []byte)) *chunker.Chunker {
	return chunker.New(userID, s.log, onChunk)
}

// clientFor builds an authenticated Notion client for one user. The second
// return is false when the account was never linked.
func (s *voiceService) clientFor(userID string) (notion.IClient, bool) {
	token, ok := s.tokenStore.Get(userID)
	if !ok {
		return nil, false
	}
	return s.notionSvc.Client(token.AccessToken), true
}
