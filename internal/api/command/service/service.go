package commandService

import (
	"NotionVoice/internal/api/command"
	voiceService "NotionVoice/internal/api/voice/service"
	"NotionVoice/internal/entity"
	"NotionVoice/internal/store"
	"NotionVoice/pkg/notion"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type ICommandService interface {
	Execute(ctx context.Context, userID string, text string) (*entity.ActionResult, error)
	SetTargetPage(ctx context.Context, userID string, query string) (*entity.ActionResult, error)
	SetDryRun(userID string, enabled bool)
	ResetContext(userID string)
	Status(userID string) *command.StatusResponse
	CreateSession(userID, username string) (string, int64, error)
}

type commandService struct {
	log          *logrus.Logger
	voiceService voiceService.IVoiceService
	notionSvc    *notion.Service
	contextStore store.IContextStore
	tokenStore   store.ITokenStore
	sessionTTL   time.Duration
}

func New(
	log *logrus.Logger,
	vs voiceService.IVoiceService,
	notionSvc *notion.Service,
	contextStore store.IContextStore,
	tokenStore store.ITokenStore,
) ICommandService {
	return &commandService{
		log:          log,
		voiceService: vs,
		notionSvc:    notionSvc,
		contextStore: contextStore,
		tokenStore:   tokenStore,
		sessionTTL:   24 * time.Hour,
	}
}
