package notionauthService

import (
	"NotionVoice/internal/store"
	"NotionVoice/pkg/notion"
	"context"

	"github.com/sirupsen/logrus"
)

type INotionAuthService interface {
	BeginLink(ctx context.Context, userID string) (string, error)
	CompleteLink(ctx context.Context, state, code string) (string, error)
	Unlink(userID string)
	LinkStatus(userID string) (bool, string)
}

type notionAuthService struct {
	log          *logrus.Logger
	oauth        notion.IOAuth
	pendingStore store.IPendingAuthStore
	tokenStore   store.ITokenStore
	contextStore store.IContextStore
}

func New(
	log *logrus.Logger,
	oauth notion.IOAuth,
	pendingStore store.IPendingAuthStore,
	tokenStore store.ITokenStore,
	contextStore store.IContextStore,
) INotionAuthService {
	return &notionAuthService{
		log:          log,
		oauth:        oauth,
		pendingStore: pendingStore,
		tokenStore:   tokenStore,
		contextStore: contextStore,
	}
}
