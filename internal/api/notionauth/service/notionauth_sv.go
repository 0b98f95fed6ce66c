package notionauthService

import (
	"NotionVoice/internal/api/notionauth"
	"NotionVoice/internal/entity"
	"NotionVoice/internal/store"
	contextPkg "NotionVoice/pkg/context"
	"context"

	"github.com/sirupsen/logrus"
)

// BeginLink issues the authorization URL for one linking attempt. The OAuth
// state is a one-time pending-auth code, never the raw user id.
func (s *notionAuthService) BeginLink(ctx context.Context, userID string) (string, error) {
	requestID := contextPkg.GetRequestID(ctx)

	code, err := s.pendingStore.Create(userID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    userID,
			"error":      err.Error(),
		}).Error("Failed to create pending authorization")
		return "", err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    userID,
	}).Info("Notion link started")

	return s.oauth.AuthorizeURL(code), nil
}

// CompleteLink consumes the state code, exchanges the authorization code for
// an access token and stores it encrypted. Returns the linked user id.
func (s *notionAuthService) CompleteLink(ctx context.Context, state, code string) (string, error) {
	requestID := contextPkg.GetRequestID(ctx)

	userID, ok := s.pendingStore.Consume(state)
	if !ok {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
		}).Warn("OAuth callback with unknown or expired state")
		return "", notionauth.ErrInvalidState
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    userID,
			"error":      err.Error(),
		}).Error("Notion token exchange failed")
		return "", notionauth.ErrExchangeFailed
	}

	err = s.tokenStore.Set(userID, entity.NotionToken{
		AccessToken: token.AccessToken,
		WorkspaceID: token.WorkspaceID,
		BotID:       token.BotID,
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    userID,
			"error":      err.Error(),
		}).Error("Failed to store notion token")
		return "", notionauth.ErrStoreFailed
	}

	linked := true
	s.contextStore.Set(userID, store.ContextPatch{NotionLinked: &linked})

	s.log.WithFields(logrus.Fields{
		"request_id":   requestID,
		"user_id":      userID,
		"workspace_id": token.WorkspaceID,
	}).Info("Notion account linked")

	return userID, nil
}

func (s *notionAuthService) Unlink(userID string) {
	s.tokenStore.Delete(userID)
	linked := false
	s.contextStore.Set(userID, store.ContextPatch{NotionLinked: &linked})

	s.log.WithFields(logrus.Fields{
		"user_id": userID,
	}).Info("Notion account unlinked")
}

func (s *notionAuthService) LinkStatus(userID string) (bool, string) {
	token, ok := s.tokenStore.Get(userID)
	if !ok {
		return false, ""
	}
	return true, token.WorkspaceID
}
