package entity

import "time"

// NotionToken is the credential obtained through the OAuth flow. It is stored
// encrypted and only ever decrypted to build a per-user API client.
type NotionToken struct {
	AccessToken string `json:"access_token"`
	WorkspaceID string `json:"workspace_id"`
	BotID       string `json:"bot_id"`
}

// PendingAuth is one in-flight OAuth linking attempt, keyed by its one-time
// state code.
type PendingAuth struct {
	UserID    string
	ExpiresAt time.Time
}

type UserLoginData struct {
	ID       string
	Username string
}
