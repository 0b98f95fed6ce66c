package notionauth

type LinkResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	ExpiresInSeconds int    `json:"expires_in_seconds"`
}

type LinkStatusResponse struct {
	Linked      bool   `json:"linked"`
	WorkspaceID string `json:"workspace_id,omitempty"`
}
