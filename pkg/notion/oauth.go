package notion

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
)

type IOAuth interface {
	AuthorizeURL(state string) string
	Exchange(ctx context.Context, code string) (*TokenResponse, error)
}

type TokenResponse struct {
	AccessToken   string `json:"access_token"`
	WorkspaceID   string `json:"workspace_id"`
	WorkspaceName string `json:"workspace_name"`
	BotID         string `json:"bot_id"`
}

type oauthProvider struct {
	config  *oauth2.Config
	authURL string
	http    *resty.Client
}

func NewOAuth() IOAuth {
	authBase := os.Getenv("NOTION_OAUTH_BASE_URL")
	if authBase == "" {
		authBase = defaultBaseURL
	}

	config := &oauth2.Config{
		ClientID:     os.Getenv("NOTION_CLIENT_ID"),
		ClientSecret: os.Getenv("NOTION_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("NOTION_REDIRECT_URI"),
		Endpoint: oauth2.Endpoint{
			AuthURL:  authBase + "/oauth/authorize",
			TokenURL: authBase + "/oauth/token",
		},
	}

	return &oauthProvider{
		config:  config,
		authURL: authBase,
		http:    resty.New().SetTimeout(15 * time.Second),
	}
}

func (p *oauthProvider) AuthorizeURL(state string) string {
	scopes := os.Getenv("NOTION_SCOPES")
	if scopes == "" {
		scopes = "read,update,insert,search"
	}
	scope := strings.Join(strings.Split(scopes, ","), " ")

	return p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("owner", "user"),
		oauth2.SetAuthURLParam("scope", strings.TrimSpace(scope)),
	)
}

// Exchange trades the authorization code for an access token. Notion's token
// endpoint wants Basic client credentials with a JSON body, so the exchange
// is issued directly rather than through oauth2.Config.
func (p *oauthProvider) Exchange(ctx context.Context, code string) (*TokenResponse, error) {
	var token TokenResponse
	var apiErr APIError

	resp, err := p.http.R().
		SetContext(ctx).
		SetBasicAuth(p.config.ClientID, p.config.ClientSecret).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{
			"grant_type":   "authorization_code",
			"code":         code,
			"redirect_uri": p.config.RedirectURL,
		}).
		SetResult(&token).
		SetError(&apiErr).
		Post(p.config.Endpoint.TokenURL)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	if resp.IsError() {
		apiErr.Status = resp.StatusCode()
		return nil, &apiErr
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token exchange returned no access token")
	}

	return &token, nil
}
