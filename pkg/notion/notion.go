package notion

import (
	"context"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	apiVersion     = "2022-06-28"
)

type IClient interface {
	RetrievePage(ctx context.Context, pageID string) (*Page, error)
	Search(ctx context.Context, query string, pageSize int) ([]Page, error)
	CreatePage(ctx context.Context, parentPageID, title string) (*Page, error)
	ArchivePage(ctx context.Context, pageID string) error
	AppendBlockChildren(ctx context.Context, blockID string, children []BlockRequest) ([]Block, error)
	ListBlockChildren(ctx context.Context, blockID string, pageSize int) ([]Block, error)
	UpdateBlock(ctx context.Context, blockID string, payload BlockRequest) error
	ArchiveBlock(ctx context.Context, blockID string) error
	CreateDatabase(ctx context.Context, parentPageID, title string, properties map[string]interface{}) (*Database, error)
	CreateDatabaseEntry(ctx context.Context, databaseID string, properties map[string]interface{}) (*Page, error)
}

// Service builds per-user API clients that share one rate limiter. Notion
// allows an average of three requests per second per integration.
type Service struct {
	baseURL string
	limiter *rate.Limiter
	log     *logrus.Logger
}

func New(log *logrus.Logger) *Service {
	baseURL := os.Getenv("NOTION_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return NewWithBase(log, baseURL)
}

func NewWithBase(log *logrus.Logger, baseURL string) *Service {
	return &Service{
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(3), 3),
		log:     log,
	}
}

// Client returns an API client authenticated with the given bearer token.
func (s *Service) Client(accessToken string) IClient {
	rc := resty.New().
		SetBaseURL(s.baseURL).
		SetAuthToken(accessToken).
		SetHeader("Notion-Version", apiVersion).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)

	return &client{
		http:    rc,
		limiter: s.limiter,
		log:     s.log,
	}
}
