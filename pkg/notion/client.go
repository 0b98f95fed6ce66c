package notion

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"NotionVoice/pkg/richtext"
)

type client struct {
	http    *resty.Client
	limiter *rate.Limiter
	log     *logrus.Logger
}

// APIError is a non-2xx reply from the Notion API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion api error (%d %s): %s", e.Status, e.Code, e.Message)
}

func (c *client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	apiErr := &APIError{}
	req.SetError(apiErr)

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("notion request failed: %w", err)
	}
	if resp.IsError() {
		apiErr.Status = resp.StatusCode()
		return apiErr
	}
	return nil
}

func (c *client) RetrievePage(ctx context.Context, pageID string) (*Page, error) {
	var page Page
	if err := c.do(ctx, resty.MethodGet, "/pages/"+pageID, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Search queries page titles, filtered to page-type objects only.
func (c *client) Search(ctx context.Context, query string, pageSize int) ([]Page, error) {
	body := map[string]interface{}{
		"query":     query,
		"page_size": pageSize,
		"filter": map[string]string{
			"property": "object",
			"value":    "page",
		},
	}

	var result searchResponse
	if err := c.do(ctx, resty.MethodPost, "/search", body, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

func (c *client) CreatePage(ctx context.Context, parentPageID, title string) (*Page, error) {
	body := map[string]interface{}{
		"parent": map[string]string{"page_id": parentPageID},
		"properties": map[string]interface{}{
			"title": map[string]interface{}{
				"title": richtext.Simple(title),
			},
		},
	}

	var page Page
	if err := c.do(ctx, resty.MethodPost, "/pages", body, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ArchivePage soft-deletes; Notion has no permanent delete on this surface.
func (c *client) ArchivePage(ctx context.Context, pageID string) error {
	body := map[string]interface{}{"archived": true}
	return c.do(ctx, resty.MethodPatch, "/pages/"+pageID, body, nil)
}

func (c *client) AppendBlockChildren(ctx context.Context, blockID string, children []BlockRequest) ([]Block, error) {
	body := map[string]interface{}{"children": children}

	var result blockListResponse
	if err := c.do(ctx, resty.MethodPatch, "/blocks/"+blockID+"/children", body, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

func (c *client) ListBlockChildren(ctx context.Context, blockID string, pageSize int) ([]Block, error) {
	path := fmt.Sprintf("/blocks/%s/children?page_size=%d", blockID, pageSize)

	var result blockListResponse
	if err := c.do(ctx, resty.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

func (c *client) UpdateBlock(ctx context.Context, blockID string, payload BlockRequest) error {
	return c.do(ctx, resty.MethodPatch, "/blocks/"+blockID, payload, nil)
}

func (c *client) ArchiveBlock(ctx context.Context, blockID string) error {
	body := map[string]interface{}{"archived": true}
	return c.do(ctx, resty.MethodPatch, "/blocks/"+blockID, body, nil)
}

func (c *client) CreateDatabase(ctx context.Context, parentPageID, title string, properties map[string]interface{}) (*Database, error) {
	body := map[string]interface{}{
		"parent": map[string]string{
			"type":    "page_id",
			"page_id": parentPageID,
		},
		"title":      richtext.Simple(title),
		"properties": properties,
	}

	var db Database
	if err := c.do(ctx, resty.MethodPost, "/databases", body, &db); err != nil {
		return nil, err
	}
	return &db, nil
}

func (c *client) CreateDatabaseEntry(ctx context.Context, databaseID string, properties map[string]interface{}) (*Page, error) {
	body := map[string]interface{}{
		"parent":     map[string]string{"database_id": databaseID},
		"properties": properties,
	}

	var page Page
	if err := c.do(ctx, resty.MethodPost, "/pages", body, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
