package notionauth

import "NotionVoice/pkg/response"

var (
	ErrInvalidState   = response.NewError(401, "invalid or expired authorization state")
	ErrMissingCode    = response.NewError(400, "authorization code is missing")
	ErrExchangeFailed = response.NewError(502, "token exchange with notion failed")
	ErrStoreFailed    = response.NewError(500, "failed to store notion credentials")
)
