package command

import "NotionVoice/pkg/response"

var (
	ErrNotionNotLinked = response.NewError(403, "notion account not linked")
	ErrEmptyCommand    = response.NewError(400, "command text is empty")
)
