package notionauthHandler

import (
	"NotionVoice/internal/api/notionauth"
	contextPkg "NotionVoice/pkg/context"
	"NotionVoice/pkg/handlerUtil"
	jwtPkg "NotionVoice/pkg/jwt"
	"NotionVoice/pkg/log"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

const confirmationPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Notion Linked</title>
  <style>
    body { font-family: sans-serif; display: flex; align-items: center; justify-content: center; height: 100vh; margin: 0; background: #f7f6f3; }
    .card { background: #fff; padding: 2rem 3rem; border-radius: 8px; box-shadow: 0 2px 8px rgba(0,0,0,.08); text-align: center; }
  </style>
</head>
<body>
  <div class="card">
    <h1>&#9989; Notion account linked</h1>
    <p>You can close this tab and go back to the assistant.</p>
  </div>
</body>
</html>`

func (h *NotionAuthHandler) BeginLink(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	authURL, err := h.authService.BeginLink(c, userData.ID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "begin_link")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, notionauth.LinkResponse{
		AuthorizationURL: authURL,
		ExpiresInSeconds: 600,
	})
}

func (h *NotionAuthHandler) Callback(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	state := ctx.Query("state")
	code := ctx.Query("code")

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"has_code":   code != "",
	}).Debug("Processing OAuth callback")

	if code == "" {
		return errHandler.Handle(ctx, requestID, notionauth.ErrMissingCode, ctx.Path(), "oauth_callback")
	}
	if state == "" {
		return errHandler.Handle(ctx, requestID, notionauth.ErrInvalidState, ctx.Path(), "oauth_callback")
	}

	if _, err := h.authService.CompleteLink(c, state, code); err != nil {
		if errors.Is(err, notionauth.ErrInvalidState) {
			return errHandler.HandleUnauthorized(ctx, requestID, "Invalid or expired authorization state")
		}
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "oauth_callback")
	}

	ctx.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return ctx.Status(fiber.StatusOK).SendString(confirmationPage)
}

func (h *NotionAuthHandler) Unlink(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	h.authService.Unlink(userData.ID)

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Notion account unlinked",
	})
}

func (h *NotionAuthHandler) LinkStatus(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	linked, workspaceID := h.authService.LinkStatus(userData.ID)
	return errHandler.HandleSuccess(ctx, fiber.StatusOK, notionauth.LinkStatusResponse{
		Linked:      linked,
		WorkspaceID: workspaceID,
	})
}
