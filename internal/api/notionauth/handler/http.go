package notionauthHandler

import (
	notionauthService "NotionVoice/internal/api/notionauth/service"
	"NotionVoice/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type NotionAuthHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	authService notionauthService.INotionAuthService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	as notionauthService.INotionAuthService,
) *NotionAuthHandler {
	return &NotionAuthHandler{
		log:         log,
		validator:   validate,
		middleware:  middleware,
		authService: as,
	}
}

func (h *NotionAuthHandler) Start(srv fiber.Router) {
	notionGroup := srv.Group("/notion")

	notionGroup.Post("/link", h.middleware.NewTokenMiddleware, h.BeginLink)
	notionGroup.Get("/link", h.middleware.NewTokenMiddleware, h.LinkStatus)
	notionGroup.Delete("/link", h.middleware.NewTokenMiddleware, h.Unlink)

	// Redirect target for Notion; carries its own state token, no JWT.
	notionGroup.Get("/callback", h.middleware.NewRateLimiter, h.Callback)
}
