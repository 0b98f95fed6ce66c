package commandHandler

import (
	commandService "NotionVoice/internal/api/command/service"
	"NotionVoice/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type CommandHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	commandService commandService.ICommandService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cs commandService.ICommandService,
) *CommandHandler {
	return &CommandHandler{
		log:            log,
		validator:      validate,
		middleware:     middleware,
		commandService: cs,
	}
}

func (h *CommandHandler) Start(srv fiber.Router) {
	commands := srv.Group("/commands")

	commands.Post("/execute", h.middleware.NewTokenMiddleware, h.Execute)
	commands.Post("/target-page", h.middleware.NewTokenMiddleware, h.SetTargetPage)
	commands.Post("/dry-run", h.middleware.NewTokenMiddleware, h.SetDryRun)
	commands.Post("/reset", h.middleware.NewTokenMiddleware, h.ResetContext)
	commands.Get("/status", h.middleware.NewTokenMiddleware, h.Status)

	srv.Post("/sessions", h.middleware.NewRateLimiter, h.CreateSession)
}
