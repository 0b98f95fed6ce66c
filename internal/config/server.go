package config

import (
	commandHandler "NotionVoice/internal/api/command/handler"
	commandService "NotionVoice/internal/api/command/service"
	notionauthHandler "NotionVoice/internal/api/notionauth/handler"
	notionauthService "NotionVoice/internal/api/notionauth/service"
	voiceHandler "NotionVoice/internal/api/voice/handler"
	voiceService "NotionVoice/internal/api/voice/service"
	"NotionVoice/internal/middleware"
	"NotionVoice/internal/store"
	cryptoPkg "NotionVoice/pkg/crypto"
	"NotionVoice/pkg/llm"
	"NotionVoice/pkg/nlu"
	"NotionVoice/pkg/notion"
	"NotionVoice/pkg/whisper"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine     *fiber.App
	log        *logrus.Logger
	middleware middleware.Middleware
	validator  *validator.Validate
	handlers   []handler
	startedAt  time.Time

	crypto       cryptoPkg.ICrypto
	contextStore store.IContextStore
	tokenStore   store.ITokenStore
	pendingStore store.IPendingAuthStore

	notionSvc   *notion.Service
	notionOAuth notion.IOAuth
	transcriber whisper.ITranscriber
	nluParser   nlu.IParser
	generator   llm.IGenerator
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{startedAt: time.Now()}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithCrypto() ServerOption {
	return func(s *Server) error {
		crypto, err := cryptoPkg.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize crypto: %v", err)
			}
			return fmt.Errorf("failed to create crypto: %w", err)
		}
		s.crypto = crypto
		return nil
	}
}

func WithStores() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before stores")
		}
		if s.crypto == nil {
			return fmt.Errorf("crypto must be initialized before stores")
		}
		s.contextStore = store.NewContextStore(s.log)
		s.tokenStore = store.NewTokenStore(s.crypto, s.log)
		s.pendingStore = store.NewPendingAuthStore()
		return nil
	}
}

func WithNotion() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before the notion service")
		}
		s.notionSvc = notion.New(s.log)
		s.notionOAuth = notion.NewOAuth()
		return nil
	}
}

func WithTranscriber() ServerOption {
	return func(s *Server) error {
		s.transcriber = whisper.New(s.log)
		return nil
	}
}

func WithNLUParser() ServerOption {
	return func(s *Server) error {
		if s.validator == nil {
			return fmt.Errorf("validator must be initialized before the parser")
		}
		s.nluParser = nlu.New(s.log, s.validator)
		return nil
	}
}

func WithGenerator() ServerOption {
	return func(s *Server) error {
		generator, err := llm.New(s.log)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create completion provider: %v", err)
			}
			return fmt.Errorf("failed to create completion provider: %w", err)
		}
		s.generator = generator
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Voice Domain
	voiceServices := voiceService.New(s.log, s.transcriber, s.nluParser, s.generator, s.notionSvc, s.contextStore, s.tokenStore)
	voiceHandlers := voiceHandler.New(s.log, s.validator, s.middleware, voiceServices)

	// Command Domain
	commandServices := commandService.New(s.log, voiceServices, s.notionSvc, s.contextStore, s.tokenStore)
	commandHandlers := commandHandler.New(s.log, s.validator, s.middleware, commandServices)

	// Notion OAuth Domain
	notionauthServices := notionauthService.New(s.log, s.notionOAuth, s.pendingStore, s.tokenStore, s.contextStore)
	notionauthHandlers := notionauthHandler.New(s.log, s.validator, s.middleware, notionauthServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, voiceHandlers, commandHandlers, notionauthHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) Shutdown() error {
	return s.engine.Shutdown()
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message":        "Server is Healthy!",
			"uptime_seconds": int64(time.Since(s.startedAt).Seconds()),
		})
	})
}
