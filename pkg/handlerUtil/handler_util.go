package handlerUtil

import (
	"NotionVoice/internal/api/command"
	"NotionVoice/internal/api/notionauth"
	"NotionVoice/internal/api/voice"
	"NotionVoice/pkg/log"
	"NotionVoice/pkg/response"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

// Handle maps domain sentinels to coded JSON replies. The sentinel branches
// run before the generic response.Error branch so each keeps its own code.
func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	if errors.Is(err, command.ErrNotionNotLinked) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Notion account not linked")
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Notion account not linked",
			"code":    "NOTION_NOT_LINKED",
		})
	}

	if errors.Is(err, voice.ErrTranscriptionFailed) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Transcription failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Transcription failed",
			"code":    "TRANSCRIPTION_FAILED",
		})
	}

	if errors.Is(err, voice.ErrIntentParseFailed) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Intent parsing failed")
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Could not understand the command",
			"code":    "INTENT_PARSE_FAILED",
		})
	}

	if errors.Is(err, command.ErrEmptyCommand) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Empty command")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Command text is empty",
			"code":    "EMPTY_COMMAND",
		})
	}

	if errors.Is(err, notionauth.ErrInvalidState) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Invalid authorization state")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid or expired authorization state",
			"code":    "INVALID_AUTH_STATE",
		})
	}

	if errors.Is(err, notionauth.ErrMissingCode) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Authorization code missing")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Authorization code is missing",
			"code":    "MISSING_AUTH_CODE",
		})
	}

	if errors.Is(err, notionauth.ErrExchangeFailed) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Token exchange failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Token exchange with Notion failed",
			"code":    "TOKEN_EXCHANGE_FAILED",
		})
	}

	var respErr *response.Error
	if errors.As(err, &respErr) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"code":       respErr.Code,
			"path":       path,
			"operation":  operation,
		}).Warn("Operation failed with error response")
		return c.Status(respErr.Code).JSON(fiber.Map{"error": err.Error()})
	}

	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}).Error("Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "An unexpected error occurred",
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Validation failed: " + err.Error(),
		"code":  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(utils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleUnauthorized(c *fiber.Ctx, requestID string, message string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"path":       c.Path(),
		"message":    message,
	}).Warn("Unauthorized access")

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
		"code":  "UNAUTHORIZED",
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
