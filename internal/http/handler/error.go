package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"storesite/internal/http/middleware"
	"storesite/internal/logger"
)

// errorPayload is the body of every JSON error response.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var (
	internalError = errorEnvelope{Code: "INTERNAL_ERROR", Message: "internal server error"}

	statusErrors = map[int]errorEnvelope{
		fiber.StatusBadRequest:         {Code: "BAD_REQUEST", Message: "bad request"},
		fiber.StatusNotFound:           {Code: "NOT_FOUND", Message: "resource not found"},
		fiber.StatusMethodNotAllowed:   {Code: "METHOD_NOT_ALLOWED", Message: "method not allowed"},
		fiber.StatusServiceUnavailable: {Code: "SERVICE_UNAVAILABLE", Message: "service unavailable"},
	}
)

// writeError answers with status and the request's ID. code is a short
// machine-readable tag such as INVALID_ID; message must not leak internals.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.RequestIDFrom(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

// ErrorHandler is the app-wide fiber error handler. A *fiber.Error keeps its
// status; any other error is logged with the request ID and answered 500.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	log = logger.Component(log, "http")
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if !errors.As(err, &fe) {
			log.Error().Err(err).
				Str("event", "request_failed").
				Str("request_id", middleware.RequestIDFrom(c)).
				Str("path", c.Path()).
				Msg("unhandled error")
			return writeError(c, fiber.StatusInternalServerError, internalError.Code, internalError.Message)
		}

		env, ok := statusErrors[fe.Code]
		if !ok {
			env = internalError
		}
		return writeError(c, fe.Code, env.Code, env.Message)
	}
}
