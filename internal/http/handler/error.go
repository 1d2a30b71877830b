package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"tourapi/internal/http/middleware"
	"tourapi/internal/service"
)

// errorPayload defines the standardized error response body for
// infrastructure-level failures.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusPayload is the domain-level response envelope used by the tour
// package routes: {"status":"success","data":...} on success and
// {"status":"fail","message":...} on a rejected request.
type statusPayload struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking
// internal errors. code is a machine-readable short code such as
// "INVALID_ID" or "INTERNAL_ERROR"; message is a human-readable safe string.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

func writeFail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(statusPayload{Status: "fail", Message: message})
}

func writeSuccess(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(statusPayload{Status: "success", Data: data})
}

// translateTourError maps service-layer errors onto HTTP responses. Domain
// rejections use the fail envelope; everything else is an opaque 500.
func translateTourError(c *fiber.Ctx, err error) error {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return writeFail(c, fiber.StatusBadRequest, ve.Reason)
	}
	var ue *service.UploadError
	if errors.As(err, &ue) {
		return writeFail(c, fiber.StatusBadRequest, ue.Error())
	}
	switch {
	case errors.Is(err, service.ErrIDRequired):
		return writeFail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return writeFail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return writeFail(c, fiber.StatusForbidden, err.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
