// Package httpx holds the fiber glue shared by the feature handlers:
// error-kind to status mapping and query parsing.
package httpx

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/kanishk44/social-media/internal/errs"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusError is a transport failure that has no domain kind, such as a
// route whose backing feature is switched off.
type StatusError struct {
	Status  int
	Code    string
	Message string
}

func (e *StatusError) Error() string { return e.Message }

var kindStatus = map[errs.Kind]int{
	errs.KindValidationFailed:   fiber.StatusUnprocessableEntity,
	errs.KindUserExists:         fiber.StatusConflict,
	errs.KindUserNotFound:       fiber.StatusNotFound,
	errs.KindPostNotFound:       fiber.StatusNotFound,
	errs.KindInvalidCredentials: fiber.StatusUnauthorized,
	errs.KindInvalidToken:       fiber.StatusUnauthorized,
	errs.KindTokenExpired:       fiber.StatusUnauthorized,
	errs.KindInvalidOperation:   fiber.StatusBadRequest,
	errs.KindAlreadyFollowing:   fiber.StatusConflict,
	errs.KindNotFollowing:       fiber.StatusNotFound,
	errs.KindStorageConflict:    fiber.StatusConflict,
	errs.KindStorageUnavailable: fiber.StatusServiceUnavailable,
	errs.KindInternal:           fiber.StatusInternalServerError,
}

// StatusFor maps an error kind to an HTTP status.
func StatusFor(kind errs.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler renders every error as {"code","message"}. Server errors
// are logged and their message is hidden from the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	code := string(errs.KindInternal)
	message := "Internal server error"

	var domainErr *errs.Error
	var statusErr *StatusError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &domainErr):
		status = StatusFor(domainErr.Kind)
		code = string(domainErr.Kind)
		message = domainErr.Message
	case errors.As(err, &statusErr):
		status = statusErr.Status
		code = statusErr.Code
		message = statusErr.Message
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
		code = codeForStatus(fiberErr.Code)
		message = fiberErr.Message
	}

	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
			"error", err,
		)
		if status == fiber.StatusInternalServerError {
			message = "Internal server error"
		}
	}

	return c.Status(status).JSON(ErrorResponse{Code: code, Message: message})
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusTooManyRequests:
		return "RATE_LIMIT_EXCEEDED"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	}
	if status >= fiber.StatusInternalServerError {
		return string(errs.KindInternal)
	}
	return "HTTP_ERROR"
}
