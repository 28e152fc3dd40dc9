package web

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"chirp/internal/domain"
	"chirp/pkg/log"
)

// Error codes carried in the RPC error envelope. Each kind in the error
// taxonomy maps to exactly one code so callers can distinguish them.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeInternalError   = "INTERNAL_SERVER_ERROR"
)

// rpcError is the wire form of a failed procedure call.
type rpcError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// result wraps a successful procedure response.
func result(c *fiber.Ctx, v any) error {
	return c.JSON(fiber.Map{"result": v})
}

// failure writes the error envelope with the given HTTP status.
func failure(c *fiber.Ctx, status int, e rpcError) error {
	return c.Status(status).JSON(fiber.Map{"error": e})
}

// procedureError translates a use-case error into the RPC envelope.
// retryAfter is advertised on throttling responses.
func procedureError(c *fiber.Ctx, err error, retryAfter time.Duration) error {
	if ve, ok := domain.AsValidation(err); ok {
		return failure(c, fiber.StatusBadRequest, rpcError{
			Code:    CodeBadRequest,
			Message: ve.Message,
			Field:   ve.Field,
		})
	}

	switch {
	case errors.Is(err, domain.ErrRateLimited):
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(retryAfter.Seconds())))
		return failure(c, fiber.StatusTooManyRequests, rpcError{
			Code:    CodeTooManyRequests,
			Message: "too many posts, slow down",
		})
	default:
		// ErrAuthorNotFound and ErrUpstreamUnavailable are internal
		// conditions; details stay in the logs.
		log.GlobalErrorCtx(c.UserContext(), "procedure failed", "path", c.Path(), "error", err.Error())
		return failure(c, fiber.StatusInternalServerError, rpcError{
			Code:    CodeInternalError,
			Message: "internal error",
		})
	}
}
