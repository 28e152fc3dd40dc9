package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// DefaultCallerHeader is where the fronting session provider injects the
// authenticated caller's id. The server trusts this value and performs no
// credential verification of its own.
const DefaultCallerHeader = "X-Caller-Id"

const callerIDLocal = "callerID"

// CallerIdentity captures the injected caller id, if any, for handlers
// further down the chain.
func CallerIdentity(header string) fiber.Handler {
	if header == "" {
		header = DefaultCallerHeader
	}
	return func(c *fiber.Ctx) error {
		if id := strings.TrimSpace(c.Get(header)); id != "" {
			c.Locals(callerIDLocal, id)
		}
		return c.Next()
	}
}

// RequireCaller rejects requests that arrived without a caller identity.
func RequireCaller() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CallerID(c) == "" {
			return failure(c, fiber.StatusUnauthorized, rpcError{
				Code:    CodeUnauthorized,
				Message: "sign in to post",
			})
		}
		return c.Next()
	}
}

// CallerID returns the authenticated caller's id, or "" for anonymous
// requests.
func CallerID(c *fiber.Ctx) string {
	id, _ := c.Locals(callerIDLocal).(string)
	return id
}
