package api

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	TraceIDHeader         = "api-trace-id"
	ClientAccessKeyHeader = "client-access-key"
	UserIDHeader          = "user-id"

	traceIDLocal = "trace_id"
)

// TraceID tags every request with the caller's trace id, or a new one, and
// echoes it back on the response.
func TraceID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Locals(traceIDLocal, traceID)
		c.Set(TraceIDHeader, traceID)

		return c.Next()
	}
}

func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentSecurityPolicy, "default-src 'self'")
		c.Set(fiber.HeaderStrictTransportSecurity, "max-age=31536000; includeSubDomains")
		c.Set(fiber.HeaderXFrameOptions, "DENY")
		c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
		c.Set(fiber.HeaderReferrerPolicy, "no-referrer")
		c.Set(fiber.HeaderXXSSProtection, "0")

		return c.Next()
	}
}

// EnsureClientAccessKey rejects requests that do not carry the shared client
// key. The caller may name itself with the user-id header.
func EnsureClientAccessKey(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		provided := c.Get(ClientAccessKeyHeader)

		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			c.SendStatus(fiber.StatusUnauthorized)
			return c.JSON(fiber.Map{
				"error": "There was a problem authenticating you",
			})
		}

		userID := c.Get(UserIDHeader)
		if userID == "" {
			userID = "default"
		}
		c.Locals("account_userid", userID)

		return c.Next()
	}
}
