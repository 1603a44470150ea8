package middleware

import "github.com/gofiber/fiber/v2"

// SecurityHeaders sets conservative browser security headers on every response.
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
		c.Set(fiber.HeaderXFrameOptions, "SAMEORIGIN")
		c.Set(fiber.HeaderReferrerPolicy, "strict-origin-when-cross-origin")
		return c.Next()
	}
}
