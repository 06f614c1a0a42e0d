package middleware

import (
	"github.com/gofiber/fiber/v2"
)

const currentAPIVersion = "1.0.0"

// VersionMiddleware parses the X-Api-Version header and stores the
// normalized version in context.
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", currentAPIVersion)

		// Support shorthand aliases
		switch version {
		case "1", "1.0":
			version = currentAPIVersion
		}

		c.Locals("apiVersion", version)

		return c.Next()
	}
}

// APIVersion returns the version resolved by VersionMiddleware.
func APIVersion(c *fiber.Ctx) string {
	if v, ok := c.Locals("apiVersion").(string); ok {
		return v
	}
	return currentAPIVersion
}
