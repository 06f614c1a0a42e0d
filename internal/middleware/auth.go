package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/habitstack/stickerdb/internal/auth"
	"github.com/habitstack/stickerdb/internal/config"
	"github.com/habitstack/stickerdb/internal/domain"
)

// ResolveOwner resolves the calendar owner for the request and stores it in
// context. A valid remote session yields a durable owner; everything else
// falls back to the guest owner, so calendar routes never reject a request
// for lack of a session.
func ResolveOwner(cfg *config.Config, coord *auth.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := domain.Guest

		if coord.RemoteConfigured() {
			if session := c.Cookies("cookie_session"); session != "" {
				// Lazy one-time client init, bound to the first request's origin.
				if !auth.IsAuthorizerInitialized() {
					if err := auth.InitAuthorizer(cfg, c.Protocol(), c.Hostname()); err != nil {
						log.Error().Err(err).Msg("authorizer init failed, continuing as guest")
					}
				}
				if auth.IsAuthorizerInitialized() {
					user, err := coord.ResumeRemoteSession(c.Context(), session)
					if err != nil {
						log.Debug().Err(err).Msg("session cookie rejected, continuing as guest")
					} else {
						owner = domain.UserOwner(user.ID)
					}
				}
			}
		} else if user := coord.User(); user != nil {
			owner = domain.UserOwner(user.ID)
		}

		c.Locals("owner", owner)
		return c.Next()
	}
}

// OwnerFromCtx returns the owner resolved by ResolveOwner, defaulting to guest.
func OwnerFromCtx(c *fiber.Ctx) domain.Owner {
	if owner, ok := c.Locals("owner").(domain.Owner); ok {
		return owner
	}
	return domain.Guest
}
