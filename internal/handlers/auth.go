package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/habitstack/stickerdb/internal/auth"
	"github.com/habitstack/stickerdb/internal/utils"
)

// AuthHandler handles authentication routes
type AuthHandler struct {
	Coordinator *auth.Coordinator
}

// sessionResponse is the session state payload.
type sessionResponse struct {
	State            auth.State           `json:"state"`
	User             *auth.SessionUser    `json:"user"`
	RemoteConfigured bool                 `json:"remoteConfigured"`
	Migration        auth.MigrationStatus `json:"migration"`
}

// SignUp handles POST /api/auth/signup
// @Summary Create a local account
// @Description Create a local fallback account and sign it in. Only available when no remote auth provider is configured.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body auth.SignUpInput true "Account details"
// @Success 200 {object} auth.SessionUser
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var input auth.SignUpInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "auth.validation.input")
	}

	user, err := h.Coordinator.SignUp(input)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "auth.signup")
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

// Login handles POST /api/auth/login
// @Summary Sign in to a local account
// @Description Authenticate a local fallback account. Only available when no remote auth provider is configured.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body auth.LoginInput true "Credentials"
// @Success 200 {object} auth.SessionUser
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input auth.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "auth.validation.input")
	}

	user, err := h.Coordinator.Login(input)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, "auth.login")
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

// Logout handles POST /api/auth/logout
// @Summary End the current session
// @Description End the session and return to guest mode
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.SuccessResponseStruct
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.Coordinator.Logout()
	c.ClearCookie("cookie_session")
	return utils.MutationSuccessResponse(c, nil)
}

// Session handles GET /api/auth/session
// @Summary Get the current session state
// @Description Get the session state, authenticated user, and migration status
// @Tags Auth
// @Produce json
// @Success 200 {object} sessionResponse
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(sessionResponse{
		State:            h.Coordinator.State(),
		User:             h.Coordinator.User(),
		RemoteConfigured: h.Coordinator.RemoteConfigured(),
		Migration:        h.Coordinator.Migration(),
	})
}
