package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/habitstack/stickerdb/internal/config"
	"github.com/habitstack/stickerdb/internal/services"
)

// HealthHandler handles the health route
type HealthHandler struct {
	Cfg      *config.Config
	LocalDB  *gorm.DB
	RemoteDB *gorm.DB
}

// GetHealth handles GET /api/health
// @Summary Health check
// @Description Check connectivity of the local store, remote database, and auth provider
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	result := services.HealthCheck(h.Cfg, h.LocalDB, h.RemoteDB)

	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
