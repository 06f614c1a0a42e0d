package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/habitstack/stickerdb/internal/domain"
	"github.com/habitstack/stickerdb/internal/middleware"
	"github.com/habitstack/stickerdb/internal/repository"
	"github.com/habitstack/stickerdb/internal/utils"
)

// CalendarHandler handles sticker calendar routes
type CalendarHandler struct {
	Factory *repository.Factory
}

// monthResponse is the month payload shared by read endpoints.
type monthResponse struct {
	Year     int                  `json:"year"`
	Month    int                  `json:"month"`
	Stickers domain.MonthStickers `json:"stickers"`
	Status   repository.Status    `json:"status"`
}

// GetMonth handles GET /api/calendar/:year/:month
// @Summary Get a month of stickers
// @Description Get the sticker grid for a calendar month, for the current owner
// @Tags Calendar
// @Accept json
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} monthResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /calendar/{year}/{month} [get]
func (h *CalendarHandler) GetMonth(c *fiber.Ctx) error {
	year, month, err := parseYearMonth(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "calendar.validation.input")
	}

	owner := middleware.OwnerFromCtx(c)
	repo := h.Factory.ForOwner(owner, year, month)

	// A failed remote load degrades to an empty grid; the status block
	// carries the error so clients can surface it.
	_ = repo.Load(c.Context())

	return c.Status(fiber.StatusOK).JSON(monthResponse{
		Year:     year,
		Month:    month,
		Stickers: repo.Month(),
		Status:   repo.Status(),
	})
}

// ToggleSticker handles POST /api/calendar/:year/:month/:day/toggle
// @Summary Toggle a sticker
// @Description Flip one sticker category on a calendar day
// @Tags Calendar
// @Accept json
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Param day path int true "Day of month"
// @Param body body object true "Category to toggle"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /calendar/{year}/{month}/{day}/toggle [post]
func (h *CalendarHandler) ToggleSticker(c *fiber.Ctx) error {
	year, month, err := parseYearMonth(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "calendar.validation.input")
	}
	day, err := parseDay(c, year, month)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "calendar.validation.input")
	}

	var body struct {
		Category string `json:"category"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "calendar.validation.input")
	}
	category, err := parseCategory(body.Category)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "calendar.validation.input")
	}

	owner := middleware.OwnerFromCtx(c)
	repo := h.Factory.ForOwner(owner, year, month)

	if repo.RemoteMode() {
		if err := repo.Load(c.Context()); err != nil {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "toggleSticker")
		}
	}

	if err := repo.ToggleSticker(c.Context(), day, category); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "toggleSticker")
	}

	return utils.MutationSuccessResponse(c, fiber.Map{
		"day":      day,
		"stickers": repo.GetDayStickers(day),
	})
}

// GetStats handles GET /api/calendar/:year/:month/stats
// @Summary Get month statistics
// @Description Get sticker completion statistics for a calendar month
// @Tags Calendar
// @Accept json
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} domain.MonthStats
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /calendar/{year}/{month}/stats [get]
func (h *CalendarHandler) GetStats(c *fiber.Ctx) error {
	year, month, err := parseYearMonth(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "calendar.validation.input")
	}

	owner := middleware.OwnerFromCtx(c)
	repo := h.Factory.ForOwner(owner, year, month)
	_ = repo.Load(c.Context())

	return c.Status(fiber.StatusOK).JSON(repo.Stats())
}

// GetLabels handles GET /api/calendar/:year/:month/labels
// @Summary Get category labels
// @Description Get the sticker category labels for a calendar month
// @Tags Calendar
// @Accept json
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} domain.StickerLabels
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /calendar/{year}/{month}/labels [get]
func (h *CalendarHandler) GetLabels(c *fiber.Ctx) error {
	year, month, err := parseYearMonth(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "calendar.validation.input")
	}

	owner := middleware.OwnerFromCtx(c)
	repo := h.Factory.ForOwner(owner, year, month)

	return c.Status(fiber.StatusOK).JSON(repo.Labels(c.Context()))
}

// UpdateLabel handles PUT /api/calendar/:year/:month/labels/:category
// @Summary Update a category label
// @Description Replace the label text for one sticker category
// @Tags Calendar
// @Accept json
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Param category path string true "Sticker category (red, blue, green, yellow)"
// @Param body body object true "New label text"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /calendar/{year}/{month}/labels/{category} [put]
func (h *CalendarHandler) UpdateLabel(c *fiber.Ctx) error {
	year, month, err := parseYearMonth(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "calendar.validation.input")
	}
	category, err := parseCategory(c.Params("category"))
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "calendar.validation.input")
	}

	var body struct {
		Label string `json:"label"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "calendar.validation.input")
	}

	owner := middleware.OwnerFromCtx(c)
	repo := h.Factory.ForOwner(owner, year, month)

	labels, err := repo.UpdateLabel(c.Context(), category, body.Label)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "updateLabel")
	}

	return utils.MutationSuccessResponse(c, labels)
}
