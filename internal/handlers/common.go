package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/habitstack/stickerdb/internal/domain"
)

// parseYearMonth extracts and validates the :year/:month route parameters.
func parseYearMonth(c *fiber.Ctx) (int, int, error) {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil || year < 1970 || year > 9999 {
		return 0, 0, fmt.Errorf("invalid year '%s'", c.Params("year"))
	}

	month, err := strconv.Atoi(c.Params("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month '%s'", c.Params("month"))
	}

	return year, month, nil
}

// parseDay extracts and validates the :day route parameter for a given month.
func parseDay(c *fiber.Ctx, year, month int) (int, error) {
	day, err := strconv.Atoi(c.Params("day"))
	if err != nil || day < 1 || day > domain.DaysIn(year, month) {
		return 0, fmt.Errorf("invalid day '%s'", c.Params("day"))
	}
	return day, nil
}

// parseCategory validates a sticker category token.
func parseCategory(raw string) (domain.Category, error) {
	category := domain.Category(raw)
	if !category.Valid() {
		return "", fmt.Errorf("invalid category '%s'", raw)
	}
	return category, nil
}
