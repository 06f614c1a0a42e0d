package models

import (
	"time"

	"github.com/habitstack/stickerdb/internal/domain"
)

// StickerRow is one persisted day of stickers, one row per
// (user, year, month, day). Days with no stickers have no row.
type StickerRow struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	UserID string `gorm:"type:char(36);not null;index:idx_user_sticker_day,unique"`
	Year   int    `gorm:"not null;index:idx_user_sticker_day,unique"`
	Month  int    `gorm:"not null;index:idx_user_sticker_day,unique"`
	Day    int    `gorm:"not null;index:idx_user_sticker_day,unique"`
	Red    bool   `gorm:"not null;default:false"`
	Blue   bool   `gorm:"not null;default:false"`
	Green  bool   `gorm:"not null;default:false"`
	Yellow bool   `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name for StickerRow
func (StickerRow) TableName() string {
	return "user_stickers"
}

// NewStickerRow builds a row from a day's sticker state.
func NewStickerRow(userID string, year, month, day int, stickers domain.DayStickers) StickerRow {
	return StickerRow{
		UserID: userID,
		Year:   year,
		Month:  month,
		Day:    day,
		Red:    stickers.Red,
		Blue:   stickers.Blue,
		Green:  stickers.Green,
		Yellow: stickers.Yellow,
	}
}

// Stickers converts the row back to its domain value.
func (r StickerRow) Stickers() domain.DayStickers {
	return domain.DayStickers{
		Red:    r.Red,
		Blue:   r.Blue,
		Green:  r.Green,
		Yellow: r.Yellow,
	}
}

// RowsToMonth converts a month's rows to the sparse day map.
func RowsToMonth(rows []StickerRow) domain.MonthStickers {
	grid := make(domain.MonthStickers, len(rows))
	for _, row := range rows {
		stickers := row.Stickers()
		if stickers.Empty() {
			continue
		}
		grid[row.Day] = stickers
	}
	return grid
}
