package models

import (
	"time"

	"github.com/habitstack/stickerdb/internal/domain"
)

// LabelRow holds a user's sticker labels for one month, one row per
// (user, year, month). The month scope matches the local store so migration
// never collapses label history.
type LabelRow struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	UserID      string `gorm:"type:char(36);not null;index:idx_user_label_month,unique"`
	Year        int    `gorm:"not null;index:idx_user_label_month,unique"`
	Month       int    `gorm:"not null;index:idx_user_label_month,unique"`
	RedLabel    string `gorm:"size:20;not null"`
	BlueLabel   string `gorm:"size:20;not null"`
	GreenLabel  string `gorm:"size:20;not null"`
	YellowLabel string `gorm:"size:20;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name for LabelRow
func (LabelRow) TableName() string {
	return "user_sticker_labels"
}

// NewLabelRow builds a row from a label set, truncating to the column width.
func NewLabelRow(userID string, year, month int, labels domain.StickerLabels) LabelRow {
	return LabelRow{
		UserID:      userID,
		Year:        year,
		Month:       month,
		RedLabel:    domain.TruncateLabel(labels.Red),
		BlueLabel:   domain.TruncateLabel(labels.Blue),
		GreenLabel:  domain.TruncateLabel(labels.Green),
		YellowLabel: domain.TruncateLabel(labels.Yellow),
	}
}

// Labels converts the row back to its domain value.
func (r LabelRow) Labels() domain.StickerLabels {
	return domain.StickerLabels{
		Red:    r.RedLabel,
		Blue:   r.BlueLabel,
		Green:  r.GreenLabel,
		Yellow: r.YellowLabel,
	}
}
