package helpers

import (
	"testing"

	"gorm.io/gorm"

	"github.com/habitstack/stickerdb/internal/domain"
	"github.com/habitstack/stickerdb/internal/models"
)

// CreateTestUser creates an account row in the remote store.
func CreateTestUser(t *testing.T, db *gorm.DB, id, name, email string) {
	user := models.User{ID: id, Name: name, Email: email}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
}

// CreateTestSticker creates one day's sticker row for a user.
func CreateTestSticker(t *testing.T, db *gorm.DB, userID string, year, month, day int, stickers domain.DayStickers) {
	row := models.NewStickerRow(userID, year, month, day, stickers)
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("Failed to create sticker row: %v", err)
	}
}

// CreateTestLabels creates a label row for a user's month.
func CreateTestLabels(t *testing.T, db *gorm.DB, userID string, year, month int, labels domain.StickerLabels) {
	row := models.NewLabelRow(userID, year, month, labels)
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("Failed to create label row: %v", err)
	}
}
