// Package remotestore provides typed CRUD against the multi-tenant remote
// database. Identity and sticker failures propagate to the caller; label
// failures degrade silently because label sync is not essential.
package remotestore

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/habitstack/stickerdb/internal/domain"
	"github.com/habitstack/stickerdb/internal/models"
)

// Store performs remote persistence through an injected GORM connection.
type Store struct {
	db *gorm.DB
}

// New creates a Store over the given database connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreateUser inserts a new account row.
func (s *Store) CreateUser(ctx context.Context, id, name, email string) (*models.User, error) {
	user := models.User{ID: id, Name: name, Email: email}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("failed to create user")
		return nil, err
	}
	return &user, nil
}

// GetUserByID returns the account row for id, or nil when no row exists.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Error().Err(err).Str("user_id", id).Msg("failed to get user by id")
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail returns the account row for email, or nil when no row exists.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Error().Err(err).Msg("failed to get user by email")
		return nil, err
	}
	return &user, nil
}

// GetStickers fetches all day rows for (user, year, month) as a sparse map.
func (s *Store) GetStickers(ctx context.Context, userID string, year, month int) (domain.MonthStickers, error) {
	var rows []models.StickerRow
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
		Find(&rows).Error
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Int("year", year).Int("month", month).
			Msg("failed to get stickers")
		return nil, err
	}
	return models.RowsToMonth(rows), nil
}

// UpsertSticker inserts or overwrites the row keyed on
// (user, year, month, day). Last write wins; there is no merge.
func (s *Store) UpsertSticker(ctx context.Context, userID string, year, month, day int, stickers domain.DayStickers) (*models.StickerRow, error) {
	row := models.NewStickerRow(userID, year, month, day, stickers)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "year"}, {Name: "month"}, {Name: "day"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"red", "blue", "green", "yellow", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).
			Int("year", year).Int("month", month).Int("day", day).
			Msg("failed to upsert sticker")
		return nil, err
	}
	return &row, nil
}

// DeleteSticker removes the row for (user, year, month, day). A missing row
// is not an error.
func (s *Store) DeleteSticker(ctx context.Context, userID string, year, month, day int) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND year = ? AND month = ? AND day = ?", userID, year, month, day).
		Delete(&models.StickerRow{}).Error
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).
			Int("year", year).Int("month", month).Int("day", day).
			Msg("failed to delete sticker")
		return err
	}
	return nil
}

// GetLabels returns the label row for (user, year, month), or nil when no row
// exists. Permission-denial errors are treated the same as a missing row so a
// misconfigured policy cannot break the calendar.
func (s *Store) GetLabels(ctx context.Context, userID string, year, month int) (*domain.StickerLabels, error) {
	var row models.LabelRow
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if isPermissionDenied(err) {
			log.Warn().Err(err).Str("user_id", userID).Msg("label read denied, treating as missing")
			return nil, nil
		}
		log.Error().Err(err).Str("user_id", userID).Int("year", year).Int("month", month).
			Msg("failed to get labels")
		return nil, err
	}
	labels := row.Labels()
	return &labels, nil
}

// UpsertLabels inserts or overwrites the label row keyed on
// (user, year, month). Permission-denial errors become a silent no-op.
func (s *Store) UpsertLabels(ctx context.Context, userID string, year, month int, labels domain.StickerLabels) (*models.LabelRow, error) {
	row := models.NewLabelRow(userID, year, month, labels)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "year"}, {Name: "month"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"red_label", "blue_label", "green_label", "yellow_label", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		if isPermissionDenied(err) {
			log.Warn().Err(err).Str("user_id", userID).Msg("label write denied, skipping")
			return nil, nil
		}
		log.Error().Err(err).Str("user_id", userID).Int("year", year).Int("month", month).
			Msg("failed to upsert labels")
		return nil, err
	}
	return &row, nil
}

// isPermissionDenied classifies driver errors raised by row-level or
// table-level access policies.
func isPermissionDenied(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "permission denied") ||
		strings.Contains(msg, "access denied") ||
		strings.Contains(msg, "command denied")
}
