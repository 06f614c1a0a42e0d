package remotestore

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/habitstack/stickerdb/internal/domain"
	"github.com/habitstack/stickerdb/internal/models"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.StickerRow{},
		&models.LabelRow{},
	))
	return db
}

func TestUserLifecycle(t *testing.T) {
	store := New(setupTestDB(t))
	ctx := context.Background()
	id := uuid.New().String()

	missing, err := store.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, missing, "absent user must be nil without error")

	created, err := store.CreateUser(ctx, id, "Kai", "kai@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, created.ID)

	byID, err := store.GetUserByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "kai@example.com", byID.Email)

	byEmail, err := store.GetUserByEmail(ctx, "kai@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, id, byEmail.ID)

	noEmail, err := store.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, noEmail)
}

func TestStickerUpsertAndGet(t *testing.T) {
	store := New(setupTestDB(t))
	ctx := context.Background()
	userID := uuid.New().String()

	_, err := store.UpsertSticker(ctx, userID, 2025, 10, 3, domain.DayStickers{Red: true})
	require.NoError(t, err)
	_, err = store.UpsertSticker(ctx, userID, 2025, 10, 7, domain.DayStickers{Yellow: true, Blue: true})
	require.NoError(t, err)

	grid, err := store.GetStickers(ctx, userID, 2025, 10)
	require.NoError(t, err)
	assert.Len(t, grid, 2)
	assert.True(t, grid[3].Red)
	assert.True(t, grid[7].Yellow)

	// Upserting an existing day overwrites, never duplicates.
	_, err = store.UpsertSticker(ctx, userID, 2025, 10, 3, domain.DayStickers{Green: true})
	require.NoError(t, err)

	grid, err = store.GetStickers(ctx, userID, 2025, 10)
	require.NoError(t, err)
	assert.Len(t, grid, 2)
	assert.Equal(t, domain.DayStickers{Green: true}, grid[3])

	var count int64
	store.db.Model(&models.StickerRow{}).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestGetStickersScopedToMonth(t *testing.T) {
	store := New(setupTestDB(t))
	ctx := context.Background()
	userID := uuid.New().String()

	_, err := store.UpsertSticker(ctx, userID, 2025, 10, 3, domain.DayStickers{Red: true})
	require.NoError(t, err)
	_, err = store.UpsertSticker(ctx, userID, 2025, 11, 3, domain.DayStickers{Blue: true})
	require.NoError(t, err)
	_, err = store.UpsertSticker(ctx, uuid.New().String(), 2025, 10, 3, domain.DayStickers{Green: true})
	require.NoError(t, err)

	grid, err := store.GetStickers(ctx, userID, 2025, 10)
	require.NoError(t, err)
	assert.Len(t, grid, 1)
	assert.True(t, grid[3].Red)
}

func TestDeleteSticker(t *testing.T) {
	store := New(setupTestDB(t))
	ctx := context.Background()
	userID := uuid.New().String()

	_, err := store.UpsertSticker(ctx, userID, 2025, 10, 3, domain.DayStickers{Red: true})
	require.NoError(t, err)

	require.NoError(t, store.DeleteSticker(ctx, userID, 2025, 10, 3))

	grid, err := store.GetStickers(ctx, userID, 2025, 10)
	require.NoError(t, err)
	assert.Empty(t, grid)

	// Deleting an absent row is not an error.
	require.NoError(t, store.DeleteSticker(ctx, userID, 2025, 10, 3))
}

func TestLabelsUpsertAndGet(t *testing.T) {
	store := New(setupTestDB(t))
	ctx := context.Background()
	userID := uuid.New().String()

	missing, err := store.GetLabels(ctx, userID, 2025, 10)
	require.NoError(t, err)
	assert.Nil(t, missing, "absent labels must be nil without error")

	want := domain.StickerLabels{Red: "Run", Blue: "Read", Green: "Code", Yellow: "Sleep"}
	_, err = store.UpsertLabels(ctx, userID, 2025, 10, want)
	require.NoError(t, err)

	got, err := store.GetLabels(ctx, userID, 2025, 10)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	// Overwrite the same month scope.
	next := want
	next.Red = "Sprint"
	_, err = store.UpsertLabels(ctx, userID, 2025, 10, next)
	require.NoError(t, err)

	got, err = store.GetLabels(ctx, userID, 2025, 10)
	require.NoError(t, err)
	assert.Equal(t, "Sprint", got.Red)

	var count int64
	store.db.Model(&models.LabelRow{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestIsPermissionDenied(t *testing.T) {
	assert.False(t, isPermissionDenied(nil))
	assert.False(t, isPermissionDenied(gorm.ErrRecordNotFound))
	assert.False(t, isPermissionDenied(assert.AnError))
	assert.True(t, isPermissionDenied(errPermission("SELECT command denied to user 'svc'@'%'")))
	assert.True(t, isPermissionDenied(errPermission("permission denied for table user_sticker_labels")))
}

type errPermission string

func (e errPermission) Error() string { return string(e) }
