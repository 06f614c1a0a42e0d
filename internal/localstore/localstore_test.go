package localstore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitstack/stickerdb/internal/domain"
	"github.com/habitstack/stickerdb/internal/kvstore"
)

func TestGetMonthMissing(t *testing.T) {
	store := New(kvstore.NewMemory())
	grid := store.GetMonth(domain.Guest, 2025, 10)
	assert.Empty(t, grid)
}

func TestToggleRoundTrip(t *testing.T) {
	kv := kvstore.NewMemory()
	store := New(kv)

	grid := store.Toggle(domain.Guest, 2025, 10, 3, domain.CategoryRed)
	assert.True(t, grid[3].Red)

	grid = store.Toggle(domain.Guest, 2025, 10, 3, domain.CategoryBlue)
	assert.True(t, grid[3].Red)
	assert.True(t, grid[3].Blue)

	// A fresh read sees the persisted state.
	grid = store.GetMonth(domain.Guest, 2025, 10)
	assert.Equal(t, domain.DayStickers{Red: true, Blue: true}, grid[3])
}

func TestToggleRemovesEmptyDay(t *testing.T) {
	kv := kvstore.NewMemory()
	store := New(kv)

	store.Toggle(domain.Guest, 2025, 10, 3, domain.CategoryRed)
	grid := store.Toggle(domain.Guest, 2025, 10, 3, domain.CategoryRed)

	_, present := grid[3]
	assert.False(t, present, "an all-false day must not be stored")

	// The persisted grid holds no entry for the day either.
	raw, found, err := kv.Get(StickerKey(domain.Guest, 2025, 10))
	require.NoError(t, err)
	require.True(t, found)
	var stored map[string]domain.DayStickers
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.NotContains(t, stored, "3")
}

func TestParseMonthLegacyArray(t *testing.T) {
	grid, err := ParseMonth(`[3,7,15]`)
	require.NoError(t, err)

	assert.Len(t, grid, 3)
	for _, day := range []int{3, 7, 15} {
		assert.Equal(t, domain.DayStickers{Yellow: true}, grid[day])
	}
}

func TestParseMonthDropsEmptyDays(t *testing.T) {
	grid, err := ParseMonth(`{"3":{"red":true},"5":{}}`)
	require.NoError(t, err)

	assert.Len(t, grid, 1)
	assert.True(t, grid[3].Red)
}

func TestParseMonthInvalid(t *testing.T) {
	_, err := ParseMonth(`not json`)
	assert.Error(t, err)
}

func TestLegacyArrayUpgradeOnToggle(t *testing.T) {
	kv := kvstore.NewMemory()
	store := New(kv)
	require.NoError(t, kv.Set(StickerKey(domain.Guest, 2025, 10), `[3,7]`))

	grid := store.Toggle(domain.Guest, 2025, 10, 3, domain.CategoryRed)

	assert.Equal(t, domain.DayStickers{Red: true, Yellow: true}, grid[3])
	assert.Equal(t, domain.DayStickers{Yellow: true}, grid[7])

	// The key is rewritten in the current object format.
	raw, _, err := kv.Get(StickerKey(domain.Guest, 2025, 10))
	require.NoError(t, err)
	var stored map[string]domain.DayStickers
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.True(t, stored["7"].Yellow)
}

func TestOwnersAreIsolated(t *testing.T) {
	store := New(kvstore.NewMemory())

	store.Toggle(domain.Guest, 2025, 10, 1, domain.CategoryRed)
	store.Toggle(domain.UserOwner("1767225600000"), 2025, 10, 2, domain.CategoryBlue)

	guestGrid := store.GetMonth(domain.Guest, 2025, 10)
	userGrid := store.GetMonth(domain.UserOwner("1767225600000"), 2025, 10)

	assert.Len(t, guestGrid, 1)
	assert.True(t, guestGrid[1].Red)
	assert.Len(t, userGrid, 1)
	assert.True(t, userGrid[2].Blue)
}

func TestStats(t *testing.T) {
	store := New(kvstore.NewMemory())

	store.Toggle(domain.Guest, 2025, 11, 1, domain.CategoryRed)
	store.Toggle(domain.Guest, 2025, 11, 1, domain.CategoryBlue)
	store.Toggle(domain.Guest, 2025, 11, 2, domain.CategoryYellow)

	stats := store.Stats(domain.Guest, 2025, 11)
	assert.Equal(t, 3, stats.TotalStickers)
	assert.Equal(t, 2, stats.DaysWithStickers)
	assert.Equal(t, 30, stats.DaysInMonth)
	assert.Equal(t, 7, stats.Percentage)
	assert.Equal(t, 2025, stats.Year)
	assert.Equal(t, 11, stats.Month)
}

func TestParseStickerKey(t *testing.T) {
	key := StickerKey(domain.Guest, 2025, 10)
	year, month, ok := ParseStickerKey(domain.Guest, key)
	assert.True(t, ok)
	assert.Equal(t, 2025, year)
	assert.Equal(t, 10, month)

	_, _, ok = ParseStickerKey(domain.Guest, "guest-sticker-labels")
	assert.False(t, ok)

	_, _, ok = ParseStickerKey(domain.UserOwner("abc"), key)
	assert.False(t, ok, "keys from another owner's namespace must not parse")

	_, _, ok = ParseStickerKey(domain.Guest, "guest-sticker-calendar-2025-13")
	assert.False(t, ok)
}
