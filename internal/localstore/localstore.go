// Package localstore persists sticker grids and labels in the local key-value
// medium. Local storage is best-effort: every I/O failure is logged and
// degrades to an empty or default value, never to a caller-visible error.
package localstore

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/habitstack/stickerdb/internal/domain"
	"github.com/habitstack/stickerdb/internal/kvstore"
)

// Store reads and writes per-owner, per-month sticker data.
type Store struct {
	kv kvstore.Store
	// mu serializes read-modify-write cycles (Toggle, UpdateLabel) so
	// concurrent callers cannot interleave against the same key.
	mu sync.Mutex
}

// New creates a Store over the given key-value medium.
func New(kv kvstore.Store) *Store {
	return &Store{kv: kv}
}

// GetMonth returns the sticker grid for (owner, year, month). Missing or
// unreadable data yields an empty map.
func (s *Store) GetMonth(owner domain.Owner, year, month int) domain.MonthStickers {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getMonthLocked(owner, year, month)
}

func (s *Store) getMonthLocked(owner domain.Owner, year, month int) domain.MonthStickers {
	key := StickerKey(owner, year, month)

	raw, found, err := s.kv.Get(key)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to read sticker data")
		return domain.MonthStickers{}
	}
	if !found {
		return domain.MonthStickers{}
	}

	grid, err := ParseMonth(raw)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to parse sticker data")
		return domain.MonthStickers{}
	}
	return grid
}

// ParseMonth decodes a stored sticker grid. The legacy format is a bare array
// of day numbers from the single-sticker era; each listed day maps to a
// yellow-only record.
func ParseMonth(raw string) (domain.MonthStickers, error) {
	var days []int
	if err := json.Unmarshal([]byte(raw), &days); err == nil {
		grid := make(domain.MonthStickers, len(days))
		for _, day := range days {
			grid[day] = domain.DayStickers{Yellow: true}
		}
		return grid, nil
	}

	var grid domain.MonthStickers
	if err := json.Unmarshal([]byte(raw), &grid); err != nil {
		return nil, err
	}

	// Drop all-false entries so the sparse invariant holds even for data
	// written by older versions.
	for day, stickers := range grid {
		if stickers.Empty() {
			delete(grid, day)
		}
	}
	return grid, nil
}

// Toggle flips one category for one day and persists the result. A day whose
// four flags all end up false is removed entirely. The updated grid is
// returned regardless of persistence outcome.
func (s *Store) Toggle(owner domain.Owner, year, month, day int, category domain.Category) domain.MonthStickers {
	s.mu.Lock()
	defer s.mu.Unlock()

	grid := s.getMonthLocked(owner, year, month)
	next := grid[day].WithToggled(category)

	if next.Empty() {
		delete(grid, day)
	} else {
		grid[day] = next
	}

	s.saveMonthLocked(owner, year, month, grid)
	return grid
}

func (s *Store) saveMonthLocked(owner domain.Owner, year, month int, grid domain.MonthStickers) {
	key := StickerKey(owner, year, month)
	raw, err := json.Marshal(grid)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to encode sticker data")
		return
	}
	if err := s.kv.Set(key, string(raw)); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to save sticker data")
	}
}

// Stats computes completion statistics for (owner, year, month).
func (s *Store) Stats(owner domain.Owner, year, month int) domain.MonthStats {
	stats := domain.ComputeStats(s.GetMonth(owner, year, month), domain.DaysIn(year, month))
	stats.Year = year
	stats.Month = month
	return stats
}
