// Package repository presents one uniform sticker interface over the local
// and remote backends. The backend is chosen once per owner: remote only when
// remote configuration is present and the owner carries a durable identity,
// local otherwise.
package repository

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/habitstack/stickerdb/internal/domain"
	"github.com/habitstack/stickerdb/internal/localstore"
	"github.com/habitstack/stickerdb/internal/models"
)

// RemoteBackend is the remote store surface the repository depends on.
type RemoteBackend interface {
	GetStickers(ctx context.Context, userID string, year, month int) (domain.MonthStickers, error)
	UpsertSticker(ctx context.Context, userID string, year, month, day int, stickers domain.DayStickers) (*models.StickerRow, error)
	DeleteSticker(ctx context.Context, userID string, year, month, day int) error
	GetLabels(ctx context.Context, userID string, year, month int) (*domain.StickerLabels, error)
	UpsertLabels(ctx context.Context, userID string, year, month int, labels domain.StickerLabels) (*models.LabelRow, error)
}

// Status reflects the repository's operating mode and the outcome of its most
// recent remote operation. In local mode the store is treated as infallible.
type Status struct {
	Loading      bool   `json:"loading"`
	Error        string `json:"error,omitempty"`
	IsOnline     bool   `json:"isOnline"`
	FallbackMode bool   `json:"fallbackMode"`
}

// Repository routes sticker and label operations for one (owner, year, month)
// scope to either the local or the remote backend.
type Repository struct {
	owner  domain.Owner
	year   int
	month  int
	remote RemoteBackend // nil in local mode
	local  *localstore.Store

	// mu guards the remote-mode in-memory state so optimistic updates apply
	// atomically against the latest snapshot.
	mu      sync.Mutex
	grid    domain.MonthStickers
	labels  domain.StickerLabels
	loading bool
	lastErr error
}

// Factory constructs repositories with shared backends.
type Factory struct {
	local            *localstore.Store
	remote           RemoteBackend
	remoteConfigured bool
}

// NewFactory creates a repository factory. remote may be nil when the remote
// backend is not configured.
func NewFactory(local *localstore.Store, remote RemoteBackend, remoteConfigured bool) *Factory {
	return &Factory{local: local, remote: remote, remoteConfigured: remoteConfigured}
}

// ForOwner builds the repository for one owner and month scope, deciding the
// backend once. Remote mode requires both remote configuration and a durable
// owner identity.
func (f *Factory) ForOwner(owner domain.Owner, year, month int) *Repository {
	r := &Repository{
		owner: owner,
		year:  year,
		month: month,
		local: f.local,
	}
	if f.remoteConfigured && f.remote != nil && owner.IsDurable() {
		r.remote = f.remote
	}
	return r
}

// RemoteMode reports whether operations target the remote store.
func (r *Repository) RemoteMode() bool {
	return r.remote != nil
}

// Load populates the remote-mode in-memory snapshot. In local mode it is a
// no-op because reads go straight to local storage.
func (r *Repository) Load(ctx context.Context) error {
	if r.remote == nil {
		return nil
	}

	r.mu.Lock()
	r.loading = true
	r.mu.Unlock()

	grid, err := r.remote.GetStickers(ctx, r.owner.UserID, r.year, r.month)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = false
	if err != nil {
		r.lastErr = err
		r.grid = domain.MonthStickers{}
		return err
	}
	r.lastErr = nil
	r.grid = grid
	return nil
}

// Month returns the current sticker grid for the repository's scope.
func (r *Repository) Month() domain.MonthStickers {
	if r.remote == nil {
		return r.local.GetMonth(r.owner, r.year, r.month)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.grid.Clone()
}

// GetDayStickers returns one day's sticker state; absent days are all-false.
func (r *Repository) GetDayStickers(day int) domain.DayStickers {
	return r.Month()[day]
}

// ToggleSticker flips one category for one day. In remote mode the in-memory
// state updates optimistically before the remote call; a failed call reverts
// the state and records the error.
func (r *Repository) ToggleSticker(ctx context.Context, day int, category domain.Category) error {
	if r.remote == nil {
		r.local.Toggle(r.owner, r.year, r.month, day, category)
		return nil
	}

	r.mu.Lock()
	prev, hadPrev := r.grid[day]
	next := prev.WithToggled(category)
	if next.Empty() {
		delete(r.grid, day)
	} else {
		r.grid[day] = next
	}
	r.mu.Unlock()

	var err error
	if next.Empty() {
		err = r.remote.DeleteSticker(ctx, r.owner.UserID, r.year, r.month, day)
	} else {
		_, err = r.remote.UpsertSticker(ctx, r.owner.UserID, r.year, r.month, day, next)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		// Revert to the exact pre-toggle state.
		if hadPrev {
			r.grid[day] = prev
		} else {
			delete(r.grid, day)
		}
		r.lastErr = err
		log.Error().Err(err).Str("owner", r.owner.String()).
			Int("year", r.year).Int("month", r.month).Int("day", day).
			Msg("sticker toggle rolled back")
		return err
	}
	r.lastErr = nil
	return nil
}

// Stats computes completion statistics for the repository's scope.
func (r *Repository) Stats() domain.MonthStats {
	stats := domain.ComputeStats(r.Month(), domain.DaysIn(r.year, r.month))
	stats.Year = r.year
	stats.Month = r.month
	return stats
}

// Status returns the repository's mode and last-operation outcome.
func (r *Repository) Status() Status {
	if r.remote == nil {
		return Status{IsOnline: true, FallbackMode: true}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s := Status{
		Loading:      r.loading,
		IsOnline:     r.lastErr == nil,
		FallbackMode: false,
	}
	if r.lastErr != nil {
		s.Error = r.lastErr.Error()
	}
	return s
}
