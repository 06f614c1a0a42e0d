// Package migration performs the one-shot transfer of locally stored sticker
// data into the remote store when a user first authenticates. The transfer is
// idempotent and tolerates partial failure: a single day's error is skipped,
// and only an enumeration-level failure fails the batch.
package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/habitstack/stickerdb/internal/domain"
	"github.com/habitstack/stickerdb/internal/kvstore"
	"github.com/habitstack/stickerdb/internal/localstore"
	"github.com/habitstack/stickerdb/internal/models"
)

// RemoteWriter is the remote store surface migration writes through.
type RemoteWriter interface {
	UpsertSticker(ctx context.Context, userID string, year, month, day int, stickers domain.DayStickers) (*models.StickerRow, error)
	UpsertLabels(ctx context.Context, userID string, year, month int, labels domain.StickerLabels) (*models.LabelRow, error)
}

// Result reports the outcome of one migration run.
type Result struct {
	Success          bool   `json:"success"`
	MigratedStickers int    `json:"migratedStickers"`
	Error            string `json:"error,omitempty"`
}

// Service transfers local sticker data to the remote store.
type Service struct {
	kv     kvstore.Store
	remote RemoteWriter
	now    func() time.Time
}

// New creates a migration service reading from the local key-value medium and
// writing through the remote store.
func New(kv kvstore.Store, remote RemoteWriter) *Service {
	return &Service{kv: kv, remote: remote, now: time.Now}
}

// MigrateGuestData transfers all guest-owned local data to the remote account
// remoteUserID, then prunes the transferred guest keys.
func (s *Service) MigrateGuestData(ctx context.Context, remoteUserID string) Result {
	return s.migrate(ctx, domain.Guest, remoteUserID)
}

// MigrateUserData transfers data stored under a local fallback user to the
// remote account remoteUserID, then prunes that user's local keys.
func (s *Service) MigrateUserData(ctx context.Context, localUserID, remoteUserID string) Result {
	return s.migrate(ctx, domain.UserOwner(localUserID), remoteUserID)
}

func (s *Service) migrate(ctx context.Context, source domain.Owner, remoteUserID string) Result {
	keys, err := s.kv.Keys(localstore.StickerKeyPrefix(source))
	if err != nil {
		log.Error().Err(err).Str("owner", source.String()).Msg("migration scan failed")
		return Result{Error: fmt.Sprintf("failed to enumerate local sticker data: %v", err)}
	}

	migrated := 0
	for _, key := range keys {
		year, month, ok := localstore.ParseStickerKey(source, key)
		if !ok {
			continue
		}

		raw, found, err := s.kv.Get(key)
		if err != nil || !found {
			if err != nil {
				log.Error().Err(err).Str("key", key).Msg("failed to read sticker data for migration")
			}
			continue
		}

		grid, err := localstore.ParseMonth(raw)
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to parse sticker data for migration")
			continue
		}

		transferred := true
		for day, stickers := range grid {
			if stickers.Empty() {
				continue
			}
			if _, err := s.remote.UpsertSticker(ctx, remoteUserID, year, month, day, stickers); err != nil {
				// One day's failure never aborts the rest of the transfer.
				log.Error().Err(err).Str("owner", source.String()).
					Int("year", year).Int("month", month).Int("day", day).
					Msg("failed to migrate sticker, skipping")
				transferred = false
				continue
			}
			migrated++
		}

		// Per-item cleanup: a month key is pruned only once every day in it
		// has been confirmed remotely. A partially transferred month stays
		// local so a later run can retry it (upserts are idempotent).
		if transferred {
			if err := s.kv.Delete(key); err != nil {
				log.Error().Err(err).Str("key", key).Msg("failed to delete migrated key")
			}
		}
	}

	s.migrateLabels(ctx, source, remoteUserID)

	log.Info().Str("owner", source.String()).Str("user_id", remoteUserID).
		Int("migrated", migrated).Msg("local data migration finished")
	return Result{Success: true, MigratedStickers: migrated}
}

// migrateLabels transfers the most recent local label record, if any, and on
// success prunes every local label record for the owner so stale sets cannot
// overwrite the remote copy on a later run. Label migration failure is logged
// but never fails the batch.
func (s *Service) migrateLabels(ctx context.Context, source domain.Owner, remoteUserID string) {
	labels, year, month, ok := s.latestLabels(source)
	if !ok {
		return
	}
	if _, err := s.remote.UpsertLabels(ctx, remoteUserID, year, month, labels); err != nil {
		log.Error().Err(err).Str("owner", source.String()).Msg("failed to migrate labels")
		return
	}
	s.pruneLabels(source)
}

// latestLabels locates the most recent month-scoped label record for the
// owner, falling back to the legacy unscoped record. Legacy records are
// scoped to the month the migration runs in.
func (s *Service) latestLabels(source domain.Owner) (domain.StickerLabels, int, int, bool) {
	keys, err := s.kv.Keys(source.Prefix() + "-")
	if err != nil {
		log.Error().Err(err).Str("owner", source.String()).Msg("failed to enumerate label records")
		return domain.StickerLabels{}, 0, 0, false
	}

	bestYear, bestMonth := 0, 0
	var bestKey string
	for _, key := range keys {
		year, month, ok := parseLabelsKey(source, key)
		if !ok {
			continue
		}
		if year > bestYear || (year == bestYear && month > bestMonth) {
			bestYear, bestMonth, bestKey = year, month, key
		}
	}

	if bestKey != "" {
		if labels, ok := s.readLabels(bestKey); ok {
			return labels, bestYear, bestMonth, true
		}
	}

	if labels, ok := s.readLabels(localstore.LegacyLabelsKey(source)); ok {
		now := s.now()
		return labels, now.Year(), int(now.Month()), true
	}

	return domain.StickerLabels{}, 0, 0, false
}

func (s *Service) readLabels(key string) (domain.StickerLabels, bool) {
	raw, found, err := s.kv.Get(key)
	if err != nil || !found {
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to read label record for migration")
		}
		return domain.StickerLabels{}, false
	}
	var labels domain.StickerLabels
	if err := json.Unmarshal([]byte(raw), &labels); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to parse label record for migration")
		return domain.StickerLabels{}, false
	}
	return labels, true
}

// pruneLabels removes every label record in the source owner's namespace.
// Keys outside that namespace are untouched.
func (s *Service) pruneLabels(source domain.Owner) {
	keys, err := s.kv.Keys(source.Prefix() + "-")
	if err != nil {
		log.Error().Err(err).Str("owner", source.String()).Msg("failed to enumerate label records for cleanup")
		return
	}
	for _, key := range keys {
		_, _, isLabels := parseLabelsKey(source, key)
		if !isLabels && key != localstore.LegacyLabelsKey(source) {
			continue
		}
		if err := s.kv.Delete(key); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to delete migrated label record")
		}
	}
}

var labelsKeyPattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})-labels$`)

// parseLabelsKey extracts the (year, month) scope from a month-scoped label
// key belonging to the given owner.
func parseLabelsKey(owner domain.Owner, key string) (year, month int, ok bool) {
	prefix := owner.Prefix() + "-"
	if len(key) <= len(prefix) || key[:len(prefix)] != prefix {
		return 0, 0, false
	}
	m := labelsKeyPattern.FindStringSubmatch(key[len(prefix):])
	if m == nil {
		return 0, 0, false
	}
	year, _ = strconv.Atoi(m[1])
	month, _ = strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}
