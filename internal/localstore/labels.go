package localstore

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/habitstack/stickerdb/internal/domain"
)

// GetLabels resolves the label set for (owner, year, month) in precedence
// order: the exact month record, a legacy unscoped record (migrated into the
// requested month and deleted), the immediately preceding month's record
// (copied forward and persisted), then the defaults. Defaults are not
// persisted until an edit occurs.
func (s *Store) GetLabels(owner domain.Owner, year, month int) domain.StickerLabels {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLabelsLocked(owner, year, month)
}

func (s *Store) getLabelsLocked(owner domain.Owner, year, month int) domain.StickerLabels {
	if labels, ok := s.readLabels(LabelsKey(owner, year, month)); ok {
		return labels
	}

	// Legacy unscoped record: adopt it as this month's record. The month the
	// data is first read in becomes its scope.
	legacyKey := LegacyLabelsKey(owner)
	if labels, ok := s.readLabels(legacyKey); ok {
		s.saveLabelsLocked(owner, year, month, labels)
		if err := s.kv.Delete(legacyKey); err != nil {
			log.Error().Err(err).Str("key", legacyKey).Msg("failed to delete legacy label record")
		}
		return labels
	}

	// Inherit from the previous month, persisted so later reads stop here.
	prevYear, prev := prevMonth(year, month)
	if labels, ok := s.readLabels(LabelsKey(owner, prevYear, prev)); ok {
		s.saveLabelsLocked(owner, year, month, labels)
		return labels
	}

	return domain.DefaultLabels()
}

// UpdateLabel replaces one category's label, truncated to the maximum length,
// and persists the merged record under the requested month.
func (s *Store) UpdateLabel(owner domain.Owner, year, month int, category domain.Category, text string) domain.StickerLabels {
	s.mu.Lock()
	defer s.mu.Unlock()

	labels := s.getLabelsLocked(owner, year, month).WithLabel(category, text)
	s.saveLabelsLocked(owner, year, month, labels)
	return labels
}

// readLabels loads and decodes one label record. Read and decode failures are
// logged and reported as absence.
func (s *Store) readLabels(key string) (domain.StickerLabels, bool) {
	raw, found, err := s.kv.Get(key)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to read label record")
		return domain.StickerLabels{}, false
	}
	if !found {
		return domain.StickerLabels{}, false
	}

	var labels domain.StickerLabels
	if err := json.Unmarshal([]byte(raw), &labels); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to parse label record")
		return domain.StickerLabels{}, false
	}
	return labels, true
}

func (s *Store) saveLabelsLocked(owner domain.Owner, year, month int, labels domain.StickerLabels) {
	key := LabelsKey(owner, year, month)
	raw, err := json.Marshal(labels)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to encode label record")
		return
	}
	if err := s.kv.Set(key, string(raw)); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to save label record")
	}
}
