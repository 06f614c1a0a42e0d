package localstore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/habitstack/stickerdb/internal/domain"
)

// Local key scheme. Sticker grids and labels are namespaced per owner and
// month; the legacy unscoped label key predates month scoping and is migrated
// forward on first read.

// StickerKey is the storage key for an owner's sticker grid for one month.
func StickerKey(owner domain.Owner, year, month int) string {
	return fmt.Sprintf("%s-sticker-calendar-%d-%d", owner.Prefix(), year, month)
}

// StickerKeyPrefix is the common prefix of all of an owner's sticker grid keys.
func StickerKeyPrefix(owner domain.Owner) string {
	return owner.Prefix() + "-sticker-calendar-"
}

// LabelsKey is the storage key for an owner's labels for one month.
func LabelsKey(owner domain.Owner, year, month int) string {
	return fmt.Sprintf("%s-%d-%d-labels", owner.Prefix(), year, month)
}

// LegacyLabelsKey is the unscoped label key written by old versions.
func LegacyLabelsKey(owner domain.Owner) string {
	return owner.Prefix() + "-sticker-labels"
}

// ParseStickerKey extracts the (year, month) scope from a sticker grid key
// belonging to the given owner.
func ParseStickerKey(owner domain.Owner, key string) (year, month int, ok bool) {
	rest, found := strings.CutPrefix(key, StickerKeyPrefix(owner))
	if !found {
		return 0, 0, false
	}
	parts := strings.Split(rest, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	year, errY := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	if errY != nil || errM != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}

// prevMonth returns the month immediately preceding (year, month).
func prevMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}
