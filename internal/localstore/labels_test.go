package localstore

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitstack/stickerdb/internal/domain"
	"github.com/habitstack/stickerdb/internal/kvstore"
)

func setLabels(t *testing.T, kv kvstore.Store, key string, labels domain.StickerLabels) {
	t.Helper()
	raw, err := json.Marshal(labels)
	require.NoError(t, err)
	require.NoError(t, kv.Set(key, string(raw)))
}

func TestGetLabelsDefaults(t *testing.T) {
	kv := kvstore.NewMemory()
	store := New(kv)

	labels := store.GetLabels(domain.Guest, 2025, 10)
	assert.Equal(t, domain.DefaultLabels(), labels)

	// Defaults are not persisted until an edit happens.
	_, found, err := kv.Get(LabelsKey(domain.Guest, 2025, 10))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetLabelsExactMonth(t *testing.T) {
	kv := kvstore.NewMemory()
	store := New(kv)

	want := domain.StickerLabels{Red: "Run", Blue: "Read", Green: "Code", Yellow: "Sleep"}
	setLabels(t, kv, LabelsKey(domain.Guest, 2025, 10), want)

	assert.Equal(t, want, store.GetLabels(domain.Guest, 2025, 10))
}

func TestGetLabelsAdoptsLegacyRecord(t *testing.T) {
	kv := kvstore.NewMemory()
	store := New(kv)

	legacy := domain.StickerLabels{Red: "Old red", Blue: "Old blue", Green: "Old green", Yellow: "Old yellow"}
	setLabels(t, kv, LegacyLabelsKey(domain.Guest), legacy)

	labels := store.GetLabels(domain.Guest, 2025, 10)
	assert.Equal(t, legacy, labels)

	// The legacy record is re-homed under the month it was first read in.
	_, found, err := kv.Get(LegacyLabelsKey(domain.Guest))
	require.NoError(t, err)
	assert.False(t, found, "legacy key must be removed after adoption")

	raw, found, err := kv.Get(LabelsKey(domain.Guest, 2025, 10))
	require.NoError(t, err)
	require.True(t, found)
	var stored domain.StickerLabels
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, legacy, stored)
}

func TestGetLabelsInheritsPreviousMonth(t *testing.T) {
	kv := kvstore.NewMemory()
	store := New(kv)

	sept := domain.StickerLabels{Red: "Swim", Blue: "Study", Green: "Reading", Yellow: "Early rising"}
	setLabels(t, kv, LabelsKey(domain.Guest, 2025, 9), sept)

	labels := store.GetLabels(domain.Guest, 2025, 10)
	assert.Equal(t, sept, labels)

	// Inheritance is persisted so the next read stops at the exact month.
	_, found, err := kv.Get(LabelsKey(domain.Guest, 2025, 10))
	require.NoError(t, err)
	assert.True(t, found)
}

func TestGetLabelsInheritsAcrossYearBoundary(t *testing.T) {
	kv := kvstore.NewMemory()
	store := New(kv)

	dec := domain.DefaultLabels().WithLabel(domain.CategoryRed, "Ski")
	setLabels(t, kv, LabelsKey(domain.Guest, 2025, 12), dec)

	labels := store.GetLabels(domain.Guest, 2026, 1)
	assert.Equal(t, "Ski", labels.Red)
}

func TestGetLabelsExactMonthWinsOverLegacy(t *testing.T) {
	kv := kvstore.NewMemory()
	store := New(kv)

	exact := domain.DefaultLabels().WithLabel(domain.CategoryBlue, "Exact")
	setLabels(t, kv, LabelsKey(domain.Guest, 2025, 10), exact)
	setLabels(t, kv, LegacyLabelsKey(domain.Guest), domain.DefaultLabels())

	labels := store.GetLabels(domain.Guest, 2025, 10)
	assert.Equal(t, "Exact", labels.Blue)

	// The legacy record is untouched when the exact month exists.
	_, found, err := kv.Get(LegacyLabelsKey(domain.Guest))
	require.NoError(t, err)
	assert.True(t, found)
}

func TestUpdateLabel(t *testing.T) {
	kv := kvstore.NewMemory()
	store := New(kv)

	labels := store.UpdateLabel(domain.Guest, 2025, 10, domain.CategoryGreen, "Meditate")
	assert.Equal(t, "Meditate", labels.Green)
	assert.Equal(t, "Exercise", labels.Red, "untouched categories keep their defaults")

	// Persisted under the requested month.
	got := store.GetLabels(domain.Guest, 2025, 10)
	assert.Equal(t, labels, got)
}

func TestUpdateLabelTruncates(t *testing.T) {
	store := New(kvstore.NewMemory())

	labels := store.UpdateLabel(domain.Guest, 2025, 10, domain.CategoryRed, strings.Repeat("z", 50))
	assert.Len(t, labels.Red, domain.MaxLabelLen)
}
