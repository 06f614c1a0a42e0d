package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLabels(t *testing.T) {
	labels := DefaultLabels()
	assert.Equal(t, "Exercise", labels.Red)
	assert.Equal(t, "Study", labels.Blue)
	assert.Equal(t, "Reading", labels.Green)
	assert.Equal(t, "Early rising", labels.Yellow)
}

func TestWithLabel(t *testing.T) {
	labels := DefaultLabels().WithLabel(CategoryGreen, "Meditation")
	assert.Equal(t, "Meditation", labels.Green)
	assert.Equal(t, "Exercise", labels.Red, "other categories must be untouched")
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "short", TruncateLabel("short"))

	long := strings.Repeat("a", 25)
	assert.Equal(t, strings.Repeat("a", 20), TruncateLabel(long))

	// Truncation counts runes, not bytes.
	kana := strings.Repeat("あ", 25)
	assert.Equal(t, strings.Repeat("あ", 20), TruncateLabel(kana))

	exact := strings.Repeat("b", 20)
	assert.Equal(t, exact, TruncateLabel(exact))
}

func TestWithLabelTruncates(t *testing.T) {
	labels := StickerLabels{}.WithLabel(CategoryRed, strings.Repeat("x", 40))
	assert.Len(t, labels.Red, 20)
}
