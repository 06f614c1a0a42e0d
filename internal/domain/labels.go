package domain

// MaxLabelLen is the maximum rune length of a sticker label. Longer input is
// truncated on write, never rejected.
const MaxLabelLen = 20

// StickerLabels holds the display text for the four sticker categories,
// scoped to an (owner, year, month) triple.
type StickerLabels struct {
	Red    string `json:"red"`
	Blue   string `json:"blue"`
	Green  string `json:"green"`
	Yellow string `json:"yellow"`
}

// DefaultLabels returns the label set used when an owner has never edited
// labels for any month.
func DefaultLabels() StickerLabels {
	return StickerLabels{
		Red:    "Exercise",
		Blue:   "Study",
		Green:  "Reading",
		Yellow: "Early rising",
	}
}

// Get returns the label for the given category.
func (l StickerLabels) Get(c Category) string {
	switch c {
	case CategoryRed:
		return l.Red
	case CategoryBlue:
		return l.Blue
	case CategoryGreen:
		return l.Green
	case CategoryYellow:
		return l.Yellow
	}
	return ""
}

// WithLabel returns a copy of l with the given category's label replaced by
// text, truncated to MaxLabelLen runes.
func (l StickerLabels) WithLabel(c Category, text string) StickerLabels {
	text = TruncateLabel(text)
	switch c {
	case CategoryRed:
		l.Red = text
	case CategoryBlue:
		l.Blue = text
	case CategoryGreen:
		l.Green = text
	case CategoryYellow:
		l.Yellow = text
	}
	return l
}

// TruncateLabel limits text to MaxLabelLen runes.
func TruncateLabel(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxLabelLen {
		return text
	}
	return string(runes[:MaxLabelLen])
}
