package domain

// Category identifies one of the four fixed sticker categories.
type Category string

const (
	CategoryRed    Category = "red"
	CategoryBlue   Category = "blue"
	CategoryGreen  Category = "green"
	CategoryYellow Category = "yellow"
)

// Categories lists all sticker categories in display order.
var Categories = []Category{CategoryRed, CategoryBlue, CategoryGreen, CategoryYellow}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryRed, CategoryBlue, CategoryGreen, CategoryYellow:
		return true
	}
	return false
}

// DayStickers holds the four independent sticker flags for a single calendar day.
type DayStickers struct {
	Red    bool `json:"red"`
	Blue   bool `json:"blue"`
	Green  bool `json:"green"`
	Yellow bool `json:"yellow"`
}

// Get returns the flag for the given category.
func (d DayStickers) Get(c Category) bool {
	switch c {
	case CategoryRed:
		return d.Red
	case CategoryBlue:
		return d.Blue
	case CategoryGreen:
		return d.Green
	case CategoryYellow:
		return d.Yellow
	}
	return false
}

// WithToggled returns a copy of d with the given category flipped.
func (d DayStickers) WithToggled(c Category) DayStickers {
	switch c {
	case CategoryRed:
		d.Red = !d.Red
	case CategoryBlue:
		d.Blue = !d.Blue
	case CategoryGreen:
		d.Green = !d.Green
	case CategoryYellow:
		d.Yellow = !d.Yellow
	}
	return d
}

// Count returns the number of true flags.
func (d DayStickers) Count() int {
	n := 0
	for _, set := range []bool{d.Red, d.Blue, d.Green, d.Yellow} {
		if set {
			n++
		}
	}
	return n
}

// Empty reports whether all four flags are false. Empty days are never
// persisted; absence from a MonthStickers map means all-false.
func (d DayStickers) Empty() bool {
	return !d.Red && !d.Blue && !d.Green && !d.Yellow
}

// MonthStickers maps day-of-month (1..31) to that day's stickers. The map is
// sparse: days with no stickers are absent.
type MonthStickers map[int]DayStickers

// Clone returns a shallow copy of the month map.
func (m MonthStickers) Clone() MonthStickers {
	out := make(MonthStickers, len(m))
	for day, stickers := range m {
		out[day] = stickers
	}
	return out
}
