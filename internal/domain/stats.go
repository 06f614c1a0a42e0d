package domain

import "math"

// MonthStats aggregates sticker completion for one month.
type MonthStats struct {
	TotalStickers    int `json:"totalStickers"`
	DaysWithStickers int `json:"daysWithStickers"`
	DaysInMonth      int `json:"daysInMonth"`
	Percentage       int `json:"percentage"`
	Year             int `json:"year"`
	Month            int `json:"month"`
}

// ComputeStats derives completion statistics from a sparse month map.
// Percentage is the rounded share of days carrying at least one sticker.
func ComputeStats(m MonthStickers, daysInMonth int) MonthStats {
	stats := MonthStats{DaysInMonth: daysInMonth}

	for _, stickers := range m {
		count := stickers.Count()
		if count > 0 {
			stats.DaysWithStickers++
			stats.TotalStickers += count
		}
	}

	if daysInMonth > 0 {
		stats.Percentage = int(math.Round(float64(stats.DaysWithStickers) / float64(daysInMonth) * 100))
	}

	return stats
}

// DaysIn returns the number of days in the given month.
func DaysIn(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	}
	return 0
}
