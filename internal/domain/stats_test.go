package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeStats(t *testing.T) {
	m := MonthStickers{
		1:  {Red: true, Blue: true},
		7:  {Yellow: true},
		15: {Green: true, Yellow: true, Red: true},
	}

	stats := ComputeStats(m, 30)
	assert.Equal(t, 6, stats.TotalStickers)
	assert.Equal(t, 3, stats.DaysWithStickers)
	assert.Equal(t, 30, stats.DaysInMonth)
	assert.Equal(t, 10, stats.Percentage)
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(MonthStickers{}, 31)
	assert.Equal(t, 0, stats.TotalStickers)
	assert.Equal(t, 0, stats.DaysWithStickers)
	assert.Equal(t, 0, stats.Percentage)
}

func TestComputeStatsRounding(t *testing.T) {
	// 1 of 31 days is 3.2%, which rounds to 3.
	stats := ComputeStats(MonthStickers{10: {Red: true}}, 31)
	assert.Equal(t, 3, stats.Percentage)

	// 15 of 31 days is 48.4%, which rounds to 48.
	m := MonthStickers{}
	for day := 1; day <= 15; day++ {
		m[day] = DayStickers{Blue: true}
	}
	stats = ComputeStats(m, 31)
	assert.Equal(t, 48, stats.Percentage)
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 31, DaysIn(2025, 1))
	assert.Equal(t, 30, DaysIn(2025, 4))
	assert.Equal(t, 28, DaysIn(2025, 2))
	assert.Equal(t, 29, DaysIn(2024, 2))
	assert.Equal(t, 28, DaysIn(2100, 2), "century years are not leap years")
	assert.Equal(t, 29, DaysIn(2000, 2), "quadricentennial years are leap years")
	assert.Equal(t, 0, DaysIn(2025, 13))
}
