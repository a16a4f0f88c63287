package aggregator

import (
	"context"
	"errors"
	"testing"

	"github.com/Malindup2/WattWise-sub000/pkg/storage/storagemock"
	"github.com/Malindup2/WattWise-sub000/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// GetUsageStats should read exactly today, yesterday, and the trailing 7-day
// window, nothing else.
func TestGetUsageStatsReads(t *testing.T) {
	mockDB := new(storagemock.MockDatabase)
	mockDB.On("GetDailySummary", mock.Anything, "u", types.Today()).
		Return(types.DailyUsageSummary{Date: types.Today(), TotalDailyUsage: 2.0}, nil).Once()
	mockDB.On("GetDailySummary", mock.Anything, "u", types.DaysAgo(1)).
		Return(types.DailyUsageSummary{Date: types.DaysAgo(1), TotalDailyUsage: 1.0}, nil).Once()
	mockDB.On("GetDailySummaryRange", mock.Anything, "u", types.DaysAgo(6), types.Today()).
		Return([]types.DailyUsageSummary{{Date: types.Today(), TotalDailyUsage: 2.0}}, nil).Once()

	stats := New(mockDB, 0).GetUsageStats(context.Background(), "u")
	assert.Equal(t, 2.0, stats.Today)
	assert.Equal(t, 1.0, stats.Yesterday)
	assert.Equal(t, 2.0, stats.WeeklyAverage)
	assert.Equal(t, 8.0, stats.MonthlyTotal)
	mockDB.AssertExpectations(t)
}

func TestGetUsageStatsTrend(t *testing.T) {
	ctx := context.Background()

	t.Run("up", func(t *testing.T) {
		store := newMemStore()
		seedDay(t, store, "u", types.Today(), "Lamp", 2.0)
		seedDay(t, store, "u", types.DaysAgo(1), "Lamp", 1.0)

		stats := New(store, 0).GetUsageStats(ctx, "u")
		assert.Equal(t, 2.0, stats.Today)
		assert.Equal(t, 1.0, stats.Yesterday)
		assert.Equal(t, types.TrendUp, stats.Trend)
		assert.Equal(t, 100.0, stats.TrendPercentage)
	})

	t.Run("down", func(t *testing.T) {
		store := newMemStore()
		seedDay(t, store, "u", types.Today(), "Lamp", 1.0)
		seedDay(t, store, "u", types.DaysAgo(1), "Lamp", 2.0)

		stats := New(store, 0).GetUsageStats(ctx, "u")
		assert.Equal(t, types.TrendDown, stats.Trend)
		assert.Equal(t, 50.0, stats.TrendPercentage)
	})

	t.Run("stable within threshold", func(t *testing.T) {
		store := newMemStore()
		seedDay(t, store, "u", types.Today(), "Lamp", 1.04)
		seedDay(t, store, "u", types.DaysAgo(1), "Lamp", 1.0)

		stats := New(store, 0).GetUsageStats(ctx, "u")
		assert.Equal(t, types.TrendStable, stats.Trend)
		assert.Equal(t, 4.0, stats.TrendPercentage)
	})

	t.Run("zero baseline is always stable", func(t *testing.T) {
		store := newMemStore()
		seedDay(t, store, "u", types.Today(), "Lamp", 5.0)
		// nothing yesterday: no divide-by-zero, no infinite growth report

		stats := New(store, 0).GetUsageStats(ctx, "u")
		assert.Equal(t, 5.0, stats.Today)
		assert.Equal(t, 0.0, stats.Yesterday)
		assert.Equal(t, types.TrendStable, stats.Trend)
		assert.Equal(t, 0.0, stats.TrendPercentage)
	})
}

func TestGetUsageStatsAggregates(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	// 3 of the last 7 days have data: 2 + 1 + 3 = 6 kWh
	seedDay(t, store, "u", types.Today(), "Lamp", 2.0)
	seedDay(t, store, "u", types.DaysAgo(2), "Lamp", 1.0)
	seedDay(t, store, "u", types.DaysAgo(6), "Lamp", 3.0)
	// outside the weekly window, must not count
	seedDay(t, store, "u", types.DaysAgo(7), "Lamp", 99.0)

	stats := New(store, 0).GetUsageStats(ctx, "u")
	// average over days that exist, not over 7
	assert.Equal(t, 2.0, stats.WeeklyAverage)
	// monthly figure is the documented weeklySum*4 extrapolation
	assert.Equal(t, 24.0, stats.MonthlyTotal)
}

func TestGetUsageStatsDegraded(t *testing.T) {
	ctx := context.Background()

	t.Run("range failure falls back to today", func(t *testing.T) {
		store := newMemStore()
		seedDay(t, store, "u", types.Today(), "Lamp", 2.0)
		store.failRange = errors.New("backend unavailable")

		stats := New(store, 0).GetUsageStats(ctx, "u")
		assert.Equal(t, 2.0, stats.Today)
		assert.Equal(t, 2.0, stats.WeeklyAverage)
		assert.Equal(t, 60.0, stats.MonthlyTotal)
	})

	t.Run("total read failure degrades to zeros", func(t *testing.T) {
		store := newMemStore()
		store.failGet = errors.New("backend unavailable")
		store.failRange = errors.New("backend unavailable")

		stats := New(store, 0).GetUsageStats(ctx, "u")
		assert.Equal(t, 0.0, stats.Today)
		assert.Equal(t, 0.0, stats.Yesterday)
		assert.Equal(t, 0.0, stats.WeeklyAverage)
		assert.Equal(t, 0.0, stats.MonthlyTotal)
		assert.Equal(t, types.TrendStable, stats.Trend)
	})
}

func TestGetUsageStatsCosts(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	seedDay(t, store, "u", types.Today(), "Lamp", 2.0)

	stats := New(store, 0.15).GetUsageStats(ctx, "u")
	assert.Equal(t, 0.3, stats.TodayCost)
	assert.Equal(t, 1.2, stats.MonthlyCost)

	// zero rate disables cost derivation
	stats = New(store, 0).GetUsageStats(ctx, "u")
	assert.Equal(t, 0.0, stats.TodayCost)
	assert.Equal(t, 0.0, stats.MonthlyCost)
}

func TestGetWeeklyTrend(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	// data on today and 3 days ago only
	seedDay(t, store, "u", types.Today(), "Lamp", 2.5)
	seedDay(t, store, "u", types.DaysAgo(3), "Lamp", 1.5)

	series := New(store, 0).GetWeeklyTrend(ctx, "u")
	assert.Equal(t, []float64{0, 0, 0, 1.5, 0, 0, 2.5}, series)
}

func TestGetWeeklyTrendDegraded(t *testing.T) {
	store := newMemStore()
	store.failRange = errors.New("backend unavailable")

	// series length is a hard contract for chart rendering
	series := New(store, 0).GetWeeklyTrend(context.Background(), "u")
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 0}, series)
}

func TestGetMonthlyTrend(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	// newest bucket: today + 5 days ago
	seedDay(t, store, "u", types.Today(), "Lamp", 2.0)
	seedDay(t, store, "u", types.DaysAgo(5), "Lamp", 1.0)
	// third bucket: 8 days ago
	seedDay(t, store, "u", types.DaysAgo(8), "Lamp", 4.0)
	// oldest bucket: 27 days ago
	seedDay(t, store, "u", types.DaysAgo(27), "Lamp", 0.5)
	// outside the trailing 28 days
	seedDay(t, store, "u", types.DaysAgo(28), "Lamp", 99.0)

	weeks := New(store, 0).GetMonthlyTrend(ctx, "u")
	assert.Equal(t, []float64{0.5, 0, 4.0, 3.0}, weeks)
}
