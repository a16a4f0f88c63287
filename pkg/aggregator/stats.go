package aggregator

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/Malindup2/WattWise-sub000/pkg/energy"
	"github.com/Malindup2/WattWise-sub000/pkg/log"
	"github.com/Malindup2/WattWise-sub000/pkg/storage"
	"github.com/Malindup2/WattWise-sub000/pkg/types"
)

// trendThresholdPct is the day-over-day change below which usage counts as
// stable.
const trendThresholdPct = 5.0

// dayTotal reads one day's total, degrading to 0 for both "never logged" and
// transient read failures. Dashboard reads must never surface a hard error for
// a single missing day, so a failed day is indistinguishable from an empty one
// here; that ambiguity is the documented cost of the policy.
func (s *Service) dayTotal(ctx context.Context, userID, date string) float64 {
	summary, err := s.storage.GetDailySummary(ctx, userID, date)
	if err != nil {
		if !errors.Is(err, storage.ErrSummaryNotFound) {
			log.Ctx(ctx).WarnContext(ctx, "degrading failed day read to zero",
				slog.String("userID", userID), slog.String("date", date), slog.Any("err", err))
		}
		return 0
	}
	return summary.TotalDailyUsage
}

// GetUsageStats computes the dashboard snapshot for one user. It never returns
// an error: every sub-read failure degrades to the zero/fallback values.
//
// The monthly figure is a coarse weeklySum*4 extrapolation, not a true 30-day
// sum; GetMonthlyTrend does the honest per-week aggregation for charts. Both
// approximations are kept on purpose.
func (s *Service) GetUsageStats(ctx context.Context, userID string) types.UsageStats {
	stats := types.UsageStats{
		Today:     s.dayTotal(ctx, userID, types.Today()),
		Yesterday: s.dayTotal(ctx, userID, types.DaysAgo(1)),
		Trend:     types.TrendStable,
	}

	week, err := s.storage.GetDailySummaryRange(ctx, userID, types.DaysAgo(6), types.Today())
	if err != nil || len(week) == 0 {
		if err != nil {
			log.Ctx(ctx).WarnContext(ctx, "weekly range read failed, falling back to today",
				slog.String("userID", userID), slog.Any("err", err))
		}
		stats.WeeklyAverage = stats.Today
		stats.MonthlyTotal = energy.Round2(stats.Today * 30)
	} else {
		var weeklySum float64
		for _, day := range week {
			weeklySum += day.TotalDailyUsage
		}
		stats.WeeklyAverage = energy.Round2(weeklySum / float64(len(week)))
		stats.MonthlyTotal = energy.Round2(weeklySum * 4)
	}

	// a zero baseline yields no meaningful percentage, so the trend stays
	// stable no matter what today looks like
	if stats.Yesterday > 0 {
		changePct := (stats.Today - stats.Yesterday) / stats.Yesterday * 100
		switch {
		case changePct > trendThresholdPct:
			stats.Trend = types.TrendUp
		case changePct < -trendThresholdPct:
			stats.Trend = types.TrendDown
		}
		stats.TrendPercentage = energy.Round2(math.Abs(changePct))
	}

	if s.dollarsPerKWH > 0 {
		stats.TodayCost = energy.Round2(stats.Today * s.dollarsPerKWH)
		stats.MonthlyCost = energy.Round2(stats.MonthlyTotal * s.dollarsPerKWH)
	}
	return stats
}

// GetWeeklyTrend returns exactly 7 daily totals, oldest to newest with today
// last. Absent or unreadable days are 0, never omitted: the series length is a
// hard contract for chart rendering.
func (s *Service) GetWeeklyTrend(ctx context.Context, userID string) []float64 {
	return s.dailySeries(ctx, userID, 7)
}

// GetMonthlyTrend returns 4 weekly buckets over the trailing 28 days, oldest
// to newest. Unlike the stats extrapolation each bucket is a true sum of its
// 7 days.
func (s *Service) GetMonthlyTrend(ctx context.Context, userID string) []float64 {
	days := s.dailySeries(ctx, userID, 28)
	weeks := make([]float64, 4)
	for i, total := range days {
		weeks[i/7] += total
	}
	for i := range weeks {
		weeks[i] = energy.Round2(weeks[i])
	}
	return weeks
}

// dailySeries returns the last n daily totals oldest to newest, 0-filled for
// missing days.
func (s *Service) dailySeries(ctx context.Context, userID string, n int) []float64 {
	series := make([]float64, n)

	start := types.DaysAgo(n - 1)
	summaries, err := s.storage.GetDailySummaryRange(ctx, userID, start, types.Today())
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "trend range read failed, returning zero series",
			slog.String("userID", userID), slog.Int("days", n), slog.Any("err", err))
		return series
	}

	startT, err := types.ParseDate(start)
	if err != nil {
		return series
	}
	for _, summary := range summaries {
		t, err := types.ParseDate(summary.Date)
		if err != nil {
			continue
		}
		offset := int(t.Sub(startT) / (24 * time.Hour))
		if offset >= 0 && offset < n {
			series[offset] = summary.TotalDailyUsage
		}
	}
	return series
}
