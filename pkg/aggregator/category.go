package aggregator

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/Malindup2/WattWise-sub000/pkg/log"
	"github.com/Malindup2/WattWise-sub000/pkg/storage"
	"github.com/Malindup2/WattWise-sub000/pkg/types"
)

// categoryRules classifies a device by case-insensitive substring match on its
// name. Rule order matters and the first match wins: "Desk Fan Light" lands in
// Lighting because that rule is checked first. This ordering is inherited
// behavior that downstream charts depend on, so don't reorder or multi-label.
var categoryRules = []struct {
	category types.Category
	keywords []string
}{
	{types.CategoryLighting, []string{"light", "lamp", "bulb"}},
	{types.CategoryAppliances, []string{"refrigerator", "washing", "microwave", "oven"}},
	{types.CategoryElectronics, []string{"tv", "computer", "laptop", "phone"}},
	{types.CategoryHVAC, []string{"ac", "heater", "fan", "hvac"}},
}

func classifyDevice(deviceName string) types.Category {
	name := strings.ToLower(deviceName)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.category
			}
		}
	}
	return types.CategoryOther
}

// GetCategoryBreakdown allocates the last `days` days of energy across the
// fixed category buckets as integer percentages. Every category is always
// present; an empty or unreadable window yields all zeros rather than NaN or
// missing keys. Independent rounding means the values can sum to 100±1.
func (s *Service) GetCategoryBreakdown(ctx context.Context, userID string, days int) types.CategoryBreakdown {
	if days < 1 {
		days = 1
	} else if days > storage.MaxRangeDays {
		days = storage.MaxRangeDays
	}

	breakdown := make(types.CategoryBreakdown, len(types.Categories))
	for _, c := range types.Categories {
		breakdown[c] = 0
	}

	summaries, err := s.storage.GetDailySummaryRange(ctx, userID, types.DaysAgo(days-1), types.Today())
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "category range read failed, returning zero breakdown",
			slog.String("userID", userID), slog.Int("days", days), slog.Any("err", err))
		return breakdown
	}

	kwhByCategory := make(map[types.Category]float64, len(types.Categories))
	var total float64
	for _, summary := range summaries {
		for _, room := range summary.Rooms {
			for _, entry := range room.Entries {
				kwhByCategory[classifyDevice(entry.DeviceName)] += entry.PowerUsed
				total += entry.PowerUsed
			}
		}
	}
	if total == 0 {
		return breakdown
	}

	for _, c := range types.Categories {
		breakdown[c] = int(math.Round(kwhByCategory[c] / total * 100))
	}
	return breakdown
}
