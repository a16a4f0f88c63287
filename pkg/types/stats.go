package types

// Trend describes the day-over-day direction of usage.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// UsageStats is the derived dashboard snapshot for one user. It is computed
// fresh on each request from a window of daily summaries and never persisted.
type UsageStats struct {
	Today           float64 `json:"today"`
	Yesterday       float64 `json:"yesterday"`
	WeeklyAverage   float64 `json:"weeklyAverage"`
	MonthlyTotal    float64 `json:"monthlyTotal"`
	Trend           Trend   `json:"trend"`
	TrendPercentage float64 `json:"trendPercentage"`

	// Costs are derived from a flat configured rate and omitted when no rate
	// is configured.
	TodayCost   float64 `json:"todayCost,omitempty"`
	MonthlyCost float64 `json:"monthlyCost,omitempty"`
}

// Category is one of the fixed device-type buckets used by the breakdown.
type Category string

const (
	CategoryLighting    Category = "Lighting"
	CategoryAppliances  Category = "Appliances"
	CategoryElectronics Category = "Electronics"
	CategoryHVAC        Category = "HVAC"
	CategoryOther       Category = "Other"
)

// Categories lists every bucket in display order. The breakdown always
// contains all of them, zero-valued when the window has no usage.
var Categories = []Category{
	CategoryLighting,
	CategoryAppliances,
	CategoryElectronics,
	CategoryHVAC,
	CategoryOther,
}

// CategoryBreakdown maps each category to an integer percentage (0-100) of a
// day-window's total energy.
type CategoryBreakdown map[Category]int
