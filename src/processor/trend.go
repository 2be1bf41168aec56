package processor

import "github.com/Red-Bob7120/Data-Science/src/utils"

// TrendChange compares one trend year with the record before it. Growth
// figures are percentages, RateDelta is in percentage points.
type TrendChange struct {
	Year          int
	PrevYear      int
	ElderlyGrowth float64
	TotalGrowth   float64
	RateDelta     float64
}

// YearOverYear pairs each record with its predecessor in trend. Growth from a
// zero base is reported as 0.
func YearOverYear(trend []YearlyTrendRecord) []TrendChange {
	if len(trend) < 2 {
		return nil
	}

	changes := make([]TrendChange, 0, len(trend)-1)
	for i := 1; i < len(trend); i++ {
		prev, cur := trend[i-1], trend[i]
		changes = append(changes, TrendChange{
			Year:          cur.Year,
			PrevYear:      prev.Year,
			ElderlyGrowth: growth(prev.ElderlySum, cur.ElderlySum),
			TotalGrowth:   growth(prev.TotalSum, cur.TotalSum),
			RateDelta:     utils.Round2(cur.Rate - prev.Rate),
		})
	}
	return changes
}

func growth(prev, cur int) float64 {
	return utils.Percent(float64(cur-prev), float64(prev))
}
