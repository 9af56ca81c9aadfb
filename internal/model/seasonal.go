package model

// MonthStat is the historical baseline for one calendar month.
type MonthStat struct {
	Month        int // 1..12
	Count        int
	AveragePrice float64
	Trusted      bool // count met the minimum sample threshold
}

// SeasonalPattern is the per-month purchase/price profile for an item,
// recomputable from price points alone.
type SeasonalPattern struct {
	ItemName   string
	Months     []MonthStat // ascending by month, observed months only
	SampleSize int
	Confidence Confidence
}

// MonthBaseline returns the stat for a calendar month, or false when the
// month has no observations.
func (p SeasonalPattern) MonthBaseline(month int) (MonthStat, bool) {
	for _, m := range p.Months {
		if m.Month == month {
			return m, true
		}
	}
	return MonthStat{}, false
}

// SeasonalPremium describes how current pricing compares to the current
// month's historical baseline.
type SeasonalPremium struct {
	ItemName       string
	Month          int
	BaselinePrice  float64
	CurrentPrice   float64
	PremiumPercent float64
	Trusted        bool // baseline month met the sample threshold
}
