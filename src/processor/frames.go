package processor

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column headers of the frames handed to the presentation layer.
const (
	ColAgeGroup      = "연령대"
	ColRawRatio      = "비율"
	ColPercent       = "퍼센트"
	ColRegion        = "지역"
	ColYear          = "연도"
	ColPrevYear      = "전년도"
	ColElderly       = "65세 이상"
	ColTotal         = "전체"
	ColRate          = "반납률(%)"
	ColElderlyGrowth = "65세 이상 증감률(%)"
	ColTotalGrowth   = "전체 증감률(%)"
	ColRateDelta     = "반납률 변화(%p)"
)

func AccidentFrame(records []AgeGroupAccidentRecord) dataframe.DataFrame {
	groups := make([]string, len(records))
	ratios := make([]float64, len(records))
	percents := make([]float64, len(records))
	for i, r := range records {
		groups[i] = r.AgeGroup
		ratios[i] = r.RawRatio
		percents[i] = r.Percent
	}
	return dataframe.New(
		series.New(groups, series.String, ColAgeGroup),
		series.New(ratios, series.Float, ColRawRatio),
		series.New(percents, series.Float, ColPercent),
	)
}

func RegionalFrame(records []RegionalSurrenderRecord) dataframe.DataFrame {
	regions := make([]string, len(records))
	elderly := make([]int, len(records))
	total := make([]int, len(records))
	rates := make([]float64, len(records))
	for i, r := range records {
		regions[i] = r.Region
		elderly[i] = r.ElderlyCount
		total[i] = r.TotalCount
		rates[i] = r.SurrenderRate
	}
	return dataframe.New(
		series.New(regions, series.String, ColRegion),
		series.New(elderly, series.Int, ColElderly),
		series.New(total, series.Int, ColTotal),
		series.New(rates, series.Float, ColRate),
	)
}

func TrendFrame(records []YearlyTrendRecord) dataframe.DataFrame {
	years := make([]int, len(records))
	elderly := make([]int, len(records))
	total := make([]int, len(records))
	rates := make([]float64, len(records))
	for i, r := range records {
		years[i] = r.Year
		elderly[i] = r.ElderlySum
		total[i] = r.TotalSum
		rates[i] = r.Rate
	}
	return dataframe.New(
		series.New(years, series.Int, ColYear),
		series.New(elderly, series.Int, ColElderly),
		series.New(total, series.Int, ColTotal),
		series.New(rates, series.Float, ColRate),
	)
}

func ChangeFrame(changes []TrendChange) dataframe.DataFrame {
	years := make([]int, len(changes))
	prev := make([]int, len(changes))
	elderly := make([]float64, len(changes))
	total := make([]float64, len(changes))
	deltas := make([]float64, len(changes))
	for i, c := range changes {
		years[i] = c.Year
		prev[i] = c.PrevYear
		elderly[i] = c.ElderlyGrowth
		total[i] = c.TotalGrowth
		deltas[i] = c.RateDelta
	}
	return dataframe.New(
		series.New(years, series.Int, ColYear),
		series.New(prev, series.Int, ColPrevYear),
		series.New(elderly, series.Float, ColElderlyGrowth),
		series.New(total, series.Float, ColTotalGrowth),
		series.New(deltas, series.Float, ColRateDelta),
	)
}
