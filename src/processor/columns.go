package processor

import (
	"fmt"

	"github.com/Red-Bob7120/Data-Science/src/config"
)

// YearColumns names the pair of count columns for one year.
type YearColumns struct {
	Elderly string
	Total   string
}

// ColumnResolver maps a year to its column names. Most years follow the
// templates; Overrides lists the years the published file spells
// differently. An override may set only one of the two names.
type ColumnResolver struct {
	Region        string
	ElderlyFormat string
	TotalFormat   string
	Overrides     map[int]YearColumns
	SummaryRows   []string // region values that are totals, not regions
}

// DefaultColumns matches the published 운전면허 자진반납 file, where 2023
// writes "65세이상" without a space.
func DefaultColumns() ColumnResolver {
	return ColumnResolver{
		Region:        "지역",
		ElderlyFormat: "%d 65세 이상",
		TotalFormat:   "%d 전체",
		Overrides: map[int]YearColumns{
			2023: {Elderly: "2023 65세이상"},
		},
		SummaryRows: []string{"전국", "합계"},
	}
}

// ResolverFromConfig builds a resolver from the dataset config.
func ResolverFromConfig(dc *config.DataConfig) ColumnResolver {
	r := ColumnResolver{
		Region:        dc.RegionColumn,
		ElderlyFormat: dc.ElderlyFormat,
		TotalFormat:   dc.TotalFormat,
		Overrides:     make(map[int]YearColumns),
		SummaryRows:   append([]string(nil), dc.SummaryRows...),
	}
	for year, cols := range dc.Overrides() {
		r.Overrides[year] = YearColumns{Elderly: cols.Elderly, Total: cols.Total}
	}
	return r
}

// Year returns the column names for year.
func (r ColumnResolver) Year(year int) YearColumns {
	cols := YearColumns{
		Elderly: fmt.Sprintf(r.ElderlyFormat, year),
		Total:   fmt.Sprintf(r.TotalFormat, year),
	}
	if o, ok := r.Overrides[year]; ok {
		if o.Elderly != "" {
			cols.Elderly = o.Elderly
		}
		if o.Total != "" {
			cols.Total = o.Total
		}
	}
	return cols
}
