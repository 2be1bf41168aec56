package processor

import (
	"errors"
	"fmt"

	"github.com/Red-Bob7120/Data-Science/src/datasource/file"
	"github.com/Red-Bob7120/Data-Science/src/storage"
	"github.com/Red-Bob7120/Data-Science/src/utils"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// RegionalSurrenderRecord is one region's licence surrenders for a year.
// SurrenderRate is ElderlyCount/TotalCount in percent, 0 when TotalCount is 0.
type RegionalSurrenderRecord struct {
	Region        string
	ElderlyCount  int
	TotalCount    int
	SurrenderRate float64
}

// YearlyTrendRecord is the national sum of all regions for one year.
type YearlyTrendRecord struct {
	Year       int
	ElderlySum int
	TotalSum   int
	Rate       float64
}

// SurrenderLoader is implemented by SurrenderAggregator and by Cache.
type SurrenderLoader interface {
	LoadRegional(path string, year int) ([]RegionalSurrenderRecord, error)
	LoadYearlyTrend(path string, years []int) ([]YearlyTrendRecord, error)
}

// SurrenderAggregator derives surrender tables from a regional file. It keeps
// no state between calls: every load reads the file again.
type SurrenderAggregator struct {
	columns ColumnResolver
	opts    file.ReadOptions
	logger  *storage.Logger
}

func NewSurrenderAggregator(columns ColumnResolver, opts file.ReadOptions, logger *storage.Logger) *SurrenderAggregator {
	if len(opts.Encodings) == 0 {
		opts.Encodings = file.DefaultEncodings
	}
	if logger == nil {
		logger = storage.NewNopLogger()
	}
	return &SurrenderAggregator{columns: columns, opts: opts, logger: logger}
}

// LoadRegional returns every region's counts and surrender rate for year, in
// file order. The region column and both columns of year are required.
func (a *SurrenderAggregator) LoadRegional(path string, year int) ([]RegionalSurrenderRecord, error) {
	df, err := a.regions(path)
	if err != nil {
		return nil, err
	}

	cols := a.columns.Year(year)
	for _, name := range []string{cols.Elderly, cols.Total} {
		if !utils.HasColumn(df, name) {
			return nil, &SchemaMismatchError{Path: path, Column: name, Year: year}
		}
	}

	names := df.Col(a.columns.Region).Records()
	elderly, total, err := a.pair(path, df, names, cols)
	if err != nil {
		return nil, err
	}

	records := make([]RegionalSurrenderRecord, len(names))
	for i, name := range names {
		records[i] = RegionalSurrenderRecord{
			Region:        name,
			ElderlyCount:  elderly[i],
			TotalCount:    total[i],
			SurrenderRate: utils.Percent(float64(elderly[i]), float64(total[i])),
		}
		if total[i] == 0 {
			a.logger.Event(storage.WARNING).
				Str("path", path).Str("region", name).Int("year", year).
				Msg("total count is zero, surrender rate set to 0")
		}
	}

	a.logger.Event(storage.INFO).
		Str("path", path).Int("year", year).Int("regions", len(records)).
		Msg("regional surrender data loaded")
	return records, nil
}

// LoadYearlyTrend sums every region per year. Years whose columns are not in
// the file are left out, so the result may be shorter than years.
func (a *SurrenderAggregator) LoadYearlyTrend(path string, years []int) ([]YearlyTrendRecord, error) {
	df, err := a.regions(path)
	if err != nil {
		return nil, err
	}
	names := df.Col(a.columns.Region).Records()

	trend := make([]YearlyTrendRecord, 0, len(years))
	for _, year := range years {
		cols := a.columns.Year(year)
		if !utils.HasColumn(df, cols.Elderly) || !utils.HasColumn(df, cols.Total) {
			a.logger.Event(storage.DEBUG).
				Str("path", path).Int("year", year).
				Str("elderly_column", cols.Elderly).Str("total_column", cols.Total).
				Msg("year not present in file, skipped")
			continue
		}

		elderly, total, err := a.pair(path, df, names, cols)
		if err != nil {
			return nil, err
		}

		elderlySum := sum(elderly, cols.Elderly)
		totalSum := sum(total, cols.Total)
		trend = append(trend, YearlyTrendRecord{
			Year:       year,
			ElderlySum: elderlySum,
			TotalSum:   totalSum,
			Rate:       utils.Percent(float64(elderlySum), float64(totalSum)),
		})
	}

	a.logger.Event(storage.INFO).
		Str("path", path).Int("requested", len(years)).Int("years", len(trend)).
		Msg("yearly surrender trend loaded")
	return trend, nil
}

// regions reads path and keeps the region rows: blank region names and
// summary rows such as 전국 are dropped.
func (a *SurrenderAggregator) regions(path string) (dataframe.DataFrame, error) {
	table, err := file.ReadTable(path, a.opts)
	if err != nil {
		return dataframe.DataFrame{}, &DataLoadError{Path: path, Encodings: a.opts.Encodings, Err: err}
	}
	a.logger.Event(storage.DEBUG).
		Str("path", path).Str("encoding", table.Encoding).Int("rows", table.Frame.Nrow()).
		Msg("table read")

	df := table.Frame
	if !utils.HasColumn(df, a.columns.Region) {
		return dataframe.DataFrame{}, &SchemaMismatchError{Path: path, Column: a.columns.Region}
	}

	a.warnUnnamed(path, df)

	df = df.Filter(dataframe.F{
		Colname:    a.columns.Region,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool {
			return !unnamed(el) && !utils.Contains(a.columns.SummaryRows, el.String())
		},
	})
	if df.Err != nil {
		return dataframe.DataFrame{}, &DataLoadError{Path: path, Encodings: a.opts.Encodings, Err: df.Err}
	}
	return df, nil
}

// unnamed reports a blank region cell. gota reads the text "NaN" as missing,
// so a region spelled that way is unnamed too.
func unnamed(el series.Element) bool {
	return el.IsNA() || el.String() == ""
}

// warnUnnamed logs the unnamed rows that still carry counts. The region
// filter drops them, so their counts are in no sum.
func (a *SurrenderAggregator) warnUnnamed(path string, df dataframe.DataFrame) {
	region := df.Col(a.columns.Region)
	var rows [][]string
	for i := 0; i < df.Nrow(); i++ {
		if !unnamed(region.Elem(i)) {
			continue
		}
		if rows == nil {
			rows = df.Records()
		}

		var carried []string
		for j, name := range df.Names() {
			if name == a.columns.Region {
				continue
			}
			if n, err := utils.ParseCount(rows[i+1][j]); err != nil || n > 0 {
				carried = append(carried, name)
			}
		}
		if len(carried) > 0 {
			a.logger.Event(storage.WARNING).
				Str("path", path).Int("row", i+1).Str("region", region.Elem(i).String()).
				Strs("columns", carried).
				Msg("row without region name dropped with non-zero counts")
		}
	}
}

// pair parses the two count columns of one year and checks that no region
// reports more elderly surrenders than its total.
func (a *SurrenderAggregator) pair(path string, df dataframe.DataFrame, names []string, cols YearColumns) ([]int, []int, error) {
	elderly, err := a.counts(path, df, cols.Elderly)
	if err != nil {
		return nil, nil, err
	}
	total, err := a.counts(path, df, cols.Total)
	if err != nil {
		return nil, nil, err
	}

	for i := range names {
		if elderly[i] > total[i] {
			return nil, nil, &DataLoadError{
				Path:      path,
				Encodings: a.opts.Encodings,
				Err: fmt.Errorf("region %q in %q/%q (%d > %d): %w",
					names[i], cols.Elderly, cols.Total, elderly[i], total[i], ErrInconsistentCounts),
			}
		}
	}
	return elderly, total, nil
}

func (a *SurrenderAggregator) counts(path string, df dataframe.DataFrame, column string) ([]int, error) {
	values := df.Col(column).Records()
	out := make([]int, len(values))
	for i, v := range values {
		n, err := utils.ParseCount(v)
		if err != nil {
			return nil, &DataLoadError{
				Path:      path,
				Encodings: a.opts.Encodings,
				Err:       fmt.Errorf("column %q row %d: %w", column, i+1, err),
			}
		}
		out[i] = n
	}
	return out, nil
}

// sum adds counts through a gota series; Series.Sum is NaN for an empty
// series, which here means zero.
func sum(counts []int, name string) int {
	if len(counts) == 0 {
		return 0
	}
	return int(series.New(counts, series.Int, name).Sum())
}

// IsFatal reports whether err came from loading or validating input data.
func IsFatal(err error) bool {
	var loadErr *DataLoadError
	var schemaErr *SchemaMismatchError
	return errors.As(err, &loadErr) || errors.As(err, &schemaErr)
}
