package utils

import (
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
		errText string
	}{
		{in: "1,234", want: 1234},
		{in: " 42 ", want: 42},
		{in: "", want: 0},
		{in: "-", want: 0},
		{in: "NaN", want: 0},
		{in: "120.0", want: 120},
		{in: "12.5", wantErr: true},
		{in: "-3", wantErr: true},
		{in: "many", wantErr: true},
		{in: "1e20", wantErr: true, errText: "out of range"},
		{in: "99999999999999999999", wantErr: true, errText: "out of range"},
		{in: "-1e20", wantErr: true, errText: "negative"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCount(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorContains(t, err, tt.errText)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 13.64, Percent(150, 1100))
	assert.Equal(t, 0.0, Percent(5, 0))
	assert.Equal(t, 100.0, Percent(7, 7))
	assert.Equal(t, 0.01, Round2(0.005))
}

func TestHasColumn(t *testing.T) {
	df := dataframe.New(series.New([]string{"서울"}, series.String, "지역"))
	assert.True(t, HasColumn(df, "지역"))
	assert.False(t, HasColumn(df, "2023 전체"))
	assert.True(t, Contains([]int{1, 2}, 2))
}

func TestSaveToExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	regions := dataframe.New(
		series.New([]string{"서울", "부산"}, series.String, "지역"),
		series.New([]float64{13.64, 17.31}, series.Float, "반납률(%)"),
	)
	years := dataframe.New(series.New([]int{2022, 2023}, series.Int, "연도"))

	require.NoError(t, SaveToExcel(path,
		Sheet{Name: "지역별", Frame: regions},
		Sheet{Name: "연도별", Frame: years},
	))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"지역별", "연도별"}, f.GetSheetList())

	rows, err := f.GetRows("지역별")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"지역", "반납률(%)"},
		{"서울", "13.64"},
		{"부산", "17.31"},
	}, rows)

	rows, err = f.GetRows("연도별")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"연도"}, {"2022"}, {"2023"}}, rows)
}

func TestSaveToExcelNoSheets(t *testing.T) {
	assert.Error(t, SaveToExcel(filepath.Join(t.TempDir(), "out.xlsx")))
}
