package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccidentFrame(t *testing.T) {
	df := AccidentFrame(LoadAccidentRates())
	require.NoError(t, df.Err)

	assert.Equal(t, []string{ColAgeGroup, ColRawRatio, ColPercent}, df.Names())
	assert.Equal(t, 6, df.Nrow())
	assert.Equal(t, "65세 이상", df.Col(ColAgeGroup).Records()[5])
	assert.Equal(t, []float64{0.63, 0.54, 0.57, 0.77, 0.72, 1.00}, df.Col(ColPercent).Float())
}

func TestRegionalFrame(t *testing.T) {
	df := RegionalFrame([]RegionalSurrenderRecord{
		{Region: "서울", ElderlyCount: 150, TotalCount: 1100, SurrenderRate: 13.64},
		{Region: "부산", ElderlyCount: 90, TotalCount: 520, SurrenderRate: 17.31},
	})
	require.NoError(t, df.Err)

	assert.Equal(t, []string{ColRegion, ColElderly, ColTotal, ColRate}, df.Names())
	assert.Equal(t, []string{"서울", "부산"}, df.Col(ColRegion).Records())
	assert.Equal(t, []float64{13.64, 17.31}, df.Col(ColRate).Float())
	assert.Equal(t, 150, df.Col(ColElderly).Val(0))
}

func TestTrendAndChangeFrames(t *testing.T) {
	trend := []YearlyTrendRecord{
		{Year: 2022, ElderlySum: 200, TotalSum: 1500, Rate: 13.33},
		{Year: 2023, ElderlySum: 240, TotalSum: 1640, Rate: 14.63},
	}

	tf := TrendFrame(trend)
	require.NoError(t, tf.Err)
	assert.Equal(t, 2, tf.Nrow())
	assert.Equal(t, []string{"2022", "2023"}, tf.Col(ColYear).Records())

	cf := ChangeFrame(YearOverYear(trend))
	require.NoError(t, cf.Err)
	assert.Equal(t, 1, cf.Nrow())
	assert.Equal(t, 5, cf.Ncol())
	assert.Equal(t, 2022, cf.Col(ColPrevYear).Val(0))
}
