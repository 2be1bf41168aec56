package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAccidentRates(t *testing.T) {
	records := LoadAccidentRates()
	require.Len(t, records, 6)

	wantGroups := []string{"20대", "30대", "40대", "50대", "60대", "65세 이상"}
	wantPercents := []float64{0.63, 0.54, 0.57, 0.77, 0.72, 1.00}
	for i, r := range records {
		assert.Equal(t, wantGroups[i], r.AgeGroup)
		assert.Equal(t, wantPercents[i], r.Percent)
	}
	assert.Equal(t, 0.009960251, records[5].RawRatio)

	// Callers get their own copy.
	records[0].Percent = 99
	assert.Equal(t, 0.63, LoadAccidentRates()[0].Percent)
}

func TestSummarizeAccidents(t *testing.T) {
	s := SummarizeAccidents(LoadAccidentRates())

	assert.Equal(t, "65세 이상", s.Highest.AgeGroup)
	assert.Equal(t, "30대", s.Lowest.AgeGroup)
	assert.InDelta(t, 0.705, s.MeanPercent, 1e-9)
	assert.InDelta(t, 0.46, s.SpreadPercent, 1e-9)

	assert.Equal(t, AccidentSummary{}, SummarizeAccidents(nil))
}

func TestFilterAgeGroups(t *testing.T) {
	records := LoadAccidentRates()

	got := FilterAgeGroups(records, "65세 이상", "20대", "없음")
	require.Len(t, got, 2)
	assert.Equal(t, "20대", got[0].AgeGroup)
	assert.Equal(t, "65세 이상", got[1].AgeGroup)

	assert.Equal(t, records, FilterAgeGroups(records))
	assert.Empty(t, FilterAgeGroups(records, "10대"))
}
