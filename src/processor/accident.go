package processor

// AgeGroupAccidentRecord is the share of licence holders in an age group who
// caused an accident. RawRatio and Percent are published figures; Percent is
// not derived from RawRatio.
type AgeGroupAccidentRecord struct {
	AgeGroup string
	RawRatio float64
	Percent  float64
}

// LoadAccidentRates returns the six age-bracket rows in fixed order.
func LoadAccidentRates() []AgeGroupAccidentRecord {
	return []AgeGroupAccidentRecord{
		{AgeGroup: "20대", RawRatio: 0.006338831, Percent: 0.63},
		{AgeGroup: "30대", RawRatio: 0.005378732, Percent: 0.54},
		{AgeGroup: "40대", RawRatio: 0.005727822, Percent: 0.57},
		{AgeGroup: "50대", RawRatio: 0.007673245, Percent: 0.77},
		{AgeGroup: "60대", RawRatio: 0.007163389, Percent: 0.72},
		{AgeGroup: "65세 이상", RawRatio: 0.009960251, Percent: 1.00},
	}
}

// AccidentSummary holds the headline figures over a set of age groups.
// SpreadPercent is max - min in percentage points.
type AccidentSummary struct {
	Highest       AgeGroupAccidentRecord
	Lowest        AgeGroupAccidentRecord
	MeanPercent   float64
	SpreadPercent float64
}

func SummarizeAccidents(records []AgeGroupAccidentRecord) AccidentSummary {
	if len(records) == 0 {
		return AccidentSummary{}
	}

	s := AccidentSummary{Highest: records[0], Lowest: records[0]}
	var total float64
	for _, r := range records {
		total += r.Percent
		if r.Percent > s.Highest.Percent {
			s.Highest = r
		}
		if r.Percent < s.Lowest.Percent {
			s.Lowest = r
		}
	}
	s.MeanPercent = total / float64(len(records))
	s.SpreadPercent = s.Highest.Percent - s.Lowest.Percent
	return s
}

// FilterAgeGroups keeps the records whose age group is listed, in table
// order. With no groups every record is kept.
func FilterAgeGroups(records []AgeGroupAccidentRecord, groups ...string) []AgeGroupAccidentRecord {
	if len(groups) == 0 {
		return append([]AgeGroupAccidentRecord(nil), records...)
	}

	want := make(map[string]bool, len(groups))
	for _, g := range groups {
		want[g] = true
	}

	var out []AgeGroupAccidentRecord
	for _, r := range records {
		if want[r.AgeGroup] {
			out = append(out, r)
		}
	}
	return out
}
