package engine

import (
	"sort"
)

// Grouped reductions feeding the chart formatter. Every function re-scans the
// store; nothing is cached between calls.

// CategoryCount is one entry of a frequency count.
type CategoryCount struct {
	Label string
	Count int
}

// RankCategories counts incidents per value of dim, most frequent first.
// Equal counts keep first-seen order.
func (cs *ColumnStore) RankCategories(dim Dimension) ([]CategoryCount, error) {
	if err := cs.require(dim.Column()); err != nil {
		return nil, err
	}

	d := cs.dims[dim]
	counts := make([]int, d.Len())
	for _, id := range d.IDs {
		counts[id]++
	}

	out := make([]CategoryCount, len(counts))
	for id, c := range counts {
		out[id] = CategoryCount{Label: d.Values[id], Count: c}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

// TopCategories returns the labels of the n most frequent values of dim.
func (cs *ColumnStore) TopCategories(dim Dimension, n int) ([]string, error) {
	ranked, err := cs.RankCategories(dim)
	if err != nil {
		return nil, err
	}
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	labels := make([]string, len(ranked))
	for i, c := range ranked {
		labels[i] = c.Label
	}
	return labels, nil
}

// YearCount is the number of incidents in one year.
type YearCount struct {
	Year  int
	Count int
}

// CountByYear counts incidents per year, years ascending.
func (cs *ColumnStore) CountByYear() ([]YearCount, error) {
	if err := cs.require(ColYear); err != nil {
		return nil, err
	}

	counts := make(map[int]int)
	for _, y := range cs.Years {
		counts[int(y)]++
	}
	out := make([]YearCount, 0, len(counts))
	for y, c := range counts {
		out = append(out, YearCount{Year: y, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

// CountryTotal aggregates every incident of one country.
type CountryTotal struct {
	Country    string
	TotalLoss  float64
	TotalUsers int64
	Attacks    int
}

// CountryTotals sums loss and affected users per country, countries in
// alphabetical order.
func (cs *ColumnStore) CountryTotals() ([]CountryTotal, error) {
	if err := cs.require(ColCountry, ColFinancialLoss, ColAffectedUsers); err != nil {
		return nil, err
	}

	dict := cs.dims[Country]
	out := make([]CountryTotal, dict.Len())
	for cid, name := range dict.Values {
		out[cid].Country = name
	}
	for i, cid := range dict.IDs {
		out[cid].TotalLoss += cs.Losses[i]
		out[cid].TotalUsers += cs.AffectedUsers[i]
		out[cid].Attacks++
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Country < out[j].Country })
	return out, nil
}

// CrossCount counts incidents for every (country, attack type) pair drawn
// from the two lists. The result is indexed [country][attackType] in
// argument order; pairs without incidents are 0.
func (cs *ColumnStore) CrossCount(countries, attackTypes []string) ([][]int, error) {
	if err := cs.require(ColCountry, ColAttackType); err != nil {
		return nil, err
	}

	// Map dictionary IDs to matrix positions (-1 = filtered out)
	cDict, tDict := cs.dims[Country], cs.dims[AttackType]
	cPos := positions(cDict, countries)
	tPos := positions(tDict, attackTypes)

	// Flattened [country][type] -> [country*numTypes + type]
	numTypes := len(attackTypes)
	matrix := make([]int, len(countries)*numTypes)
	for i := 0; i < cs.rows; i++ {
		c, t := cPos[cDict.IDs[i]], tPos[tDict.IDs[i]]
		if c < 0 || t < 0 {
			continue
		}
		matrix[c*numTypes+t]++
	}

	out := make([][]int, len(countries))
	for c := range out {
		out[c] = matrix[c*numTypes : (c+1)*numTypes]
	}
	return out, nil
}

func positions(d *Dictionary, keep []string) []int {
	pos := make([]int, d.Len())
	for i := range pos {
		pos[i] = -1
	}
	for i, v := range keep {
		if id, ok := d.Lookup(v); ok {
			pos[id] = i
		}
	}
	return pos
}

// YearLoss is the summed loss of one year.
type YearLoss struct {
	Year int
	Loss float64
}

// LossByYearAndType sums financial loss per (year, attack type) for the given
// attack types. Each series lists only years with at least one incident of
// that type, ascending.
func (cs *ColumnStore) LossByYearAndType(attackTypes []string) (map[string][]YearLoss, error) {
	if err := cs.require(ColYear, ColAttackType, ColFinancialLoss); err != nil {
		return nil, err
	}

	tDict := cs.dims[AttackType]
	tPos := positions(tDict, attackTypes)
	sums := make([]map[int]float64, len(attackTypes))
	for i := range sums {
		sums[i] = make(map[int]float64)
	}
	for i := 0; i < cs.rows; i++ {
		t := tPos[tDict.IDs[i]]
		if t < 0 {
			continue
		}
		sums[t][int(cs.Years[i])] += cs.Losses[i]
	}

	out := make(map[string][]YearLoss, len(attackTypes))
	for t, name := range attackTypes {
		series := make([]YearLoss, 0, len(sums[t]))
		for y, loss := range sums[t] {
			series = append(series, YearLoss{Year: y, Loss: loss})
		}
		sort.Slice(series, func(i, j int) bool { return series[i].Year < series[j].Year })
		out[name] = series
	}
	return out, nil
}

// DefenseMean is the mean resolution time observed with one defense mechanism.
type DefenseMean struct {
	Mechanism string
	MeanHours float64
	Incidents int
}

// MeanResolutionByDefense averages resolution hours per defense mechanism,
// fastest first; equal means are ordered by mechanism name.
func (cs *ColumnStore) MeanResolutionByDefense() ([]DefenseMean, error) {
	if err := cs.require(ColDefense, ColResolutionTime); err != nil {
		return nil, err
	}

	dict := cs.dims[DefenseMechanism]
	sums := make([]float64, dict.Len())
	counts := make([]int, dict.Len())
	for i, id := range dict.IDs {
		sums[id] += cs.ResolutionHours[i]
		counts[id]++
	}

	out := make([]DefenseMean, 0, dict.Len())
	for id, name := range dict.Values {
		m := DefenseMean{Mechanism: name, Incidents: counts[id]}
		if counts[id] > 0 {
			m.MeanHours = sums[id] / float64(counts[id])
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MeanHours != out[j].MeanHours {
			return out[i].MeanHours < out[j].MeanHours
		}
		return out[i].Mechanism < out[j].Mechanism
	})
	return out, nil
}
