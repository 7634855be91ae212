package engine

import (
	"cyberdash/internal/models"
	"fmt"
	"math"
	"sort"
)

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RoundTo1 rounds to 1 decimal place.
func RoundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

// GlobalKPIs computes the four dashboard headline figures. The mean
// resolution time of an empty dataset is reported as 0.
func (cs *ColumnStore) GlobalKPIs() (models.GlobalKPIs, error) {
	if err := cs.require(ColFinancialLoss, ColAffectedUsers, ColResolutionTime); err != nil {
		return models.GlobalKPIs{}, err
	}

	var loss, hours float64
	var users int64
	for i := 0; i < cs.rows; i++ {
		loss += cs.Losses[i]
		users += cs.AffectedUsers[i]
		hours += cs.ResolutionHours[i]
	}

	kpis := models.GlobalKPIs{
		TotalAttacks:       cs.rows,
		TotalFinancialLoss: RoundTo2(loss),
		TotalAffectedUsers: users,
	}
	if cs.rows > 0 {
		kpis.AvgResolutionTime = RoundTo2(hours / float64(cs.rows))
	}
	return kpis, nil
}

// TopIncidents returns the n costliest incidents, loss descending. Equal
// losses keep file order. n larger than the dataset returns every record.
func (cs *ColumnStore) TopIncidents(n int) ([]models.TopIncident, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: top incidents count must be >= 0, got %d", ErrInvalidArgument, n)
	}
	if err := cs.require(ColCountry, ColYear, ColAttackType, ColFinancialLoss, ColAffectedUsers); err != nil {
		return nil, err
	}

	order := make([]int, cs.rows)
	for i := range order {
		order[i] = i
	}
	losses := cs.Losses
	sort.SliceStable(order, func(i, j int) bool { return losses[order[i]] > losses[order[j]] })

	if n > len(order) {
		n = len(order)
	}
	out := make([]models.TopIncident, 0, n)
	for i, row := range order[:n] {
		in := cs.Row(row)
		out = append(out, models.TopIncident{
			Rank:          i + 1,
			Country:       in.Country,
			Year:          in.Year,
			AttackType:    in.AttackType,
			FinancialLoss: RoundTo2(in.FinancialLoss),
			AffectedUsers: in.AffectedUsers,
		})
	}
	return out, nil
}

// TopCountries ranks countries by cumulative loss. Totals and means are
// rounded before ranking; equal rounded totals are ordered by country name.
func (cs *ColumnStore) TopCountries(n int) ([]models.TopCountry, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: top countries count must be >= 0, got %d", ErrInvalidArgument, n)
	}
	if err := cs.require(ColCountry, ColFinancialLoss); err != nil {
		return nil, err
	}

	// Array indexing by country ID
	dict := cs.dims[Country]
	sums := make([]float64, dict.Len())
	counts := make([]int, dict.Len())
	for i, cid := range dict.IDs {
		sums[cid] += cs.Losses[i]
		counts[cid]++
	}

	out := make([]models.TopCountry, 0, dict.Len())
	for cid, name := range dict.Values {
		out = append(out, models.TopCountry{
			Country:     name,
			TotalLoss:   RoundTo2(sums[cid]),
			AttackCount: counts[cid],
			AvgLoss:     RoundTo2(sums[cid] / float64(counts[cid])),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalLoss != out[j].TotalLoss {
			return out[i].TotalLoss > out[j].TotalLoss
		}
		return out[i].Country < out[j].Country
	})

	if n < len(out) {
		out = out[:n]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}
