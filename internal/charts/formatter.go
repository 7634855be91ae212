// Package charts turns grouped incident reductions into Plotly-shaped chart
// descriptions. Formatters only read the store.
package charts

import (
	"cyberdash/internal/engine"
	"cyberdash/internal/models"
	"fmt"
)

type Formatter struct {
	store *engine.ColumnStore
	theme Theme
}

func New(store *engine.ColumnStore, theme Theme) *Formatter {
	return &Formatter{store: store, theme: theme}
}

var builders = map[Kind]func(*Formatter) (*models.Chart, error){
	KindMap:               (*Formatter).MapChart,
	KindTemporalEvolution: (*Formatter).TemporalEvolution,
	KindAttackTypes:       (*Formatter).AttackTypesDistribution,
	KindAttackSources:     (*Formatter).AttackSourcesBar,
	KindVulnerabilities:   (*Formatter).VulnerabilitiesBar,
	KindCountries:         (*Formatter).CountriesBar,
	KindTypesByCountry:    (*Formatter).TypesByCountry,
	KindLossesByType:      (*Formatter).LossesByTypeTemporal,
	KindDefenseEfficiency: (*Formatter).DefenseEfficiency,
}

// Build dispatches to the builder for kind.
func (f *Formatter) Build(kind Kind) (*models.Chart, error) {
	build, ok := builders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown chart %q", engine.ErrInvalidArgument, kind)
	}
	return build(f)
}
