package world

import (
	"mini-realm/internal/wfc"
	"mini-realm/pkg/template"
)

// Assets is the named template lookup generation draws from. *template.Library
// implements it.
type Assets interface {
	Icon(name string) (*template.Icon, error)
	Structure(name string) (*template.Structure, error)
	Geography(name string) (*template.Geography, error)
	Ruleset(structure string) (*wfc.Ruleset, error)
	ConnectTable() (*template.ConnectTable, error)
}

// geographyScale controls how many regions share one geography.
const geographyScale = 1.0 / 6.0

// GeographyFor deterministically picks one of names for region r. Neighbouring regions
// tend to share a geography because the choice follows low-frequency value noise.
func GeographyFor(names []string, seed int64, r Region) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	v := octaveNoise2D(float64(r.X)*geographyScale, float64(r.Y)*geographyScale, seed^0x6e0, 2, 0.5, 2.0)
	idx := int(v * float64(len(names)))
	return names[min(max(idx, 0), len(names)-1)]
}

// pickWeighted walks a cumulative table with v in [0,1].
func pickWeighted(table []template.Weighted, v float64) (string, bool) {
	total := 0.0
	for _, w := range table {
		total += max(w.Weight, 0)
	}
	if total <= 0 {
		return "", false
	}
	target := v * total
	acc := 0.0
	for _, w := range table {
		acc += max(w.Weight, 0)
		if target < acc {
			return w.Icon, true
		}
	}
	return table[len(table)-1].Icon, true
}
