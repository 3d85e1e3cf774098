package index

import (
	"github.com/yumyai/pangtable/pkg/align"
	"github.com/yumyai/pangtable/pkg/model"
)

// Annotation is one row of the per-query region/spot report.
type Annotation struct {
	Input         string   `json:"input"`
	Family        string   `json:"family"`
	Partition     string   `json:"partition"`
	SpotsAsMember []string `json:"spot_list_as_member"`
	SpotsAsBorder []string `json:"spot_list_as_border"`
	RGPs          []string `json:"rgp_list"`
}

// Annotate describes every mapped query, in assignment order. It also
// returns the spots touched by any query, in first-seen order.
func Annotate(m *align.SeqFamilyMap, ix *FamilyIndex) ([]Annotation, []*model.Spot) {
	queries := m.Queries()
	rows := make([]Annotation, 0, len(queries))
	seen := make(map[*model.Spot]struct{})
	var related []*model.Spot

	collect := func(spots []*model.Spot) []string {
		names := make([]string, 0, len(spots))
		for _, s := range spots {
			names = append(names, s.Name())
			if _, ok := seen[s]; !ok {
				seen[s] = struct{}{}
				related = append(related, s)
			}
		}
		return names
	}

	for _, q := range queries {
		fam, _ := m.Get(q)
		rows = append(rows, Annotation{
			Input:         q,
			Family:        fam.Name,
			Partition:     string(fam.Partition),
			SpotsAsMember: collect(ix.SpotsAsMember(fam)),
			SpotsAsBorder: collect(ix.SpotsAsBorder(fam)),
			RGPs:          append([]string{}, ix.RGPNames(fam)...),
		})
	}
	return rows, related
}
