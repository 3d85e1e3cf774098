// Package index links gene families to the regions and spots they are found
// in or next to. The lists are append-only: a family that is both inside an
// RGP and in its border is listed twice for that RGP.
package index

import (
	"github.com/yumyai/pangtable/pkg/model"
)

type FamilyIndex struct {
	rgps          map[*model.Family][]string
	spotsAsMember map[*model.Family][]*model.Spot
	spotsAsBorder map[*model.Family][]*model.Spot
}

// Regions builds the family to RGP names index.
func Regions(regions []*model.RGP, setSize int, multigenic model.FamilySet) map[*model.Family][]string {
	fam2rgp := make(map[*model.Family][]string)
	for _, rgp := range regions {
		for _, fam := range rgp.Families() {
			fam2rgp[fam] = append(fam2rgp[fam], rgp.Name)
		}
		for _, border := range rgp.BorderingGenes(setSize, multigenic) {
			for _, g := range border {
				fam2rgp[g.Family] = append(fam2rgp[g.Family], rgp.Name)
			}
		}
	}
	return fam2rgp
}

// Spots builds the family to spot indices, once as member and once as border.
// Families are deduplicated per spot before being recorded.
func Spots(spots []*model.Spot, setSize int, multigenic model.FamilySet) (member, border map[*model.Family][]*model.Spot) {
	member = make(map[*model.Family][]*model.Spot)
	border = make(map[*model.Family][]*model.Spot)
	for _, spot := range spots {
		var fams, borderFams orderedSet
		for _, rgp := range spot.Regions {
			fams.addAll(rgp.Families())
			for _, side := range rgp.BorderingGenes(setSize, multigenic) {
				for _, g := range side {
					borderFams.add(g.Family)
				}
			}
		}
		for _, fam := range fams.items {
			member[fam] = append(member[fam], spot)
		}
		for _, fam := range borderFams.items {
			border[fam] = append(border[fam], spot)
		}
	}
	return member, border
}

// Build computes every index for the pangenome.
func Build(p *model.Pangenome, setSize int, multigenic model.FamilySet) *FamilyIndex {
	member, border := Spots(p.Spots(), setSize, multigenic)
	return &FamilyIndex{
		rgps:          Regions(p.Regions(), setSize, multigenic),
		spotsAsMember: member,
		spotsAsBorder: border,
	}
}

func (ix *FamilyIndex) RGPNames(f *model.Family) []string {
	return ix.rgps[f]
}

func (ix *FamilyIndex) SpotsAsMember(f *model.Family) []*model.Spot {
	return ix.spotsAsMember[f]
}

func (ix *FamilyIndex) SpotsAsBorder(f *model.Family) []*model.Spot {
	return ix.spotsAsBorder[f]
}

type orderedSet struct {
	seen  model.FamilySet
	items []*model.Family
}

func (s *orderedSet) add(f *model.Family) {
	if s.seen == nil {
		s.seen = make(model.FamilySet)
	}
	if s.seen.Has(f) {
		return
	}
	s.seen[f] = struct{}{}
	s.items = append(s.items, f)
}

func (s *orderedSet) addAll(fams []*model.Family) {
	for _, f := range fams {
		s.add(f)
	}
}
