package synteny

import (
	"sort"

	"github.com/yumyai/pangtable/pkg/model"
)

// Region is one RGP as laid out for comparison inside a spot: the genes of
// the window spanning its borders, and the two borders themselves.
// Classification may reverse Genes and swap Borders.
type Region struct {
	RGP      *model.RGP
	Genes    []*model.Gene
	Borders  [2][]*model.Gene
	Reversed bool
	// Unclassified marks a region that could not be oriented against the reference.
	Unclassified bool
}

func (r *Region) Name() string {
	if r.RGP == nil {
		return ""
	}
	return r.RGP.Name
}

// BorderFamilies returns the families of one border side.
func (r *Region) BorderFamilies(side int) []*model.Family {
	fams := make([]*model.Family, len(r.Borders[side]))
	for i, g := range r.Borders[side] {
		fams[i] = g.Family
	}
	return fams
}

// FamilySet lists the distinct families carried by the region's genes.
func (r *Region) FamilySet() model.FamilySet {
	set := make(model.FamilySet)
	for _, g := range r.Genes {
		if g.Family != nil {
			set[g.Family] = struct{}{}
		}
	}
	return set
}

func (r *Region) reverse() {
	for i, j := 0, len(r.Genes)-1; i < j; i, j = i+1, j-1 {
		r.Genes[i], r.Genes[j] = r.Genes[j], r.Genes[i]
	}
	r.Borders[0], r.Borders[1] = r.Borders[1], r.Borders[0]
	r.Reversed = !r.Reversed
}

// NewRegion builds the window of an RGP: contig genes from the outermost
// left border gene to the outermost right border gene, plus the RNAs lying
// strictly inside that span, sorted by start. Without any border gene the
// window is the RGP itself, and so is it when a border wraps around the
// origin of a circular contig.
func NewRegion(rgp *model.RGP, setSize int, multigenic model.FamilySet) *Region {
	borders := rgp.BorderingGenes(setSize, multigenic)

	minPos, maxPos := rgp.StartGene.Position, rgp.StopGene.Position
	minStart, maxStop := rgp.StartGene.Start, rgp.StopGene.Stop
	wraps := minPos > maxPos
	for _, g := range borders[0] {
		if g.Position > rgp.StartGene.Position {
			wraps = true
		}
	}
	for _, g := range borders[1] {
		if g.Position < rgp.StopGene.Position {
			wraps = true
		}
	}
	for _, side := range borders {
		for _, g := range side {
			if g.Position < minPos {
				minPos = g.Position
			}
			if g.Position > maxPos {
				maxPos = g.Position
			}
			if g.Start < minStart {
				minStart = g.Start
			}
			if g.Stop > maxStop {
				maxStop = g.Stop
			}
		}
	}

	var genes []*model.Gene
	if wraps {
		genes = append(genes, rgp.Genes()...)
	} else {
		genes = append(genes, rgp.Contig.Genes[minPos:maxPos+1]...)
		for _, rna := range rgp.Contig.RNAs {
			if minStart < rna.Start && rna.Start < maxStop {
				genes = append(genes, rna)
			}
		}
		sort.SliceStable(genes, func(i, j int) bool { return genes[i].Start < genes[j].Start })
	}

	return &Region{RGP: rgp, Genes: genes, Borders: borders}
}

// Regions builds the regions of every RGP of a spot, in spot order.
func Regions(spot *model.Spot, setSize int, multigenic model.FamilySet) []*Region {
	regions := make([]*Region, len(spot.Regions))
	for i, rgp := range spot.Regions {
		regions[i] = NewRegion(rgp, setSize, multigenic)
	}
	return regions
}
