package model

// RGP is a region of genomic plasticity: a run of genes on one contig,
// from StartGene to StopGene inclusive.
type RGP struct {
	Name      string  `json:"name"`
	Contig    *Contig `json:"-"`
	StartGene *Gene   `json:"-"`
	StopGene  *Gene   `json:"-"`
}

func (r *RGP) Organism() *Organism {
	return r.Contig.Organism
}

// Genes returns the coding genes of the region. A region whose start comes
// after its stop wraps around the origin of a circular contig.
func (r *RGP) Genes() []*Gene {
	genes := r.Contig.Genes
	start, stop := r.StartGene.Position, r.StopGene.Position
	if start <= stop {
		return genes[start : stop+1]
	}
	wrapped := make([]*Gene, 0, len(genes)-start+stop+1)
	wrapped = append(wrapped, genes[start:]...)
	return append(wrapped, genes[:stop+1]...)
}

// Families returns the distinct families of the region, in gene order.
func (r *RGP) Families() []*Family {
	seen := make(FamilySet)
	var fams []*Family
	for _, g := range r.Genes() {
		if g.Family == nil || seen.Has(g.Family) {
			continue
		}
		seen[g.Family] = struct{}{}
		fams = append(fams, g.Family)
	}
	return fams
}

// BorderingGenes collects up to n marker genes on each side of the region,
// nearest first. Markers are persistent genes whose family is not multigenic.
// Linear contigs stop at their edge, so a border can hold fewer than n genes.
func (r *RGP) BorderingGenes(n int, multigenic FamilySet) [2][]*Gene {
	var border [2][]*Gene
	border[0] = r.walk(r.StartGene.Position, -1, n, multigenic)
	border[1] = r.walk(r.StopGene.Position, +1, n, multigenic)
	return border
}

func (r *RGP) walk(from, step, n int, multigenic FamilySet) []*Gene {
	if n <= 0 {
		return nil
	}
	genes := r.Contig.Genes
	total := len(genes)
	found := make([]*Gene, 0, n)

	for k := 1; k < total && len(found) < n; k++ {
		idx := from + step*k
		if idx < 0 || idx >= total {
			if !r.Contig.Circular {
				break
			}
			idx = ((idx % total) + total) % total
		}
		g := genes[idx]
		if isMarker(g, multigenic) {
			found = append(found, g)
		}
	}
	return found
}

func isMarker(g *Gene, multigenic FamilySet) bool {
	if g.Family == nil || multigenic.Has(g.Family) {
		return false
	}
	return g.Family.Partition == Persistent
}

// BorderFamilies projects both borders onto their families.
func BorderFamilies(border [2][]*Gene) [2][]*Family {
	var fams [2][]*Family
	for side, genes := range border {
		fams[side] = make([]*Family, len(genes))
		for i, g := range genes {
			fams[side][i] = g.Family
		}
	}
	return fams
}

// SameSynteny reports whether two regions carry the same ordered list of
// families, read in either direction.
func (r *RGP) SameSynteny(other *RGP) bool {
	a, b := r.Genes(), other.Genes()
	if len(a) != len(b) {
		return false
	}
	forward, backward := true, true
	for i := range a {
		if a[i].Family != b[i].Family {
			forward = false
		}
		if a[i].Family != b[len(b)-1-i].Family {
			backward = false
		}
		if !forward && !backward {
			return false
		}
	}
	return true
}
