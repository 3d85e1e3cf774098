// Pangenome container and the lookups used by hit resolution and reporting

package model

import (
	"fmt"
	"sort"
)

type Pangenome struct {
	Params Parameters

	families    []*Family
	familyIndex map[string]*Family
	genes       map[string]*Gene
	organisms   map[string]*Organism
	contigs     []*Contig
	regions     []*RGP
	spots       []*Spot
}

func NewPangenome() *Pangenome {
	return &Pangenome{
		Params:      DefaultParameters(),
		familyIndex: make(map[string]*Family),
		genes:       make(map[string]*Gene),
		organisms:   make(map[string]*Organism),
	}
}

// AddFamily registers a family, replacing nothing: a duplicate name is an error.
func (p *Pangenome) AddFamily(f *Family) error {
	if _, ok := p.familyIndex[f.Name]; ok {
		return fmt.Errorf("duplicate gene family %q", f.Name)
	}
	p.familyIndex[f.Name] = f
	p.families = append(p.families, f)
	return nil
}

// Organism returns the organism with that name, creating it on first use.
func (p *Pangenome) Organism(name string) *Organism {
	if org, ok := p.organisms[name]; ok {
		return org
	}
	org := &Organism{Name: name}
	p.organisms[name] = org
	return org
}

func (p *Pangenome) AddContig(c *Contig) {
	p.contigs = append(p.contigs, c)
}

// AddGene links a gene to its contig and family. Coding genes must be added
// with consecutive positions starting at zero on each contig.
func (p *Pangenome) AddGene(g *Gene) error {
	if _, ok := p.genes[g.ID]; ok {
		return fmt.Errorf("duplicate gene %q", g.ID)
	}
	if g.Contig == nil {
		return fmt.Errorf("gene %q has no contig", g.ID)
	}
	g.Organism = g.Contig.Organism
	if g.Family == nil {
		g.Contig.RNAs = append(g.Contig.RNAs, g)
	} else {
		if g.Position != len(g.Contig.Genes) {
			return fmt.Errorf("gene %q at position %d, expected %d on contig %q",
				g.ID, g.Position, len(g.Contig.Genes), g.Contig.Name)
		}
		g.Contig.Genes = append(g.Contig.Genes, g)
		g.Family.Genes = append(g.Family.Genes, g)
	}
	p.genes[g.ID] = g
	return nil
}

func (p *Pangenome) AddRegion(r *RGP) {
	p.regions = append(p.regions, r)
}

func (p *Pangenome) AddSpot(s *Spot) {
	p.spots = append(p.spots, s)
}

// FamilyByID resolves a family by its name, which is the id the aligner sees.
func (p *Pangenome) FamilyByID(id string) (*Family, error) {
	f, ok := p.familyIndex[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFamilyNotFound, id)
	}
	return f, nil
}

func (p *Pangenome) GeneByID(id string) (*Gene, error) {
	g, ok := p.genes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGeneNotFound, id)
	}
	return g, nil
}

func (p *Pangenome) SpotByID(id int) (*Spot, error) {
	for _, s := range p.spots {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: spot_%d", ErrSpotNotFound, id)
}

func (p *Pangenome) Families() []*Family {
	return p.families
}

func (p *Pangenome) Regions() []*RGP {
	return p.regions
}

func (p *Pangenome) Spots() []*Spot {
	return p.spots
}

func (p *Pangenome) Contigs() []*Contig {
	return p.contigs
}

// Genes returns every gene sorted by id.
func (p *Pangenome) Genes() []*Gene {
	genes := make([]*Gene, 0, len(p.genes))
	for _, g := range p.genes {
		genes = append(genes, g)
	}
	sort.Slice(genes, func(i, j int) bool { return genes[i].ID < genes[j].ID })
	return genes
}

// CheckFamilySequences fails when any family lacks its representative sequence.
func (p *Pangenome) CheckFamilySequences() error {
	if len(p.families) == 0 {
		return ErrNoFamilySequences
	}
	for _, f := range p.families {
		if f.Sequence == "" {
			return fmt.Errorf("%w (family %s)", ErrNoFamilySequences, f.Name)
		}
	}
	return nil
}

// CheckGeneSequences fails when no coding gene carries a sequence, which
// exhaustive alignment targets need.
func (p *Pangenome) CheckGeneSequences() error {
	for _, g := range p.genes {
		if !g.IsRNA() && g.Sequence != "" {
			return nil
		}
	}
	return ErrNoGeneSequences
}

// Multigenics returns the families duplicated in at least dupMargin of the
// organisms that carry them. Fragments do not count as copies.
func (p *Pangenome) Multigenics(dupMargin float64) FamilySet {
	multi := make(FamilySet)
	for _, f := range p.families {
		perOrg := make(map[*Organism]int)
		for _, g := range f.Genes {
			if _, ok := perOrg[g.Organism]; !ok {
				perOrg[g.Organism] = 0
			}
			if !g.IsFragment {
				perOrg[g.Organism]++
			}
		}
		if len(perOrg) == 0 {
			continue
		}
		dup := 0
		for _, n := range perOrg {
			if n > 1 {
				dup++
			}
		}
		if float64(dup)/float64(len(perOrg)) >= dupMargin {
			multi[f] = struct{}{}
		}
	}
	return multi
}
