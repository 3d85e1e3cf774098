package model

import (
	"errors"
	"fmt"
)

var (
	ErrFamilyNotFound    = errors.New("gene family not found")
	ErrGeneNotFound      = errors.New("gene not found")
	ErrSpotNotFound      = errors.New("spot not found")
	ErrNoFamilySequences = errors.New("pangenome has no gene family representative sequences")
	ErrNoGeneSequences   = errors.New("pangenome has no gene sequences")
)

// Partition is the conservation class of a gene family.
type Partition string

const (
	Persistent Partition = "persistent"
	Shell      Partition = "shell"
	Cloud      Partition = "cloud"
)

// ParsePartition accepts the full names and the single letter codes (P, S, C).
func ParsePartition(s string) (Partition, error) {
	switch s {
	case "persistent", "P":
		return Persistent, nil
	case "shell", "S":
		return Shell, nil
	case "cloud", "C":
		return Cloud, nil
	}
	return "", fmt.Errorf("unknown partition %q", s)
}

type Organism struct {
	Name string `json:"name"`
}

// Contig holds its coding genes ordered by position, and RNA genes separately.
type Contig struct {
	Name     string    `json:"name"`
	Organism *Organism `json:"-"`
	Circular bool      `json:"circular"`
	Genes    []*Gene   `json:"-"`
	RNAs     []*Gene   `json:"-"`
}

type Gene struct {
	ID         string `json:"gene_id"`
	LocalID    string `json:"local_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Product    string `json:"product,omitempty"`
	Type       string `json:"type"`
	Strand     string `json:"strand"`
	Start      int    `json:"start"`
	Stop       int    `json:"stop"`
	Position   int    `json:"position"`
	IsFragment bool   `json:"is_fragment,omitempty"`
	Sequence   string `json:"-"`

	Family   *Family   `json:"-"`
	Contig   *Contig   `json:"-"`
	Organism *Organism `json:"-"`
}

// IsRNA reports genes that carry no family.
func (g *Gene) IsRNA() bool {
	return g.Family == nil
}

// FamilyName is the family name, or the gene type for RNA genes.
func (g *Gene) FamilyName() string {
	if g.Family == nil {
		return g.Type
	}
	return g.Family.Name
}

type Family struct {
	Name      string    `json:"name"`
	Sequence  string    `json:"-"`
	Partition Partition `json:"partition"`
	Genes     []*Gene   `json:"-"`
}

// Organisms returns the organisms carrying the family, in first-seen order.
func (f *Family) Organisms() []*Organism {
	seen := make(map[*Organism]struct{})
	var orgs []*Organism
	for _, g := range f.Genes {
		if _, ok := seen[g.Organism]; ok {
			continue
		}
		seen[g.Organism] = struct{}{}
		orgs = append(orgs, g.Organism)
	}
	return orgs
}

// FamilySet is an unordered set of families.
type FamilySet map[*Family]struct{}

func (s FamilySet) Has(f *Family) bool {
	_, ok := s[f]
	return ok
}

// Spot is a group of RGPs found at homologous locations.
type Spot struct {
	ID      int    `json:"id"`
	Regions []*RGP `json:"-"`
}

func (s *Spot) Name() string {
	return fmt.Sprintf("spot_%d", s.ID)
}

// Parameters are the tolerances stored with the pangenome when spots were predicted.
type Parameters struct {
	SetSize          int     `json:"set_size"`
	OverlappingMatch int     `json:"overlapping_match"`
	ExactMatch       int     `json:"exact_match"`
	DupMargin        float64 `json:"dup_margin"`
}

func DefaultParameters() Parameters {
	return Parameters{
		SetSize:          3,
		OverlappingMatch: 2,
		ExactMatch:       1,
		DupMargin:        0.05,
	}
}

// Validate rejects tolerances no border comparison can use.
func (p Parameters) Validate() error {
	switch {
	case p.SetSize < 0:
		return fmt.Errorf("set_size must not be negative, got %d", p.SetSize)
	case p.OverlappingMatch < 0:
		return fmt.Errorf("overlapping_match must not be negative, got %d", p.OverlappingMatch)
	case p.ExactMatch < 0:
		return fmt.Errorf("exact_match must not be negative, got %d", p.ExactMatch)
	case p.DupMargin < 0 || p.DupMargin > 1:
		return fmt.Errorf("dup_margin must be within [0, 1], got %g", p.DupMargin)
	}
	return nil
}
