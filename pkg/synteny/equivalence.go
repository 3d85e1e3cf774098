package synteny

import "github.com/yumyai/pangtable/pkg/model"

// Tolerance carries the border comparison parameters.
type Tolerance struct {
	// OverlappingMatch is the allowed number of missing persistent genes.
	OverlappingMatch int `json:"overlapping_match"`
	// SetSize is the number of marker genes in a full border.
	SetSize int `json:"set_size"`
	// ExactMatch is the number of exactly matching markers required.
	ExactMatch int `json:"exact_match"`
}

func ToleranceFrom(p model.Parameters) Tolerance {
	return Tolerance{
		OverlappingMatch: p.OverlappingMatch,
		SetSize:          p.SetSize,
		ExactMatch:       p.ExactMatch,
	}
}

// BorderEquivalence decides whether two borders, each an ordered list of
// marker families nearest first, flank homologous locations.
// A border shorter than setSize must compare as not equivalent.
type BorderEquivalence interface {
	Equivalent(a, b []*model.Family, overlappingMatch, setSize, exactMatch int) bool
}

// EquivalenceFunc adapts a plain function to BorderEquivalence.
type EquivalenceFunc func(a, b []*model.Family, overlappingMatch, setSize, exactMatch int) bool

func (f EquivalenceFunc) Equivalent(a, b []*model.Family, overlappingMatch, setSize, exactMatch int) bool {
	return f(a, b, overlappingMatch, setSize, exactMatch)
}

func equivalent(eq BorderEquivalence, a, b []*model.Family, tol Tolerance) bool {
	return eq.Equivalent(a, b, tol.OverlappingMatch, tol.SetSize, tol.ExactMatch)
}
