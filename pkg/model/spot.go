package model

// SyntenyGroup gathers the RGPs of a spot that share one gene organisation.
// The representative is the first region of the group in spot order and is
// also listed among the members.
type SyntenyGroup struct {
	Representative *RGP
	Members        []*RGP
}

// SyntenyGroups groups the spot's regions by identical ordered family content.
func (s *Spot) SyntenyGroups() []*SyntenyGroup {
	var groups []*SyntenyGroup
	for _, rgp := range s.Regions {
		placed := false
		for _, g := range groups {
			if rgp.SameSynteny(g.Representative) {
				g.Members = append(g.Members, rgp)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, &SyntenyGroup{Representative: rgp, Members: []*RGP{rgp}})
		}
	}
	return groups
}

// OrganisationCount is the number of distinct gene organisations in the spot.
func (s *Spot) OrganisationCount() int {
	return len(s.SyntenyGroups())
}
