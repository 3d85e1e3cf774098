package synteny

import "github.com/yumyai/pangtable/pkg/model"

type GeneView struct {
	ID        string `json:"gene_id"`
	Family    string `json:"family"`
	Partition string `json:"partition"`
	Type      string `json:"type"`
	Product   string `json:"product,omitempty"`
	Strand    string `json:"strand"`
	Start     int    `json:"start"`
	Stop      int    `json:"stop"`
}

type RegionView struct {
	RGP          string     `json:"rgp"`
	Organism     string     `json:"organism"`
	Contig       string     `json:"contig"`
	Occurrences  int        `json:"occurrences"`
	Reversed     bool       `json:"reversed"`
	Unclassified bool       `json:"unclassified"`
	LeftBorder   []string   `json:"left_border"`
	RightBorder  []string   `json:"right_border"`
	Genes        []GeneView `json:"genes"`
}

type LayoutView struct {
	Spot         string          `json:"spot"`
	Tolerance    Tolerance       `json:"tolerance"`
	Regions      []RegionView    `json:"regions"`
	Unclassified []string        `json:"unclassified"`
	Identical    []IdenticalPair `json:"identical"`
}

func geneView(g *model.Gene) GeneView {
	v := GeneView{
		ID:      g.ID,
		Family:  g.FamilyName(),
		Type:    g.Type,
		Product: g.Product,
		Strand:  g.Strand,
		Start:   g.Start,
		Stop:    g.Stop,
	}
	if g.Family != nil {
		v.Partition = string(g.Family.Partition)
	}
	return v
}

func borderNames(genes []*model.Gene) []string {
	names := make([]string, len(genes))
	for i, g := range genes {
		names[i] = g.FamilyName()
	}
	return names
}

// View flattens the layout into JSON friendly values, representatives only.
func (l *Layout) View() LayoutView {
	v := LayoutView{
		Spot:         l.Spot.Name(),
		Tolerance:    l.Tolerance,
		Regions:      make([]RegionView, 0, len(l.Rows)),
		Unclassified: make([]string, 0, len(l.Unclassified)),
		Identical:    l.Identical,
	}
	for _, row := range l.Rows {
		r := row.Region
		rv := RegionView{
			RGP:          r.Name(),
			Organism:     r.RGP.Organism().Name,
			Contig:       r.RGP.Contig.Name,
			Occurrences:  row.Occurrences,
			Reversed:     r.Reversed,
			Unclassified: r.Unclassified,
			LeftBorder:   borderNames(r.Borders[0]),
			RightBorder:  borderNames(r.Borders[1]),
			Genes:        make([]GeneView, len(r.Genes)),
		}
		for i, g := range r.Genes {
			rv.Genes[i] = geneView(g)
		}
		v.Regions = append(v.Regions, rv)
	}
	for _, r := range l.Unclassified {
		v.Unclassified = append(v.Unclassified, r.Name())
	}
	return v
}
