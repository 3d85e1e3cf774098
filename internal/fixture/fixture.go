// Package fixture builds a small pangenome shared by package tests.
//
// Layout (all contigs linear, family names in contig order):
//
//	orgA/ctgA: P1 P2 P3 [S1 C1 S2] P4 P5 P6   + tRNA inside RGP_A
//	orgB/ctgB: P1 P2 P3 [S1 C1 S2] P4 P5 P6
//	orgC/ctgC: P6 P5 P4 [S2 C2 S1] P3 P2 P1
//	orgD/ctgD: P7 P8 [S3 C3 S4]
//
// spot_1 holds RGP_A, RGP_B and RGP_C; spot_2 holds RGP_D.
package fixture

import (
	"fmt"

	"github.com/yumyai/pangtable/pkg/model"
)

var contigLayouts = []struct {
	org, contig string
	families    []string
	rgpStart    int
	rgpStop     int
}{
	{"orgA", "ctgA", []string{"P1", "P2", "P3", "S1", "C1", "S2", "P4", "P5", "P6"}, 3, 5},
	{"orgB", "ctgB", []string{"P1", "P2", "P3", "S1", "C1", "S2", "P4", "P5", "P6"}, 3, 5},
	{"orgC", "ctgC", []string{"P6", "P5", "P4", "S2", "C2", "S1", "P3", "P2", "P1"}, 3, 5},
	{"orgD", "ctgD", []string{"P7", "P8", "S3", "C3", "S4"}, 2, 4},
}

// Pangenome builds the fixture. It panics on inconsistencies since those
// are bugs in the fixture itself.
func Pangenome() *model.Pangenome {
	p := model.NewPangenome()

	for _, name := range []string{"P1", "P2", "P3", "P4", "P5", "P6", "P7", "P8", "S1", "S2", "S3", "S4", "C1", "C2", "C3"} {
		part, err := model.ParsePartition(name[:1])
		must(err)
		must(p.AddFamily(&model.Family{Name: name, Partition: part, Sequence: "M" + name}))
	}

	for _, layout := range contigLayouts {
		contig := &model.Contig{Name: layout.contig, Organism: p.Organism(layout.org)}
		p.AddContig(contig)
		for i, famName := range layout.families {
			fam, err := p.FamilyByID(famName)
			must(err)
			must(p.AddGene(&model.Gene{
				ID:       fmt.Sprintf("%s_%d", layout.org, i),
				Type:     "CDS",
				Strand:   "+",
				Start:    i*1000 + 1,
				Stop:     i*1000 + 900,
				Position: i,
				Family:   fam,
				Contig:   contig,
				Sequence: "ATG" + famName,
			}))
		}
		p.AddRegion(&model.RGP{
			Name:      "RGP_" + layout.org[3:],
			Contig:    contig,
			StartGene: contig.Genes[layout.rgpStart],
			StopGene:  contig.Genes[layout.rgpStop],
		})
	}

	ctgA := p.Contigs()[0]
	must(p.AddGene(&model.Gene{
		ID:       "orgA_tRNA",
		Type:     "tRNA",
		Product:  "tRNA-Leu",
		Strand:   "+",
		Start:    4950,
		Stop:     4990,
		Position: -1,
		Contig:   ctgA,
	}))

	regions := p.Regions()
	p.AddSpot(&model.Spot{ID: 1, Regions: []*model.RGP{regions[0], regions[1], regions[2]}})
	p.AddSpot(&model.Spot{ID: 2, Regions: []*model.RGP{regions[3]}})
	return p
}

// Family is a shortcut for looking up a fixture family by name.
func Family(p *model.Pangenome, name string) *model.Family {
	f, err := p.FamilyByID(name)
	must(err)
	return f
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
