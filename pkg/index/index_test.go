package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/pangtable/internal/fixture"
	"github.com/yumyai/pangtable/pkg/align"
	"github.com/yumyai/pangtable/pkg/model"
)

func spotNames(spots []*model.Spot) []string {
	var names []string
	for _, s := range spots {
		names = append(names, s.Name())
	}
	return names
}

func TestRegions(t *testing.T) {
	p := fixture.Pangenome()
	fam2rgp := Regions(p.Regions(), 3, model.FamilySet{})

	assert.Equal(t, []string{"RGP_A", "RGP_B", "RGP_C"}, fam2rgp[fixture.Family(p, "S1")])
	assert.Equal(t, []string{"RGP_A", "RGP_B"}, fam2rgp[fixture.Family(p, "C1")])
	// P1 borders RGP_A, RGP_B and RGP_C; P7 only borders RGP_D
	assert.Equal(t, []string{"RGP_A", "RGP_B", "RGP_C"}, fam2rgp[fixture.Family(p, "P1")])
	assert.Equal(t, []string{"RGP_D"}, fam2rgp[fixture.Family(p, "P7")])
}

func TestRegions_KeepsMemberAndBorderDuplicates(t *testing.T) {
	p := model.NewPangenome()
	persistent := &model.Family{Name: "P", Partition: model.Persistent}
	shell := &model.Family{Name: "S", Partition: model.Shell}
	require.NoError(t, p.AddFamily(persistent))
	require.NoError(t, p.AddFamily(shell))
	contig := &model.Contig{Name: "c", Organism: p.Organism("o")}
	// P [P S] P : P is a member of the region and in both borders
	for i, f := range []*model.Family{persistent, persistent, shell, persistent} {
		require.NoError(t, p.AddGene(&model.Gene{ID: string(rune('a' + i)), Position: i, Family: f, Contig: contig}))
	}
	rgp := &model.RGP{Name: "R", Contig: contig, StartGene: contig.Genes[1], StopGene: contig.Genes[2]}

	fam2rgp := Regions([]*model.RGP{rgp}, 3, model.FamilySet{})
	assert.Equal(t, []string{"R", "R", "R"}, fam2rgp[persistent])
	assert.Equal(t, []string{"R"}, fam2rgp[shell])
}

func TestSpots(t *testing.T) {
	p := fixture.Pangenome()
	member, border := Spots(p.Spots(), 3, model.FamilySet{})

	// S1 sits in three RGPs of spot_1 but the spot is listed once
	assert.Equal(t, []string{"spot_1"}, spotNames(member[fixture.Family(p, "S1")]))
	assert.Equal(t, []string{"spot_2"}, spotNames(member[fixture.Family(p, "C3")]))
	assert.Equal(t, []string{"spot_1"}, spotNames(border[fixture.Family(p, "P4")]))
	assert.Equal(t, []string{"spot_2"}, spotNames(border[fixture.Family(p, "P8")]))
	assert.Empty(t, member[fixture.Family(p, "P4")])
}

func TestAnnotate(t *testing.T) {
	p := fixture.Pangenome()
	ix := Build(p, 3, p.Multigenics(p.Params.DupMargin))

	m := align.NewSeqFamilyMap()
	m.SetIfAbsent("q1", fixture.Family(p, "C1"))
	m.SetIfAbsent("q2", fixture.Family(p, "P8"))
	m.SetIfAbsent("q3", fixture.Family(p, "P1"))

	rows, related := Annotate(m, ix)
	require.Len(t, rows, 3)

	assert.Equal(t, Annotation{
		Input: "q1", Family: "C1", Partition: "cloud",
		SpotsAsMember: []string{"spot_1"}, SpotsAsBorder: []string{},
		RGPs: []string{"RGP_A", "RGP_B"},
	}, rows[0])
	assert.Equal(t, []string{"spot_2"}, rows[1].SpotsAsBorder)
	assert.Empty(t, rows[1].SpotsAsMember)
	assert.Equal(t, "persistent", rows[2].Partition)

	assert.Equal(t, []string{"spot_1", "spot_2"}, spotNames(related))
}
