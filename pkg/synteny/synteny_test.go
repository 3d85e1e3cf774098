package synteny

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/pangtable/internal/fixture"
	"github.com/yumyai/pangtable/logger"
	"github.com/yumyai/pangtable/pkg/model"
)

// sameList treats borders as equivalent when both are full and identical.
var sameList = EquivalenceFunc(func(a, b []*model.Family, _, setSize, _ int) bool {
	if len(a) < setSize || len(b) < setSize || len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
})

// overlap treats borders as equivalent when they share any family.
var overlap = EquivalenceFunc(func(a, b []*model.Family, _, setSize, _ int) bool {
	if len(a) < setSize || len(b) < setSize {
		return false
	}
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
})

var never = EquivalenceFunc(func(_, _ []*model.Family, _, _, _ int) bool { return false })

func fams(names ...string) []*model.Family {
	out := make([]*model.Family, len(names))
	for i, n := range names {
		out[i] = &model.Family{Name: n, Partition: model.Persistent}
	}
	return out
}

func genesOf(families []*model.Family) []*model.Gene {
	genes := make([]*model.Gene, len(families))
	for i, f := range families {
		genes[i] = &model.Gene{ID: f.Name, Family: f}
	}
	return genes
}

func bordered(name string, left, right []*model.Family) *Region {
	return &Region{
		RGP:     &model.RGP{Name: name},
		Borders: [2][]*model.Gene{genesOf(left), genesOf(right)},
	}
}

func withContent(name string, families []*model.Family) *Region {
	return &Region{RGP: &model.RGP{Name: name}, Genes: genesOf(families)}
}

func regionNames(regions []*Region) []string {
	names := make([]string, len(regions))
	for i, r := range regions {
		names[i] = r.Name()
	}
	return names
}

func geneFamilies(genes []*model.Gene) []string {
	names := make([]string, len(genes))
	for i, g := range genes {
		names[i] = g.FamilyName()
	}
	return names
}

func TestNewRegion_WindowIncludesBordersAndRNAs(t *testing.T) {
	p := fixture.Pangenome()
	r := NewRegion(p.Regions()[0], 3, model.FamilySet{})

	assert.Equal(t, []string{"P1", "P2", "P3", "S1", "C1", "tRNA", "S2", "P4", "P5", "P6"}, geneFamilies(r.Genes))
	assert.Equal(t, "orgA_tRNA", r.Genes[5].ID)
	assert.Equal(t, []string{"P3", "P2", "P1"}, geneFamilies(r.Borders[0]))
	assert.Equal(t, []string{"P4", "P5", "P6"}, geneFamilies(r.Borders[1]))
}

func TestNewRegion_TruncatedBorder(t *testing.T) {
	p := fixture.Pangenome()
	r := NewRegion(p.Regions()[3], 3, model.FamilySet{})

	assert.Equal(t, []string{"P7", "P8", "S3", "C3", "S4"}, geneFamilies(r.Genes))
	assert.Len(t, r.Borders[0], 2)
	assert.Empty(t, r.Borders[1])
}

func TestClassify_SingleRegion(t *testing.T) {
	calls := 0
	counting := EquivalenceFunc(func(_, _ []*model.Family, _, _, _ int) bool {
		calls++
		return true
	})
	only := bordered("R0", fams("a"), fams("b"))

	c := Classify([]*Region{only}, counting, Tolerance{SetSize: 1}, nil)
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, c.Passes)
	assert.NoError(t, c.Err())
	assert.False(t, only.Reversed)
}

func TestClassify_ReachesFixedPoint(t *testing.T) {
	f := fams("a", "b", "c", "d")
	a, b, c, d := f[0], f[1], f[2], f[3]
	r0 := bordered("R0", []*model.Family{a}, []*model.Family{b})
	// R1 shares nothing with R0 and is only reachable through R2, crossed.
	r1 := bordered("R1", []*model.Family{d}, []*model.Family{c})
	r2 := bordered("R2", []*model.Family{a, c}, []*model.Family{b, d})

	result := Classify([]*Region{r0, r1, r2}, overlap, Tolerance{SetSize: 1}, nil)

	require.NoError(t, result.Err())
	assert.Equal(t, 2, result.Passes)
	assert.False(t, r0.Reversed)
	assert.False(t, r2.Reversed)
	assert.True(t, r1.Reversed)
	assert.Equal(t, []*model.Family{c}, r1.BorderFamilies(0))
	assert.Equal(t, []*model.Family{d}, r1.BorderFamilies(1))
}

func TestClassify_StallLeavesRegionsFlagged(t *testing.T) {
	rep := &logger.RecordingReporter{}
	r0 := bordered("R0", fams("a"), fams("b"))
	r1 := bordered("R1", fams("c"), fams("d"))

	result := Classify([]*Region{r0, r1}, never, Tolerance{SetSize: 1}, rep)

	assert.Equal(t, 1, result.Passes)
	assert.Equal(t, []*Region{r1}, result.Unclassified)
	assert.True(t, r1.Unclassified)
	assert.False(t, r1.Reversed)

	var stall *StallError
	require.ErrorAs(t, result.Err(), &stall)
	assert.Equal(t, []string{"R1"}, stall.Regions)
	assert.Len(t, rep.Warnings, 1)
}

func TestClassify_ReversalIsSymmetric(t *testing.T) {
	f := fams("a", "b", "c", "d", "e", "g")
	left, right := f[:3], f[3:]
	straight := bordered("S", left, right)
	crossed := bordered("X", right, left)
	ref := bordered("R", left, right)

	result := Classify([]*Region{ref, straight, crossed}, sameList, Tolerance{SetSize: 3}, nil)
	require.NoError(t, result.Err())
	assert.False(t, straight.Reversed)
	assert.True(t, crossed.Reversed)
	assert.Equal(t, left, crossed.BorderFamilies(0))
	assert.Equal(t, right, crossed.BorderFamilies(1))
}

func TestClassify_ShortBordersNeverMatch(t *testing.T) {
	f := fams("a", "b")
	r0 := bordered("R0", f[:1], f[1:])
	r1 := bordered("R1", f[:1], f[1:])

	result := Classify([]*Region{r0, r1}, sameList, Tolerance{SetSize: 3}, nil)
	assert.Equal(t, []*Region{r1}, result.Unclassified)
}

func TestJaccardDistances(t *testing.T) {
	f := fams("a", "b", "c")
	regions := []*Region{
		withContent("x", f[:2]),
		withContent("y", f[1:]),
		withContent("empty1", nil),
		withContent("empty2", nil),
	}
	dist := JaccardDistances(regions)

	assert.InDelta(t, 1-1.0/3, dist[0][1], 1e-9)
	assert.InDelta(t, dist[0][1], dist[1][0], 1e-9)
	assert.Equal(t, 0.0, dist[0][0])
	assert.Equal(t, 1.0, dist[0][2])
	assert.Equal(t, 0.0, dist[2][3])
}

func TestOrder_GroupsSimilarRegions(t *testing.T) {
	f := fams("a", "b", "c", "x", "y")
	regions := []*Region{
		withContent("A", f[:3]),
		withContent("B", f[3:]),
		withContent("C", f[:3]),
	}

	ordered := Order(regions)
	assert.Equal(t, []string{"B", "A", "C"}, regionNames(ordered))
}

func TestOrder_IsPermutation(t *testing.T) {
	f := fams("a", "b", "c", "d", "e")
	var regions []*Region
	for i := range f {
		regions = append(regions, withContent(f[i].Name, f[:i+1]))
	}
	ordered := Order(regions)
	assert.ElementsMatch(t, regionNames(regions), regionNames(ordered))
}

func TestOrder_SmallInputs(t *testing.T) {
	assert.Empty(t, Order(nil))
	one := []*Region{withContent("only", nil)}
	assert.Equal(t, one, Order(one))
}

func TestSingleLinkage_Deterministic(t *testing.T) {
	dist := [][]float64{
		{0, 1, 0},
		{1, 0, 1},
		{0, 1, 0},
	}
	merges := SingleLinkage(dist)
	require.Len(t, merges, 2)
	assert.Equal(t, Merge{Left: 0, Right: 2, Distance: 0, Size: 2}, merges[0])
	assert.Equal(t, Merge{Left: 1, Right: 3, Distance: 1, Size: 3}, merges[1])
	assert.Equal(t, []int{1, 0, 2}, LeafOrder(3, merges))
}

func TestLeafOrder_DeepChain(t *testing.T) {
	const n = 200000
	merges := make([]Merge, n-1)
	merges[0] = Merge{Left: 0, Right: 1, Size: 2}
	for i := 1; i < n-1; i++ {
		merges[i] = Merge{Left: i + 1, Right: n + i - 1, Size: i + 2}
	}

	order := LeafOrder(n, merges)
	require.Len(t, order, n)
	assert.Equal(t, n-1, order[0])
	assert.Equal(t, []int{0, 1}, order[n-2:])
}

func newEngine(p *model.Pangenome, rep logger.Reporter) *Engine {
	params := model.DefaultParameters()
	return &Engine{
		Equivalence: sameList,
		Tolerance:   ToleranceFrom(params),
		Multigenic:  p.Multigenics(params.DupMargin),
		Reporter:    rep,
	}
}

func TestEngineLayout_Fixture(t *testing.T) {
	p := fixture.Pangenome()
	spot, err := p.SpotByID(1)
	require.NoError(t, err)

	layout := newEngine(p, nil).Layout(spot)
	require.NoError(t, layout.Err())

	assert.Equal(t, []string{"RGP_C", "RGP_A", "RGP_B"}, regionNames(layout.Ordered))
	require.Len(t, layout.Rows, 2)
	assert.Equal(t, "RGP_C", layout.Rows[0].Region.Name())
	assert.Equal(t, 1, layout.Rows[0].Occurrences)
	assert.True(t, layout.Rows[0].Region.Reversed)
	assert.Equal(t, "RGP_A", layout.Rows[1].Region.Name())
	assert.Equal(t, 2, layout.Rows[1].Occurrences)

	// RGP_C reads S1 C2 S2 once flipped, like its reference
	assert.Equal(t, []string{"P1", "P2", "P3", "S1", "C2", "S2", "P4", "P5", "P6"},
		geneFamilies(layout.Rows[0].Region.Genes))
}

func TestEngineLayout_SingleRegionSpot(t *testing.T) {
	p := fixture.Pangenome()
	spot, err := p.SpotByID(2)
	require.NoError(t, err)

	layout := newEngine(p, nil).Layout(spot)
	require.NoError(t, layout.Err())
	require.Len(t, layout.Rows, 1)
	assert.Equal(t, "RGP_D", layout.Rows[0].Region.Name())
	assert.False(t, layout.Rows[0].Region.Reversed)
}

func TestEngineLayout_StallIsReported(t *testing.T) {
	p := fixture.Pangenome()
	spot, err := p.SpotByID(1)
	require.NoError(t, err)
	rep := &logger.RecordingReporter{}

	e := newEngine(p, rep)
	e.Equivalence = never
	layout := e.Layout(spot)

	var stall *StallError
	require.ErrorAs(t, layout.Err(), &stall)
	assert.Equal(t, "spot_1", stall.Spot)
	assert.ElementsMatch(t, []string{"RGP_B", "RGP_C"}, stall.Regions)
	// unclassified regions still appear in the layout
	assert.Len(t, layout.Ordered, 3)
	assert.NotEmpty(t, rep.Warnings)
}

func TestIdentical(t *testing.T) {
	p := fixture.Pangenome()
	spot, err := p.SpotByID(1)
	require.NoError(t, err)

	assert.Equal(t, []IdenticalPair{
		{"RGP_A", "orgA", "RGP_A", "orgA"},
		{"RGP_A", "orgA", "RGP_B", "orgB"},
		{"RGP_C", "orgC", "RGP_C", "orgC"},
	}, Identical(spot))
}

func TestEngineLayouts(t *testing.T) {
	p := fixture.Pangenome()
	rep := &logger.RecordingReporter{}

	layouts, err := newEngine(p, rep).Layouts(context.Background(), p.Spots(), 4)
	require.NoError(t, err)
	require.Len(t, layouts, 2)
	assert.Equal(t, "spot_1", layouts[0].Spot.Name())
	assert.Equal(t, "spot_2", layouts[1].Spot.Name())
	assert.Empty(t, rep.Warnings)
}

func TestEngineLayouts_Canceled(t *testing.T) {
	p := fixture.Pangenome()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newEngine(p, nil).Layouts(ctx, p.Spots(), 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLayoutView(t *testing.T) {
	p := fixture.Pangenome()
	spot, err := p.SpotByID(1)
	require.NoError(t, err)

	view := newEngine(p, nil).Layout(spot).View()
	assert.Equal(t, "spot_1", view.Spot)
	require.Len(t, view.Regions, 2)
	assert.Equal(t, "orgC", view.Regions[0].Organism)
	assert.Equal(t, []string{"P3", "P2", "P1"}, view.Regions[1].LeftBorder)
	assert.Equal(t, "persistent", view.Regions[1].Genes[0].Partition)
	assert.Empty(t, view.Unclassified)
}

func TestSelectSpots(t *testing.T) {
	p := fixture.Pangenome()

	all, missing, err := SelectSpots(p.Spots(), []string{"all"})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Empty(t, missing)

	syn, _, err := SelectSpots(p.Spots(), []string{SelectSynteny})
	require.NoError(t, err)
	require.Len(t, syn, 1)
	assert.Equal(t, 1, syn[0].ID)

	picked, missing, err := SelectSpots(p.Spots(), []string{"spot_2", "7", "2"})
	require.NoError(t, err)
	require.Len(t, picked, 1)
	assert.Equal(t, 2, picked[0].ID)
	assert.Equal(t, []string{"spot_7"}, missing)

	_, _, err = SelectSpots(p.Spots(), []string{"spot_x"})
	assert.Error(t, err)
}
