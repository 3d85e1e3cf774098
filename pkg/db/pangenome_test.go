package db

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/pangtable/internal/fixture"
	"github.com/yumyai/pangtable/internal/util"
	"github.com/yumyai/pangtable/pkg/align"
	"github.com/yumyai/pangtable/pkg/model"
)

func memoryStore(t *testing.T) *PangenomeDB {
	t.Helper()
	pdb, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { pdb.Close() })
	require.NoError(t, pdb.CreateSchema(context.Background()))
	return pdb
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	pdb := memoryStore(t)
	want := fixture.Pangenome()
	want.Params.SetSize = 4
	want.Params.DupMargin = 0.1
	require.NoError(t, pdb.Save(ctx, want))

	got, err := pdb.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, want.Params, got.Params)
	require.Len(t, got.Families(), len(want.Families()))
	assert.Equal(t, "P1", got.Families()[0].Name)
	assert.Equal(t, model.Persistent, got.Families()[0].Partition)
	assert.Equal(t, "MP1", got.Families()[0].Sequence)

	require.Len(t, got.Contigs(), 4)
	ctgA := got.Contigs()[0]
	assert.Equal(t, "orgA", ctgA.Organism.Name)
	assert.Len(t, ctgA.Genes, 9)
	require.Len(t, ctgA.RNAs, 1)
	assert.Equal(t, "orgA_tRNA", ctgA.RNAs[0].ID)

	gene, err := got.GeneByID("orgC_4")
	require.NoError(t, err)
	assert.Equal(t, "C2", gene.FamilyName())
	assert.Equal(t, 4, gene.Position)
	assert.Equal(t, "orgC", gene.Organism.Name)

	require.Len(t, got.Regions(), 4)
	assert.Equal(t, "orgA_3", got.Regions()[0].StartGene.ID)
	assert.Equal(t, "orgA_5", got.Regions()[0].StopGene.ID)

	require.Len(t, got.Spots(), 2)
	spot, err := got.SpotByID(1)
	require.NoError(t, err)
	var names []string
	for _, r := range spot.Regions {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"RGP_A", "RGP_B", "RGP_C"}, names)
}

func TestLoad_EmptyStoreKeepsDefaults(t *testing.T) {
	p, err := memoryStore(t).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultParameters(), p.Params)
	assert.Empty(t, p.Families())
	assert.ErrorIs(t, p.CheckFamilySequences(), model.ErrNoFamilySequences)
}

func TestLoad_RejectsUnknownFamily(t *testing.T) {
	ctx := context.Background()
	pdb := memoryStore(t)
	_, err := pdb.sql.ExecContext(ctx, `
		INSERT INTO contigs (name, organism) VALUES ('c', 'o');
		INSERT INTO genes (id, contig, family, start, stop, position) VALUES ('g', 'c', 'missing', 1, 10, 0);`)
	require.NoError(t, err)

	_, err = pdb.Load(ctx)
	assert.ErrorIs(t, err, model.ErrFamilyNotFound)
}

func TestLoad_BadParameter(t *testing.T) {
	tests := []struct {
		name, key, value, want string
	}{
		{"not a number", ParamSetSize, "three", "set_size"},
		{"negative set size", ParamSetSize, "-1", "set_size must not be negative"},
		{"negative overlapping match", ParamOverlappingMatch, "-2", "overlapping_match must not be negative"},
		{"negative exact match", ParamExactMatch, "-1", "exact_match must not be negative"},
		{"negative dup margin", ParamDupMargin, "-0.1", "dup_margin must be within"},
		{"dup margin above one", ParamDupMargin, "1.5", "dup_margin must be within"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			pdb := memoryStore(t)
			_, err := pdb.sql.ExecContext(ctx, `INSERT INTO parameters (key, value) VALUES (?, ?)`, tt.key, tt.value)
			require.NoError(t, err)

			_, err = pdb.Load(ctx)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad_RejectsRegionAcrossContigs(t *testing.T) {
	ctx := context.Background()
	pdb := memoryStore(t)
	_, err := pdb.sql.ExecContext(ctx, `
		INSERT INTO families (name, partition) VALUES ('F', 'shell');
		INSERT INTO contigs (name, organism) VALUES ('c1', 'o');
		INSERT INTO contigs (name, organism) VALUES ('c2', 'o');
		INSERT INTO genes (id, contig, family, start, stop, position) VALUES ('g1', 'c1', 'F', 1, 10, 0);
		INSERT INTO genes (id, contig, family, start, stop, position) VALUES ('g2', 'c2', 'F', 1, 10, 0);
		INSERT INTO rgps (name, contig, start_gene, stop_gene) VALUES ('R', 'c1', 'g1', 'g2');`)
	require.NoError(t, err)

	_, err = pdb.Load(ctx)
	assert.ErrorContains(t, err, "region R")
	assert.ErrorContains(t, err, "must both lie on contig c1")
}

func TestWriteTargets_Representative(t *testing.T) {
	p := fixture.Pangenome()
	var buf bytes.Buffer

	n, err := WriteTargets(&buf, p, align.RepresentativeMode, align.DefaultIDTag)
	require.NoError(t, err)
	assert.Equal(t, len(p.Families()), n)

	ids, _, err := align.ReadQueryIDs(&buf)
	require.NoError(t, err)
	require.Len(t, ids, n)
	assert.Equal(t, "pangtable_P1", ids[0])
}

func TestWriteTargets_ExhaustiveSkipsRNAs(t *testing.T) {
	p := fixture.Pangenome()
	var buf bytes.Buffer

	n, err := WriteTargets(&buf, p, align.ExhaustiveMode, "x_")
	require.NoError(t, err)
	assert.Equal(t, 9+9+9+5, n)
	assert.NotContains(t, buf.String(), "tRNA")
	assert.Contains(t, buf.String(), ">x_orgA_0")
}

func TestWriteTargets_MissingSequences(t *testing.T) {
	p := model.NewPangenome()
	require.NoError(t, p.AddFamily(&model.Family{Name: "F", Partition: model.Cloud}))

	_, err := WriteTargets(&bytes.Buffer{}, p, align.RepresentativeMode, "")
	assert.ErrorIs(t, err, model.ErrNoFamilySequences)

	_, err = WriteTargets(&bytes.Buffer{}, p, align.ExhaustiveMode, "")
	assert.ErrorIs(t, err, model.ErrNoGeneSequences)
}

func TestExportTargets_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "families.faa.gz")
	n, err := ExportTargets(path, fixture.Pangenome(), align.RepresentativeMode, align.DefaultIDTag)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1f, 0x8b}, raw[:2])

	r, err := util.OpenMaybeGzip(path)
	require.NoError(t, err)
	defer r.Close()
	ids, _, err := align.ReadQueryIDs(r)
	require.NoError(t, err)
	assert.Len(t, ids, n)
}

func TestFamilyTargets(t *testing.T) {
	p := fixture.Pangenome()
	s1 := fixture.Family(p, "S1")

	assert.Equal(t, []Target{{ID: "S1", Sequence: "MS1"}}, FamilyTargets(s1, false))

	genes := FamilyTargets(s1, true)
	require.Len(t, genes, 3)
	assert.Equal(t, Target{ID: "orgA_3", Sequence: "ATGS1"}, genes[0])
}
