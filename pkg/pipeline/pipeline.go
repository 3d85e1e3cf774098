// Package pipeline chains hit resolution, projection, region annotation and
// spot layouts for one set of query sequences.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/yumyai/pangtable/logger"
	"github.com/yumyai/pangtable/pkg/align"
	"github.com/yumyai/pangtable/pkg/index"
	"github.com/yumyai/pangtable/pkg/model"
	"github.com/yumyai/pangtable/pkg/render"
	"github.com/yumyai/pangtable/pkg/synteny"
)

type Options struct {
	Mode  align.Mode
	IDTag string
	// Annotate adds the per query spot and region report.
	Annotate bool
	// DrawRelated lays out the related spots that hold more than one gene organisation.
	DrawRelated bool
	Workers     int
}

type Result struct {
	Mode       align.Mode
	Inputs     []string
	Nucleotide bool
	Map        *align.SeqFamilyMap
	Partitions []align.Projection
	Families   []align.Projection
	// Annotated is set when the annotation step ran, even if no query mapped.
	Annotated   bool
	Annotations []index.Annotation
	Related     []*model.Spot
	Layouts     []*synteny.Layout
}

// Unmapped lists the input ids no hit assigned a family to.
func (r *Result) Unmapped() []string {
	var ids []string
	for _, id := range align.UniqueIDs(r.Inputs) {
		if !r.Map.Has(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Runner holds a loaded pangenome. The family index is built on first use
// and shared by later runs.
type Runner struct {
	Pangenome   *model.Pangenome
	Equivalence synteny.BorderEquivalence
	Reporter    logger.Reporter

	once       sync.Once
	multigenic model.FamilySet
	index      *index.FamilyIndex
}

func NewRunner(p *model.Pangenome, eq synteny.BorderEquivalence, rep logger.Reporter) *Runner {
	if rep == nil {
		rep = logger.NopReporter{}
	}
	return &Runner{Pangenome: p, Equivalence: eq, Reporter: rep}
}

func (rn *Runner) build() {
	rn.once.Do(func() {
		params := rn.Pangenome.Params
		rn.multigenic = rn.Pangenome.Multigenics(params.DupMargin)
		rn.index = index.Build(rn.Pangenome, params.SetSize, rn.multigenic)
		rn.Reporter.Info("Family index built",
			zap.Int("multigenic", len(rn.multigenic)),
			zap.Int("spots", len(rn.Pangenome.Spots())))
	})
}

// Engine returns a layout engine using the pangenome parameters.
func (rn *Runner) Engine() *synteny.Engine {
	rn.build()
	return &synteny.Engine{
		Equivalence: rn.Equivalence,
		Tolerance:   synteny.ToleranceFrom(rn.Pangenome.Params),
		Multigenic:  rn.multigenic,
		Reporter:    rn.Reporter,
	}
}

// Check fails early when the pangenome cannot serve as alignment target.
func (rn *Runner) Check(mode align.Mode) error {
	if mode == align.ExhaustiveMode {
		return rn.Pangenome.CheckGeneSequences()
	}
	return rn.Pangenome.CheckFamilySequences()
}

// Run reads the query FASTA and the hit table, writing the cleaned hits to
// cleaned when it is not nil.
func (rn *Runner) Run(ctx context.Context, queries, hits io.Reader, cleaned io.Writer, opts Options) (*Result, error) {
	if err := rn.Check(opts.Mode); err != nil {
		return nil, err
	}

	inputs, nucleotide, err := align.ReadQueryIDs(queries)
	if err != nil {
		return nil, err
	}
	rn.Reporter.Info("Read query sequences", zap.Int("sequences", len(inputs)), zap.Bool("nucleotide", nucleotide))

	m, err := align.Resolve(hits, cleaned, opts.IDTag, opts.Mode, rn.Pangenome)
	if err != nil {
		return nil, fmt.Errorf("resolve hits: %w", err)
	}

	res := &Result{
		Mode:       opts.Mode,
		Inputs:     inputs,
		Nucleotide: nucleotide,
		Map:        m,
		Partitions: align.ProjectPartitions(inputs, m),
		Families:   align.ProjectFamilies(inputs, m),
	}
	rn.Reporter.Info("Input sequences mapped to gene families",
		zap.Int("mapped", m.Len()), zap.Int("inputs", len(res.Partitions)))

	if !opts.Annotate && !opts.DrawRelated {
		return res, nil
	}
	rn.build()
	res.Annotated = true
	res.Annotations, res.Related = index.Annotate(m, rn.index)
	rn.Reporter.Info("Related spots found", zap.Int("spots", len(res.Related)))

	if opts.DrawRelated {
		drawable := synteny.MultiOrganisation(res.Related)
		if res.Layouts, err = rn.Engine().Layouts(ctx, drawable, opts.Workers); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// WriteOutputs writes the projection tables, and the annotation and spot
// tables when they were computed. It returns the paths written.
func WriteOutputs(dir string, res *Result) ([]string, error) {
	var paths []string
	write := func(name string, fn func(io.Writer) error) error {
		path, err := render.WriteFile(dir, name, fn)
		if err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		paths = append(paths, path)
		return nil
	}

	if err := write(render.PartitionProjectionFile, func(w io.Writer) error {
		return render.WriteProjections(w, res.Partitions)
	}); err != nil {
		return nil, err
	}
	if err := write(render.FamilyProjectionFile, func(w io.Writer) error {
		return render.WriteProjections(w, res.Families)
	}); err != nil {
		return nil, err
	}
	if res.Annotated {
		if err := write(render.AnnotationFile, func(w io.Writer) error {
			return render.WriteAnnotations(w, res.Annotations)
		}); err != nil {
			return nil, err
		}
	}
	for _, layout := range res.Layouts {
		spotPaths, err := render.WriteSpot(dir, layout)
		if err != nil {
			return nil, fmt.Errorf("write %s: %w", layout.Spot.Name(), err)
		}
		paths = append(paths, spotPaths...)
	}
	return paths, nil
}
