package synteny

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yumyai/pangtable/logger"
	"github.com/yumyai/pangtable/pkg/model"
)

// IdenticalPair links a representative RGP to an RGP with the same gene
// organisation. Every representative is paired with itself too.
type IdenticalPair struct {
	Representative         string `json:"representative_rgp"`
	RepresentativeOrganism string `json:"representative_rgp_organism"`
	Identical              string `json:"identical_rgp"`
	IdenticalOrganism      string `json:"identical_rgp_organism"`
}

// LayoutRow is one representative region of a spot and the number of
// regions sharing its organisation.
type LayoutRow struct {
	Region      *Region
	Occurrences int
}

// Layout is the presentation order of the regions of one spot.
type Layout struct {
	Spot      *model.Spot
	Tolerance Tolerance
	// Ordered holds every region, oriented and ordered.
	Ordered []*Region
	// Rows keeps only the representatives, in the same order.
	Rows         []LayoutRow
	Unclassified []*Region
	Identical    []IdenticalPair
}

// Err reports unclassified regions, or nil.
func (l *Layout) Err() error {
	if len(l.Unclassified) == 0 {
		return nil
	}
	names := make([]string, len(l.Unclassified))
	for i, r := range l.Unclassified {
		names[i] = r.Name()
	}
	return &StallError{Spot: l.Spot.Name(), Regions: names}
}

// Engine lays out spots. It only reads the pangenome, so one Engine can
// serve several spots at once.
type Engine struct {
	Equivalence BorderEquivalence
	Tolerance   Tolerance
	Multigenic  model.FamilySet
	Reporter    logger.Reporter
}

func (e *Engine) reporter() logger.Reporter {
	if e.Reporter == nil {
		return logger.NopReporter{}
	}
	return e.Reporter
}

// Identical lists the identical-organisation pairs of a spot.
func Identical(spot *model.Spot) []IdenticalPair {
	var pairs []IdenticalPair
	for _, group := range spot.SyntenyGroups() {
		rep := group.Representative
		for _, rgp := range group.Members {
			pairs = append(pairs, IdenticalPair{
				Representative:         rep.Name,
				RepresentativeOrganism: rep.Organism().Name,
				Identical:              rgp.Name,
				IdenticalOrganism:      rgp.Organism().Name,
			})
		}
	}
	return pairs
}

// Layout orients the regions of a spot, orders them by gene content and
// keeps one region per gene organisation.
func (e *Engine) Layout(spot *model.Spot) *Layout {
	rep := e.reporter()
	regions := Regions(spot, e.Tolerance.SetSize, e.Multigenic)

	classification := Classify(regions, e.Equivalence, e.Tolerance, rep)
	ordered := Order(classification.Regions)

	counts := make(map[*model.RGP]int)
	for _, group := range spot.SyntenyGroups() {
		counts[group.Representative] = len(group.Members)
	}
	var rows []LayoutRow
	for _, r := range ordered {
		if n, ok := counts[r.RGP]; ok {
			rows = append(rows, LayoutRow{Region: r, Occurrences: n})
		}
	}

	layout := &Layout{
		Spot:         spot,
		Tolerance:    e.Tolerance,
		Ordered:      ordered,
		Rows:         rows,
		Unclassified: classification.Unclassified,
		Identical:    Identical(spot),
	}
	if err := layout.Err(); err != nil {
		rep.Warn("Spot layout has unoriented regions", zap.String("spot", spot.Name()), zap.Error(err))
	}
	return layout
}

// Layouts lays out several spots concurrently, at most workers at a time.
// Results follow the order of spots.
func (e *Engine) Layouts(ctx context.Context, spots []*model.Spot, workers int) ([]*Layout, error) {
	if workers < 1 {
		workers = 1
	}
	layouts := make([]*Layout, len(spots))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, spot := range spots {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			layouts[i] = e.Layout(spot)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	e.reporter().Info("Spots laid out", zap.Int("spots", len(spots)))
	return layouts, nil
}
