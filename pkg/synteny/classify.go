package synteny

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yumyai/pangtable/logger"
)

// StallError lists the regions that could not be oriented against the
// reference region.
type StallError struct {
	Spot    string
	Regions []string
}

func (e *StallError) Error() string {
	where := ""
	if e.Spot != "" {
		where = " in " + e.Spot
	}
	return fmt.Sprintf("%d region(s)%s could not be oriented against the reference: %s",
		len(e.Regions), where, strings.Join(e.Regions, ", "))
}

// Classification is the outcome of orienting a set of regions.
type Classification struct {
	// Regions is the input slice; classified regions now share the orientation of region 0.
	Regions []*Region
	// Unclassified keeps the regions left over when a pass made no progress.
	Unclassified []*Region
	// Passes is the number of passes run, the last one being the first without progress.
	Passes int
}

// Err reports leftover regions as a StallError, or nil.
func (c *Classification) Err() error {
	if len(c.Unclassified) == 0 {
		return nil
	}
	names := make([]string, len(c.Unclassified))
	for i, r := range c.Unclassified {
		names[i] = r.Name()
	}
	return &StallError{Regions: names}
}

// Classify orients every region like region 0, as far as border evidence
// allows.
//
// Each pass compares the regions classified by the previous pass with every
// region still unclassified. A region whose borders match straight keeps its
// orientation; one whose borders match crossed is reversed. Regions that
// failed against a classified region are not compared with it again, since
// neither side changes afterwards. Iteration stops on the first pass that
// classifies nothing.
func Classify(regions []*Region, eq BorderEquivalence, tol Tolerance, rep logger.Reporter) *Classification {
	if rep == nil {
		rep = logger.NopReporter{}
	}
	result := &Classification{Regions: regions}
	if len(regions) <= 1 {
		return result
	}

	frontier := []int{0}
	unclassified := make([]int, 0, len(regions)-1)
	for i := 1; i < len(regions); i++ {
		unclassified = append(unclassified, i)
	}

	for len(unclassified) > 0 {
		result.Passes++
		var next []int
		for _, ci := range frontier {
			ref := regions[ci]
			left, right := ref.BorderFamilies(0), ref.BorderFamilies(1)

			remaining := unclassified[:0]
			for _, ui := range unclassified {
				cand := regions[ui]
				b0, b1 := cand.BorderFamilies(0), cand.BorderFamilies(1)
				switch {
				case equivalent(eq, left, b0, tol) && equivalent(eq, right, b1, tol):
					next = append(next, ui)
				case equivalent(eq, right, b0, tol) && equivalent(eq, left, b1, tol):
					cand.reverse()
					next = append(next, ui)
				default:
					remaining = append(remaining, ui)
				}
			}
			unclassified = remaining
		}

		if len(next) == 0 {
			break
		}
		frontier = next
	}

	for _, ui := range unclassified {
		regions[ui].Unclassified = true
		result.Unclassified = append(result.Unclassified, regions[ui])
	}
	if len(result.Unclassified) > 0 {
		rep.Warn("Regions could not be oriented against the reference",
			zap.String("reference", regions[0].Name()),
			zap.Int("unclassified", len(result.Unclassified)),
			zap.Error(result.Err()))
	}
	return result
}
