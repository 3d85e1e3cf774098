// Package flank compares the borders of regions of genomic plasticity.
//
// A border is the ordered list of persistent marker families flanking a
// region, nearest first. Two borders flank the same location when their
// nearest markers agree, or when one border is the other shifted by a few
// markers, as happens when a marker gene is missing or was not annotated.
package flank

import (
	"github.com/yumyai/pangtable/pkg/model"
)

// Match reports whether borders a and b are equivalent.
//
// Both borders must hold setSize markers. They match when their first
// exactMatch markers are the same, or when dropping between 1 and
// setSize-overlappingMatch leading markers from one border leaves a prefix
// of the other.
func Match(a, b []*model.Family, overlappingMatch, setSize, exactMatch int) bool {
	if setSize <= 0 || len(a) < setSize || len(b) < setSize {
		return false
	}
	a, b = a[:setSize], b[:setSize]

	if exactMatch > 0 && samePrefix(a, b, exactMatch) {
		return true
	}
	for shift := 1; shift <= setSize-overlappingMatch; shift++ {
		if samePrefix(a, b[shift:], setSize-shift) {
			return true
		}
		if samePrefix(a[shift:], b, setSize-shift) {
			return true
		}
	}
	return false
}

func samePrefix(a, b []*model.Family, n int) bool {
	if n > len(a) || n > len(b) {
		return false
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Matcher is the border equivalence used when laying out spots.
type Matcher struct{}

func (Matcher) Equivalent(a, b []*model.Family, overlappingMatch, setSize, exactMatch int) bool {
	return Match(a, b, overlappingMatch, setSize, exactMatch)
}
