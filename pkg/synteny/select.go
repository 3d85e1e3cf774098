package synteny

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yumyai/pangtable/pkg/model"
)

const (
	SelectAll     = "all"
	SelectSynteny = "synteny"
)

// ParseSpotID accepts "12" as well as "spot_12".
func ParseSpotID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(s, "spot_"))
	if err != nil {
		return 0, fmt.Errorf("invalid spot id %q", s)
	}
	return id, nil
}

// SelectSpots picks spots by selector: "all", "synteny" (spots with more
// than one gene organisation) or explicit ids. Ids that match no spot are
// returned as missing, in the given order.
func SelectSpots(spots []*model.Spot, selectors []string) (selected []*model.Spot, missing []string, err error) {
	for _, s := range selectors {
		if s == SelectAll {
			return spots, nil, nil
		}
	}
	for _, s := range selectors {
		if s == SelectSynteny {
			for _, spot := range spots {
				if spot.OrganisationCount() > 1 {
					selected = append(selected, spot)
				}
			}
			return selected, nil, nil
		}
	}

	wanted := make(map[int]bool)
	var order []int
	for _, s := range selectors {
		id, err := ParseSpotID(s)
		if err != nil {
			return nil, nil, err
		}
		if !wanted[id] {
			wanted[id] = true
			order = append(order, id)
		}
	}
	found := make(map[int]bool)
	for _, spot := range spots {
		if wanted[spot.ID] {
			selected = append(selected, spot)
			found[spot.ID] = true
		}
	}
	for _, id := range order {
		if !found[id] {
			missing = append(missing, fmt.Sprintf("spot_%d", id))
		}
	}
	return selected, missing, nil
}

// MultiOrganisation keeps the spots with more than one gene organisation.
func MultiOrganisation(spots []*model.Spot) []*model.Spot {
	var out []*model.Spot
	for _, s := range spots {
		if s.OrganisationCount() > 1 {
			out = append(out, s)
		}
	}
	return out
}
