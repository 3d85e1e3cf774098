package request

import (
	"errors"
	"strings"

	"github.com/yumyai/pangtable/pkg/align"
)

// AlignRequest carries query sequences and the hits an aligner produced for
// them against the exported targets.
type AlignRequest struct {
	Queries     string `json:"queries"`      // FASTA text
	Hits        string `json:"hits"`         // tab separated hit table, tagged ids
	Mode        string `json:"mode"`         // representative or exhaustive
	Annotate    bool   `json:"annotate"`     // add spot and RGP context
	DrawRelated bool   `json:"draw_related"` // lay out the related spots
}

var (
	ErrNoQueries = errors.New("queries cannot be empty")
	ErrNoHits    = errors.New("hits cannot be empty")
)

// Validate checks the request and returns the parsed mode.
func (r AlignRequest) Validate() (align.Mode, error) {
	if strings.TrimSpace(r.Queries) == "" {
		return 0, ErrNoQueries
	}
	if strings.TrimSpace(r.Hits) == "" {
		return 0, ErrNoHits
	}
	return align.ParseMode(r.Mode)
}

// Get the layout of one spot
type SpotGetRequest struct {
	SpotID int    `json:"spot_id"`
	Format Format `json:"format"`
}
