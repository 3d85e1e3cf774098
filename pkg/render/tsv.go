// Tab-separated reports written by the align and spots commands

package render

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yumyai/pangtable/pkg/align"
	"github.com/yumyai/pangtable/pkg/index"
	"github.com/yumyai/pangtable/pkg/synteny"
)

const (
	PartitionProjectionFile = "sequences_partition_projection.tsv"
	FamilyProjectionFile    = "gene_to_gene_family.tsv"
	AnnotationFile          = "info_input_seq.tsv"
)

var (
	annotationHeader = []string{"input", "family", "partition", "spot_list_as_member", "spot_list_as_border", "rgp_list"}
	identicalHeader  = []string{"representative_rgp", "representative_rgp_organism", "identical_rgp", "identical_rgp_organism"}
	layoutHeader     = []string{"rank", "rgp", "organism", "contig", "occurrences", "reversed", "unclassified", "left_border", "right_border", "families"}
)

func IdenticalFile(spot string) string {
	return spot + "_identical_rgps.tsv"
}

func LayoutFile(spot string) string {
	return spot + "_layout.tsv"
}

type tsvWriter struct {
	w   *bufio.Writer
	err error
}

func newTSVWriter(w io.Writer) *tsvWriter {
	return &tsvWriter{w: bufio.NewWriter(w)}
}

func (t *tsvWriter) row(fields ...string) {
	if t.err != nil {
		return
	}
	_, t.err = t.w.WriteString(strings.Join(fields, "\t") + "\n")
}

func (t *tsvWriter) flush() error {
	if t.err != nil {
		return t.err
	}
	return t.w.Flush()
}

// list joins a list valued column. An empty list is an empty cell.
func list(items []string) string {
	return strings.Join(items, ",")
}

// WriteProjections writes a headerless two column table.
func WriteProjections(w io.Writer, rows []align.Projection) error {
	t := newTSVWriter(w)
	for _, r := range rows {
		t.row(r.Input, r.Value)
	}
	return t.flush()
}

func WriteAnnotations(w io.Writer, rows []index.Annotation) error {
	t := newTSVWriter(w)
	t.row(annotationHeader...)
	for _, r := range rows {
		t.row(r.Input, r.Family, r.Partition, list(r.SpotsAsMember), list(r.SpotsAsBorder), list(r.RGPs))
	}
	return t.flush()
}

func WriteIdentical(w io.Writer, pairs []synteny.IdenticalPair) error {
	t := newTSVWriter(w)
	t.row(identicalHeader...)
	for _, p := range pairs {
		t.row(p.Representative, p.RepresentativeOrganism, p.Identical, p.IdenticalOrganism)
	}
	return t.flush()
}

// WriteLayout writes the representative regions of a spot in layout order.
func WriteLayout(w io.Writer, layout *synteny.Layout) error {
	view := layout.View()
	t := newTSVWriter(w)
	t.row(layoutHeader...)
	for i, r := range view.Regions {
		families := make([]string, len(r.Genes))
		for j, g := range r.Genes {
			families[j] = g.Family
		}
		t.row(
			strconv.Itoa(i+1),
			r.RGP,
			r.Organism,
			r.Contig,
			strconv.Itoa(r.Occurrences),
			strconv.FormatBool(r.Reversed),
			strconv.FormatBool(r.Unclassified),
			list(r.LeftBorder),
			list(r.RightBorder),
			list(families),
		)
	}
	return t.flush()
}

// WriteFile creates dir/name and fills it with write. It returns the path.
func WriteFile(dir, name string, write func(io.Writer) error) (path string, err error) {
	path = filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return path, write(f)
}

// WriteSpot writes the identical-RGP and layout tables of one spot.
func WriteSpot(dir string, layout *synteny.Layout) ([]string, error) {
	name := layout.Spot.Name()
	identical, err := WriteFile(dir, IdenticalFile(name), func(w io.Writer) error {
		return WriteIdentical(w, layout.Identical)
	})
	if err != nil {
		return nil, err
	}
	rows, err := WriteFile(dir, LayoutFile(name), func(w io.Writer) error {
		return WriteLayout(w, layout)
	})
	if err != nil {
		return nil, err
	}
	return []string{identical, rows}, nil
}
