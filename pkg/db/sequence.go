package db

import (
	"fmt"
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/yumyai/pangtable/internal/util"
	"github.com/yumyai/pangtable/pkg/align"
	"github.com/yumyai/pangtable/pkg/model"
)

// line width of exported FASTA
const fastaWidth = 60

// Target is one sequence of the alignment database.
type Target struct {
	ID       string
	Sequence string
}

// Targets lists the sequences hits will be resolved against: family
// representatives in representative mode, every coding gene otherwise.
func Targets(p *model.Pangenome, mode align.Mode) ([]Target, error) {
	var targets []Target
	switch mode {
	case align.ExhaustiveMode:
		for _, g := range p.Genes() {
			if g.IsRNA() || g.Sequence == "" {
				continue
			}
			targets = append(targets, Target{ID: g.ID, Sequence: g.Sequence})
		}
		if len(targets) == 0 {
			return nil, model.ErrNoGeneSequences
		}
	default:
		if err := p.CheckFamilySequences(); err != nil {
			return nil, err
		}
		for _, f := range p.Families() {
			targets = append(targets, Target{ID: f.Name, Sequence: f.Sequence})
		}
	}
	return targets, nil
}

// WriteTargets writes the targets as FASTA with every id prefixed by tag,
// the prefix hit normalization strips again. It returns the number of
// sequences written.
func WriteTargets(w io.Writer, p *model.Pangenome, mode align.Mode, tag string) (int, error) {
	targets, err := Targets(p, mode)
	if err != nil {
		return 0, err
	}
	if err := WriteFASTA(w, targets, tag, mode == align.ExhaustiveMode); err != nil {
		return 0, err
	}
	return len(targets), nil
}

// WriteFASTA writes sequences under tag+ID headers.
func WriteFASTA(w io.Writer, targets []Target, tag string, nucleotide bool) error {
	alpha := alphabet.Protein
	if nucleotide {
		alpha = alphabet.DNAredundant
	}
	fw := fasta.NewWriter(w, fastaWidth)
	for _, t := range targets {
		s := linear.NewSeq(tag+t.ID, alphabet.BytesToLetters([]byte(t.Sequence)), alpha)
		if _, err := fw.Write(s); err != nil {
			return fmt.Errorf("write sequence %s: %w", t.ID, err)
		}
	}
	return nil
}

// FamilyTargets lists the representative of a family, or its member genes.
func FamilyTargets(f *model.Family, genes bool) []Target {
	if !genes {
		return []Target{{ID: f.Name, Sequence: f.Sequence}}
	}
	var targets []Target
	for _, g := range f.Genes {
		if g.Sequence != "" {
			targets = append(targets, Target{ID: g.ID, Sequence: g.Sequence})
		}
	}
	return targets
}

// ExportTargets writes the targets to path, gzip compressed for ".gz" names.
func ExportTargets(path string, p *model.Pangenome, mode align.Mode, tag string) (n int, err error) {
	w, err := util.CreateMaybeGzip(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteTargets(w, p, mode, tag)
}
