package align

import (
	"fmt"
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// sequences inspected when guessing the input alphabet
const guessWindow = 20

// ReadQueryIDs returns the sequence ids of a FASTA stream in file order,
// without repeats, and guesses whether the sequences are nucleotides from
// the first few records.
func ReadQueryIDs(r io.Reader) ([]string, bool, error) {
	template := linear.NewSeq("", nil, alphabet.Protein)
	scanner := seqio.NewScanner(fasta.NewReader(r, template))

	var ids []string
	seen := make(map[string]struct{})
	nucleotide := true
	count := 0

	for scanner.Next() {
		s, ok := scanner.Seq().(*linear.Seq)
		if !ok {
			return nil, false, fmt.Errorf("unexpected sequence type %T", scanner.Seq())
		}
		id := s.Name()
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		if count < guessWindow {
			for _, l := range s.Seq {
				if !isDNALetter(byte(l)) {
					nucleotide = false
					break
				}
			}
		}
		count++
	}
	if err := scanner.Error(); err != nil {
		return nil, false, fmt.Errorf("read query sequences: %w", err)
	}
	return ids, nucleotide && count > 0, nil
}

func isDNALetter(b byte) bool {
	switch b {
	case 'A', 'T', 'G', 'C', 'N', 'a', 't', 'g', 'c', 'n':
		return true
	}
	return false
}
