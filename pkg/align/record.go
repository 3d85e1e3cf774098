// Reading and cleaning of aligner hit tables

package align

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// DefaultIDTag is prepended to target ids when the aligner databases are
// written, and stripped again from the hit table.
const DefaultIDTag = "pangtable_"

// Record is one aligner hit. Fields 0 and 1 are the query and target ids,
// the rest are passed through untouched.
type Record struct {
	Line   int
	Fields []string
}

func (r Record) Query() string  { return r.Fields[0] }
func (r Record) Target() string { return r.Fields[1] }

func (r Record) String() string {
	return strings.Join(r.Fields, "\t")
}

// FormatError is a hit line without at least a query and a target.
type FormatError struct {
	Line int
	Text string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("hit table line %d: expected at least 2 fields, got %q", e.Line, e.Text)
}

// ParseRecord splits a hit line on whitespace and strips the id tag from
// the query and target ids.
func ParseRecord(line string, lineNo int, tag string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Record{}, &FormatError{Line: lineNo, Text: line}
	}
	if tag != "" {
		fields[0] = strings.TrimPrefix(fields[0], tag)
		fields[1] = strings.TrimPrefix(fields[1], tag)
	}
	return Record{Line: lineNo, Fields: fields}, nil
}

// Normalizer streams hit records, writing every cleaned record to the output
// table in the order the aligner emitted them.
type Normalizer struct {
	Tag string

	scanner *bufio.Scanner
	out     *bufio.Writer
	line    int
	current Record
	err     error
}

// NewNormalizer reads hits from r. out may be nil when no cleaned table is wanted.
func NewNormalizer(r io.Reader, out io.Writer, tag string) *Normalizer {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	n := &Normalizer{Tag: tag, scanner: scanner}
	if out != nil {
		n.out = bufio.NewWriter(out)
	}
	return n
}

// Next advances to the next record. Blank lines are skipped.
func (n *Normalizer) Next() bool {
	if n.err != nil {
		return false
	}
	for n.scanner.Scan() {
		n.line++
		text := n.scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		rec, err := ParseRecord(text, n.line, n.Tag)
		if err != nil {
			n.err = err
			return false
		}
		if n.out != nil {
			if _, err := n.out.WriteString(rec.String() + "\n"); err != nil {
				n.err = fmt.Errorf("write cleaned hit: %w", err)
				return false
			}
		}
		n.current = rec
		return true
	}
	if err := n.scanner.Err(); err != nil {
		n.err = fmt.Errorf("read hit table: %w", err)
	}
	return false
}

func (n *Normalizer) Record() Record {
	return n.current
}

// Err returns the first error met. Pending output is flushed even on success,
// so Err must be called once iteration is done.
func (n *Normalizer) Err() error {
	if n.out != nil {
		if err := n.out.Flush(); err != nil && n.err == nil {
			n.err = fmt.Errorf("flush cleaned hits: %w", err)
		}
	}
	return n.err
}

// Normalize copies every cleaned record from r to w.
func Normalize(r io.Reader, w io.Writer, tag string) (int, error) {
	n := NewNormalizer(r, w, tag)
	count := 0
	for n.Next() {
		count++
	}
	return count, n.Err()
}
