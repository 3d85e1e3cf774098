package align

import (
	"fmt"
	"io"
	"sync"

	"github.com/yumyai/pangtable/pkg/model"
)

// Mode tells what the target id of a hit designates.
type Mode int

const (
	// RepresentativeMode: targets are gene family names.
	RepresentativeMode Mode = iota
	// ExhaustiveMode: targets are pangenome genes, resolved to their family.
	ExhaustiveMode
)

func (m Mode) String() string {
	switch m {
	case RepresentativeMode:
		return "representative"
	case ExhaustiveMode:
		return "exhaustive"
	default:
		return "unknown"
	}
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "representative", "rep", "":
		return RepresentativeMode, nil
	case "exhaustive", "all":
		return ExhaustiveMode, nil
	}
	return 0, fmt.Errorf("unknown alignment mode %q", s)
}

// CleanedTableName is the file the normalized hits are written to.
func (m Mode) CleanedTableName() string {
	if m == ExhaustiveMode {
		return "alignment_input_seqs_to_all_pangenome_genes.tsv"
	}
	return "alignment_input_seqs_to_pangenome_gene_families.tsv"
}

// Lookup is the part of the pangenome hit resolution depends on.
type Lookup interface {
	FamilyByID(id string) (*model.Family, error)
	GeneByID(id string) (*model.Gene, error)
}

// IntegrityError means a hit points at something the pangenome does not
// know: the alignment database and the pangenome are out of sync.
type IntegrityError struct {
	Line   int
	Query  string
	Target string
	Err    error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("hit line %d (%s -> %s): target not in pangenome: %v", e.Line, e.Query, e.Target, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }

// SeqFamilyMap assigns each query at most one family. The first assignment
// wins and is never overwritten. Safe for concurrent use.
type SeqFamilyMap struct {
	mu      sync.RWMutex
	order   []string
	mapping map[string]*model.Family
}

func NewSeqFamilyMap() *SeqFamilyMap {
	return &SeqFamilyMap{mapping: make(map[string]*model.Family)}
}

// SetIfAbsent stores fam for query unless the query is already assigned,
// and reports whether it did.
func (m *SeqFamilyMap) SetIfAbsent(query string, fam *model.Family) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.mapping[query]; ok {
		return false
	}
	m.mapping[query] = fam
	m.order = append(m.order, query)
	return true
}

func (m *SeqFamilyMap) Has(query string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.mapping[query]
	return ok
}

func (m *SeqFamilyMap) Get(query string) (*model.Family, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fam, ok := m.mapping[query]
	return fam, ok
}

func (m *SeqFamilyMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}

// Queries lists assigned queries in assignment order.
func (m *SeqFamilyMap) Queries() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}

// Resolver turns hits into family assignments.
//
// The first hit seen for a query wins whatever its score: the aligner is
// expected to emit the hits of a query best first. Later hits of an already
// assigned query are not even resolved against the pangenome.
type Resolver struct {
	Mode   Mode
	Lookup Lookup
	Map    *SeqFamilyMap
}

func NewResolver(mode Mode, lookup Lookup) *Resolver {
	return &Resolver{Mode: mode, Lookup: lookup, Map: NewSeqFamilyMap()}
}

// Add applies one record.
func (r *Resolver) Add(rec Record) error {
	query := rec.Query()
	if r.Map.Has(query) {
		return nil
	}
	fam, err := r.family(rec.Target())
	if err != nil {
		return &IntegrityError{Line: rec.Line, Query: query, Target: rec.Target(), Err: err}
	}
	r.Map.SetIfAbsent(query, fam)
	return nil
}

func (r *Resolver) family(target string) (*model.Family, error) {
	if r.Mode == RepresentativeMode {
		return r.Lookup.FamilyByID(target)
	}
	gene, err := r.Lookup.GeneByID(target)
	if err != nil {
		return nil, err
	}
	if gene.Family == nil {
		return nil, fmt.Errorf("gene %s (%s) has no family", gene.ID, gene.Type)
	}
	return gene.Family, nil
}

// Resolve normalizes the hit table read from hits, writes the cleaned table
// to cleaned (may be nil) and returns the query assignments.
func Resolve(hits io.Reader, cleaned io.Writer, tag string, mode Mode, lookup Lookup) (*SeqFamilyMap, error) {
	resolver := NewResolver(mode, lookup)
	n := NewNormalizer(hits, cleaned, tag)
	for n.Next() {
		if err := resolver.Add(n.Record()); err != nil {
			_ = n.Err() // flush
			return nil, err
		}
	}
	if err := n.Err(); err != nil {
		return nil, err
	}
	return resolver.Map, nil
}
