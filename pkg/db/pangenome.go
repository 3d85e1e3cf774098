package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/yumyai/pangtable/pkg/model"

	_ "modernc.org/sqlite"
)

// Schema of the pangenome store. Gene positions are the order of coding
// genes on their contig, starting at zero; RNA genes have no family.
const Schema = `
CREATE TABLE IF NOT EXISTS parameters (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS families (
	name      TEXT PRIMARY KEY,
	partition TEXT NOT NULL,
	sequence  TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS contigs (
	name     TEXT PRIMARY KEY,
	organism TEXT NOT NULL,
	circular INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS genes (
	id          TEXT PRIMARY KEY,
	contig      TEXT NOT NULL REFERENCES contigs(name),
	family      TEXT REFERENCES families(name),
	local_id    TEXT NOT NULL DEFAULT '',
	name        TEXT NOT NULL DEFAULT '',
	product     TEXT NOT NULL DEFAULT '',
	type        TEXT NOT NULL DEFAULT 'CDS',
	strand      TEXT NOT NULL DEFAULT '+',
	start       INTEGER NOT NULL,
	stop        INTEGER NOT NULL,
	position    INTEGER NOT NULL,
	is_fragment INTEGER NOT NULL DEFAULT 0,
	sequence    TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS rgps (
	name       TEXT PRIMARY KEY,
	contig     TEXT NOT NULL REFERENCES contigs(name),
	start_gene TEXT NOT NULL REFERENCES genes(id),
	stop_gene  TEXT NOT NULL REFERENCES genes(id)
);
CREATE TABLE IF NOT EXISTS spot_regions (
	spot_id INTEGER NOT NULL,
	rgp     TEXT NOT NULL REFERENCES rgps(name),
	rank    INTEGER NOT NULL,
	PRIMARY KEY (spot_id, rgp)
);
`

// Parameter keys stored in the parameters table.
const (
	ParamSetSize          = "set_size"
	ParamOverlappingMatch = "overlapping_match"
	ParamExactMatch       = "exact_match"
	ParamDupMargin        = "dup_margin"
)

type PangenomeDB struct {
	sql *sql.DB
}

func NewPangenomeDB(db *sql.DB) *PangenomeDB {
	return &PangenomeDB{sql: db}
}

// Open connects to the sqlite file at path. Use ":memory:" for a throwaway store.
func Open(path string) (*PangenomeDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open pangenome %s: %w", path, err)
	}
	if path == ":memory:" {
		// every connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	return NewPangenomeDB(db), nil
}

func (pdb *PangenomeDB) Close() error {
	return pdb.sql.Close()
}

func (pdb *PangenomeDB) CreateSchema(ctx context.Context) error {
	if _, err := pdb.sql.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Load reads the whole pangenome into memory.
func (pdb *PangenomeDB) Load(ctx context.Context) (*model.Pangenome, error) {
	p := model.NewPangenome()

	steps := []struct {
		name string
		load func(context.Context, *model.Pangenome) error
	}{
		{"parameters", pdb.loadParameters},
		{"families", pdb.loadFamilies},
		{"contigs", pdb.loadContigs},
		{"genes", pdb.loadGenes},
		{"regions", pdb.loadRegions},
		{"spots", pdb.loadSpots},
	}
	for _, step := range steps {
		if err := step.load(ctx, p); err != nil {
			return nil, fmt.Errorf("load %s: %w", step.name, err)
		}
	}
	return p, nil
}

func (pdb *PangenomeDB) loadParameters(ctx context.Context, p *model.Pangenome) error {
	rows, err := pdb.sql.QueryContext(ctx, `SELECT key, value FROM parameters`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		if err := setParameter(&p.Params, key, value); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return p.Params.Validate()
}

func setParameter(params *model.Parameters, key, value string) error {
	var err error
	switch key {
	case ParamSetSize:
		params.SetSize, err = strconv.Atoi(value)
	case ParamOverlappingMatch:
		params.OverlappingMatch, err = strconv.Atoi(value)
	case ParamExactMatch:
		params.ExactMatch, err = strconv.Atoi(value)
	case ParamDupMargin:
		params.DupMargin, err = strconv.ParseFloat(value, 64)
	default:
		// unknown keys belong to other tools
		return nil
	}
	if err != nil {
		return fmt.Errorf("parameter %s=%q: %w", key, value, err)
	}
	return nil
}

func (pdb *PangenomeDB) loadFamilies(ctx context.Context, p *model.Pangenome) error {
	rows, err := pdb.sql.QueryContext(ctx, `SELECT name, partition, sequence FROM families ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var f model.Family
		var partition string
		if err := rows.Scan(&f.Name, &partition, &f.Sequence); err != nil {
			return err
		}
		if f.Partition, err = model.ParsePartition(partition); err != nil {
			return fmt.Errorf("family %s: %w", f.Name, err)
		}
		if err := p.AddFamily(&f); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (pdb *PangenomeDB) loadContigs(ctx context.Context, p *model.Pangenome) error {
	rows, err := pdb.sql.QueryContext(ctx, `SELECT name, organism, circular FROM contigs ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name, organism string
		var circular bool
		if err := rows.Scan(&name, &organism, &circular); err != nil {
			return err
		}
		p.AddContig(&model.Contig{Name: name, Organism: p.Organism(organism), Circular: circular})
	}
	return rows.Err()
}

func (pdb *PangenomeDB) loadGenes(ctx context.Context, p *model.Pangenome) error {
	contigs := make(map[string]*model.Contig, len(p.Contigs()))
	for _, c := range p.Contigs() {
		contigs[c.Name] = c
	}

	rows, err := pdb.sql.QueryContext(ctx, `
		SELECT g.id, g.contig, g.family, g.local_id, g.name, g.product, g.type, g.strand,
			g.start, g.stop, g.position, g.is_fragment, g.sequence
		FROM genes g
		JOIN contigs c ON c.name = g.contig
		ORDER BY c.rowid, g.position, g.start`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var g model.Gene
		var contig string
		var family sql.NullString
		if err := rows.Scan(&g.ID, &contig, &family, &g.LocalID, &g.Name, &g.Product, &g.Type, &g.Strand,
			&g.Start, &g.Stop, &g.Position, &g.IsFragment, &g.Sequence); err != nil {
			return err
		}
		g.Contig = contigs[contig]
		if family.Valid {
			if g.Family, err = p.FamilyByID(family.String); err != nil {
				return fmt.Errorf("gene %s: %w", g.ID, err)
			}
		}
		if err := p.AddGene(&g); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (pdb *PangenomeDB) loadRegions(ctx context.Context, p *model.Pangenome) error {
	contigs := make(map[string]*model.Contig, len(p.Contigs()))
	for _, c := range p.Contigs() {
		contigs[c.Name] = c
	}

	rows, err := pdb.sql.QueryContext(ctx, `SELECT name, contig, start_gene, stop_gene FROM rgps ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name, contig, start, stop string
		if err := rows.Scan(&name, &contig, &start, &stop); err != nil {
			return err
		}
		r := &model.RGP{Name: name, Contig: contigs[contig]}
		if r.Contig == nil {
			return fmt.Errorf("region %s: unknown contig %s", name, contig)
		}
		if r.StartGene, err = p.GeneByID(start); err != nil {
			return fmt.Errorf("region %s: %w", name, err)
		}
		if r.StopGene, err = p.GeneByID(stop); err != nil {
			return fmt.Errorf("region %s: %w", name, err)
		}
		if r.StartGene.Contig != r.Contig || r.StopGene.Contig != r.Contig {
			return fmt.Errorf("region %s: genes %s and %s must both lie on contig %s", name, start, stop, contig)
		}
		p.AddRegion(r)
	}
	return rows.Err()
}

func (pdb *PangenomeDB) loadSpots(ctx context.Context, p *model.Pangenome) error {
	regions := make(map[string]*model.RGP, len(p.Regions()))
	for _, r := range p.Regions() {
		regions[r.Name] = r
	}

	rows, err := pdb.sql.QueryContext(ctx, `SELECT spot_id, rgp FROM spot_regions ORDER BY spot_id, rank`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var current *model.Spot
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		rgp, ok := regions[name]
		if !ok {
			return fmt.Errorf("spot_%d: unknown region %s", id, name)
		}
		if current == nil || current.ID != id {
			current = &model.Spot{ID: id}
			p.AddSpot(current)
		}
		current.Regions = append(current.Regions, rgp)
	}
	return rows.Err()
}

// Save writes a pangenome into an empty store, in one transaction.
func (pdb *PangenomeDB) Save(ctx context.Context, p *model.Pangenome) (err error) {
	tx, err := pdb.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	params := map[string]string{
		ParamSetSize:          strconv.Itoa(p.Params.SetSize),
		ParamOverlappingMatch: strconv.Itoa(p.Params.OverlappingMatch),
		ParamExactMatch:       strconv.Itoa(p.Params.ExactMatch),
		ParamDupMargin:        strconv.FormatFloat(p.Params.DupMargin, 'g', -1, 64),
	}
	for _, key := range []string{ParamSetSize, ParamOverlappingMatch, ParamExactMatch, ParamDupMargin} {
		if _, err = tx.ExecContext(ctx, `INSERT INTO parameters (key, value) VALUES (?, ?)`, key, params[key]); err != nil {
			return fmt.Errorf("save parameters: %w", err)
		}
	}

	for _, f := range p.Families() {
		if _, err = tx.ExecContext(ctx, `INSERT INTO families (name, partition, sequence) VALUES (?, ?, ?)`,
			f.Name, string(f.Partition), f.Sequence); err != nil {
			return fmt.Errorf("save family %s: %w", f.Name, err)
		}
	}

	for _, c := range p.Contigs() {
		if _, err = tx.ExecContext(ctx, `INSERT INTO contigs (name, organism, circular) VALUES (?, ?, ?)`,
			c.Name, c.Organism.Name, c.Circular); err != nil {
			return fmt.Errorf("save contig %s: %w", c.Name, err)
		}
		genes := append(append([]*model.Gene{}, c.Genes...), c.RNAs...)
		for _, g := range genes {
			var family sql.NullString
			if g.Family != nil {
				family = sql.NullString{String: g.Family.Name, Valid: true}
			}
			if _, err = tx.ExecContext(ctx, `
				INSERT INTO genes (id, contig, family, local_id, name, product, type, strand,
					start, stop, position, is_fragment, sequence)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				g.ID, c.Name, family, g.LocalID, g.Name, g.Product, g.Type, g.Strand,
				g.Start, g.Stop, g.Position, g.IsFragment, g.Sequence); err != nil {
				return fmt.Errorf("save gene %s: %w", g.ID, err)
			}
		}
	}

	for _, r := range p.Regions() {
		if _, err = tx.ExecContext(ctx, `INSERT INTO rgps (name, contig, start_gene, stop_gene) VALUES (?, ?, ?, ?)`,
			r.Name, r.Contig.Name, r.StartGene.ID, r.StopGene.ID); err != nil {
			return fmt.Errorf("save region %s: %w", r.Name, err)
		}
	}

	for _, s := range p.Spots() {
		for rank, r := range s.Regions {
			if _, err = tx.ExecContext(ctx, `INSERT INTO spot_regions (spot_id, rgp, rank) VALUES (?, ?, ?)`,
				s.ID, r.Name, rank); err != nil {
				return fmt.Errorf("save %s: %w", s.Name(), err)
			}
		}
	}

	return tx.Commit()
}
