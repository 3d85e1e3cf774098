// Package cli holds the pangtable commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yumyai/pangtable/logger"
	"github.com/yumyai/pangtable/pkg/config"
	"github.com/yumyai/pangtable/pkg/db"
	"github.com/yumyai/pangtable/pkg/model"
)

const Version = "0.1.0"

// settings is shared by every subcommand. Flags override the environment.
type settings struct {
	cfg      config.Config
	db       string
	output   string
	logLevel string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	s := &settings{}

	root := &cobra.Command{
		Use:     "pangtable",
		Short:   "Map sequences onto a pangenome and lay out its spots",
		Version: Version,
		Long: `pangtable projects query sequences onto the gene families of a
pangenome from precomputed alignment hits, finds the regions of genomic
plasticity and spots the hits fall into, and orders the regions of a spot
by synteny.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&s.db, "db", "", "pangenome database (default $"+config.EnvDB+")")
	root.PersistentFlags().StringVarP(&s.output, "output", "o", "", "output directory (default $"+config.EnvOutput+")")
	root.PersistentFlags().StringVar(&s.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(InitCmd(s))
	root.AddCommand(AlignCmd(s))
	root.AddCommand(SpotsCmd(s))
	root.AddCommand(ExportCmd(s))
	root.AddCommand(ServeCmd(s))
	return root
}

func (s *settings) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if s.db != "" {
		cfg.DB = s.db
	}
	if s.output != "" {
		cfg.Output = s.output
	}
	if s.logLevel != "" {
		cfg.LogLevel = logger.ParseLevel(s.logLevel)
	}
	s.cfg = cfg
	return logger.InitLogger(cfg.LogLevel)
}

// pangenome opens the configured database and loads it whole.
func (s *settings) pangenome(ctx context.Context) (*model.Pangenome, error) {
	store, err := db.Open(s.cfg.DB)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	p, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pangenome %s: %w", s.cfg.DB, err)
	}
	logger.Info("Pangenome loaded",
		zap.String("db", s.cfg.DB),
		zap.Int("families", len(p.Families())),
		zap.Int("spots", len(p.Spots())))
	return p, nil
}

// tolerances are the optional overrides of the parameters stored with the
// pangenome.
type tolerances struct {
	setSize          int
	overlappingMatch int
	exactMatch       int
	dupMargin        float64
}

func (t *tolerances) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&t.setSize, "set-size", 0, "marker genes compared on each border, overrides the stored value")
	f.IntVar(&t.overlappingMatch, "overlapping-match", 0, "missing markers tolerated when comparing borders, overrides the stored value")
	f.IntVar(&t.exactMatch, "exact-match", 0, "leading markers that must match exactly, overrides the stored value")
	f.Float64Var(&t.dupMargin, "dup-margin", 0, "share of organisms with copies above which a family is multigenic, overrides the stored value")
}

// apply overrides the stored parameters with the flags that were set.
func (t *tolerances) apply(cmd *cobra.Command, params *model.Parameters) error {
	f := cmd.Flags()
	if f.Changed("set-size") {
		params.SetSize = t.setSize
	}
	if f.Changed("overlapping-match") {
		params.OverlappingMatch = t.overlappingMatch
	}
	if f.Changed("exact-match") {
		params.ExactMatch = t.exactMatch
	}
	if f.Changed("dup-margin") {
		params.DupMargin = t.dupMargin
	}
	if err := params.Validate(); err != nil {
		return err
	}
	logger.Debug("Tolerance parameters",
		zap.Int("set_size", params.SetSize),
		zap.Int("overlapping_match", params.OverlappingMatch),
		zap.Int("exact_match", params.ExactMatch),
		zap.Float64("dup_margin", params.DupMargin))
	return nil
}
