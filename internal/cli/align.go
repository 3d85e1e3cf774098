package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yumyai/pangtable/internal/util"
	"github.com/yumyai/pangtable/logger"
	"github.com/yumyai/pangtable/pkg/align"
	"github.com/yumyai/pangtable/pkg/flank"
	"github.com/yumyai/pangtable/pkg/pipeline"
)

type alignOptions struct {
	queries     string
	hits        string
	mode        string
	idTag       string
	getInfo     bool
	drawRelated bool
	workers     int
	tolerances  tolerances
}

// AlignCmd maps query sequences onto gene families from a hit table.
func AlignCmd(s *settings) *cobra.Command {
	o := &alignOptions{}
	cmd := &cobra.Command{
		Use:   "align",
		Short: "Project query sequences onto the pangenome families",
		Long: `align reads the query FASTA and the tab separated hits of an aligner run
against the targets of 'pangtable export', keeps the first hit of every
query and writes the partition and family projections. With --getinfo the
RGPs and spots of the hit families are reported, and with --draw-related
the related spots are laid out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlign(cmd, s, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.queries, "queries", "", "query sequences (FASTA, may be gzipped)")
	f.StringVar(&o.hits, "hits", "", "aligner hit table (tab separated, may be gzipped)")
	f.StringVar(&o.mode, "mode", "representative", "alignment targets: representative or exhaustive")
	f.StringVar(&o.idTag, "id-tag", "", "prefix added to ids in the aligner input (default $PANGTABLE_ID_TAG)")
	f.BoolVar(&o.getInfo, "getinfo", false, "report the RGPs and spots of the hit families")
	f.BoolVar(&o.drawRelated, "draw-related", false, "lay out the spots related to the hits")
	f.IntVar(&o.workers, "workers", 0, "spots laid out concurrently (default $PANGTABLE_WORKERS)")
	o.tolerances.register(cmd)
	_ = cmd.MarkFlagRequired("queries")
	_ = cmd.MarkFlagRequired("hits")
	return cmd
}

func runAlign(cmd *cobra.Command, s *settings, o *alignOptions) error {
	mode, err := align.ParseMode(o.mode)
	if err != nil {
		return err
	}
	opts := pipeline.Options{
		Mode:        mode,
		IDTag:       s.cfg.IDTag,
		Annotate:    o.getInfo,
		DrawRelated: o.drawRelated,
		Workers:     s.cfg.Workers,
	}
	if cmd.Flags().Changed("id-tag") {
		opts.IDTag = o.idTag
	}
	if o.workers > 0 {
		opts.Workers = o.workers
	}

	p, err := s.pangenome(cmd.Context())
	if err != nil {
		return err
	}
	if err := o.tolerances.apply(cmd, &p.Params); err != nil {
		return err
	}
	runner := pipeline.NewRunner(p, flank.Matcher{}, logger.ZapReporter{})
	if err := runner.Check(mode); err != nil {
		return err
	}

	queries, err := util.OpenMaybeGzip(o.queries)
	if err != nil {
		return err
	}
	defer queries.Close()
	hits, err := util.OpenMaybeGzip(o.hits)
	if err != nil {
		return err
	}
	defer hits.Close()

	if err := util.EnsureDir(s.cfg.Output); err != nil {
		return err
	}
	cleanedPath := filepath.Join(s.cfg.Output, mode.CleanedTableName())
	cleaned, err := os.Create(cleanedPath)
	if err != nil {
		return err
	}

	res, err := runner.Run(cmd.Context(), queries, hits, cleaned, opts)
	if cerr := cleaned.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		var integrity *align.IntegrityError
		if errors.As(err, &integrity) {
			logger.Error("Hit table does not match the pangenome", zap.Error(err))
		}
		return err
	}

	paths, err := pipeline.WriteOutputs(s.cfg.Output, res)
	if err != nil {
		return err
	}
	if unmapped := res.Unmapped(); len(unmapped) > 0 {
		logger.Info("Input sequences without any hit", zap.Int("count", len(unmapped)))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cleanedPath)
	for _, path := range paths {
		fmt.Fprintln(out, path)
	}
	return nil
}
