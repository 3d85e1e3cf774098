package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yumyai/pangtable/internal/util"
	"github.com/yumyai/pangtable/logger"
	"github.com/yumyai/pangtable/pkg/flank"
	"github.com/yumyai/pangtable/pkg/pipeline"
	"github.com/yumyai/pangtable/pkg/render"
	"github.com/yumyai/pangtable/pkg/synteny"
)

// SpotsCmd lays out selected spots without any query.
func SpotsCmd(s *settings) *cobra.Command {
	var (
		selectors []string
		workers   int
		tol       tolerances
	)
	cmd := &cobra.Command{
		Use:   "spots",
		Short: "Order the regions of spots by synteny",
		Long: `spots writes, for every selected spot, the ordered regions and the
groups of identical regions. Select spots by id ("12" or "spot_12"), with
"synteny" for the spots with more than one gene organisation, or "all".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := s.pangenome(cmd.Context())
			if err != nil {
				return err
			}
			if err := tol.apply(cmd, &p.Params); err != nil {
				return err
			}
			spots, missing, err := synteny.SelectSpots(p.Spots(), selectors)
			if err != nil {
				return err
			}
			for _, id := range missing {
				logger.Warn("Spot not found", zap.String("spot", id))
			}
			if len(spots) == 0 {
				return errors.New("no spot selected")
			}

			if workers <= 0 {
				workers = s.cfg.Workers
			}
			runner := pipeline.NewRunner(p, flank.Matcher{}, logger.ZapReporter{})
			layouts, err := runner.Engine().Layouts(cmd.Context(), spots, workers)
			if err != nil {
				return err
			}

			if err := util.EnsureDir(s.cfg.Output); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, layout := range layouts {
				paths, err := render.WriteSpot(s.cfg.Output, layout)
				if err != nil {
					return fmt.Errorf("write %s: %w", layout.Spot.Name(), err)
				}
				for _, path := range paths {
					fmt.Fprintln(out, path)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&selectors, "spots", []string{synteny.SelectSynteny}, "spot ids, synteny or all")
	cmd.Flags().IntVar(&workers, "workers", 0, "spots laid out concurrently (default $PANGTABLE_WORKERS)")
	tol.register(cmd)
	return cmd
}
