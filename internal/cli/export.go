package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yumyai/pangtable/logger"
	"github.com/yumyai/pangtable/pkg/align"
	"github.com/yumyai/pangtable/pkg/db"
)

// ExportCmd writes the aligner targets of the pangenome.
func ExportCmd(s *settings) *cobra.Command {
	var (
		mode  string
		idTag string
	)
	cmd := &cobra.Command{
		Use:   "export <targets.fasta[.gz]>",
		Short: "Write the alignment targets as tagged FASTA",
		Long: `export writes one record per gene family (representative mode) or per
gene (exhaustive mode), each id prefixed with the id tag. Build the aligner
database from this file before running 'pangtable align'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := align.ParseMode(mode)
			if err != nil {
				return err
			}
			tag := s.cfg.IDTag
			if cmd.Flags().Changed("id-tag") {
				tag = idTag
			}
			p, err := s.pangenome(cmd.Context())
			if err != nil {
				return err
			}
			n, err := db.ExportTargets(args[0], p, m, tag)
			if err != nil {
				return err
			}
			logger.Info("Targets exported", zap.String("path", args[0]), zap.Int("sequences", n), zap.Stringer("mode", m))
			fmt.Fprintln(cmd.OutOrStdout(), args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "representative", "representative or exhaustive")
	cmd.Flags().StringVar(&idTag, "id-tag", "", "prefix added to every target id (default $PANGTABLE_ID_TAG)")
	return cmd
}
