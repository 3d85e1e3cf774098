package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yumyai/pangtable/pkg/db"
)

// InitCmd creates an empty pangenome database.
func InitCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the pangenome database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := db.Open(s.cfg.DB)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.CreateSchema(cmd.Context()); err != nil {
				return fmt.Errorf("failed to initialize schema: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database initialized at %s\n", s.cfg.DB)
			return nil
		},
	}
}
