package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octobees/bakery-finder/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  "Applies every pending embedded SQL migration in lexicographic order.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		ran, err := database.MigratePool(ctx, pool)
		if err != nil {
			return eris.Wrap(err, "migrate")
		}

		zap.L().Info("migrations applied", zap.Int("count", len(ran)))
		fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", len(ran))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
