package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octobees/bakery-finder/internal/config"
	"github.com/octobees/bakery-finder/internal/database"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "bakeryctl",
	Short: "Operate the bakery directory from the command line",
	Long:  "Applies schema migrations and runs semlor enrichment for one or all bakeries without going through the HTTP API.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	return database.Connect(ctx, cfg.DatabaseURL)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
