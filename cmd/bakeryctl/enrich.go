package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/octobees/bakery-finder/internal/repository"
	"github.com/octobees/bakery-finder/internal/scraper"
	"github.com/octobees/bakery-finder/internal/service"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <bakery-id>",
	Short: "Scrape one bakery and store its semlor status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		svc := newEnrichmentService(repository.NewPGXBakeriesRepository(pool))
		result, err := svc.Enrich(ctx, args[0])
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), result.Report)
	},
}

var enrichAllCmd = &cobra.Command{
	Use:   "enrich-all",
	Short: "Scrape every bakery sequentially",
	Long:  "Scrapes every bakery oldest first with a fixed 2s pause between records and prints one outcome per bakery.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		svc := newEnrichmentService(repository.NewPGXBakeriesRepository(pool))
		outcomes, err := svc.EnrichAll(ctx)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), outcomes)
	},
}

func newEnrichmentService(repo repository.BakeriesRepository) *service.EnrichmentService {
	fetcher := scraper.NewHTTPFetcher(nil, cfg.ScrapeTimeout)
	return service.NewEnrichmentService(repo, scraper.New(fetcher))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	enrichAllCmd.Flags().Duration("timeout", 0, "abort the run after this long (0 waits for every bakery)")

	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(enrichAllCmd)
}
