package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/octobees/bakery-finder/internal/dto"
	"github.com/octobees/bakery-finder/internal/entity"
	"github.com/octobees/bakery-finder/internal/repository"
	"github.com/octobees/bakery-finder/internal/scraper"
)

// DefaultBulkDelay is the fixed pause between two records of a bulk run.
const DefaultBulkDelay = 2 * time.Second

var (
	// ErrInvalidBakeryID is returned when the supplied id is not a UUID.
	ErrInvalidBakeryID = errors.New("invalid bakery id")
	// ErrBakeryNotFound is returned when the bakery does not exist.
	ErrBakeryNotFound = repository.ErrBakeryNotFound
)

// SourceScraper fetches and classifies the external sources of a bakery.
type SourceScraper interface {
	ScrapeWebsite(ctx context.Context, url string) *entity.SourceResult
	ScrapeInstagram(ctx context.Context, handle string) *entity.SourceResult
}

var _ SourceScraper = (*scraper.Scraper)(nil)

// EnrichmentResult bundles the persisted bakery with the report that produced it.
type EnrichmentResult struct {
	Bakery *entity.Bakery
	Report *entity.EnrichmentReport
}

// EnrichmentService runs the semlor enrichment pipeline for one or all bakeries.
type EnrichmentService struct {
	repo    repository.BakeriesRepository
	scraper SourceScraper
	delay   time.Duration
	now     func() time.Time
	log     *zap.Logger
}

// EnrichmentOption configures optional behaviour.
type EnrichmentOption func(*EnrichmentService)

// WithEnrichmentClock overrides the time source used for report timestamps.
func WithEnrichmentClock(now func() time.Time) EnrichmentOption {
	return func(s *EnrichmentService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewEnrichmentService wires the enrichment pipeline.
func NewEnrichmentService(repo repository.BakeriesRepository, sources SourceScraper, opts ...EnrichmentOption) *EnrichmentService {
	s := &EnrichmentService{
		repo:    repo,
		scraper: sources,
		delay:   DefaultBulkDelay,
		now:     time.Now,
		log:     zap.L().With(zap.String("component", "service.enrichment")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enrich scrapes the sources of one bakery and persists the combined verdict.
func (s *EnrichmentService) Enrich(ctx context.Context, rawID string) (*EnrichmentResult, error) {
	id, err := parseBakeryID(rawID)
	if err != nil {
		return nil, err
	}

	bakery, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBakeryNotFound) {
			return nil, ErrBakeryNotFound
		}
		return nil, eris.Wrap(err, "load bakery")
	}

	return s.enrichBakery(ctx, bakery)
}

// EnrichAll enriches every bakery sequentially, oldest first, pausing between
// records. A failing record is reported in its outcome and the run continues.
// When ctx is done the run stops and the outcomes gathered so far are returned;
// the record in flight at that moment is not reported.
// Only a failure to list the bakeries is returned as an error.
func (s *EnrichmentService) EnrichAll(ctx context.Context) ([]dto.EnrichOutcome, error) {
	bakeries, err := s.repo.List(ctx, dto.ListFilter{Sort: dto.SortOldest})
	if err != nil {
		return nil, eris.Wrap(err, "list bakeries")
	}

	outcomes := make([]dto.EnrichOutcome, 0, len(bakeries))
	for i := range bakeries {
		if i > 0 && !s.wait(ctx) {
			s.log.Warn("bulk enrichment interrupted",
				zap.Int("processed", len(outcomes)),
				zap.Int("total", len(bakeries)),
				zap.Error(ctx.Err()))
			break
		}

		bakery := bakeries[i]
		outcome := s.enrichOutcome(ctx, &bakery)
		if ctx.Err() != nil {
			s.log.Warn("bulk enrichment interrupted",
				zap.Int("processed", len(outcomes)),
				zap.Int("total", len(bakeries)),
				zap.String("in_flight", bakery.ID.String()),
				zap.Error(ctx.Err()))
			break
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

func (s *EnrichmentService) enrichOutcome(ctx context.Context, bakery *entity.Bakery) dto.EnrichOutcome {
	outcome := dto.EnrichOutcome{
		BakeryID:   bakery.ID,
		BakeryName: bakery.Name,
	}

	result, err := s.enrichBakery(ctx, bakery)
	if err != nil {
		s.log.Error("bulk enrichment failed", zap.String("bakery_id", bakery.ID.String()), zap.Error(err))
		outcome.Error = err.Error()
		return outcome
	}

	outcome.SemlorStatus = result.Bakery.SemlorStatus
	if msg := sourceFailure(result.Report); msg != "" {
		outcome.Error = msg
		return outcome
	}
	outcome.Success = true
	return outcome
}

func (s *EnrichmentService) enrichBakery(ctx context.Context, bakery *entity.Bakery) (*EnrichmentResult, error) {
	var website, instagram *entity.SourceResult
	if strings.TrimSpace(bakery.Website) != "" {
		website = s.scraper.ScrapeWebsite(ctx, bakery.Website)
	}
	if strings.TrimSpace(bakery.InstagramHandle) != "" {
		instagram = s.scraper.ScrapeInstagram(ctx, bakery.InstagramHandle)
	}

	report := BuildReport(bakery, website, instagram, s.now())
	patch := BuildPatch(bakery, report)

	updated, err := s.repo.ApplyEnrichment(ctx, bakery.ID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrBakeryNotFound) {
			return nil, ErrBakeryNotFound
		}
		return nil, eris.Wrap(err, "persist enrichment")
	}

	s.log.Info("bakery enriched",
		zap.String("bakery_id", bakery.ID.String()),
		zap.String("semlor_status", string(updated.SemlorStatus)))

	return &EnrichmentResult{Bakery: updated, Report: report}, nil
}

func (s *EnrichmentService) wait(ctx context.Context) bool {
	if s.delay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// BuildReport assembles the enrichment report for bakery from the source results.
// Sources the bakery has no URL or handle for are nil.
func BuildReport(bakery *entity.Bakery, website, instagram *entity.SourceResult, now time.Time) *entity.EnrichmentReport {
	return &entity.EnrichmentReport{
		BakeryID:   bakery.ID,
		BakeryName: bakery.Name,
		ScrapedAt:  now,
		Website:    website,
		Instagram:  instagram,
		Combined:   scraper.Combine(bakery.Description, website, instagram),
	}
}

// BuildPatch derives the fields to persist from a report. The description is
// only carried when it is strictly longer than the bakery's current one.
func BuildPatch(bakery *entity.Bakery, report *entity.EnrichmentReport) entity.EnrichmentPatch {
	patch := entity.EnrichmentPatch{
		HasSemlor:    report.Combined.HasSemlor,
		SemlorStatus: report.Combined.SemlorStatus,
		LastScraped:  report.ScrapedAt,
		ScrapedData:  report,
	}
	if utf8.RuneCountInString(report.Combined.Description) > utf8.RuneCountInString(bakery.Description) {
		description := report.Combined.Description
		patch.Description = &description
	}
	return patch
}

// sourceFailure describes the consulted sources when none of them could be fetched.
func sourceFailure(report *entity.EnrichmentReport) string {
	var failures []string
	for _, src := range []struct {
		name   string
		result *entity.SourceResult
	}{
		{"website", report.Website},
		{"instagram", report.Instagram},
	} {
		if src.result == nil {
			continue
		}
		if src.result.Success {
			return ""
		}
		failures = append(failures, src.name+": "+src.result.Error)
	}
	return strings.Join(failures, "; ")
}
