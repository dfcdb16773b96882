// Package scraper turns a bakery's website and Instagram profile into semlor signals.
package scraper

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/octobees/bakery-finder/internal/entity"
)

const (
	errNoURL    = "No URL provided"
	errNoHandle = "No Instagram handle provided"

	instagramNote        = "Instagram scraping is limited; results may be incomplete."
	instagramBlockedNote = "Instagram blocks most automated requests; verify manually if needed."
)

// Scraper composes a Fetcher with the extractor for each supported source.
type Scraper struct {
	fetcher Fetcher
	now     func() time.Time
	log     *zap.Logger
}

// Option customises a Scraper.
type Option func(*Scraper)

// WithClock overrides the time source used for scrapedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Scraper) { s.now = now }
}

// New creates a Scraper backed by fetcher.
func New(fetcher Fetcher, opts ...Option) *Scraper {
	s := &Scraper{
		fetcher: fetcher,
		now:     time.Now,
		log:     zap.L().With(zap.String("component", "scraper")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScrapeWebsite fetches a bakery website and classifies its content.
func (s *Scraper) ScrapeWebsite(ctx context.Context, url string) *entity.SourceResult {
	url = strings.TrimSpace(url)
	if url == "" {
		return &entity.SourceResult{Error: errNoURL, SemlorStatus: entity.SemlorUnknown}
	}

	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.log.Warn("website scrape failed", zap.String("url", url), zap.Error(err))
		return &entity.SourceResult{Error: err.Error(), SemlorStatus: entity.SemlorUnknown}
	}

	signals := Extract(body)
	scrapedAt := s.now()
	return &entity.SourceResult{
		Success:          true,
		BakeryName:       signals.Name,
		Description:      signals.Description,
		HasSemlorMention: signals.HasSemlorMention,
		SemlorStatus:     statusFor(signals.HasSemlorMention),
		ScrapedAt:        &scrapedAt,
	}
}

// ScrapeInstagram fetches a public Instagram profile page. Instagram frequently
// blocks or rewrites automated requests, so every failure degrades to unknown.
func (s *Scraper) ScrapeInstagram(ctx context.Context, handle string) *entity.SourceResult {
	clean := NormalizeHandle(handle)
	if clean == "" {
		return &entity.SourceResult{Error: errNoHandle, SemlorStatus: entity.SemlorUnknown}
	}

	profileURL := InstagramURL(clean)
	body, err := s.fetcher.Fetch(ctx, profileURL)
	if err != nil {
		s.log.Warn("instagram scrape failed", zap.String("handle", clean), zap.Error(err))
		return &entity.SourceResult{
			Error:        err.Error(),
			Note:         instagramBlockedNote,
			SemlorStatus: entity.SemlorUnknown,
		}
	}

	mention := ContainsKeyword(body, instagramKeywords)
	scrapedAt := s.now()
	return &entity.SourceResult{
		Success:          true,
		Description:      ExtractDescription(body),
		HasSemlorMention: mention,
		SemlorStatus:     statusFor(mention),
		InstagramURL:     profileURL,
		Note:             instagramNote,
		ScrapedAt:        &scrapedAt,
	}
}

// NormalizeHandle trims whitespace and a leading "@" from an Instagram handle.
func NormalizeHandle(handle string) string {
	handle = strings.TrimSpace(handle)
	handle = strings.TrimPrefix(handle, "@")
	return strings.TrimSpace(handle)
}

// InstagramURL builds the canonical profile URL for a normalized handle.
func InstagramURL(handle string) string {
	return "https://www.instagram.com/" + handle + "/"
}

func statusFor(mention bool) entity.SemlorStatus {
	if mention {
		return entity.SemlorConfirmed
	}
	return entity.SemlorUnknown
}
