package dto

import (
	"github.com/google/uuid"

	"github.com/octobees/bakery-finder/internal/entity"
	"github.com/octobees/bakery-finder/internal/scraper"
)

// BakeryResponse is the JSON view of a bakery with derived fields.
type BakeryResponse struct {
	entity.Bakery
	InstagramURL string `json:"instagramUrl,omitempty"`
	CanScrape    bool   `json:"canScrape"`
}

// ScrapeBakeryResponse is returned by POST /api/scraping/bakery/:id.
type ScrapeBakeryResponse struct {
	Message         string                   `json:"message"`
	Bakery          BakeryResponse           `json:"bakery"`
	ScrapingResults *entity.EnrichmentReport `json:"scrapingResults"`
}

// EnrichOutcome summarises one record of a bulk enrichment run.
type EnrichOutcome struct {
	BakeryID     uuid.UUID           `json:"bakeryId"`
	BakeryName   string              `json:"bakeryName"`
	Success      bool                `json:"success"`
	SemlorStatus entity.SemlorStatus `json:"semlorStatus,omitempty"`
	Error        string              `json:"error,omitempty"`
}

// BulkScrapeResponse is returned by POST /api/scraping/all.
type BulkScrapeResponse struct {
	Message string          `json:"message"`
	Results []EnrichOutcome `json:"results,omitempty"`
}

// NewBakeryResponse decorates b with its profile link and retry flag.
func NewBakeryResponse(b entity.Bakery) BakeryResponse {
	resp := BakeryResponse{Bakery: b, CanScrape: b.CanScrape()}
	if b.InstagramHandle != "" {
		resp.InstagramURL = scraper.InstagramURL(b.InstagramHandle)
	}
	return resp
}

// NewBakeryResponses maps a slice of bakeries to their JSON views.
func NewBakeryResponses(bakeries []entity.Bakery) []BakeryResponse {
	out := make([]BakeryResponse, 0, len(bakeries))
	for _, b := range bakeries {
		out = append(out, NewBakeryResponse(b))
	}
	return out
}
