package entity

import (
	"time"

	"github.com/google/uuid"
)

// SourceResult is the normalized outcome of scraping one external source.
type SourceResult struct {
	Success          bool         `json:"success"`
	BakeryName       string       `json:"bakeryName,omitempty"`
	Description      string       `json:"description,omitempty"`
	HasSemlorMention bool         `json:"hasSemlorMention"`
	SemlorStatus     SemlorStatus `json:"semlorStatus"`
	InstagramURL     string       `json:"instagramUrl,omitempty"`
	Note             string       `json:"note,omitempty"`
	Error            string       `json:"error,omitempty"`
	ScrapedAt        *time.Time   `json:"scrapedAt,omitempty"`
}

// Mentions reports whether the source was fetched and mentioned semlor.
func (r *SourceResult) Mentions() bool {
	return r != nil && r.Success && r.HasSemlorMention
}

// CombinedVerdict is the record-level status derived from every consulted source.
type CombinedVerdict struct {
	HasSemlor    bool         `json:"hasSemlor"`
	SemlorStatus SemlorStatus `json:"semlorStatus"`
	Description  string       `json:"description"`
}

// EnrichmentReport is the full audit trail of one enrichment call, stored on the bakery.
type EnrichmentReport struct {
	BakeryID   uuid.UUID       `json:"bakeryId"`
	BakeryName string          `json:"bakeryName"`
	ScrapedAt  time.Time       `json:"scrapedAt"`
	Website    *SourceResult   `json:"website"`
	Instagram  *SourceResult   `json:"instagram"`
	Combined   CombinedVerdict `json:"combined"`
}

// EnrichmentPatch lists the bakery fields overwritten after an enrichment call.
// Description is nil when the existing description must be kept.
type EnrichmentPatch struct {
	HasSemlor    bool
	SemlorStatus SemlorStatus
	LastScraped  time.Time
	ScrapedData  *EnrichmentReport
	Description  *string
}
