package entity

import (
	"time"

	"github.com/google/uuid"
)

// SemlorStatus is the tri-state availability indicator tracked for every bakery.
type SemlorStatus string

const (
	SemlorConfirmed    SemlorStatus = "confirmed"
	SemlorUnknown      SemlorStatus = "unknown"
	SemlorNotAvailable SemlorStatus = "not_available"
)

// Valid reports whether the status is one of the known values.
func (s SemlorStatus) Valid() bool {
	switch s {
	case SemlorConfirmed, SemlorUnknown, SemlorNotAvailable:
		return true
	}
	return false
}

// Bakery represents a bakery stored in the directory.
type Bakery struct {
	ID              uuid.UUID         `json:"id"`
	Name            string            `json:"name"`
	InstagramHandle string            `json:"instagramHandle"`
	Website         string            `json:"website"`
	Location        string            `json:"location"`
	Phone           string            `json:"phone,omitempty"`
	Description     string            `json:"description"`
	HasSemlor       bool              `json:"hasSemlor"`
	SemlorStatus    SemlorStatus      `json:"semlorStatus"`
	LastScraped     *time.Time        `json:"lastScraped,omitempty"`
	ScrapedData     *EnrichmentReport `json:"scrapedData,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// CanScrape reports whether the bakery is still unresolved and has a source worth retrying.
func (b *Bakery) CanScrape() bool {
	return b.SemlorStatus == SemlorUnknown && (b.Website != "" || b.InstagramHandle != "")
}
