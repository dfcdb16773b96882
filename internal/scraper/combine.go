package scraper

import (
	"unicode/utf8"

	"github.com/octobees/bakery-finder/internal/entity"
)

// Combine merges the per-source results into one verdict. Either source may be nil.
//
// A mention from any successful source confirms semlor; nothing else changes the
// status, so the verdict never reaches not_available. The longest description among
// the existing one and the successful sources wins, with the website preferred on
// an exact tie.
func Combine(existingDescription string, website, instagram *entity.SourceResult) entity.CombinedVerdict {
	verdict := entity.CombinedVerdict{
		SemlorStatus: entity.SemlorUnknown,
		Description:  existingDescription,
	}

	if website.Mentions() || instagram.Mentions() {
		verdict.HasSemlor = true
		verdict.SemlorStatus = entity.SemlorConfirmed
	}

	for _, source := range []*entity.SourceResult{website, instagram} {
		if source == nil || !source.Success {
			continue
		}
		if utf8.RuneCountInString(source.Description) > utf8.RuneCountInString(verdict.Description) {
			verdict.Description = source.Description
		}
	}

	return verdict
}
