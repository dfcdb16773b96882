package scraper

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	// MaxDescriptionLength caps description candidates, in characters.
	MaxDescriptionLength = 500

	// maxTitleLength rejects titles that are more likely boilerplate than a name.
	maxTitleLength = 100
)

var (
	semlorKeywords    = []string{"semlor", "semla", "semlans dag", "fettisdagen"}
	instagramKeywords = []string{"semlor", "semla", "fettisdagen"}
)

// ExtractedSignals holds what could be read out of a single HTML page.
type ExtractedSignals struct {
	Name             string
	Description      string
	HasSemlorMention bool
}

// Extract parses html and pulls out the name, description and keyword signal.
// Missing elements yield empty values; malformed markup is tolerated.
func Extract(html string) ExtractedSignals {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ExtractedSignals{}
	}

	signals := ExtractedSignals{
		Name:        extractName(doc),
		Description: extractDescription(doc),
	}
	signals.HasSemlorMention = ContainsKeyword(pageText(doc), semlorKeywords)
	return signals
}

// ExtractDescription returns only the description candidate of html.
func ExtractDescription(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return extractDescription(doc)
}

// ContainsKeyword reports whether text contains any keyword, ignoring case.
func ContainsKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range keywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

func extractName(doc *goquery.Document) string {
	name := strings.TrimSpace(doc.Find("title").First().Text())
	if name == "" || utf8.RuneCountInString(name) > maxTitleLength {
		name = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	return name
}

func extractDescription(doc *goquery.Document) string {
	description := metaContent(doc, "name", "description")
	if description == "" {
		description = metaContent(doc, "property", "og:description")
	}
	return truncate(description, MaxDescriptionLength)
}

func metaContent(doc *goquery.Document, attr, value string) string {
	var content string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if key, ok := s.Attr(attr); ok && strings.EqualFold(strings.TrimSpace(key), value) {
			content = strings.TrimSpace(s.AttrOr("content", ""))
			return content == ""
		}
		return true
	})
	return content
}

// pageText returns the visible body text. It removes script and style nodes from doc.
func pageText(doc *goquery.Document) string {
	doc.Find("script, style, noscript, template").Remove()
	return doc.Find("body").Text()
}

func truncate(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	return string(runes[:limit])
}
