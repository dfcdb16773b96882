package service

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/octobees/bakery-finder/internal/scraper"
)

var (
	handlePattern = regexp.MustCompile(`^[A-Za-z0-9._]{1,30}$`)
	idnaProfile   = idna.Lookup
)

const (
	trackingPrefix     = "utm_"
	defaultPhoneRegion = "SE"
)

// ValidationError indicates that a bakery payload is invalid.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return e.Message
}

// Normalizer cleans user supplied bakery contact fields.
type Normalizer struct {
	DefaultRegion string
}

// NewNormalizer builds a normalizer for phone numbers local to region.
func NewNormalizer(defaultRegion string) *Normalizer {
	region := strings.ToUpper(strings.TrimSpace(defaultRegion))
	if region == "" {
		region = defaultPhoneRegion
	}
	return &Normalizer{DefaultRegion: region}
}

// Website returns the canonical https URL for raw, or "" when raw is blank.
func (n *Normalizer) Website(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	u, err := sanitizeURL(raw)
	if err != nil {
		return "", ValidationError{Message: "website must be a valid URL"}
	}
	host, err := idnaProfile.ToASCII(strings.ToLower(u.Hostname()))
	if err != nil || !isDomainValid(host) {
		return "", ValidationError{Message: "website must be a valid URL"}
	}
	if port := u.Port(); port != "" {
		host += ":" + port
	}
	u.Host = host
	stripTracking(u)
	return u.String(), nil
}

// InstagramHandle strips the leading "@" and checks the handle charset.
func (n *Normalizer) InstagramHandle(raw string) (string, error) {
	handle := scraper.NormalizeHandle(raw)
	if handle == "" {
		return "", nil
	}
	if !handlePattern.MatchString(handle) {
		return "", ValidationError{Message: "instagramHandle may only contain letters, digits, '.' and '_'"}
	}
	return handle, nil
}

// Phone formats raw as E.164. Numbers that cannot be parsed are rejected.
func (n *Normalizer) Phone(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	normalized := normalizePhone(raw, n.DefaultRegion)
	if normalized == "" {
		return "", ValidationError{Message: "phone must be a valid phone number"}
	}
	return normalized, nil
}

func sanitizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, errors.New("invalid url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New("unsupported scheme")
	}
	return u, nil
}

func stripTracking(u *url.URL) {
	if u == nil {
		return
	}
	query := u.Query()
	changed := false
	for key := range query {
		if strings.HasPrefix(strings.ToLower(key), trackingPrefix) {
			query.Del(key)
			changed = true
		}
	}
	if changed {
		u.RawQuery = query.Encode()
	}
}

func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = defaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	parts := strings.Split(domain, ".")
	for _, part := range parts {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}
