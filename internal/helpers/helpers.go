package helpers

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const EventsFolder = "events"

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug folds accents to their base letters, lowercases s and collapses
// every run of other characters into a single hyphen. Scripts with no Latin
// base letter yield an empty slug.
func GenerateSlug(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(folded)), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 120 {
		slug = strings.TrimRight(slug[:120], "-")
	}
	return slug
}

func StringTrim(s string) string {
	return strings.Trim(strings.TrimSpace(s), "\"'")
}

// NormalizeTags trims, drops empties and removes case-insensitive duplicates,
// keeping the first spelling seen.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// ParseTags decodes a JSON array of strings. Blank input is an empty list.
func ParseTags(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("tags must be a JSON array of strings: %w", err)
	}
	return NormalizeTags(tags), nil
}

// ParseAgenda decodes a JSON array whose items may be any JSON value.
func ParseAgenda(raw string) ([]any, error) {
	if strings.TrimSpace(raw) == "" {
		return []any{}, nil
	}
	var agenda []any
	if err := json.Unmarshal([]byte(raw), &agenda); err != nil {
		return nil, fmt.Errorf("agenda must be a JSON array: %w", err)
	}
	if agenda == nil {
		agenda = []any{}
	}
	return agenda, nil
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02/01/2006",
}

// NormalizeDate rewrites a date in any of the accepted layouts as YYYY-MM-DD.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("invalid date %q", s)
}

var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3PM",
	"3 PM",
}

// NormalizeTime rewrites a clock time as 24h HH:MM.
func NormalizeTime(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("invalid time %q", s)
}
