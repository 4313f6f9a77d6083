package filter

import (
	"strings"

	"github.com/amishk599/careerpath/internal/model"
)

// connectives are dropped from career titles; listings often write "&" for
// "and" or leave them out.
var connectives = map[string]bool{"and": true, "of": true, "&": true, "/": true, "-": true}

// TitleFilter matches job listings against a career title and an optional
// list of locations. Matching is case-insensitive.
type TitleFilter struct {
	titleWords []string
	locations  []string
}

// NewTitleFilter returns a filter that requires every word of title to appear
// in the listing title, and the listing location to contain any of locations.
// An empty title or locations list matches all.
func NewTitleFilter(title string, locations []string) *TitleFilter {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(title)) {
		if !connectives[w] {
			words = append(words, w)
		}
	}

	locs := make([]string, 0, len(locations))
	for _, l := range locations {
		if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
			locs = append(locs, l)
		}
	}

	return &TitleFilter{titleWords: words, locations: locs}
}

// Match reports whether the listing passes both the title and location checks.
func (f *TitleFilter) Match(listing model.JobListing) bool {
	return containsAll(strings.ToLower(listing.Title), f.titleWords) &&
		(len(f.locations) == 0 || containsAny(strings.ToLower(listing.Location), f.locations))
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
