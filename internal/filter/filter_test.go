package filter

import (
	"testing"

	"github.com/amishk599/careerpath/internal/model"
)

func listing(title, location string) model.JobListing {
	return model.JobListing{Title: title, Location: location}
}

func TestTitleFilter_Match(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		locations []string
		listing   model.JobListing
		wantMatch bool
	}{
		{
			name:      "matches title and location",
			title:     "Data Engineer",
			locations: []string{"United States", "Remote"},
			listing:   listing("Senior Data Engineer, Platform", "Remote - US"),
			wantMatch: true,
		},
		{
			name:      "title match but location miss",
			title:     "Data Engineer",
			locations: []string{"Remote"},
			listing:   listing("Data Engineer", "London, UK"),
			wantMatch: false,
		},
		{
			name:      "words in any order",
			title:     "engineer data",
			listing:   listing("Data Engineer II", "Austin, TX"),
			wantMatch: true,
		},
		{
			name:      "case insensitive matching",
			title:     "UX DESIGNER",
			locations: []string{"us"},
			listing:   listing("Senior UX Designer", "US Remote"),
			wantMatch: true,
		},
		{
			name:      "missing word",
			title:     "Data Scientist",
			listing:   listing("Data Engineer", "Remote"),
			wantMatch: false,
		},
		{
			name:      "connectives ignored",
			title:     "Research and Development Engineer",
			listing:   listing("Engineer, Research & Development", "Berlin"),
			wantMatch: true,
		},
		{
			name:      "blank locations ignored",
			title:     "Nurse",
			locations: []string{"  "},
			listing:   listing("Registered Nurse", "Chicago, IL"),
			wantMatch: true,
		},
		{
			name:      "empty title and locations pass all",
			listing:   listing("Any Role", "Anywhere"),
			wantMatch: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewTitleFilter(tt.title, tt.locations)
			if got := f.Match(tt.listing); got != tt.wantMatch {
				t.Errorf("Match(%+v) = %v, want %v", tt.listing, got, tt.wantMatch)
			}
		})
	}
}
