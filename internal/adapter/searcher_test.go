package adapter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/amishk599/careerpath/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeBoard struct {
	name     string
	listings []model.JobListing
	err      error
	calls    int
}

func (b *fakeBoard) Name() string { return b.name }

func (b *fakeBoard) FetchListings(context.Context) ([]model.JobListing, error) {
	b.calls++
	return b.listings, b.err
}

type fakeSearcher struct {
	listings []model.JobListing
	err      error
	calls    int
}

func (s *fakeSearcher) Search(context.Context, model.JobQuery) ([]model.JobListing, error) {
	s.calls++
	return s.listings, s.err
}

func TestBoardSearcher_FiltersAndSkipsFailures(t *testing.T) {
	broken := &fakeBoard{name: "broken", err: errors.New("timeout")}
	acme := &fakeBoard{name: "acme", listings: []model.JobListing{
		{Title: "Data Engineer", Location: "Remote"},
		{Title: "Product Designer", Location: "Remote"},
		{Title: "Senior Data Engineer", Location: "Berlin"},
	}}
	s := NewBoardSearcher([]model.JobBoard{broken, acme}, nil, discardLogger())

	got, err := s.Search(context.Background(), model.JobQuery{Title: "data engineer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Data Engineer" || got[1].Title != "Senior Data Engineer" {
		t.Errorf("listings = %+v", got)
	}
}

func TestBoardSearcher_StopsAtLimit(t *testing.T) {
	first := &fakeBoard{name: "first", listings: []model.JobListing{{Title: "Nurse"}, {Title: "Nurse Practitioner"}}}
	second := &fakeBoard{name: "second", listings: []model.JobListing{{Title: "Nurse"}}}
	s := NewBoardSearcher([]model.JobBoard{first, second}, nil, discardLogger())

	got, err := s.Search(context.Background(), model.JobQuery{Title: "nurse", Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 listings, got %d", len(got))
	}
	if second.calls != 0 {
		t.Errorf("second board fetched after limit reached")
	}
}

func TestBoardSearcher_LocationFilter(t *testing.T) {
	board := &fakeBoard{name: "acme", listings: []model.JobListing{
		{Title: "Nurse", Location: "London, UK"},
		{Title: "Nurse", Location: "Remote - US"},
	}}
	s := NewBoardSearcher([]model.JobBoard{board}, []string{"remote"}, discardLogger())

	got, _ := s.Search(context.Background(), model.JobQuery{Title: "Nurse"})
	if len(got) != 1 || got[0].Location != "Remote - US" {
		t.Errorf("listings = %+v", got)
	}
}

func TestBoardSearcher_AllBoardsFail(t *testing.T) {
	s := NewBoardSearcher([]model.JobBoard{
		&fakeBoard{name: "a", err: errors.New("a down")},
		&fakeBoard{name: "b", err: errors.New("b down")},
	}, nil, discardLogger())

	if _, err := s.Search(context.Background(), model.JobQuery{Title: "Nurse"}); err == nil {
		t.Fatal("expected error when every board fails")
	}
}

func TestChainSearcher(t *testing.T) {
	want := []model.JobListing{{Title: "Chef"}}

	tests := []struct {
		name      string
		searchers []*fakeSearcher
		wantLen   int
		wantErr   bool
	}{
		{
			name:      "first non-empty wins",
			searchers: []*fakeSearcher{{listings: want}, {listings: []model.JobListing{{Title: "other"}}}},
			wantLen:   1,
		},
		{
			name:      "error then success",
			searchers: []*fakeSearcher{{err: errors.New("down")}, {listings: want}},
			wantLen:   1,
		},
		{
			name:      "empty then success",
			searchers: []*fakeSearcher{{}, {listings: want}},
			wantLen:   1,
		},
		{
			name:      "all empty",
			searchers: []*fakeSearcher{{}, {}},
			wantLen:   0,
		},
		{
			name:      "all fail",
			searchers: []*fakeSearcher{{err: errors.New("a")}, {err: errors.New("b")}},
			wantErr:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			searchers := make([]model.JobSearcher, len(tc.searchers))
			for i, s := range tc.searchers {
				searchers[i] = s
			}
			got, err := NewChainSearcher(discardLogger(), searchers...).Search(context.Background(), model.JobQuery{Title: "Chef"})
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if len(got) != tc.wantLen {
				t.Errorf("len = %d, want %d", len(got), tc.wantLen)
			}
		})
	}

	first := &fakeSearcher{listings: want}
	second := &fakeSearcher{}
	NewChainSearcher(discardLogger(), first, second).Search(context.Background(), model.JobQuery{Title: "Chef"})
	if second.calls != 0 {
		t.Error("later searcher called after a non-empty result")
	}
}
