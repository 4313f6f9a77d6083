package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLeverAdapter_FetchListings_Success(t *testing.T) {
	payload := `[
		{
			"id": "ff7ef527-b0d3-4c44-836a-8d6b58ac321e",
			"text": "Software Engineer",
			"description": "<div>Full HTML description</div>",
			"descriptionPlain": "Plain text   job description",
			"categories": {
				"team": "Engineering",
				"location": "San Francisco, CA",
				"commitment": "Full-time",
				"allLocations": ["San Francisco, CA", "Remote"]
			},
			"workplaceType": "hybrid",
			"hostedUrl": "https://jobs.lever.co/acme/ff7ef527-b0d3-4c44-836a-8d6b58ac321e"
		},
		{
			"id": "a1b2c3d4-e5f6-7890-abcd-ef1234567890",
			"text": "Backend Engineer",
			"description": "<div>Backend <b>job</b> description</div>",
			"categories": {
				"team": "Engineering",
				"location": "Remote",
				"commitment": "Full-time",
				"allLocations": ["Remote"]
			},
			"workplaceType": "remote",
			"hostedUrl": "https://jobs.lever.co/acme/a1b2c3d4-e5f6-7890-abcd-ef1234567890"
		}
	]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v0/postings/acme" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	adapter := newLeverTestAdapter(srv, "acme", "Acme Corp")

	listings, err := adapter.FetchListings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}

	l := listings[0]
	if l.Company != "Acme Corp" {
		t.Errorf("expected company Acme Corp, got %s", l.Company)
	}
	if l.Title != "Software Engineer" {
		t.Errorf("expected title Software Engineer, got %s", l.Title)
	}
	if l.Location != "San Francisco, CA, Remote" {
		t.Errorf("expected location 'San Francisco, CA, Remote', got %s", l.Location)
	}
	if l.URL != "https://jobs.lever.co/acme/ff7ef527-b0d3-4c44-836a-8d6b58ac321e" {
		t.Errorf("expected hostedUrl, got %s", l.URL)
	}
	if l.Description != "Plain text job description" {
		t.Errorf("expected plain description, got %q", l.Description)
	}

	// No descriptionPlain: falls back to the HTML description.
	if listings[1].Description != "Backend job description" {
		t.Errorf("expected description from HTML, got %q", listings[1].Description)
	}
}

func TestLeverAdapter_FetchListings_LocationFallback(t *testing.T) {
	payload := `[
		{
			"id": "test-id-123",
			"text": "Test Engineer",
			"descriptionPlain": "Test",
			"categories": {
				"team": "Engineering",
				"location": "New York, NY",
				"commitment": "Full-time",
				"allLocations": []
			},
			"hostedUrl": "https://jobs.lever.co/acme/test-id-123"
		}
	]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	adapter := newLeverTestAdapter(srv, "acme", "Acme Corp")

	listings, err := adapter.FetchListings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}
	if listings[0].Location != "New York, NY" {
		t.Errorf("expected fallback to categories.location, got %s", listings[0].Location)
	}
}

// --- helpers ---

// newLeverTestAdapter creates a LeverAdapter wired to a test server.
func newLeverTestAdapter(srv *httptest.Server, slug, company string) *LeverAdapter {
	return NewLeverAdapter(slug, company, rewriteClient(srv))
}
