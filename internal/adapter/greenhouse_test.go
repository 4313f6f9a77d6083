package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestGreenhouse_FetchListings_Success(t *testing.T) {
	payload := `{
		"jobs": [
			{
				"id": 12345,
				"title": "Data Engineer",
				"location": {"name": "San Francisco, CA"},
				"absolute_url": "https://boards.greenhouse.io/acme/jobs/12345",
				"content": "&lt;p&gt;Build &lt;strong&gt;pipelines&lt;/strong&gt;.&lt;/p&gt;",
				"updated_at": "2026-02-13T10:00:00Z"
			},
			{
				"id": 67890,
				"title": "Backend Engineer",
				"location": {"name": "Remote, US"},
				"absolute_url": "https://boards.greenhouse.io/acme/jobs/67890",
				"content": ""
			}
		]
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/boards/acme/jobs" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("content") != "true" {
			t.Errorf("expected content=true, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	adapter := newTestAdapter(srv, "acme", "Acme Corp")

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
	if l.Title != "Data Engineer" {
		t.Errorf("expected title Data Engineer, got %s", l.Title)
	}
	if l.Location != "San Francisco, CA" {
		t.Errorf("expected location San Francisco, CA, got %s", l.Location)
	}
	if l.URL != "https://boards.greenhouse.io/acme/jobs/12345" {
		t.Errorf("unexpected url %s", l.URL)
	}
	if l.Description != "Build pipelines." {
		t.Errorf("expected plain description, got %q", l.Description)
	}
	if adapter.Name() != "greenhouse/acme" {
		t.Errorf("Name() = %q", adapter.Name())
	}
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "double-encoded HTML from Greenhouse API",
			input: "This is the job description. &lt;p&gt;Any HTML included.&lt;/p&gt;",
			want:  "This is the job description. Any HTML included.",
		},
		{
			name:  "typical job description with nested tags and whitespace",
			input: "&lt;p&gt;We are hiring.&lt;/p&gt;\n&lt;ul&gt;\n  &lt;li&gt;Write code&lt;/li&gt;\n  &lt;li&gt;Review PRs&lt;/li&gt;\n&lt;/ul&gt;",
			want:  "We are hiring. Write code Review PRs",
		},
		{
			name:  "search term highlighting",
			input: "Senior <strong>Data</strong> <strong>Engineer</strong>",
			want:  "Senior Data Engineer",
		},
		{
			name:  "plain text with no HTML",
			input: "No tags here.",
			want:  "No tags here.",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := extractText(tc.input)
			if got != tc.want {
				t.Errorf("extractText(%q)\n got  %q\n want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	short := "A short description."
	if got := summarize(short); got != short {
		t.Errorf("summarize(short) = %q", got)
	}

	long := ""
	for len(long) < 400 {
		long += "word "
	}
	got := summarize(long)
	if len(got) > maxDescriptionLen+3 {
		t.Errorf("summary too long: %d", len(got))
	}
	if got[len(got)-3:] != "..." {
		t.Errorf("summary missing ellipsis: %q", got)
	}
}

func TestSummarize_NoSpacesKeepsRunesWhole(t *testing.T) {
	// 3-byte runes with no spaces: byte 300 falls inside a rune for an
	// offset of one or two leading ASCII bytes.
	for _, prefix := range []string{"", "a", "ab"} {
		text := prefix + strings.Repeat("職", 200)
		got := summarize(text)
		if !utf8.ValidString(got) {
			t.Errorf("prefix %q: invalid UTF-8 in %q", prefix, got)
		}
		if !strings.HasSuffix(got, "...") || len(got) > maxDescriptionLen+3 {
			t.Errorf("prefix %q: summary = %d bytes, %q", prefix, len(got), got[len(got)-6:])
		}
	}
}

// --- helpers ---

// roundTripFunc adapts a function into an http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// rewriteClient sends every request to srv regardless of its host.
func rewriteClient(srv *httptest.Server) *http.Client {
	return &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			req.URL.Scheme = "http"
			req.URL.Host = srv.Listener.Addr().String()
			return http.DefaultTransport.RoundTrip(req)
		}),
	}
}

// newTestAdapter creates a GreenhouseAdapter wired to a test server.
func newTestAdapter(srv *httptest.Server, token, company string) *GreenhouseAdapter {
	return NewGreenhouseAdapter(token, company, rewriteClient(srv))
}
