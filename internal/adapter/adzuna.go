package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/amishk599/careerpath/internal/model"
)

const (
	adzunaBaseURL        = "https://api.adzuna.com/v1/api/jobs"
	adzunaDefaultCountry = "us"
	adzunaDefaultResults = 5
)

type adzunaResponse struct {
	Results []adzunaJob `json:"results"`
}

type adzunaJob struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	RedirectURL string      `json:"redirect_url"`
	Company     adzunaLabel `json:"company"`
	Location    adzunaLabel `json:"location"`
}

type adzunaLabel struct {
	DisplayName string `json:"display_name"`
}

// AdzunaSearcher queries the Adzuna job search API, which authenticates with
// an application id and key.
type AdzunaSearcher struct {
	baseURL string
	country string
	appID   string
	appKey  string
	client  *http.Client
}

// NewAdzunaSearcher creates a searcher for the given country ("us", "gb", ...).
func NewAdzunaSearcher(appID, appKey, country string, client *http.Client) *AdzunaSearcher {
	if country == "" {
		country = adzunaDefaultCountry
	}
	return &AdzunaSearcher{
		baseURL: adzunaBaseURL,
		country: country,
		appID:   appID,
		appKey:  appKey,
		client:  client,
	}
}

// Search returns the first page of listings matching q.Title.
func (s *AdzunaSearcher) Search(ctx context.Context, q model.JobQuery) ([]model.JobListing, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = adzunaDefaultResults
	}

	params := url.Values{}
	params.Set("app_id", s.appID)
	params.Set("app_key", s.appKey)
	params.Set("what", q.Title)
	params.Set("results_per_page", fmt.Sprintf("%d", limit))
	params.Set("content-type", "application/json")
	endpoint := fmt.Sprintf("%s/%s/search/1?%s", s.baseURL, s.country, params.Encode())

	var azResp adzunaResponse
	if err := getJSON(ctx, s.client, fmt.Sprintf("adzuna search for %q", q.Title), endpoint, &azResp); err != nil {
		return nil, err
	}

	listings := make([]model.JobListing, 0, len(azResp.Results))
	for _, r := range azResp.Results {
		// Adzuna highlights matched terms with <strong> tags.
		listings = append(listings, model.JobListing{
			Title:       extractText(r.Title),
			Company:     r.Company.DisplayName,
			Location:    r.Location.DisplayName,
			Description: summarize(extractText(r.Description)),
			URL:         r.RedirectURL,
		})
	}
	if len(listings) > limit {
		listings = listings[:limit]
	}
	return listings, nil
}
