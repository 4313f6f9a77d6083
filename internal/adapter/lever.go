package adapter

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/amishk599/careerpath/internal/model"
)

const leverBaseURL = "https://api.lever.co/v0/postings"

// leverPosting is the subset of a Lever posting we read.
type leverPosting struct {
	Text             string `json:"text"`
	Description      string `json:"description"`      // HTML
	DescriptionPlain string `json:"descriptionPlain"` // not always present
	HostedURL        string `json:"hostedUrl"`
	Categories       struct {
		Location     string   `json:"location"`
		AllLocations []string `json:"allLocations"`
	} `json:"categories"`
}

// location joins every office the posting lists, or the primary one if the
// list is empty.
func (p leverPosting) location() string {
	if len(p.Categories.AllLocations) > 0 {
		return strings.Join(p.Categories.AllLocations, ", ")
	}
	return p.Categories.Location
}

func (p leverPosting) description() string {
	if p.DescriptionPlain != "" {
		return strings.Join(strings.Fields(p.DescriptionPlain), " ")
	}
	return extractText(p.Description)
}

// LeverAdapter lists postings from a Lever public postings board.
type LeverAdapter struct {
	companySlug string
	companyName string
	client      *http.Client
}

func NewLeverAdapter(companySlug, companyName string, client *http.Client) *LeverAdapter {
	return &LeverAdapter{companySlug: companySlug, companyName: companyName, client: client}
}

// Name identifies the board in logs.
func (a *LeverAdapter) Name() string {
	return "lever/" + a.companySlug
}

// FetchListings retrieves every open posting on the board.
func (a *LeverAdapter) FetchListings(ctx context.Context) ([]model.JobListing, error) {
	endpoint := fmt.Sprintf("%s/%s?mode=json", leverBaseURL, a.companySlug)

	var postings []leverPosting
	if err := getJSON(ctx, a.client, "lever fetch for "+a.companySlug, endpoint, &postings); err != nil {
		return nil, err
	}

	listings := make([]model.JobListing, len(postings))
	for i, p := range postings {
		listings[i] = model.JobListing{
			Title:       p.Text,
			Company:     a.companyName,
			Location:    p.location(),
			Description: summarize(p.description()),
			URL:         p.HostedURL,
		}
	}
	return listings, nil
}
