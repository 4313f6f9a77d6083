package adapter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/amishk599/careerpath/internal/model"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

// greenhouseBoard is the subset of GET /boards/{token}/jobs?content=true we read.
type greenhouseBoard struct {
	Jobs []struct {
		Title    string `json:"title"`
		Location struct {
			Name string `json:"name"`
		} `json:"location"`
		AbsoluteURL string `json:"absolute_url"`
		Content     string `json:"content"` // HTML, entity-encoded
	} `json:"jobs"`
}

// GreenhouseAdapter lists postings from a Greenhouse public job board.
type GreenhouseAdapter struct {
	boardToken  string
	companyName string
	client      *http.Client
}

func NewGreenhouseAdapter(boardToken, companyName string, client *http.Client) *GreenhouseAdapter {
	return &GreenhouseAdapter{boardToken: boardToken, companyName: companyName, client: client}
}

// Name identifies the board in logs.
func (a *GreenhouseAdapter) Name() string {
	return "greenhouse/" + a.boardToken
}

// FetchListings retrieves every open posting on the board with a short
// plain-text description.
func (a *GreenhouseAdapter) FetchListings(ctx context.Context) ([]model.JobListing, error) {
	endpoint := fmt.Sprintf("%s/%s/jobs?content=true", greenhouseBaseURL, a.boardToken)

	var board greenhouseBoard
	if err := getJSON(ctx, a.client, "greenhouse fetch for "+a.boardToken, endpoint, &board); err != nil {
		return nil, err
	}

	listings := make([]model.JobListing, len(board.Jobs))
	for i, j := range board.Jobs {
		listings[i] = model.JobListing{
			Title:       j.Title,
			Company:     a.companyName,
			Location:    j.Location.Name,
			Description: summarize(extractText(j.Content)),
			URL:         j.AbsoluteURL,
		}
	}
	return listings, nil
}
