package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amishk599/careerpath/internal/filter"
	"github.com/amishk599/careerpath/internal/model"
)

// BoardSearcher searches a fixed set of company boards for postings whose
// title matches the query.
type BoardSearcher struct {
	boards    []model.JobBoard
	locations []string
	logger    *slog.Logger
}

// NewBoardSearcher creates a searcher over boards. A non-empty locations list
// restricts results to postings in one of those locations.
func NewBoardSearcher(boards []model.JobBoard, locations []string, logger *slog.Logger) *BoardSearcher {
	return &BoardSearcher{
		boards:    boards,
		locations: locations,
		logger:    logger,
	}
}

// Search fetches each board in order and collects matching postings until
// q.Limit is reached. A failing board is skipped; Search only returns an error
// when every board failed.
func (s *BoardSearcher) Search(ctx context.Context, q model.JobQuery) ([]model.JobListing, error) {
	f := filter.NewTitleFilter(q.Title, s.locations)

	var (
		matched []model.JobListing
		errs    []error
	)
	for _, b := range s.boards {
		listings, err := b.FetchListings(ctx)
		if err != nil {
			s.logger.Warn("board fetch failed", "board", b.Name(), "error", err)
			errs = append(errs, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		for _, l := range listings {
			if !f.Match(l) {
				continue
			}
			matched = append(matched, l)
			if q.Limit > 0 && len(matched) >= q.Limit {
				return matched, nil
			}
		}
	}

	if len(errs) > 0 && len(errs) == len(s.boards) {
		return nil, fmt.Errorf("all %d boards failed: %w", len(s.boards), errors.Join(errs...))
	}
	return matched, nil
}

// ChainSearcher tries searchers in order and returns the first non-empty result.
type ChainSearcher struct {
	searchers []model.JobSearcher
	logger    *slog.Logger
}

// NewChainSearcher creates a ChainSearcher.
func NewChainSearcher(logger *slog.Logger, searchers ...model.JobSearcher) *ChainSearcher {
	return &ChainSearcher{
		searchers: searchers,
		logger:    logger,
	}
}

// Search returns the first non-empty listing set. It returns an error only
// when no searcher succeeded.
func (c *ChainSearcher) Search(ctx context.Context, q model.JobQuery) ([]model.JobListing, error) {
	var errs []error
	for i, s := range c.searchers {
		listings, err := s.Search(ctx, q)
		if err != nil {
			c.logger.Debug("job searcher failed, trying next", "index", i, "error", err)
			errs = append(errs, err)
			continue
		}
		if len(listings) > 0 {
			return listings, nil
		}
	}
	if len(errs) > 0 && len(errs) == len(c.searchers) {
		return nil, errors.Join(errs...)
	}
	return nil, nil
}
