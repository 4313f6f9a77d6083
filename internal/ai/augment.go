package ai

import (
	"context"
	"log/slog"
	"time"

	"github.com/amishk599/careerpath/internal/model"
)

// JobAugmenter replaces model-suggested job listings with real ones from a
// job search source. It is best-effort: any failure keeps the original list.
type JobAugmenter struct {
	searcher model.JobSearcher
	limit    int
	timeout  time.Duration
	logger   *slog.Logger
}

// NewJobAugmenter creates an augmenter. A nil searcher makes Augment a no-op.
func NewJobAugmenter(searcher model.JobSearcher, limit int, timeout time.Duration, logger *slog.Logger) *JobAugmenter {
	return &JobAugmenter{
		searcher: searcher,
		limit:    limit,
		timeout:  timeout,
		logger:   logger,
	}
}

// Augment queries the searcher for title and, when it returns listings,
// replaces res.Jobs with them.
func (a *JobAugmenter) Augment(ctx context.Context, title string, res *model.LearningResources) {
	if a == nil || a.searcher == nil || title == "" {
		return
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	jobs, err := a.searcher.Search(ctx, model.JobQuery{Title: title, Limit: a.limit})
	if err != nil {
		a.logger.Warn("job search failed, keeping suggested listings", "title", title, "error", err)
		return
	}
	if len(jobs) == 0 {
		a.logger.Debug("job search returned no listings", "title", title)
		return
	}

	res.Jobs = jobs
	a.logger.Debug("replaced job listings with search results", "title", title, "count", len(jobs))
}
