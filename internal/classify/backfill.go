package classify

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/civicworks/civic-cli/internal/model"
	"github.com/civicworks/civic-cli/internal/resilience"
	"github.com/civicworks/civic-cli/internal/store"
)

// retryCfg retries transport-level classification failures during backfill.
var retryCfg = resilience.RetryConfig{
	MaxAttempts:    3,
	InitialBackoff: 250 * time.Millisecond,
	ShouldRetry: func(err error) bool {
		return errors.Is(err, ErrTransport) || resilience.IsTransient(err)
	},
}

// BackfillOptions tunes the re-classification run.
type BackfillOptions struct {
	Concurrency int
	// RPS throttles classifier calls across workers. Zero disables the
	// limiter.
	RPS float64
	// DryRun classifies without writing categories back.
	DryRun bool
}

// BackfillResult summarizes a backfill run.
type BackfillResult struct {
	Scanned   int
	Updated   int64
	Unchanged int64
	Failed    int64
}

// Backfill re-classifies issues stuck in the Other category and persists the
// resulting category. Individual failures are logged and counted, not fatal.
func (s *Service) Backfill(ctx context.Context, st store.Store, opts BackfillOptions) (*BackfillResult, error) {
	issues, err := st.ListIssues(ctx, store.IssueFilter{
		Category:       model.CategoryOther,
		IncludeFlagged: true,
		Limit:          -1,
	})
	if err != nil {
		return nil, eris.Wrap(err, "classify: list backfill candidates")
	}

	result := &BackfillResult{Scanned: len(issues)}
	if len(issues) == 0 {
		zap.L().Info("no uncategorized issues to backfill")
		return result, nil
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	var limiter *rate.Limiter
	if opts.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RPS), concurrency)
	}

	zap.L().Info("backfilling issue categories",
		zap.Int("candidates", len(issues)),
		zap.Int("concurrency", concurrency),
		zap.Bool("dry_run", opts.DryRun),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var updated, unchanged, failed atomic.Int64

	for _, issue := range issues {
		g.Go(func() error {
			log := zap.L().With(zap.String("issue", issue.ID))

			// Each classify call is one exchange; transient transport
			// failures are retried here at the batch layer.
			c, err := resilience.DoVal(gctx, retryCfg, func(ctx context.Context) (model.Classification, error) {
				if limiter != nil {
					if err := limiter.Wait(ctx); err != nil {
						return model.Classification{}, err
					}
				}
				return s.Classify(ctx, Input{Title: issue.Title, Description: issue.Description})
			})
			if err != nil {
				failed.Add(1)
				log.Warn("backfill classification failed", zap.Error(err))
				return nil // don't abort the run on individual failure
			}
			if c.Category == issue.Category {
				unchanged.Add(1)
				return nil
			}

			if !opts.DryRun {
				if err := st.UpdateCategory(gctx, issue.ID, c.Category); err != nil {
					failed.Add(1)
					log.Warn("backfill category update failed", zap.Error(err))
					return nil
				}
			}
			updated.Add(1)
			log.Info("issue re-categorized",
				zap.String("from", string(issue.Category)),
				zap.String("to", string(c.Category)),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "classify: backfill")
	}

	result.Updated = updated.Load()
	result.Unchanged = unchanged.Load()
	result.Failed = failed.Load()

	zap.L().Info("backfill complete",
		zap.Int("scanned", result.Scanned),
		zap.Int64("updated", result.Updated),
		zap.Int64("unchanged", result.Unchanged),
		zap.Int64("failed", result.Failed),
	)
	return result, nil
}
