package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leettrack/backend/internal/domain/solvehistory"
	"github.com/leettrack/backend/internal/metrics"
	"github.com/leettrack/backend/internal/recommend"
	"github.com/leettrack/backend/internal/store"
	"github.com/leettrack/backend/internal/worker"
)

// RecommendationOptions tunes a RecommendationService.
type RecommendationOptions struct {
	RecentWindow int // attempts feeding the success rate
	// PersistAdjusted stores adjusted weights back on the profile so the next
	// request starts from them.
	PersistAdjusted bool
	// Seed fixes the shuffle order of random picks. Zero seeds from the clock.
	Seed int64
}

// Recommendation is the outcome of one Recommend call.
type Recommendation struct {
	UserID             string
	SuccessRate        float64
	AttemptsConsidered int
	Adjusted           bool
	Weights            recommend.WeightTable
	Plan               recommend.DistributionPlan
	Questions          []Pick
}

// RecommendationService turns a user's history and profile weights into a
// list of questions to practise next.
type RecommendationService struct {
	store    store.Store
	profiles *ProfileService
	opts     RecommendationOptions
	logger   *slog.Logger
	now      func() time.Time
}

func NewRecommendationService(s store.Store, profiles *ProfileService, opts RecommendationOptions, logger *slog.Logger) *RecommendationService {
	if opts.RecentWindow <= 0 {
		opts.RecentWindow = solvehistory.DefaultWindow
	}
	return &RecommendationService{
		store:    s,
		profiles: profiles,
		opts:     opts,
		logger:   logger,
		now:      nowUTC,
	}
}

// Recommend plans count questions for the user across every strategy.
// The response may hold more than count questions: each strategy's share is
// rounded up, and shortfalls are backfilled up to count when the catalogue
// allows.
func (rs *RecommendationService) Recommend(ctx context.Context, userID string, count int) (*Recommendation, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count must not be negative, got %d", recommend.ErrInvalidArgument, count)
	}

	profile, err := rs.profiles.EnsureProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, err)
	}

	attempts, err := rs.store.ListAttempts(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}
	cat, err := loadCatalogue(ctx, rs.store)
	if err != nil {
		return nil, err
	}

	rate, considered := solvehistory.SuccessRate(attempts, rs.opts.RecentWindow)

	base, weights := profile.Weights, profile.Weights.Clone()
	if considered > 0 {
		adjust := func(w recommend.WeightTable) recommend.WeightTable {
			return recommend.Adjust(w, rate)
		}
		if rs.opts.PersistAdjusted {
			base, weights, err = rs.profiles.adjustWeights(ctx, userID, profile.Weights, adjust)
			if err != nil {
				return nil, fmt.Errorf("save adjusted weights: %w", err)
			}
		} else {
			weights = adjust(base)
		}
	}
	adjusted := !weights.Equal(base)

	plan, err := recommend.Plan(count, weights)
	if err != nil {
		return nil, err
	}

	now := rs.now()
	seed := rs.opts.Seed
	if seed == 0 {
		seed = now.UnixNano()
	}
	sel := newSelection(cat, attempts, now, seed)

	jobs := make(map[string]worker.Job[[]Pick], len(recommend.Strategies))
	for _, s := range recommend.Strategies {
		strategy, n := s, plan.Count(s)
		if n == 0 {
			continue
		}
		jobs[string(strategy)] = func() []Pick {
			return selectors[strategy](sel, n)
		}
	}
	byStrategy := worker.RunAll(len(jobs), jobs)

	picks := mergePicks(byStrategy)
	picks = sel.backfill(picks, count)

	metrics.RecordRecommendation(adjusted, plan.Overshoot(), len(picks))
	rs.logger.Info("recommendations planned",
		"user_id", userID,
		"target", plan.Target,
		"planned", plan.Total,
		"returned", len(picks),
		"success_rate", rate,
		"adjusted", adjusted,
	)

	return &Recommendation{
		UserID:             userID,
		SuccessRate:        rate,
		AttemptsConsidered: considered,
		Adjusted:           adjusted,
		Weights:            weights,
		Plan:               plan,
		Questions:          picks,
	}, nil
}

// mergePicks concatenates strategy results in canonical order, keeping the
// first occurrence of each question.
func mergePicks(byStrategy map[string][]Pick) []Pick {
	seen := make(map[string]bool)
	var out []Pick
	for _, s := range recommend.Strategies {
		for _, p := range byStrategy[string(s)] {
			if seen[p.Question.ID] {
				continue
			}
			seen[p.Question.ID] = true
			out = append(out, p)
		}
	}
	return out
}
