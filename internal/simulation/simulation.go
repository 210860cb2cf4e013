// simulation/simulation.go
package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/leettrack/backend/internal/domain/question"
	"github.com/leettrack/backend/internal/domain/solvehistory"
	"github.com/leettrack/backend/internal/domain/user"
	"github.com/leettrack/backend/internal/store"
	"github.com/leettrack/backend/internal/worker"
)

// Config controls how much synthetic history Generate writes.
type Config struct {
	Users           int
	AttemptsPerUser int
	Seed            int64
	Workers         int
	// Span is how far back attempts are spread from Now.
	Span time.Duration
	Now  time.Time
}

// Summary reports what Generate wrote.
type Summary struct {
	Users    []string
	Attempts int
	Solved   int
}

// learner is a synthetic user with a fixed skill level in [0,1].
type learner struct {
	user  *user.User
	skill float64
	rng   *rand.Rand
}

// Generate creates cfg.Users users and gives each cfg.AttemptsPerUser attempts
// against the existing question catalogue. Success odds depend on the
// learner's skill and the question's difficulty.
func Generate(ctx context.Context, s store.Store, cfg Config) (*Summary, error) {
	if cfg.Users < 1 || cfg.AttemptsPerUser < 0 {
		return nil, errors.New("users must be positive and attempts non-negative")
	}
	if cfg.Span <= 0 {
		cfg.Span = 30 * 24 * time.Hour
	}
	if cfg.Now.IsZero() {
		cfg.Now = time.Now().UTC()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 4
	}

	questions, err := s.ListQuestions(ctx, store.QuestionFilter{})
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, errors.New("catalogue is empty, seed questions first")
	}

	master := rand.New(rand.NewSource(cfg.Seed))
	learners := make([]*learner, cfg.Users)
	for i := range learners {
		email := fmt.Sprintf("sim-%d-%d@example.com", cfg.Seed, i+1)
		u, err := user.New(email, "Simulated learner "+strconv.Itoa(i+1))
		if err != nil {
			return nil, err
		}
		if err := s.SaveUser(ctx, u); err != nil {
			return nil, fmt.Errorf("save user %s: %w", email, err)
		}
		learners[i] = &learner{
			user:  u,
			skill: 0.15 + master.Float64()*0.8,
			rng:   rand.New(rand.NewSource(master.Int63())),
		}
	}

	jobs := make(map[string]worker.Job[[]solvehistory.Attempt], len(learners))
	for _, l := range learners {
		jobs[l.user.ID] = func() []solvehistory.Attempt {
			return l.practise(questions, cfg.AttemptsPerUser, cfg.Now, cfg.Span)
		}
	}
	byUser := worker.RunAll(cfg.Workers, jobs)

	summary := &Summary{}
	for _, l := range learners {
		summary.Users = append(summary.Users, l.user.ID)
		for i := range byUser[l.user.ID] {
			a := &byUser[l.user.ID][i]
			if err := s.SaveAttempt(ctx, a); err != nil {
				return nil, fmt.Errorf("save attempt: %w", err)
			}
			summary.Attempts++
			if a.Solved {
				summary.Solved++
			}
		}
	}
	return summary, nil
}

// practise builds n attempts in chronological order. It only reads its own
// rng and the shared question slice, so learners can run concurrently.
func (l *learner) practise(questions []*question.Question, n int, now time.Time, span time.Duration) []solvehistory.Attempt {
	if n == 0 {
		return nil
	}
	step := span / time.Duration(n)
	start := now.Add(-span)

	out := make([]solvehistory.Attempt, 0, n)
	for i := 0; i < n; i++ {
		q := questions[l.rng.Intn(len(questions))]
		solved := l.rng.Float64() < l.odds(q.Difficulty)
		spent := time.Duration(5+l.rng.Intn(40)) * time.Minute

		a, err := solvehistory.NewAttempt(l.user.ID, q.ID, solved, spent, start.Add(step*time.Duration(i)))
		if err != nil {
			continue
		}
		out = append(out, *a)
	}
	return out
}

func (l *learner) odds(d question.Difficulty) float64 {
	p := l.skill + 0.2 - 0.2*float64(d.Rank())
	switch {
	case p < 0.05:
		return 0.05
	case p > 0.95:
		return 0.95
	}
	return p
}
