package solvehistory

import (
	"errors"
	"sort"
	"time"

	"github.com/leettrack/backend/internal/id"
)

// DefaultWindow is how many recent attempts feed the success rate.
const DefaultWindow = 10

// Attempt is one recorded try at a question.
type Attempt struct {
	ID          string
	UserID      string
	QuestionID  string
	Solved      bool
	TimeSpent   time.Duration
	Notes       string
	AttemptedAt time.Time
}

// NewAttempt records an attempt at the given time. A zero time means now.
func NewAttempt(userID, questionID string, solved bool, timeSpent time.Duration, attemptedAt time.Time) (*Attempt, error) {
	if userID == "" {
		return nil, errors.New("attempt user cannot be empty")
	}
	if questionID == "" {
		return nil, errors.New("attempt question cannot be empty")
	}
	if timeSpent < 0 {
		return nil, errors.New("time spent cannot be negative")
	}
	if attemptedAt.IsZero() {
		attemptedAt = time.Now()
	}

	return &Attempt{
		ID:          id.GenerateID(),
		UserID:      userID,
		QuestionID:  questionID,
		Solved:      solved,
		TimeSpent:   timeSpent,
		AttemptedAt: attemptedAt.UTC(),
	}, nil
}

// SortNewestFirst orders attempts by AttemptedAt descending, in place.
func SortNewestFirst(attempts []Attempt) {
	sort.SliceStable(attempts, func(i, j int) bool {
		return attempts[i].AttemptedAt.After(attempts[j].AttemptedAt)
	})
}

// SuccessRate returns the fraction of solved attempts among the window most
// recent ones, and how many attempts it looked at. With no attempts the rate
// is 0 and considered is 0; callers should treat that as "no signal".
func SuccessRate(attempts []Attempt, window int) (rate float64, considered int) {
	if len(attempts) == 0 {
		return 0, 0
	}
	if window <= 0 {
		window = DefaultWindow
	}

	recent := make([]Attempt, len(attempts))
	copy(recent, attempts)
	SortNewestFirst(recent)
	if len(recent) > window {
		recent = recent[:window]
	}

	solved := 0
	for _, a := range recent {
		if a.Solved {
			solved++
		}
	}

	rate = float64(solved) / float64(len(recent))
	return clamp01(rate), len(recent)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
