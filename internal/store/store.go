package store

import (
	"context"
	"errors"
	"time"

	"github.com/leettrack/backend/internal/domain/question"
	"github.com/leettrack/backend/internal/domain/solvehistory"
	"github.com/leettrack/backend/internal/domain/user"
	"github.com/leettrack/backend/internal/recommend"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
	// ErrStale means a conditional update lost to a concurrent write.
	ErrStale = errors.New("modified concurrently")
)

// QuestionFilter narrows ListQuestions. Zero values match everything.
type QuestionFilter struct {
	Difficulty question.Difficulty
	Topic      string
}

// Store is the persistence boundary used by services and handlers.
type Store interface {
	SaveUser(ctx context.Context, u *user.User) error
	GetUser(ctx context.Context, id string) (*user.User, error)
	ListUsers(ctx context.Context) ([]*user.User, error)
	DeleteUser(ctx context.Context, id string) error

	GetProfile(ctx context.Context, userID string) (*user.Profile, error)
	// CreateProfile inserts p unless the user already has a profile, in which
	// case the stored one is kept.
	CreateProfile(ctx context.Context, p *user.Profile) error
	// UpdateProfileWeights replaces only the weights. When expected is non-nil
	// the write happens only if the stored weights still equal it, otherwise
	// ErrStale is returned.
	UpdateProfileWeights(ctx context.Context, userID string, expected, next recommend.WeightTable, at time.Time) error
	UpdateProfileTheme(ctx context.Context, userID string, theme user.Theme, at time.Time) error

	SaveQuestion(ctx context.Context, q *question.Question) error
	GetQuestion(ctx context.Context, id string) (*question.Question, error)
	ListQuestions(ctx context.Context, filter QuestionFilter) ([]*question.Question, error)
	DeleteQuestion(ctx context.Context, id string) error

	SaveAttempt(ctx context.Context, a *solvehistory.Attempt) error
	ListAttempts(ctx context.Context, userID string, limit int) ([]solvehistory.Attempt, error)
}
