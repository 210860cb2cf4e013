package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leettrack/backend/internal/domain/solvehistory"
	"github.com/leettrack/backend/internal/metrics"
	"github.com/leettrack/backend/internal/store"
)

// AttemptInput is a solve attempt as submitted by a client.
type AttemptInput struct {
	QuestionID  string
	Solved      bool
	TimeSpent   time.Duration
	Notes       string
	AttemptedAt time.Time // zero means now
}

// HistoryService records and lists solve attempts.
type HistoryService struct {
	store  store.Store
	logger *slog.Logger
}

func NewHistoryService(s store.Store, logger *slog.Logger) *HistoryService {
	return &HistoryService{store: s, logger: logger}
}

// RecordAttempt checks that both the user and the question exist, then
// persists the attempt.
func (hs *HistoryService) RecordAttempt(ctx context.Context, userID string, in AttemptInput) (*solvehistory.Attempt, error) {
	if _, err := hs.store.GetUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, err)
	}
	if _, err := hs.store.GetQuestion(ctx, in.QuestionID); err != nil {
		return nil, fmt.Errorf("question %s: %w", in.QuestionID, err)
	}

	a, err := solvehistory.NewAttempt(userID, in.QuestionID, in.Solved, in.TimeSpent, in.AttemptedAt)
	if err != nil {
		return nil, err
	}
	a.Notes = in.Notes

	if err := hs.store.SaveAttempt(ctx, a); err != nil {
		return nil, fmt.Errorf("save attempt: %w", err)
	}

	metrics.RecordAttempt(a.Solved)
	hs.logger.Debug("recorded attempt",
		"user_id", userID,
		"question_id", a.QuestionID,
		"solved", a.Solved,
	)
	return a, nil
}

// ListAttempts returns the user's attempts newest first.
func (hs *HistoryService) ListAttempts(ctx context.Context, userID string, limit int) ([]solvehistory.Attempt, error) {
	if _, err := hs.store.GetUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, err)
	}
	return hs.store.ListAttempts(ctx, userID, limit)
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
