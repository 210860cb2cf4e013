package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/leettrack/backend/internal/domain/solvehistory"
)

func (s *SQLiteStore) SaveAttempt(ctx context.Context, a *solvehistory.Attempt) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO solve_history (id, user_id, question_id, solved, time_spent_sec, notes, attempted_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		a.ID, a.UserID, a.QuestionID, a.Solved, int64(a.TimeSpent/time.Second), a.Notes, toUnix(a.AttemptedAt),
	)
	if err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return fmt.Errorf("attempt %s: %w", a.ID, ErrNotFound)
	}
	return err
}

// ListAttempts returns a user's attempts newest first. limit <= 0 means all.
func (s *SQLiteStore) ListAttempts(ctx context.Context, userID string, limit int) ([]solvehistory.Attempt, error) {
	query := `SELECT id, user_id, question_id, solved, time_spent_sec, notes, attempted_at
		FROM solve_history WHERE user_id = ? ORDER BY attempted_at DESC, id`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []solvehistory.Attempt
	for rows.Next() {
		var a solvehistory.Attempt
		var spentSec, attemptedAt int64
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuestionID, &a.Solved, &spentSec, &a.Notes, &attemptedAt); err != nil {
			return nil, err
		}
		a.TimeSpent = time.Duration(spentSec) * time.Second
		a.AttemptedAt = fromUnix(attemptedAt)
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
