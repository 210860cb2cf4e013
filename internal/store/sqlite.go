package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/leettrack/backend/internal/domain/user"
	"github.com/leettrack/backend/internal/recommend"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS user_profiles (
    user_id TEXT PRIMARY KEY,
    weights TEXT NOT NULL,
    theme TEXT NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS questions (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    difficulty TEXT NOT NULL,
    url TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS question_topics (
    question_id TEXT NOT NULL,
    topic TEXT NOT NULL,
    PRIMARY KEY (question_id, topic),
    FOREIGN KEY (question_id) REFERENCES questions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS solve_history (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    question_id TEXT NOT NULL,
    solved INTEGER NOT NULL,
    time_spent_sec INTEGER NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    attempted_at INTEGER NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
    FOREIGN KEY (question_id) REFERENCES questions(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_solve_history_user_time ON solve_history(user_id, attempted_at DESC);
CREATE INDEX IF NOT EXISTS idx_question_topics_topic ON question_topics(topic);
`

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable; used by the health endpoint.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func checkAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func toUnix(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromUnix(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

// ============================================================================
// Users
// ============================================================================

func (s *SQLiteStore) SaveUser(ctx context.Context, u *user.User) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, display_name, created_at) VALUES (?, ?, ?, ?)",
		u.ID, u.Email, u.DisplayName, toUnix(u.CreatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("user %s: %w", u.Email, ErrConflict)
	}
	return err
}

func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, display_name, created_at FROM users WHERE id = ?", id,
	).Scan(&u.ID, &u.Email, &u.DisplayName, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = fromUnix(createdAt)
	return &u, nil
}

func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*user.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, email, display_name, created_at FROM users ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		var u user.User
		var createdAt int64
		if err := rows.Scan(&u.ID, &u.Email, &u.DisplayName, &createdAt); err != nil {
			return nil, err
		}
		u.CreatedAt = fromUnix(createdAt)
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (s *SQLiteStore) DeleteUser(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM solve_history WHERE user_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM user_profiles WHERE user_id = ?", id); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	if err := checkAffected(result); err != nil {
		return err
	}

	return tx.Commit()
}

// ============================================================================
// Profiles
// ============================================================================

func (s *SQLiteStore) GetProfile(ctx context.Context, userID string) (*user.Profile, error) {
	var weightsJSON, theme string
	var updatedAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT weights, theme, updated_at FROM user_profiles WHERE user_id = ?", userID,
	).Scan(&weightsJSON, &theme, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var weights recommend.WeightTable
	if err := json.Unmarshal([]byte(weightsJSON), &weights); err != nil {
		return nil, fmt.Errorf("decode weights for user %s: %w", userID, err)
	}

	return &user.Profile{
		UserID:      userID,
		Weights:     weights,
		Preferences: user.Preferences{Theme: user.Theme(theme)},
		UpdatedAt:   fromUnix(updatedAt),
	}, nil
}

func (s *SQLiteStore) CreateProfile(ctx context.Context, p *user.Profile) error {
	weightsJSON, err := json.Marshal(p.Weights)
	if err != nil {
		return fmt.Errorf("encode weights: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_profiles (user_id, weights, theme, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO NOTHING
	`, p.UserID, string(weightsJSON), string(p.Preferences.Theme), toUnix(p.UpdatedAt))
	if err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return fmt.Errorf("profile for user %s: %w", p.UserID, ErrNotFound)
	}
	return err
}

// UpdateProfileWeights compares against the encoded weights column. Encoding
// is deterministic (sorted keys, shortest float form), so a table read back
// from the row encodes to the same text.
func (s *SQLiteStore) UpdateProfileWeights(ctx context.Context, userID string, expected, next recommend.WeightTable, at time.Time) error {
	nextJSON, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode weights: %w", err)
	}

	var result sql.Result
	if expected == nil {
		result, err = s.db.ExecContext(ctx,
			"UPDATE user_profiles SET weights = ?, updated_at = ? WHERE user_id = ?",
			string(nextJSON), toUnix(at), userID,
		)
	} else {
		expectedJSON, encErr := json.Marshal(expected)
		if encErr != nil {
			return fmt.Errorf("encode weights: %w", encErr)
		}
		result, err = s.db.ExecContext(ctx,
			"UPDATE user_profiles SET weights = ?, updated_at = ? WHERE user_id = ? AND weights = ?",
			string(nextJSON), toUnix(at), userID, string(expectedJSON),
		)
	}
	if err != nil {
		return err
	}

	err = checkAffected(result)
	if expected == nil || !errors.Is(err, ErrNotFound) {
		return err
	}
	// Nothing matched: either the profile is gone or the weights moved on.
	if _, getErr := s.GetProfile(ctx, userID); getErr != nil {
		return getErr
	}
	return fmt.Errorf("weights for user %s: %w", userID, ErrStale)
}

func (s *SQLiteStore) UpdateProfileTheme(ctx context.Context, userID string, theme user.Theme, at time.Time) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE user_profiles SET theme = ?, updated_at = ? WHERE user_id = ?",
		string(theme), toUnix(at), userID,
	)
	if err != nil {
		return err
	}
	return checkAffected(result)
}
