package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/leettrack/backend/internal/domain/question"
)

func (s *SQLiteStore) SaveQuestion(ctx context.Context, q *question.Question) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO questions (id, title, slug, difficulty, url, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		q.ID, q.Title, q.Slug, string(q.Difficulty), q.URL, toUnix(q.CreatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("question %s: %w", q.Slug, ErrConflict)
	}
	if err != nil {
		return err
	}

	for _, topic := range q.Topics {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO question_topics (question_id, topic) VALUES (?, ?)", q.ID, topic,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetQuestion(ctx context.Context, id string) (*question.Question, error) {
	q, err := scanQuestion(s.db.QueryRowContext(ctx,
		"SELECT id, title, slug, difficulty, url, created_at FROM questions WHERE id = ?", id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	topics, err := s.topicsByQuestion(ctx, []string{q.ID})
	if err != nil {
		return nil, err
	}
	q.Topics = topics[q.ID]
	return q, nil
}

func (s *SQLiteStore) ListQuestions(ctx context.Context, filter QuestionFilter) ([]*question.Question, error) {
	query := "SELECT id, title, slug, difficulty, url, created_at FROM questions"
	var where []string
	var args []any

	if filter.Difficulty != "" {
		where = append(where, "difficulty = ?")
		args = append(args, string(filter.Difficulty))
	}
	if filter.Topic != "" {
		where = append(where, "id IN (SELECT question_id FROM question_topics WHERE topic = ?)")
		args = append(args, strings.ToLower(strings.TrimSpace(filter.Topic)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []*question.Question
	var ids []string
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
		ids = append(ids, q.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	topics, err := s.topicsByQuestion(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, q := range questions {
		q.Topics = topics[q.ID]
	}
	return questions, nil
}

func (s *SQLiteStore) DeleteQuestion(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM question_topics WHERE question_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM solve_history WHERE question_id = ?", id); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM questions WHERE id = ?", id)
	if err != nil {
		return err
	}
	if err := checkAffected(result); err != nil {
		return err
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (*question.Question, error) {
	var q question.Question
	var difficulty string
	var url sql.NullString
	var createdAt int64
	if err := row.Scan(&q.ID, &q.Title, &q.Slug, &difficulty, &url, &createdAt); err != nil {
		return nil, err
	}
	q.Difficulty = question.Difficulty(difficulty)
	if url.Valid {
		q.URL = &url.String
	}
	q.CreatedAt = fromUnix(createdAt)
	q.Topics = []string{}
	return &q, nil
}

func (s *SQLiteStore) topicsByQuestion(ctx context.Context, ids []string) (map[string][]string, error) {
	out := make(map[string][]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT question_id, topic FROM question_topics WHERE question_id IN ("+placeholders+") ORDER BY topic",
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var qid, topic string
		if err := rows.Scan(&qid, &topic); err != nil {
			return nil, err
		}
		out[qid] = append(out[qid], topic)
	}
	return out, rows.Err()
}
