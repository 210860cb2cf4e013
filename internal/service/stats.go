package service

import (
	"context"
	"fmt"

	"github.com/leettrack/backend/internal/domain/question"
	"github.com/leettrack/backend/internal/domain/solvehistory"
	"github.com/leettrack/backend/internal/store"
)

// UserStats summarises a user's practice history.
type UserStats struct {
	UserID             string
	TotalAttempts      int
	SolvedAttempts     int
	QuestionsAttempted int
	QuestionsSolved    int
	RecentSuccessRate  float64
	RecentAttempts     int
	Topics             []solvehistory.TopicStats
	Difficulties       []solvehistory.DifficultyStats
}

type StatsService struct {
	store        store.Store
	recentWindow int
}

func NewStatsService(s store.Store, recentWindow int) *StatsService {
	return &StatsService{store: s, recentWindow: recentWindow}
}

func (ss *StatsService) UserStats(ctx context.Context, userID string) (*UserStats, error) {
	if _, err := ss.store.GetUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, err)
	}

	attempts, err := ss.store.ListAttempts(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}
	catalogue, err := loadCatalogue(ctx, ss.store)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{
		UserID:        userID,
		TotalAttempts: len(attempts),
		Topics:        solvehistory.BuildTopicStats(attempts, catalogue.byID),
		Difficulties:  solvehistory.BuildDifficultyStats(attempts, catalogue.byID),
	}
	stats.RecentSuccessRate, stats.RecentAttempts = solvehistory.SuccessRate(attempts, ss.recentWindow)

	for _, a := range attempts {
		if a.Solved {
			stats.SolvedAttempts++
		}
	}
	perQuestion := solvehistory.BuildQuestionStats(attempts)
	stats.QuestionsAttempted = len(perQuestion)
	for _, qs := range perQuestion {
		if qs.EverSolved() {
			stats.QuestionsSolved++
		}
	}

	return stats, nil
}

// catalogue is the question list in a stable order plus an ID index.
type catalogue struct {
	list []*question.Question
	byID map[string]*question.Question
}

func loadCatalogue(ctx context.Context, s store.Store) (*catalogue, error) {
	list, err := s.ListQuestions(ctx, store.QuestionFilter{})
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	c := &catalogue{
		list: list,
		byID: make(map[string]*question.Question, len(list)),
	}
	for _, q := range list {
		c.byID[q.ID] = q
	}
	return c, nil
}
