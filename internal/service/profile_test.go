package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leettrack/backend/internal/domain/user"
	"github.com/leettrack/backend/internal/recommend"
	"github.com/leettrack/backend/internal/service"
	"github.com/leettrack/backend/internal/store"
)

func TestEnsureProfile_CreatesOnce(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	p1, err := f.profiles.EnsureProfile(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p1.Weights.Equal(recommend.DefaultWeights()) {
		t.Errorf("expected default weights, got %v", p1.Weights)
	}

	if _, err := f.profiles.UpdateTheme(ctx, f.user.ID, user.ThemeDark); err != nil {
		t.Fatal(err)
	}

	p2, err := f.profiles.EnsureProfile(ctx, f.user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if p2.Preferences.Theme != user.ThemeDark {
		t.Error("EnsureProfile replaced an existing profile")
	}
}

func TestUpdateWeights(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	raw := recommend.WeightTable{
		recommend.StrategyWeakArea:    2,
		recommend.StrategyProgressive: 2,
		recommend.StrategySpaced:      2,
		recommend.StrategyExploration: 2,
		recommend.StrategyGeneral:     2,
	}

	if _, err := f.profiles.UpdateWeights(ctx, f.user.ID, raw, false); !errors.Is(err, recommend.ErrInvalidWeights) {
		t.Errorf("expected ErrInvalidWeights without normalization, got %v", err)
	}

	p, err := f.profiles.UpdateWeights(ctx, f.user.ID, raw, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Weights.Get(recommend.StrategyGeneral) != 0.2 {
		t.Errorf("expected normalized 0.2, got %v", p.Weights.Get(recommend.StrategyGeneral))
	}

	reset, err := f.profiles.ResetWeights(ctx, f.user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !reset.Weights.Equal(recommend.DefaultWeights()) {
		t.Errorf("expected defaults after reset, got %v", reset.Weights)
	}
}

func TestEnsureProfile_UnknownUser(t *testing.T) {
	f := newFixture(t, true)

	if _, err := f.profiles.EnsureProfile(context.Background(), "nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordAttempt_Validation(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.history.RecordAttempt(ctx, "nobody", service.AttemptInput{QuestionID: f.questions["two-sum"].ID})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown user, got %v", err)
	}

	_, err = f.history.RecordAttempt(ctx, f.user.ID, service.AttemptInput{QuestionID: "missing"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown question, got %v", err)
	}

	_, err = f.history.RecordAttempt(ctx, f.user.ID, service.AttemptInput{
		QuestionID: f.questions["two-sum"].ID,
		TimeSpent:  -time.Minute,
	})
	if err == nil {
		t.Error("expected error for negative time spent")
	}
}

func TestUserStats(t *testing.T) {
	f := newFixture(t, true)
	f.attempt(t, "two-sum", false, 72*time.Hour)
	f.attempt(t, "two-sum", true, 48*time.Hour)
	f.attempt(t, "word-ladder", false, 24*time.Hour)
	f.attempt(t, "coin-change", true, time.Hour)

	stats, err := service.NewStatsService(f.store, 10).UserStats(context.Background(), f.user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalAttempts != 4 || stats.SolvedAttempts != 2 {
		t.Errorf("expected 4 attempts / 2 solved, got %d / %d", stats.TotalAttempts, stats.SolvedAttempts)
	}
	if stats.QuestionsAttempted != 3 || stats.QuestionsSolved != 2 {
		t.Errorf("expected 3 attempted / 2 solved questions, got %d / %d", stats.QuestionsAttempted, stats.QuestionsSolved)
	}
	if stats.RecentSuccessRate != 0.5 || stats.RecentAttempts != 4 {
		t.Errorf("unexpected recent rate %v over %d", stats.RecentSuccessRate, stats.RecentAttempts)
	}
	if len(stats.Difficulties) != 3 {
		t.Errorf("expected 3 difficulty buckets, got %d", len(stats.Difficulties))
	}
	if len(stats.Topics) == 0 || stats.Topics[0].SuccessRate != 0 {
		t.Errorf("expected weakest topic first, got %+v", stats.Topics)
	}
}
