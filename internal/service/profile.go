package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leettrack/backend/internal/domain/user"
	"github.com/leettrack/backend/internal/recommend"
	"github.com/leettrack/backend/internal/store"
)

// ProfileService owns per-user recommendation profiles. Profiles are created
// lazily from the configured default weights.
type ProfileService struct {
	store    store.Store
	defaults recommend.WeightTable
	logger   *slog.Logger
}

func NewProfileService(s store.Store, defaults recommend.WeightTable, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:    s,
		defaults: defaults.Clone(),
		logger:   logger,
	}
}

// Defaults returns a copy of the weights new profiles start from.
func (ps *ProfileService) Defaults() recommend.WeightTable {
	return ps.defaults.Clone()
}

// maxWeightRetries bounds how often a conditional weight update is retried
// after losing to a concurrent write.
const maxWeightRetries = 16

// EnsureProfile returns the user's profile, creating it when missing.
func (ps *ProfileService) EnsureProfile(ctx context.Context, userID string) (*user.Profile, error) {
	p, err := ps.store.GetProfile(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	if _, err := ps.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	// A concurrent request may create the profile first; CreateProfile keeps
	// whichever row landed, so read it back.
	if err := ps.store.CreateProfile(ctx, user.NewProfile(userID, ps.defaults)); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	p, err = ps.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	ps.logger.Info("created profile", "user_id", userID)
	return p, nil
}

// UpdateWeights replaces the user's weights. When normalize is set the table
// is scaled to sum to 1.0 before validation.
func (ps *ProfileService) UpdateWeights(ctx context.Context, userID string, w recommend.WeightTable, normalize bool) (*user.Profile, error) {
	p, err := ps.EnsureProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if normalize {
		w = w.Normalize()
	}
	if err := p.SetWeights(w); err != nil {
		return nil, err
	}
	if err := ps.store.UpdateProfileWeights(ctx, userID, nil, p.Weights, p.UpdatedAt); err != nil {
		return nil, fmt.Errorf("save weights: %w", err)
	}
	return p, nil
}

// ResetWeights puts the user back on the default weights.
func (ps *ProfileService) ResetWeights(ctx context.Context, userID string) (*user.Profile, error) {
	return ps.UpdateWeights(ctx, userID, ps.defaults, false)
}

func (ps *ProfileService) UpdateTheme(ctx context.Context, userID string, theme user.Theme) (*user.Profile, error) {
	p, err := ps.EnsureProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := p.SetTheme(theme); err != nil {
		return nil, err
	}
	if err := ps.store.UpdateProfileTheme(ctx, userID, theme, p.UpdatedAt); err != nil {
		return nil, fmt.Errorf("save theme: %w", err)
	}
	return p, nil
}

// adjustWeights applies adjust to the stored weights and writes the result
// only if nobody changed them in between. On a lost race it reloads and
// applies adjust again, so concurrent adjustments compose instead of
// overwriting each other. It returns the weights it started from and the
// ones now stored.
func (ps *ProfileService) adjustWeights(ctx context.Context, userID string, current recommend.WeightTable, adjust func(recommend.WeightTable) recommend.WeightTable) (before, after recommend.WeightTable, err error) {
	for attempt := 0; ; attempt++ {
		next := adjust(current)
		if next.Equal(current) {
			return current, next, nil
		}

		err := ps.store.UpdateProfileWeights(ctx, userID, current, next, nowUTC())
		if err == nil {
			return current, next, nil
		}
		if !errors.Is(err, store.ErrStale) || attempt >= maxWeightRetries {
			return nil, nil, err
		}

		ps.logger.Debug("weights changed concurrently, retrying", "user_id", userID, "attempt", attempt+1)
		p, err := ps.store.GetProfile(ctx, userID)
		if err != nil {
			return nil, nil, fmt.Errorf("reload profile: %w", err)
		}
		current = p.Weights
	}
}
