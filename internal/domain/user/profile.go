package user

import (
	"fmt"
	"time"

	"github.com/leettrack/backend/internal/recommend"
)

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func (t Theme) IsValid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// Preferences holds display settings the frontend reads on load.
type Preferences struct {
	Theme Theme
}

func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeSystem}
}

// Profile is the per-user recommendation state. Weights belong to this user
// alone and are replaced, never shared, when adjusted.
type Profile struct {
	UserID      string
	Weights     recommend.WeightTable
	Preferences Preferences
	UpdatedAt   time.Time
}

// NewProfile starts a profile from a copy of defaults.
func NewProfile(userID string, defaults recommend.WeightTable) *Profile {
	return &Profile{
		UserID:      userID,
		Weights:     defaults.Clone(),
		Preferences: DefaultPreferences(),
		UpdatedAt:   time.Now().UTC(),
	}
}

// SetWeights validates and stores a copy of w.
func (p *Profile) SetWeights(w recommend.WeightTable) error {
	if err := w.Validate(); err != nil {
		return err
	}
	p.Weights = w.Clone()
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (p *Profile) SetTheme(theme Theme) error {
	if !theme.IsValid() {
		return fmt.Errorf("unknown theme %q", theme)
	}
	p.Preferences.Theme = theme
	p.UpdatedAt = time.Now().UTC()
	return nil
}
