package user

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/leettrack/backend/internal/id"
)

type User struct {
	ID          string
	Email       string
	DisplayName string
	CreatedAt   time.Time
}

func New(email, displayName string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errors.New("user email is not a valid address")
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = strings.SplitN(email, "@", 2)[0]
	}

	return &User{
		ID:          id.GenerateID(),
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
