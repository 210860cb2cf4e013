package id

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateID returns a 16-character lowercase hex ID taken from a random UUID.
func GenerateID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// GenerateRequestID returns a full UUID for correlating log lines.
func GenerateRequestID() string {
	return uuid.NewString()
}
