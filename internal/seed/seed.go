// Package seed loads question catalogues from YAML and imports them into a
// store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/leettrack/backend/internal/domain/question"
	"github.com/leettrack/backend/internal/store"
)

// QuestionSpec describes one catalogue entry.
type QuestionSpec struct {
	Title      string   `yaml:"title"`
	Difficulty string   `yaml:"difficulty"`
	Topics     []string `yaml:"topics"`
	URL        *string  `yaml:"url,omitempty"`
}

// Catalogue is the top-level shape of a questions file:
//
//	questions:
//	  - title: Two Sum
//	    difficulty: easy
//	    topics: [array, hash-table]
type Catalogue struct {
	Questions []QuestionSpec `yaml:"questions"`
}

// ImportResult counts what an import did with each entry.
type ImportResult struct {
	Created int
	Skipped int // slug already present
	Invalid int
}

func LoadFile(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalogue, error) {
	var c Catalogue
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalogue: %w", err)
	}
	if len(c.Questions) == 0 {
		return nil, errors.New("catalogue has no questions")
	}
	return &c, nil
}

// Build turns a catalogue entry into a domain question.
func (qs QuestionSpec) Build() (*question.Question, error) {
	difficulty, err := question.ParseDifficulty(qs.Difficulty)
	if err != nil {
		return nil, err
	}
	q, err := question.New(qs.Title, difficulty, qs.Topics)
	if err != nil {
		return nil, err
	}
	q.SetURL(qs.URL)
	return q, nil
}

// Import saves every valid entry. Invalid entries and duplicate slugs are
// counted and logged; any other store error aborts the import.
func Import(ctx context.Context, s store.Store, specs []QuestionSpec, logger *slog.Logger) (ImportResult, error) {
	var result ImportResult
	for _, spec := range specs {
		q, err := spec.Build()
		if err != nil {
			logger.Warn("skipping question", "title", spec.Title, "error", err)
			result.Invalid++
			continue
		}

		if err := s.SaveQuestion(ctx, q); err != nil {
			if errors.Is(err, store.ErrConflict) {
				result.Skipped++
				continue
			}
			return result, fmt.Errorf("save question %q: %w", spec.Title, err)
		}
		result.Created++
	}

	logger.Info("imported questions",
		"created", result.Created,
		"skipped", result.Skipped,
		"invalid", result.Invalid,
	)
	return result, nil
}
