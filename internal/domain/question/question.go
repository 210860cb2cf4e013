package question

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/leettrack/backend/internal/id"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty accepts any casing ("Easy", "MEDIUM").
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if d.Rank() < 0 {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}

// Rank orders difficulties from 0 (easy) upward. Unknown values rank -1.
func (d Difficulty) Rank() int {
	for i, known := range difficulties {
		if d == known {
			return i
		}
	}
	return -1
}

// Next returns the difficulty one step harder, or d itself at the top.
func (d Difficulty) Next() Difficulty {
	r := d.Rank()
	if r < 0 {
		return DifficultyEasy
	}
	if r+1 < len(difficulties) {
		return difficulties[r+1]
	}
	return d
}

type Question struct {
	ID         string
	Title      string
	Slug       string
	Difficulty Difficulty
	Topics     []string
	URL        *string // Optional - link to the problem page
	CreatedAt  time.Time
}

func New(title string, difficulty Difficulty, topics []string) (*Question, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("question title cannot be empty")
	}
	if difficulty.Rank() < 0 {
		return nil, fmt.Errorf("unknown difficulty %q", difficulty)
	}

	return &Question{
		ID:         id.GenerateID(),
		Title:      title,
		Slug:       Slugify(title),
		Difficulty: difficulty,
		Topics:     NormalizeTopics(topics),
		CreatedAt:  time.Now().UTC(),
	}, nil
}

func (q *Question) SetURL(url *string) {
	q.URL = url
}

// HasTopic reports whether the question is tagged with topic.
func (q *Question) HasTopic(topic string) bool {
	topic = strings.ToLower(strings.TrimSpace(topic))
	for _, t := range q.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns "Two Sum II" into "two-sum-ii".
func Slugify(title string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

// NormalizeTopics trims, lowercases, dedupes and sorts topic tags.
func NormalizeTopics(topics []string) []string {
	seen := make(map[string]bool, len(topics))
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
