package solvehistory

import (
	"sort"
	"time"

	"github.com/leettrack/backend/internal/domain/question"
)

// QuestionStats tracks one user's performance on a single question.
type QuestionStats struct {
	QuestionID    string
	TimesAnswered int
	TimesSolved   int
	TotalScore    int // 100 per solved attempt
	LatestScore   int // 100 if the most recent attempt was solved, else 0
	LastAttempted time.Time
	Mastery       int // 0-100
}

// CalculateMastery weighs the latest result against the history before it:
// mastery = latest_score * 0.6 + historical_average * 0.4
func (qs *QuestionStats) CalculateMastery() int {
	if qs.TimesAnswered == 0 {
		return 0
	}

	if qs.TimesAnswered == 1 {
		return qs.LatestScore
	}

	historicalAvg := float64(qs.TotalScore-qs.LatestScore) / float64(qs.TimesAnswered-1)

	mastery := int(float64(qs.LatestScore)*0.6 + historicalAvg*0.4)
	if mastery > 100 {
		mastery = 100
	}
	if mastery < 0 {
		mastery = 0
	}
	return mastery
}

// EverSolved reports whether any attempt succeeded.
func (qs *QuestionStats) EverSolved() bool {
	return qs.TimesSolved > 0
}

// BuildQuestionStats groups attempts by question.
func BuildQuestionStats(attempts []Attempt) map[string]*QuestionStats {
	ordered := make([]Attempt, len(attempts))
	copy(ordered, attempts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].AttemptedAt.Before(ordered[j].AttemptedAt)
	})

	stats := make(map[string]*QuestionStats)
	for _, a := range ordered {
		qs, ok := stats[a.QuestionID]
		if !ok {
			qs = &QuestionStats{QuestionID: a.QuestionID}
			stats[a.QuestionID] = qs
		}

		score := 0
		if a.Solved {
			score = 100
			qs.TimesSolved++
		}
		qs.TimesAnswered++
		qs.TotalScore += score
		qs.LatestScore = score
		qs.LastAttempted = a.AttemptedAt
	}

	for _, qs := range stats {
		qs.Mastery = qs.CalculateMastery()
	}
	return stats
}

// TopicStats aggregates attempts across every question tagged with a topic.
type TopicStats struct {
	Topic       string
	Attempts    int
	Solved      int
	SuccessRate float64
}

// BuildTopicStats returns per-topic stats sorted by ascending success rate,
// then by descending attempts, then by name. Attempts on questions missing
// from the catalogue are skipped.
func BuildTopicStats(attempts []Attempt, catalogue map[string]*question.Question) []TopicStats {
	byTopic := make(map[string]*TopicStats)
	for _, a := range attempts {
		q, ok := catalogue[a.QuestionID]
		if !ok {
			continue
		}
		for _, topic := range q.Topics {
			ts, ok := byTopic[topic]
			if !ok {
				ts = &TopicStats{Topic: topic}
				byTopic[topic] = ts
			}
			ts.Attempts++
			if a.Solved {
				ts.Solved++
			}
		}
	}

	out := make([]TopicStats, 0, len(byTopic))
	for _, ts := range byTopic {
		ts.SuccessRate = float64(ts.Solved) / float64(ts.Attempts)
		out = append(out, *ts)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SuccessRate != out[j].SuccessRate {
			return out[i].SuccessRate < out[j].SuccessRate
		}
		if out[i].Attempts != out[j].Attempts {
			return out[i].Attempts > out[j].Attempts
		}
		return out[i].Topic < out[j].Topic
	})
	return out
}

// DifficultyStats aggregates attempts by question difficulty.
type DifficultyStats struct {
	Difficulty  question.Difficulty
	Attempts    int
	Solved      int
	SuccessRate float64
}

// BuildDifficultyStats returns one entry per difficulty that has attempts,
// easiest first.
func BuildDifficultyStats(attempts []Attempt, catalogue map[string]*question.Question) []DifficultyStats {
	byDifficulty := make(map[question.Difficulty]*DifficultyStats)
	for _, a := range attempts {
		q, ok := catalogue[a.QuestionID]
		if !ok {
			continue
		}
		ds, ok := byDifficulty[q.Difficulty]
		if !ok {
			ds = &DifficultyStats{Difficulty: q.Difficulty}
			byDifficulty[q.Difficulty] = ds
		}
		ds.Attempts++
		if a.Solved {
			ds.Solved++
		}
	}

	out := make([]DifficultyStats, 0, len(byDifficulty))
	for _, ds := range byDifficulty {
		ds.SuccessRate = float64(ds.Solved) / float64(ds.Attempts)
		out = append(out, *ds)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Difficulty.Rank() < out[j].Difficulty.Rank()
	})
	return out
}

// HardestSolved returns the highest difficulty the user has solved, or ""
// when nothing has been solved yet.
func HardestSolved(attempts []Attempt, catalogue map[string]*question.Question) question.Difficulty {
	var hardest question.Difficulty
	for _, a := range attempts {
		if !a.Solved {
			continue
		}
		q, ok := catalogue[a.QuestionID]
		if !ok {
			continue
		}
		if q.Difficulty.Rank() > hardest.Rank() {
			hardest = q.Difficulty
		}
	}
	return hardest
}
