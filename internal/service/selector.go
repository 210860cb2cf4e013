package service

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/leettrack/backend/internal/domain/question"
	"github.com/leettrack/backend/internal/domain/solvehistory"
	"github.com/leettrack/backend/internal/recommend"
)

// reviewGap is how long a solved question rests before spaced repetition
// brings it back.
const reviewGap = 24 * time.Hour

// Pick is one question chosen by a strategy.
type Pick struct {
	Question *question.Question
	Strategy recommend.Strategy
	Reason   string
}

// selection is the read-only view every selector works from. Selectors run
// concurrently, so nothing here may be mutated after construction.
type selection struct {
	catalogue *catalogue
	stats     map[string]*solvehistory.QuestionStats
	topics    []solvehistory.TopicStats
	hardest   question.Difficulty
	now       time.Time
	seed      int64
}

func newSelection(c *catalogue, attempts []solvehistory.Attempt, now time.Time, seed int64) *selection {
	return &selection{
		catalogue: c,
		stats:     solvehistory.BuildQuestionStats(attempts),
		topics:    solvehistory.BuildTopicStats(attempts, c.byID),
		hardest:   solvehistory.HardestSolved(attempts, c.byID),
		now:       now,
		seed:      seed,
	}
}

type selector func(sel *selection, n int) []Pick

var selectors = map[recommend.Strategy]selector{
	recommend.StrategyWeakArea:    selectWeakArea,
	recommend.StrategyProgressive: selectProgressive,
	recommend.StrategySpaced:      selectSpaced,
	recommend.StrategyExploration: selectExploration,
	recommend.StrategyGeneral:     selectGeneral,
}

// rng returns a generator private to one strategy so concurrent selectors
// never share state.
func (sel *selection) rng(s recommend.Strategy) *rand.Rand {
	offset := int64(0)
	for i, known := range recommend.Strategies {
		if known == s {
			offset = int64(i + 1)
		}
	}
	return rand.New(rand.NewSource(sel.seed + offset))
}

func (sel *selection) attempted(qid string) bool {
	_, ok := sel.stats[qid]
	return ok
}

func (sel *selection) solved(qid string) bool {
	qs, ok := sel.stats[qid]
	return ok && qs.EverSolved()
}

func shuffled(qs []*question.Question, rng *rand.Rand) []*question.Question {
	out := make([]*question.Question, len(qs))
	copy(out, qs)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

func take(qs []*question.Question, n int, s recommend.Strategy, reason func(*question.Question) string) []Pick {
	if n > len(qs) {
		n = len(qs)
	}
	picks := make([]Pick, 0, n)
	for _, q := range qs[:n] {
		picks = append(picks, Pick{Question: q, Strategy: s, Reason: reason(q)})
	}
	return picks
}

// selectWeakArea targets unsolved questions in the topics with the lowest
// success rate. Previously failed questions come before fresh ones.
func selectWeakArea(sel *selection, n int) []Pick {
	if n <= 0 {
		return nil
	}

	rank := make(map[string]int)
	rates := make(map[string]float64)
	for i, ts := range sel.topics {
		if ts.SuccessRate >= 1 {
			continue
		}
		rank[ts.Topic] = i
		rates[ts.Topic] = ts.SuccessRate
	}
	if len(rank) == 0 {
		return nil
	}

	type candidate struct {
		q     *question.Question
		topic string
		rank  int
	}
	var candidates []candidate
	for _, q := range sel.catalogue.list {
		if sel.solved(q.ID) {
			continue
		}
		best, bestTopic := -1, ""
		for _, t := range q.Topics {
			if r, ok := rank[t]; ok && (best < 0 || r < best) {
				best, bestTopic = r, t
			}
		}
		if best >= 0 {
			candidates = append(candidates, candidate{q: q, topic: bestTopic, rank: best})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		if fa, fb := sel.attempted(a.q.ID), sel.attempted(b.q.ID); fa != fb {
			return fa
		}
		return a.q.Difficulty.Rank() < b.q.Difficulty.Rank()
	})

	topicOf := make(map[string]string, len(candidates))
	qs := make([]*question.Question, len(candidates))
	for i, c := range candidates {
		qs[i] = c.q
		topicOf[c.q.ID] = c.topic
	}
	return take(qs, n, recommend.StrategyWeakArea, func(q *question.Question) string {
		t := topicOf[q.ID]
		return fmt.Sprintf("weak topic %s (%.0f%% success)", t, rates[t]*100)
	})
}

// selectProgressive offers unsolved questions one difficulty above the
// hardest the user has solved, falling back to the current level.
func selectProgressive(sel *selection, n int) []Pick {
	if n <= 0 {
		return nil
	}

	target := question.DifficultyEasy
	if sel.hardest != "" {
		target = sel.hardest.Next()
	}
	rng := sel.rng(recommend.StrategyProgressive)

	var next, current []*question.Question
	for _, q := range sel.catalogue.list {
		if sel.solved(q.ID) {
			continue
		}
		switch q.Difficulty {
		case target:
			next = append(next, q)
		case sel.hardest:
			current = append(current, q)
		}
	}

	qs := append(shuffled(next, rng), shuffled(current, rng)...)
	return take(qs, n, recommend.StrategyProgressive, func(q *question.Question) string {
		if q.Difficulty == target && target != sel.hardest {
			return fmt.Sprintf("step up to %s", q.Difficulty)
		}
		return fmt.Sprintf("consolidate %s", q.Difficulty)
	})
}

// selectSpaced brings back solved questions that have rested longest, lowest
// mastery first when two were last seen at the same time.
func selectSpaced(sel *selection, n int) []Pick {
	if n <= 0 {
		return nil
	}

	var due []*question.Question
	for _, q := range sel.catalogue.list {
		qs, ok := sel.stats[q.ID]
		if !ok || !qs.EverSolved() {
			continue
		}
		if sel.now.Sub(qs.LastAttempted) < reviewGap {
			continue
		}
		due = append(due, q)
	}

	sort.SliceStable(due, func(i, j int) bool {
		a, b := sel.stats[due[i].ID], sel.stats[due[j].ID]
		if !a.LastAttempted.Equal(b.LastAttempted) {
			return a.LastAttempted.Before(b.LastAttempted)
		}
		return a.Mastery < b.Mastery
	})

	return take(due, n, recommend.StrategySpaced, func(q *question.Question) string {
		days := int(sel.now.Sub(sel.stats[q.ID].LastAttempted).Hours() / 24)
		return fmt.Sprintf("review: last practised %d days ago", days)
	})
}

// selectExploration picks unattempted questions from topics the user has
// never touched, easiest first.
func selectExploration(sel *selection, n int) []Pick {
	if n <= 0 {
		return nil
	}

	seen := make(map[string]bool, len(sel.topics))
	for _, ts := range sel.topics {
		seen[ts.Topic] = true
	}
	rng := sel.rng(recommend.StrategyExploration)

	var fresh []*question.Question
	newTopic := make(map[string]string)
	for _, q := range shuffled(sel.catalogue.list, rng) {
		if sel.attempted(q.ID) {
			continue
		}
		for _, t := range q.Topics {
			if !seen[t] {
				fresh = append(fresh, q)
				newTopic[q.ID] = t
				break
			}
		}
	}

	sort.SliceStable(fresh, func(i, j int) bool {
		return fresh[i].Difficulty.Rank() < fresh[j].Difficulty.Rank()
	})

	return take(fresh, n, recommend.StrategyExploration, func(q *question.Question) string {
		return fmt.Sprintf("new topic %s", newTopic[q.ID])
	})
}

// selectGeneral picks any unattempted question at random.
func selectGeneral(sel *selection, n int) []Pick {
	if n <= 0 {
		return nil
	}
	return take(sel.unattempted(recommend.StrategyGeneral), n, recommend.StrategyGeneral, func(*question.Question) string {
		return "general practice"
	})
}

func (sel *selection) unattempted(s recommend.Strategy) []*question.Question {
	var out []*question.Question
	for _, q := range shuffled(sel.catalogue.list, sel.rng(s)) {
		if !sel.attempted(q.ID) {
			out = append(out, q)
		}
	}
	return out
}

// backfill tops the list up to target with unattempted questions, then with
// any unsolved ones, skipping questions already chosen.
func (sel *selection) backfill(picks []Pick, target int) []Pick {
	if len(picks) >= target {
		return picks
	}

	chosen := make(map[string]bool, len(picks))
	for _, p := range picks {
		chosen[p.Question.ID] = true
	}

	pools := [][]*question.Question{sel.unattempted(recommend.StrategyGeneral)}
	var unsolved []*question.Question
	for _, q := range sel.catalogue.list {
		if !sel.solved(q.ID) {
			unsolved = append(unsolved, q)
		}
	}
	pools = append(pools, unsolved)

	for _, pool := range pools {
		for _, q := range pool {
			if len(picks) >= target {
				return picks
			}
			if chosen[q.ID] {
				continue
			}
			chosen[q.ID] = true
			picks = append(picks, Pick{Question: q, Strategy: recommend.StrategyGeneral, Reason: "backfill"})
		}
	}
	return picks
}
