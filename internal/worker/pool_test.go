package worker_test

import (
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/leettrack/backend/internal/worker"
)

func TestPool_DeliversEveryResult(t *testing.T) {
	p := worker.NewPool[int](3, 10)

	for i := 0; i < 10; i++ {
		n := i
		p.Submit(strconv.Itoa(n), func() int { return n * n })
	}
	p.Close()

	got := make(map[string]int)
	for r := range p.Results() {
		got[r.JobID] = r.Output
	}

	if len(got) != 10 {
		t.Fatalf("expected 10 results, got %d", len(got))
	}
	if got["7"] != 49 {
		t.Errorf("expected 49 for job 7, got %d", got["7"])
	}
}

func TestPool_CloseTwice(t *testing.T) {
	p := worker.NewPool[int](1, 1)
	p.Close()
	p.Close()

	if _, ok := <-p.Results(); ok {
		t.Error("expected results channel to be closed")
	}
}

func TestRunAll(t *testing.T) {
	var calls atomic.Int32
	jobs := map[string]worker.Job[string]{
		"a": func() string { calls.Add(1); return "alpha" },
		"b": func() string { calls.Add(1); return "beta" },
	}

	out := worker.RunAll(4, jobs)

	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}
	if out["a"] != "alpha" || out["b"] != "beta" {
		t.Errorf("unexpected output %v", out)
	}
}

func TestRunAll_Empty(t *testing.T) {
	out := worker.RunAll[int](2, nil)
	if len(out) != 0 {
		t.Errorf("expected no output, got %v", out)
	}
}
