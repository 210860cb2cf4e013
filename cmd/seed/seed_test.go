package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateCommand(t *testing.T) {
	path := writeFile(t, "weights.yaml", `
weak_area_reinforcement: 0.4
progressive_difficulty: 0.3
spaced_repetition: 0.2
topic_exploration: 0.07
general_practice: 0.03
`)

	out, err := runCmd(t, "validate", "--weights", path, "--count", "5", "--success-rate", "-1")
	if err != nil {
		t.Fatalf("validate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "is valid") || !strings.Contains(out, "7 (target 5)") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestValidateCommand_RejectsBadSum(t *testing.T) {
	path := writeFile(t, "weights.yaml", `
weak_area_reinforcement: 0.9
progressive_difficulty: 0.3
spaced_repetition: 0.2
topic_exploration: 0.07
general_practice: 0.03
`)

	if _, err := runCmd(t, "validate", "--weights", path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestQuestionsAndHistoryCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "seed.db")
	catalogue := writeFile(t, "questions.yaml", `
questions:
  - title: Two Sum
    difficulty: easy
    topics: [array]
  - title: Word Ladder
    difficulty: hard
    topics: [graph]
`)

	out, err := runCmd(t, "questions", "--db", db, "--file", catalogue)
	if err != nil {
		t.Fatalf("questions failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "created 2") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = runCmd(t, "history", "--db", db, "--users", "2", "--attempts", "5", "--seed", "3")
	if err != nil {
		t.Fatalf("history failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "created 2 users with 10 attempts") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
