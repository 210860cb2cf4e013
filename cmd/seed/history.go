package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leettrack/backend/internal/simulation"
)

var (
	historyUsers    int
	historyAttempts int
	historySeed     int64
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Generate synthetic users and solve history",
	Long: `Create simulated learners and record solve attempts for them against the
questions already in the database. Each learner gets a random skill level,
so some end up with low success rates and some with high ones.

Example:
  seed history --users 5 --attempts 40 --seed 1`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyUsers, "users", 3, "Number of users to create")
	historyCmd.Flags().IntVar(&historyAttempts, "attempts", 30, "Attempts per user")
	historyCmd.Flags().Int64Var(&historySeed, "seed", 1, "Random seed")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	summary, err := simulation.Generate(cmd.Context(), s, simulation.Config{
		Users:           historyUsers,
		AttemptsPerUser: historyAttempts,
		Seed:            historySeed,
	})
	if err != nil {
		return err
	}

	newLogger().Debug("generated history", "users", summary.Users)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "created %d users with %d attempts (%d solved)\n",
		len(summary.Users), summary.Attempts, summary.Solved)
	for _, id := range summary.Users {
		fmt.Fprintf(out, "  %s\n", id)
	}
	return nil
}
