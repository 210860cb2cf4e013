package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leettrack/backend/internal/seed"
)

var questionsFile string

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Import a YAML question catalogue",
	Long: `Import questions from a YAML file. Questions whose slug already exists
are skipped, so the command can be re-run safely.

Example:
  seed questions --file questions.yaml`,
	RunE: runQuestions,
}

func init() {
	questionsCmd.Flags().StringVarP(&questionsFile, "file", "f", "", "YAML catalogue to import")
	_ = questionsCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(questionsCmd)
}

func runQuestions(cmd *cobra.Command, args []string) error {
	catalogue, err := seed.LoadFile(questionsFile)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	res, err := seed.Import(cmd.Context(), s, catalogue.Questions, newLogger())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created %d, skipped %d, invalid %d\n", res.Created, res.Skipped, res.Invalid)
	return nil
}
