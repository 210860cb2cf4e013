package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/leettrack/backend/internal/infrastructure/config"
	"github.com/leettrack/backend/internal/recommend"
)

var (
	validateWeights string
	validateCount   int
	validateRate    float64
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a weight table file and preview its plan",
	Long: `Validate a YAML weight table and print the distribution it produces.
With --success-rate the low-success adjustment is applied first.

Example:
  seed validate --weights weights.yaml --count 10 --success-rate 0.3`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateWeights, "weights", "w", "", "YAML weight table")
	validateCmd.Flags().IntVarP(&validateCount, "count", "n", 5, "Questions to plan for")
	validateCmd.Flags().Float64Var(&validateRate, "success-rate", -1, "Apply the adjustment for this success rate")
	_ = validateCmd.MarkFlagRequired("weights")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	weights, err := config.LoadWeightsFile(validateWeights)
	if err != nil {
		return err
	}
	if validateRate >= 0 {
		weights = recommend.Adjust(weights, validateRate)
	}

	plan, err := recommend.Plan(validateCount, weights)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s is valid (sum %.4f)\n\n", validateWeights, weights.Sum())

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tWEIGHT\tQUESTIONS")
	for _, s := range recommend.Strategies {
		fmt.Fprintf(tw, "%s\t%.4f\t%d\n", s, weights.Get(s), plan.Count(s))
	}
	fmt.Fprintf(tw, "total\t\t%d (target %d)\n", plan.Total, plan.Target)
	return tw.Flush()
}
