package main

import (
	"github.com/saladlab/consult-tags/internal/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <sheet> <sheet>...",
		Short: "Compare tag counts across consultation tabs",
		Long: `Compare two or more consultation tabs in the order given.

For each category the output lists every tag with its count per tab and the
spread between the highest and lowest count, the per-tab totals with their
change from the previous tab, and the change rate of multi-branch companies.

Example:
  consult compare "2024-04 상담데이터" "2024-05 상담데이터" "2024-06 상담데이터"`,
		Args: cobra.MinimumNArgs(2),
		RunE: runCompare,
	}

	cmd.Flags().StringP("format", "f", formatTable, "Output format (table, json, yaml)")
	cmd.Flags().Int("top", 0, "Show at most this many tags per category (default from analysis.top_n)")
	cmd.Flags().Bool("no-progress", false, "Hide the progress bar")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := validateFormat(format); err != nil {
		return err
	}

	// Set up interrupt handling
	interruptHandler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := interruptHandler.HandleInterrupts(cmd.Context(), "Comparison")

	eng, err := initEngine(ctx)
	if err != nil {
		return err
	}

	var progress *cli.Progress
	if quiet, _ := cmd.Flags().GetBool("no-progress"); !quiet {
		progress = cli.NewProgress(cmd.ErrOrStderr(), len(args), "Loading sheets")
	}

	var step func(string, int, int)
	if progress != nil {
		step = progress.Step
	}
	comparison, err := eng.Compare(ctx, args, step)
	if err != nil {
		return err
	}
	if progress != nil {
		progress.Done()
	}

	topN, _ := cmd.Flags().GetInt("top")
	if topN <= 0 {
		topN = viper.GetInt("analysis.top_n")
	}

	return writeResult(cmd.OutOrStdout(), format, comparison, func() string {
		return cli.RenderComparison(comparison, topN)
	})
}
