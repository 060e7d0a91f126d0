package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/saladlab/consult-tags/internal/cli"
	"github.com/saladlab/consult-tags/internal/common"
	"github.com/saladlab/consult-tags/internal/engine"
	"github.com/saladlab/consult-tags/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func analyzeCmd() *cobra.Command {
	layout := service.DefaultChartLayout()

	cmd := &cobra.Command{
		Use:   "analyze <sheet>",
		Short: "Count the tags of one consultation tab",
		Long: `Analyze one consultation tab: count tags per category and branch, and
count the companies that used several branches.

With --write the summary tab "[beta]<sheet>_분석" is (re)created in the
spreadsheet; --charts also adds one chart per category.

Examples:
  # Print the category tables
  consult analyze "2024-05 상담데이터"

  # Machine-readable output
  consult analyze "2024-05 상담데이터" --format json

  # Write the summary tab with charts
  consult analyze "2024-05 상담데이터" --write --charts`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringP("format", "f", formatTable, "Output format (table, json, yaml)")
	cmd.Flags().Int("top", 0, "Show at most this many tags per category (default from analysis.top_n)")
	cmd.Flags().Bool("write", false, "Write the summary tab to the spreadsheet")
	cmd.Flags().Bool("charts", false, "Add charts to the summary tab (implies --write)")
	cmd.Flags().Int("chart-start-row", layout.StartRow, "Row of the first chart")
	cmd.Flags().Int("chart-width", layout.Width, "Chart width in pixels")
	cmd.Flags().Int("chart-height", layout.Height, "Chart height in pixels")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sheet := args[0]

	format, _ := cmd.Flags().GetString("format")
	if err := validateFormat(format); err != nil {
		return err
	}
	write, _ := cmd.Flags().GetBool("write")
	charts, _ := cmd.Flags().GetBool("charts")
	write = write || charts

	start, _ := cmd.Flags().GetInt("chart-start-row")
	width, _ := cmd.Flags().GetInt("chart-width")
	height, _ := cmd.Flags().GetInt("chart-height")
	layout, err := chartLayoutFlags(start, width, height)
	if err != nil {
		return err
	}

	eng, err := initEngine(ctx)
	if err != nil {
		return err
	}
	if write && !eng.CanPublish() {
		return noWriterError(fmt.Errorf("cannot write %s: %w", sheet, engine.ErrNoWriter))
	}

	analysis, err := eng.Analyze(ctx, sheet)
	if err != nil {
		if errors.Is(err, common.ErrSheetNotFound) {
			if infos, listErr := eng.ConsultationSheets(ctx); listErr == nil && len(infos) > 0 {
				return common.NewUserError(fmt.Sprintf("Sheet %q not found. Consultation tabs: %s", sheet, sheetNames(infos)), err)
			}
		}
		return err
	}

	topN, _ := cmd.Flags().GetInt("top")
	if topN <= 0 {
		topN = viper.GetInt("analysis.top_n")
	}

	out := cmd.OutOrStdout()
	if err := writeResult(out, format, analysis, func() string {
		return cli.RenderAnalysis(analysis, topN)
	}); err != nil {
		return err
	}

	if !write {
		return nil
	}

	result, err := eng.Publish(ctx, analysis, charts, layout)
	if err != nil {
		return noWriterError(err)
	}
	slog.Info("Summary tab written", "sheet", result.SummarySheet, "charts", len(result.ChartIDs))
	if format == formatTable {
		msg := fmt.Sprintf("Wrote %s", result.SummarySheet)
		if charts {
			msg += fmt.Sprintf(" with %d charts", len(result.ChartIDs))
		}
		if _, err := fmt.Fprintln(out, cli.FormatSuccess(msg)); err != nil {
			return err
		}
	}
	return nil
}
