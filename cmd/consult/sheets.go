package main

import (
	"fmt"

	"github.com/saladlab/consult-tags/internal/cli"
	"github.com/saladlab/consult-tags/internal/service"
	"github.com/spf13/cobra"
)

func sheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "List consultation tabs",
		Long: `List the consultation tabs of the spreadsheet, newest first.

Tabs whose title contains "상담데이터" or "상담 데이터" are consultation tabs.
Use --all to list every tab with its grid size.`,
		Args: cobra.NoArgs,
		RunE: runSheets,
	}

	cmd.Flags().Bool("all", false, "List every tab, not only consultation tabs")
	cmd.Flags().StringP("format", "f", formatTable, "Output format (table, json, yaml)")

	return cmd
}

func runSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	format, _ := cmd.Flags().GetString("format")
	if err := validateFormat(format); err != nil {
		return err
	}
	all, _ := cmd.Flags().GetBool("all")

	eng, err := initEngine(ctx)
	if err != nil {
		return err
	}

	var infos []service.SheetInfo
	if all {
		infos, err = eng.Sheets(ctx)
	} else {
		infos, err = eng.ConsultationSheets(ctx)
	}
	if err != nil {
		return err
	}

	if format == formatTable && len(infos) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("No consultation tabs found"))
		return err
	}

	if infos == nil {
		infos = []service.SheetInfo{}
	}
	return writeResult(cmd.OutOrStdout(), format, infos, func() string {
		return cli.RenderSheets(infos)
	})
}
