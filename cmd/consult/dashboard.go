package main

import (
	"log/slog"

	"github.com/saladlab/consult-tags/internal/tui"
	"github.com/saladlab/consult-tags/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Browse analyses in an interactive dashboard",
		Long: `Open a terminal dashboard to pick consultation tabs, view single-tab
analyses, and compare several tabs side by side.`,
		Args: cobra.NoArgs,
		RunE: runDashboard,
	}

	cmd.Flags().Bool("compare", false, "Start in comparison mode")
	cmd.Flags().Bool("single", false, "Start in single-tab mode")
	cmd.Flags().String("theme", "default", "Color theme (default, catppuccin)")
	cmd.MarkFlagsMutuallyExclusive("compare", "single")

	_ = viper.BindPFlag("dashboard.theme", cmd.Flags().Lookup("theme"))

	return cmd
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	eng, err := initEngine(ctx)
	if err != nil {
		return err
	}

	opts := []tui.Option{
		tui.WithBackend(eng),
		tui.WithLogger(slog.Default()),
		tui.WithTheme(themes.GetTheme(viper.GetString("dashboard.theme"))),
		tui.WithTopN(viper.GetInt("analysis.top_n")),
	}
	if compare, _ := cmd.Flags().GetBool("compare"); compare {
		opts = append(opts, tui.WithMode(tui.ModeCompare))
	}
	if single, _ := cmd.Flags().GetBool("single"); single {
		opts = append(opts, tui.WithMode(tui.ModeSingle))
	}

	return tui.Run(ctx, opts...)
}
