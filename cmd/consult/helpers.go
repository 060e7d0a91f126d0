package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/saladlab/consult-tags/internal/common"
	"github.com/saladlab/consult-tags/internal/config"
	"github.com/saladlab/consult-tags/internal/engine"
	"github.com/saladlab/consult-tags/internal/filesource"
	"github.com/saladlab/consult-tags/internal/report"
	"github.com/saladlab/consult-tags/internal/service"
	"github.com/saladlab/consult-tags/internal/sheets"
	"github.com/spf13/viper"
)

// Output formats accepted by --format.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// initEngine builds an engine over the configured data source. A --data-dir
// source reads CSV files and has no report writer.
func initEngine(ctx context.Context) (*engine.Engine, error) {
	opts, err := config.LoadAnalysisOptions()
	if err != nil {
		return nil, err
	}
	cfg := engine.DefaultConfig()
	cfg.Options = opts
	cfg.TrendLimit = config.TrendLimit()
	if viper.IsSet("analysis.workers") {
		cfg.Workers = viper.GetInt("analysis.workers")
	}

	logger := slog.Default()

	if dir := viper.GetString("data_dir"); dir != "" {
		src, err := filesource.New(config.ExpandPath(dir), logger)
		if err != nil {
			return nil, err
		}
		return engine.New(src, nil, cfg, logger), nil
	}

	sheetsConfig, err := config.LoadSheetsConfig()
	if err != nil {
		return nil, common.NewUserError(
			"Google Sheets is not configured. Set sheets.* in the config file, GOOGLE_SHEETS_* variables, or use --data-dir", err)
	}
	client, err := sheets.NewClient(ctx, *sheetsConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return engine.New(client, client, cfg, logger), nil
}

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("%w: unknown output format %q (want table, json or yaml)", common.ErrInvalidConfig, format)
	}
}

// writeResult encodes v in the requested format, calling render for tables.
func writeResult(w io.Writer, format string, v any, render func() string) error {
	switch format {
	case formatJSON:
		return report.EncodeJSON(w, v)
	case formatYAML:
		return report.EncodeYAML(w, v)
	default:
		_, err := fmt.Fprintln(w, render())
		return err
	}
}

func chartLayoutFlags(start, width, height int) (service.ChartLayout, error) {
	if start < 1 || width <= 0 || height <= 0 {
		return service.ChartLayout{}, fmt.Errorf("%w: chart start row must be at least 1 and sizes positive", common.ErrInvalidConfig)
	}
	return service.ChartLayout{StartRow: start, Width: width, Height: height}, nil
}

func noWriterError(err error) error {
	if errors.Is(err, engine.ErrNoWriter) {
		return common.NewUserError("Writing to the spreadsheet needs Google Sheets; drop --data-dir", err)
	}
	return err
}

func sheetNames(infos []service.SheetInfo) string {
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Title
	}
	return strings.Join(names, ", ")
}
