package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/saladlab/consult-tags/internal/common"
	"github.com/saladlab/consult-tags/internal/model"
	"github.com/saladlab/consult-tags/internal/report"
	"github.com/saladlab/consult-tags/internal/service"
	"google.golang.org/api/sheets/v4"
)

// readColumns is the column span read from a consultation tab.
const readColumns = "A:Z"

// Client reads consultation tabs and writes analysis artifacts back to a
// single spreadsheet. It implements service.TableSource and
// service.ReportWriter.
type Client struct {
	api    API
	logger *slog.Logger
	config Config
}

var (
	_ service.TableSource  = (*Client)(nil)
	_ service.ReportWriter = (*Client)(nil)
)

// NewClient creates a client backed by the Google Sheets API.
func NewClient(ctx context.Context, config Config, logger *slog.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewClientWithAPI(&googleAPI{service: srv}, config, logger), nil
}

// NewClientWithAPI creates a client over an existing API implementation.
func NewClientWithAPI(api API, config Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{api: api, config: config, logger: logger}
}

func (c *Client) retryOptions() service.RetryOptions {
	attempts := c.config.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: c.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

func (c *Client) withRetry(ctx context.Context, op func() error) error {
	return common.WithRetry(ctx, op, c.retryOptions())
}

func (c *Client) spreadsheet(ctx context.Context) (*sheets.Spreadsheet, error) {
	var ss *sheets.Spreadsheet
	err := c.withRetry(ctx, func() error {
		var err error
		ss, err = c.api.GetSpreadsheet(ctx, c.config.SpreadsheetID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("unable to access spreadsheet %s: %w", c.config.SpreadsheetID, err)
	}
	return ss, nil
}

// ListSheets returns every tab of the spreadsheet in spreadsheet order.
func (c *Client) ListSheets(ctx context.Context) ([]service.SheetInfo, error) {
	ss, err := c.spreadsheet(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]service.SheetInfo, 0, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties == nil {
			continue
		}
		p := sh.Properties
		info := service.SheetInfo{
			ID:    p.SheetId,
			Title: p.Title,
			Index: p.Index,
			Type:  p.SheetType,
		}
		if info.Type == "" {
			info.Type = "GRID"
		}
		if p.GridProperties != nil {
			info.RowCount = p.GridProperties.RowCount
			info.ColumnCount = p.GridProperties.ColumnCount
		}
		infos = append(infos, info)
	}

	c.logger.Debug("listed sheets", "count", len(infos))
	return infos, nil
}

// LoadTable reads a tab as a table. The first row is the header; a tab
// without at least one data row yields common.ErrNotEnoughData.
func (c *Client) LoadTable(ctx context.Context, sheet string) (*model.Table, error) {
	var vr *sheets.ValueRange
	err := c.withRetry(ctx, func() error {
		var err error
		vr, err = c.api.GetValues(ctx, c.config.SpreadsheetID, a1Range(sheet, readColumns))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	if vr == nil || len(vr.Values) < 2 {
		return nil, fmt.Errorf("%w: %q", common.ErrNotEnoughData, sheet)
	}

	header := toStrings(vr.Values[0])
	rows := make([][]string, 0, len(vr.Values)-1)
	for _, raw := range vr.Values[1:] {
		rows = append(rows, toStrings(raw))
	}

	c.logger.Info("loaded sheet", "sheet", sheet, "rows", len(rows), "columns", len(header))
	return model.NewTable(header, rows), nil
}

func toStrings(values []any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		switch s := v.(type) {
		case string:
			out[i] = s
		case nil:
			out[i] = ""
		default:
			out[i] = fmt.Sprint(s)
		}
	}
	return out
}

// WriteSummary deletes and recreates the summary tab for the analysis and
// fills it with one table per non-empty category.
func (c *Client) WriteSummary(ctx context.Context, analysis *report.Analysis) (string, error) {
	title := SummaryTitle(analysis.Sheet)

	ss, err := c.spreadsheet(ctx)
	if err != nil {
		return "", err
	}

	var existing *int64
	if sh := findSheet(ss, title); sh != nil {
		id := sh.Properties.SheetId
		existing = &id
	}

	var resp *sheets.BatchUpdateSpreadsheetResponse
	err = c.withRetry(ctx, func() error {
		var err error
		resp, err = c.api.BatchUpdate(ctx, c.config.SpreadsheetID, recreateRequests(existing, title))
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to create summary sheet %q: %w", title, err)
	}

	sheetID, err := addedSheetID(resp)
	if err != nil {
		return "", err
	}

	tables := summaryTables(analysis)
	grid := summaryGrid(tables)
	err = c.withRetry(ctx, func() error {
		return c.api.UpdateValues(ctx, c.config.SpreadsheetID, a1Range(title, "A1"), &sheets.ValueRange{Values: grid})
	})
	if err != nil {
		return "", fmt.Errorf("failed to write summary sheet %q: %w", title, err)
	}

	if c.config.EnableFormatting && len(tables) > 0 {
		err = c.withRetry(ctx, func() error {
			_, err := c.api.BatchUpdate(ctx, c.config.SpreadsheetID, formatRequests(sheetID, tables))
			return err
		})
		if err != nil {
			// Don't fail the whole operation if formatting fails
			c.logger.Warn("failed to apply formatting", "sheet", title, "error", err)
		}
	}

	c.logger.Info("summary sheet written",
		"sheet", title,
		"sheet_id", sheetID,
		"tables", len(tables),
		"replaced", existing != nil)

	return title, nil
}

// AddCharts adds one column chart per non-empty category to the summary tab
// written by WriteSummary and returns the new chart ids.
func (c *Client) AddCharts(ctx context.Context, analysis *report.Analysis, layout service.ChartLayout) ([]int64, error) {
	title := SummaryTitle(analysis.Sheet)

	ss, err := c.spreadsheet(ctx)
	if err != nil {
		return nil, err
	}

	sh := findSheet(ss, title)
	if sh == nil {
		return nil, fmt.Errorf("%w: summary sheet %q, run analyze first", common.ErrSheetNotFound, title)
	}

	tables := summaryTables(analysis)
	if len(tables) == 0 {
		return []int64{}, nil
	}

	var resp *sheets.BatchUpdateSpreadsheetResponse
	err = c.withRetry(ctx, func() error {
		var err error
		resp, err = c.api.BatchUpdate(ctx, c.config.SpreadsheetID, chartRequests(sh.Properties.SheetId, tables, layout))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add charts to %q: %w", title, err)
	}

	ids := make([]int64, 0, len(tables))
	if resp != nil {
		for _, reply := range resp.Replies {
			if reply != nil && reply.AddChart != nil && reply.AddChart.Chart != nil {
				ids = append(ids, reply.AddChart.Chart.ChartId)
			}
		}
	}

	c.logger.Info("charts added", "sheet", title, "charts", len(ids))
	return ids, nil
}

func findSheet(ss *sheets.Spreadsheet, title string) *sheets.Sheet {
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return sh
		}
	}
	return nil
}

func addedSheetID(resp *sheets.BatchUpdateSpreadsheetResponse) (int64, error) {
	if resp != nil {
		for _, reply := range resp.Replies {
			if reply != nil && reply.AddSheet != nil && reply.AddSheet.Properties != nil {
				return reply.AddSheet.Properties.SheetId, nil
			}
		}
	}
	return 0, fmt.Errorf("add sheet reply missing from batch update response")
}
