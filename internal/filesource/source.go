// Package filesource serves consultation tables from a directory of CSV
// exports, one file per tab.
package filesource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/saladlab/consult-tags/internal/common"
	"github.com/saladlab/consult-tags/internal/model"
	"github.com/saladlab/consult-tags/internal/service"
)

// Extension is the suffix of files treated as tabs.
const Extension = ".csv"

const utf8BOM = "\ufeff"

// Source reads <dir>/<sheet>.csv files.
type Source struct {
	logger *slog.Logger
	dir    string
}

var _ service.TableSource = (*Source)(nil)

// New returns a source over dir. The directory must exist.
func New(dir string, logger *slog.Logger) (*Source, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", common.ErrInvalidConfig, dir)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{dir: dir, logger: logger}, nil
}

// ListSheets returns one entry per CSV file, in file name order.
func (s *Source) ListSheets(ctx context.Context) ([]service.SheetInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read data directory: %w", err)
	}

	var infos []service.SheetInfo
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || filepath.Ext(e.Name()) != Extension {
			continue
		}
		n := int64(len(infos))
		infos = append(infos, service.SheetInfo{
			ID:    n,
			Index: n,
			Title: strings.TrimSuffix(e.Name(), Extension),
			Type:  "GRID",
		})
	}
	return infos, nil
}

// LoadTable parses <sheet>.csv. The first record is the header.
func (s *Source) LoadTable(ctx context.Context, sheet string) (*model.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sheet == "" || strings.ContainsAny(sheet, `/\`) || sheet == "." || sheet == ".." {
		return nil, fmt.Errorf("%w: %q", common.ErrSheetNotFound, sheet)
	}

	path := filepath.Join(s.dir, sheet+Extension)
	f, err := os.Open(path) // #nosec G304
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", common.ErrSheetNotFound, sheet)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	records, err := readRecords(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: %q", common.ErrNotEnoughData, sheet)
	}

	s.logger.Info("loaded sheet", "sheet", sheet, "rows", len(records)-1, "path", path)
	return model.NewTable(records[0], records[1:]), nil
}

func readRecords(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], utf8BOM)
	}
	return records, nil
}
