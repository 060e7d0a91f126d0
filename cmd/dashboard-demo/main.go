// Package main runs the dashboard over generated consultation tabs.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/saladlab/consult-tags/internal/common"
	"github.com/saladlab/consult-tags/internal/engine"
	"github.com/saladlab/consult-tags/internal/model"
	"github.com/saladlab/consult-tags/internal/service"
	"github.com/saladlab/consult-tags/internal/tui"
)

var demoTags = []string{
	"리뷰/요청사항/답글", "리뷰/요청사항/노출", "리뷰/도입문의", "리뷰/기능문의/알림",
	"업셀/요청사항", "업셀/도입문의/가격", "업셀/기능문의/쿠폰",
	"푸시/도입문의", "푸시/기능문의/예약발송", "푸시/요청사항/문구",
	"단순문의", "결제/환불",
}

var demoCompanies = []string{"Acme", "Beta", "Cobalt", "Delta", "Echo", "Fjord", "Gamma", "Helix"}

// memorySource serves generated tables.
type memorySource struct {
	tables map[string]*model.Table
	infos  []service.SheetInfo
}

func newMemorySource(months int, rowsPerMonth int) *memorySource {
	rng := rand.New(rand.NewPCG(42, 7))
	src := &memorySource{tables: make(map[string]*model.Table)}

	for m := 0; m < months; m++ {
		title := fmt.Sprintf("2024-%02d 상담데이터", m+1)
		rows := make([][]string, 0, rowsPerMonth)
		for i := 0; i < rowsPerMonth; i++ {
			n := 1 + rng.IntN(3)
			tags := make([]string, 0, n)
			for j := 0; j < n; j++ {
				tags = append(tags, demoTags[rng.IntN(len(demoTags))])
			}
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				demoCompanies[rng.IntN(len(demoCompanies))],
				strings.Join(tags, ", "),
			})
		}
		src.tables[title] = model.NewTable([]string{"id", "name", "tags"}, rows)
		src.infos = append(src.infos, service.SheetInfo{
			Title:       title,
			Type:        "GRID",
			ID:          int64(m + 1),
			Index:       int64(m),
			RowCount:    int64(rowsPerMonth + 1),
			ColumnCount: 3,
		})
	}
	return src
}

func (s *memorySource) ListSheets(context.Context) ([]service.SheetInfo, error) {
	return s.infos, nil
}

func (s *memorySource) LoadTable(_ context.Context, sheet string) (*model.Table, error) {
	t, ok := s.tables[sheet]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrSheetNotFound, sheet)
	}
	return t, nil
}

func main() {
	ctx := context.Background()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	eng := engine.New(newMemorySource(6, 200), nil, engine.DefaultConfig(), logger)

	if err := tui.Run(ctx,
		tui.WithBackend(eng),
		tui.WithLogger(logger),
		tui.WithSize(120, 40),
	); err != nil {
		// Use explicit error check to satisfy forbidigo
		_, _ = fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		os.Exit(1)
	}
}
