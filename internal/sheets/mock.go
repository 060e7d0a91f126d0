package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/saladlab/consult-tags/internal/common"
	"google.golang.org/api/sheets/v4"
)

// MockAPI is an in-memory API for tests. Tabs are kept in insertion order;
// batch updates apply AddSheet and DeleteSheet and allocate chart ids.
type MockAPI struct {
	// Err, when set, is consulted before every call. A non-nil result fails
	// the call without touching state.
	Err func(method string) error

	values      map[string][][]any
	tabs        []*sheets.SheetProperties
	Updates     []ValueUpdate
	Batches     [][]*sheets.Request
	Calls       []string
	nextSheetID int64
	nextChartID int64
	mu          sync.Mutex
}

// ValueUpdate records one UpdateValues call.
type ValueUpdate struct {
	Range  string
	Values [][]any
}

// NewMockAPI creates an empty mock spreadsheet.
func NewMockAPI() *MockAPI {
	return &MockAPI{
		values:      make(map[string][][]any),
		nextSheetID: 100,
		nextChartID: 1000,
	}
}

// AddTab adds a tab with the given cell values.
func (m *MockAPI) AddTab(title string, values [][]any) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addTab(title, values)
}

func (m *MockAPI) addTab(title string, values [][]any) int64 {
	id := m.nextSheetID
	m.nextSheetID++
	m.tabs = append(m.tabs, &sheets.SheetProperties{
		SheetId:   id,
		Title:     title,
		Index:     int64(len(m.tabs)),
		SheetType: "GRID",
		GridProperties: &sheets.GridProperties{
			RowCount:    int64(max(len(values), SummaryRows)),
			ColumnCount: 26,
		},
	})
	m.values[title] = values
	return id
}

// Tab returns the properties of a tab by title.
func (m *MockAPI) Tab(title string) (*sheets.SheetProperties, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tabs {
		if t.Title == title {
			return t, true
		}
	}
	return nil, false
}

func (m *MockAPI) record(method string) error {
	m.Calls = append(m.Calls, method)
	if m.Err != nil {
		return m.Err(method)
	}
	return nil
}

// GetSpreadsheet implements API.
func (m *MockAPI) GetSpreadsheet(_ context.Context, spreadsheetID string) (*sheets.Spreadsheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetSpreadsheet"); err != nil {
		return nil, err
	}

	ss := &sheets.Spreadsheet{SpreadsheetId: spreadsheetID}
	for _, t := range m.tabs {
		p := *t
		ss.Sheets = append(ss.Sheets, &sheets.Sheet{Properties: &p})
	}
	return ss, nil
}

// GetValues implements API. Only whole-tab ranges are supported.
func (m *MockAPI) GetValues(_ context.Context, _ string, readRange string) (*sheets.ValueRange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetValues"); err != nil {
		return nil, err
	}

	title := rangeTitle(readRange)
	values, ok := m.values[title]
	if !ok {
		return nil, common.Permanent(fmt.Errorf("%w: Unable to parse range: %s", common.ErrSheetNotFound, readRange))
	}
	return &sheets.ValueRange{Range: readRange, Values: values}, nil
}

// UpdateValues implements API.
func (m *MockAPI) UpdateValues(_ context.Context, _ string, writeRange string, values *sheets.ValueRange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("UpdateValues"); err != nil {
		return err
	}

	title := rangeTitle(writeRange)
	if _, ok := m.values[title]; !ok {
		return common.Permanent(fmt.Errorf("%w: Unable to parse range: %s", common.ErrSheetNotFound, writeRange))
	}
	m.values[title] = values.Values
	m.Updates = append(m.Updates, ValueUpdate{Range: writeRange, Values: values.Values})
	return nil
}

// BatchUpdate implements API.
func (m *MockAPI) BatchUpdate(_ context.Context, _ string, requests []*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("BatchUpdate"); err != nil {
		return nil, err
	}

	m.Batches = append(m.Batches, requests)
	resp := &sheets.BatchUpdateSpreadsheetResponse{}
	for _, req := range requests {
		reply := &sheets.Response{}
		switch {
		case req.DeleteSheet != nil:
			if !m.deleteTab(req.DeleteSheet.SheetId) {
				return nil, common.Permanent(fmt.Errorf("no sheet with id %d", req.DeleteSheet.SheetId))
			}
		case req.AddSheet != nil:
			title := req.AddSheet.Properties.Title
			for _, t := range m.tabs {
				if t.Title == title {
					return nil, common.Permanent(fmt.Errorf("a sheet with the name %q already exists", title))
				}
			}
			id := m.addTab(title, [][]any{})
			p := *m.tabs[len(m.tabs)-1]
			p.SheetId = id
			reply.AddSheet = &sheets.AddSheetResponse{Properties: &p}
		case req.AddChart != nil:
			chart := *req.AddChart.Chart
			chart.ChartId = m.nextChartID
			m.nextChartID++
			reply.AddChart = &sheets.AddChartResponse{Chart: &chart}
		}
		resp.Replies = append(resp.Replies, reply)
	}
	return resp, nil
}

func (m *MockAPI) deleteTab(id int64) bool {
	for i, t := range m.tabs {
		if t.SheetId == id {
			delete(m.values, t.Title)
			m.tabs = append(m.tabs[:i], m.tabs[i+1:]...)
			return true
		}
	}
	return false
}

// rangeTitle extracts the tab title from an A1 range.
func rangeTitle(a1 string) string {
	title := a1
	if i := strings.LastIndex(a1, "!"); i >= 0 {
		title = a1[:i]
	}
	if strings.HasPrefix(title, "'") && strings.HasSuffix(title, "'") && len(title) >= 2 {
		title = strings.ReplaceAll(title[1:len(title)-1], "''", "'")
	}
	return title
}
