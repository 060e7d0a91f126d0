package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/saladlab/consult-tags/internal/cli"
	"github.com/saladlab/consult-tags/internal/report"
	"github.com/saladlab/consult-tags/internal/service"
)

// Mode selects between single-sheet analysis and comparison.
type Mode int

// Dashboard modes.
const (
	ModeUnset Mode = iota
	ModeSingle
	ModeCompare
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "단일 시트 분석"
	case ModeCompare:
		return "여러 시트 비교"
	default:
		return "unset"
	}
}

// State represents the current screen.
type State int

// Dashboard states.
const (
	StateLoadingSheets State = iota
	StateMode
	StateSheets
	StateAnalyzing
	StateReport
	StateError
)

const (
	headerHeight = 3
	footerHeight = 2
	minCompare   = 2
)

var modes = []Mode{ModeSingle, ModeCompare}

// Model is the dashboard's bubbletea model.
type Model struct {
	ctx        context.Context
	cancel     context.CancelFunc
	err        error
	selected   map[string]bool
	progressCh chan progressMsg
	analysis   *report.Analysis
	comparison *report.Comparison
	status     string
	keys       KeyMap
	sheets     []service.SheetInfo
	config     Config
	help       help.Model
	spinner    spinner.Model
	viewport   viewport.Model
	state      State
	mode       Mode
	modeCursor int
	cursor     int
	seq        int
	done       int
	total      int
	width      int
	height     int
}

// New creates the dashboard model.
func New(ctx context.Context, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = cfg.Theme.Spinner

	m := Model{
		ctx:      ctx,
		config:   cfg,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		spinner:  s,
		selected: make(map[string]bool),
		state:    StateLoadingSheets,
		mode:     cfg.Mode,
		width:    cfg.Width,
		height:   cfg.Height,
	}
	m.viewport = viewport.New(m.width, m.bodyHeight())
	return m
}

// State returns the current screen.
func (m Model) State() State {
	return m.state
}

// Mode returns the selected mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Selected returns the sheets chosen for comparison in list order.
func (m Model) Selected() []string {
	var out []string
	for _, s := range m.sheets {
		if m.selected[s.Title] {
			out = append(out, s.Title)
		}
	}
	return out
}

// Analysis returns the last single-sheet result.
func (m Model) Analysis() *report.Analysis {
	return m.analysis
}

// Comparison returns the last comparison result.
func (m Model) Comparison() *report.Comparison {
	return m.comparison
}

// Init starts loading the sheet list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadSheets(), m.spinner.Tick)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = m.bodyHeight()
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sheetsLoadedMsg:
		return m.handleSheets(msg)

	case progressMsg:
		if msg.seq != m.seq || m.state != StateAnalyzing {
			return m, nil
		}
		m.done = msg.done
		m.total = msg.total
		m.status = fmt.Sprintf("%s 완료 (%d/%d)", msg.sheet, msg.done, msg.total)
		return m, waitForProgress(m.progressCh)

	case analysisMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		m.analysis = msg.analysis
		m.comparison = nil
		m.showReport(cli.RenderAnalysis(msg.analysis, m.config.TopN))
		return m, nil

	case comparisonMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		m.comparison = msg.comparison
		m.analysis = nil
		m.showReport(cli.RenderComparison(msg.comparison, m.config.TopN))
		return m, nil
	}

	if m.state == StateReport {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch m.state {
	case StateMode:
		return m.handleModeKey(msg)
	case StateSheets:
		return m.handleSheetKey(msg)
	case StateAnalyzing:
		if key.Matches(msg, m.keys.Back) {
			m.stop()
			m.seq++
			m.state = StateSheets
			m.status = "분석을 취소했습니다"
		}
		return m, nil
	case StateReport:
		if key.Matches(msg, m.keys.Back) {
			m.state = StateSheets
			m.status = ""
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case StateError:
		switch {
		case key.Matches(msg, m.keys.Refresh):
			m.state = StateLoadingSheets
			m.err = nil
			return m, tea.Batch(m.loadSheets(), m.spinner.Tick)
		case key.Matches(msg, m.keys.Back) && len(m.sheets) > 0:
			m.state = StateSheets
			m.err = nil
		}
	}
	return m, nil
}

func (m Model) handleModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.modeCursor > 0 {
			m.modeCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.modeCursor < len(modes)-1 {
			m.modeCursor++
		}
	case key.Matches(msg, m.keys.Select):
		m.mode = modes[m.modeCursor]
		m.state = StateSheets
		m.status = ""
	}
	return m, nil
}

func (m Model) handleSheetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.sheets)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.PageUp):
		m.cursor = max(0, m.cursor-m.listHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.cursor = max(0, min(len(m.sheets)-1, m.cursor+m.listHeight()))
	case key.Matches(msg, m.keys.Back):
		if m.config.Mode == ModeUnset {
			m.state = StateMode
			m.status = ""
		}
	case key.Matches(msg, m.keys.Refresh):
		m.state = StateLoadingSheets
		return m, tea.Batch(m.loadSheets(), m.spinner.Tick)
	case m.mode == ModeCompare && key.Matches(msg, m.keys.Toggle):
		if len(m.sheets) > 0 {
			title := m.sheets[m.cursor].Title
			if m.selected[title] {
				delete(m.selected, title)
			} else {
				m.selected[title] = true
			}
		}
	case m.mode == ModeCompare && key.Matches(msg, m.keys.SelectAll):
		if len(m.selected) == len(m.sheets) {
			m.selected = make(map[string]bool)
		} else {
			for _, s := range m.sheets {
				m.selected[s.Title] = true
			}
		}
	case key.Matches(msg, m.keys.Select):
		return m.start()
	}
	return m, nil
}

func (m Model) handleSheets(msg sheetsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m.fail(msg.err), nil
	}
	m.sheets = msg.sheets
	if m.cursor >= len(m.sheets) {
		m.cursor = max(0, len(m.sheets)-1)
	}
	present := make(map[string]bool, len(m.sheets))
	for _, s := range m.sheets {
		present[s.Title] = true
	}
	for title := range m.selected {
		if !present[title] {
			delete(m.selected, title)
		}
	}
	if m.mode == ModeUnset {
		m.state = StateMode
	} else {
		m.state = StateSheets
	}
	if len(m.sheets) == 0 {
		m.status = "상담 데이터 시트를 찾지 못했습니다"
	}
	return m, nil
}

// start launches the analysis for the current selection.
func (m Model) start() (tea.Model, tea.Cmd) {
	if len(m.sheets) == 0 {
		return m, nil
	}
	if m.config.Backend == nil {
		return m.fail(fmt.Errorf("no backend configured")), nil
	}

	m.stop()
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.seq++
	m.done = 0

	if m.mode != ModeCompare {
		sheet := m.sheets[m.cursor].Title
		m.total = 1
		m.state = StateAnalyzing
		m.status = sheet + " 분석 중"
		return m, tea.Batch(analyzeCmd(ctx, m.config.Backend, sheet, m.seq), m.spinner.Tick)
	}

	sheets := m.Selected()
	if len(sheets) < minCompare {
		m.stop()
		m.status = fmt.Sprintf("비교하려면 %d개 이상의 시트를 선택하세요", minCompare)
		return m, nil
	}
	// The list is newest first; comparisons read oldest to newest.
	for i, j := 0, len(sheets)-1; i < j; i, j = i+1, j-1 {
		sheets[i], sheets[j] = sheets[j], sheets[i]
	}
	m.total = len(sheets)
	m.state = StateAnalyzing
	m.status = fmt.Sprintf("%d개 시트 비교 중", len(sheets))
	m.progressCh = make(chan progressMsg, len(sheets))
	return m, tea.Batch(
		compareCmd(ctx, m.config.Backend, sheets, m.seq, m.progressCh),
		waitForProgress(m.progressCh),
		m.spinner.Tick,
	)
}

func (m *Model) stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m Model) fail(err error) Model {
	m.stop()
	m.err = err
	m.state = StateError
	m.config.Logger.Error("dashboard operation failed", "error", err)
	return m
}

func (m *Model) showReport(content string) {
	m.stop()
	m.state = StateReport
	m.status = ""
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

func (m Model) loading() bool {
	return m.state == StateLoadingSheets || m.state == StateAnalyzing
}

func (m Model) bodyHeight() int {
	return max(1, m.height-headerHeight-footerHeight)
}

func (m Model) listHeight() int {
	return max(1, m.bodyHeight()-2)
}

// View renders the current screen.
func (m Model) View() string {
	theme := m.config.Theme
	var b strings.Builder

	b.WriteString(theme.Title.Render(cli.ChartIcon + " 상담 태그 분석"))
	b.WriteString("\n")

	switch m.state {
	case StateLoadingSheets:
		b.WriteString(m.spinner.View() + " 시트 목록을 불러오는 중...")
	case StateMode:
		b.WriteString(m.viewModes())
	case StateSheets:
		b.WriteString(m.viewSheets())
	case StateAnalyzing:
		b.WriteString(m.spinner.View() + " " + m.status)
		if m.total > 1 {
			b.WriteString(theme.Help.Render(fmt.Sprintf("  %d/%d", m.done, m.total)))
		}
	case StateReport:
		b.WriteString(m.viewport.View())
	case StateError:
		b.WriteString(theme.StatusError.Render(cli.ErrorIcon + " " + m.err.Error()))
		b.WriteString("\n")
		b.WriteString(theme.Help.Render("r: 다시 시도 · esc: 돌아가기 · q: 종료"))
	}

	if m.status != "" && m.state != StateAnalyzing {
		b.WriteString("\n")
		b.WriteString(theme.StatusWarning.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) viewModes() string {
	theme := m.config.Theme
	lines := []string{theme.Subtitle.Render("분석 방식을 선택하세요")}
	for i, mode := range modes {
		label := "  " + mode.String()
		if i == m.modeCursor {
			label = theme.Selected.Render("> " + mode.String())
		}
		lines = append(lines, label)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewSheets() string {
	theme := m.config.Theme
	subtitle := "분석할 시트를 선택하세요"
	if m.mode == ModeCompare {
		subtitle = fmt.Sprintf("비교할 시트를 선택하세요 (%d개 선택됨)", len(m.selected))
	}
	lines := []string{theme.Subtitle.Render(subtitle)}

	start, end := visibleRange(m.cursor, len(m.sheets), m.listHeight())
	for i := start; i < end; i++ {
		title := m.sheets[i].Title
		mark := ""
		if m.mode == ModeCompare {
			mark = "[ ] "
			if m.selected[title] {
				mark = theme.Checked.Render("[x]") + " "
			}
		}
		if i == m.cursor {
			lines = append(lines, "> "+mark+theme.Selected.Render(title))
		} else {
			lines = append(lines, "  "+mark+theme.Normal.Render(title))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// visibleRange returns the window of list rows that keeps the cursor on screen.
func visibleRange(cursor, total, height int) (int, int) {
	if total <= height {
		return 0, total
	}
	start := max(0, cursor-height/2)
	end := start + height
	if end > total {
		end = total
		start = end - height
	}
	return start, end
}

func (m Model) loadSheets() tea.Cmd {
	backend := m.config.Backend
	ctx := m.ctx
	return func() tea.Msg {
		if backend == nil {
			return sheetsLoadedMsg{err: fmt.Errorf("no backend configured")}
		}
		sheets, err := backend.ConsultationSheets(ctx)
		return sheetsLoadedMsg{sheets: sheets, err: err}
	}
}

func analyzeCmd(ctx context.Context, backend Backend, sheet string, seq int) tea.Cmd {
	return func() tea.Msg {
		a, err := backend.Analyze(ctx, sheet)
		return analysisMsg{analysis: a, err: err, seq: seq}
	}
}

func compareCmd(ctx context.Context, backend Backend, sheets []string, seq int, ch chan progressMsg) tea.Cmd {
	return func() tea.Msg {
		defer close(ch)
		c, err := backend.Compare(ctx, sheets, func(sheet string, done, total int) {
			select {
			case ch <- progressMsg{sheet: sheet, done: done, total: total, seq: seq}:
			default:
			}
		})
		return comparisonMsg{comparison: c, err: err, seq: seq}
	}
}

func waitForProgress(ch <-chan progressMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
