package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/cabdesk/internal/api"
	"github.com/Veraticus/cabdesk/internal/common"
	"github.com/Veraticus/cabdesk/internal/model"
	"github.com/Veraticus/cabdesk/internal/service"
	"github.com/Veraticus/cabdesk/internal/tui/themes"
	"github.com/Veraticus/cabdesk/internal/tui/viewmodel"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Error banners shown by the dashboard.
const (
	ErrFetchingDashboard = "Error fetching dashboard"
	ErrFetchingDaily     = "Error fetching daily data"
)

// Layout breakpoints.
const (
	CompactWidth = 80
	WideWidth    = 140
)

// DashboardPane is the table that receives navigation keys.
type DashboardPane int

// Dashboard panes.
const (
	PaneMonths DashboardPane = iota
	PaneDays
)

// DashboardConfig wires a DashboardModel to the API.
type DashboardConfig struct {
	Cabs    service.CabDirectory
	Source  service.DashboardSource
	Theme   themes.Theme
	Timeout time.Duration
}

// DashboardModel shows the yearly summary and the daily breakdown of the
// selected month.
type DashboardModel struct {
	theme          themes.Theme
	cabsAPI        service.CabDirectory
	source         service.DashboardSource
	err            error
	monthly        *model.MonthlySummary
	daily          *model.DailySummary
	expanded       map[int]bool
	cabFilter      string
	cabs           []model.Cab
	dailyReq       DailyRequest
	spinner        spinner.Model
	timeout        time.Duration
	selectedMonth  int
	monthCursor    int
	dayCursor      int
	pane           DashboardPane
	width          int
	height         int
	loadingMonthly bool
	loadingDaily   bool
	spinning       bool
}

// NewDashboardModel creates the dashboard scoped to every cab.
func NewDashboardModel(cfg DashboardConfig) DashboardModel {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return DashboardModel{
		theme:          cfg.Theme,
		cabsAPI:        cfg.Cabs,
		source:         cfg.Source,
		timeout:        timeout,
		cabFilter:      api.AllCabs,
		expanded:       make(map[int]bool),
		loadingMonthly: true,
		width:          WideWidth,
		height:         24,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(cfg.Theme.Primary)),
		),
	}
}

// Init fetches the cab list and the all-cabs monthly summary.
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(
		fetchCabs(m.cabsAPI, OwnerDashboard, m.timeout),
		fetchMonthly(m.source, m.cabFilter, m.timeout),
		m.spinner.Tick,
	)
}

// Update handles messages.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case CabsLoadedMsg:
		if msg.Owner != OwnerDashboard {
			return m, nil
		}
		if msg.Err != nil {
			m.err = common.NewUserError(ErrFetchingCabs, msg.Err)
			return m, nil
		}
		m.cabs = msg.Cabs

	case MonthlyLoadedMsg:
		return m.handleMonthlyLoaded(msg)

	case DailyLoadedMsg:
		if msg.Request != m.dailyReq {
			return m, nil
		}
		m.loadingDaily = false
		if msg.Err != nil {
			m.err = common.NewUserError(ErrFetchingDaily, msg.Err)
			return m, nil
		}
		summary := msg.Summary
		m.daily = &summary
		m.dayCursor = 0

	case spinner.TickMsg:
		if msg.ID != m.spinner.ID() {
			return m, nil
		}
		if !m.busy() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.Resize(msg.Width, msg.Height)
	}

	return m, nil
}

func (m DashboardModel) handleMonthlyLoaded(msg MonthlyLoadedMsg) (DashboardModel, tea.Cmd) {
	if msg.CabFilter != m.cabFilter {
		return m, nil
	}
	m.loadingMonthly = false
	if msg.Err != nil {
		m.err = common.NewUserError(ErrFetchingDashboard, msg.Err)
		return m, nil
	}

	summary := msg.Summary
	m.monthly = &summary
	m.monthCursor = min(m.monthCursor, max(len(summary.Months)-1, 0))

	if m.selectedMonth != 0 {
		return m, nil
	}
	first, ok := summary.FirstMonth()
	if !ok {
		return m, nil
	}
	m.selectedMonth = first.MonthNumber
	m.monthCursor = 0
	cmd := m.loadDaily()
	return m, cmd
}

func (m DashboardModel) handleKey(msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.moveCursor(1)

	case "k", "up":
		m.moveCursor(-1)

	case "tab":
		if m.pane == PaneMonths {
			m.pane = PaneDays
		} else {
			m.pane = PaneMonths
		}

	case "enter":
		if m.pane == PaneMonths {
			if row, ok := m.monthAtCursor(); ok {
				cmd := m.selectMonth(row.MonthNumber)
				return m, cmd
			}
		}

	case " ", "space":
		if row, ok := m.monthAtCursor(); ok {
			cmd := m.toggleExpanded(row.MonthNumber)
			return m, cmd
		}

	case "c":
		return m.SelectCab(m.nextCabFilter(1))

	case "C":
		return m.SelectCab(m.nextCabFilter(-1))

	case "r":
		return m.SelectCab(m.cabFilter)

	case "e":
		if m.pane == PaneDays {
			return m, m.editRequest()
		}
	}

	return m, nil
}

// SelectCab switches the cab filter. The monthly summary is re-fetched and,
// when a month is selected, its daily summary too.
func (m DashboardModel) SelectCab(filter string) (DashboardModel, tea.Cmd) {
	if filter == "" {
		filter = api.AllCabs
	}
	m.cabFilter = filter
	m.err = nil
	m.loadingMonthly = true

	cmds := []tea.Cmd{fetchMonthly(m.source, filter, m.timeout), m.startSpinner()}
	if m.selectedMonth != 0 && m.monthly != nil {
		cmds = append(cmds, m.loadDaily())
	}
	return m, tea.Batch(cmds...)
}

func (m *DashboardModel) selectMonth(month int) tea.Cmd {
	m.selectedMonth = month
	return m.loadDaily()
}

// toggleExpanded opens or closes a month in the compact layout. Opening a
// month that is not selected selects it.
func (m *DashboardModel) toggleExpanded(month int) tea.Cmd {
	wasExpanded := m.expanded[month]
	m.expanded[month] = !wasExpanded
	if wasExpanded || month == m.selectedMonth {
		return nil
	}
	return m.selectMonth(month)
}

func (m *DashboardModel) loadDaily() tea.Cmd {
	if m.monthly == nil || m.selectedMonth == 0 {
		return nil
	}
	req := DailyRequest{CabFilter: m.cabFilter, Year: m.monthly.Year, Month: m.selectedMonth}
	m.dailyReq = req
	m.loadingDaily = true
	m.err = nil
	return tea.Batch(fetchDaily(m.source, req, m.timeout), m.startSpinner())
}

func (m *DashboardModel) startSpinner() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func (m *DashboardModel) moveCursor(delta int) {
	switch m.pane {
	case PaneMonths:
		if m.monthly == nil || len(m.monthly.Months) == 0 {
			return
		}
		m.monthCursor = clamp(m.monthCursor+delta, 0, len(m.monthly.Months)-1)
	case PaneDays:
		if m.daily == nil || len(m.daily.Days) == 0 {
			return
		}
		m.dayCursor = clamp(m.dayCursor+delta, 0, len(m.daily.Days)-1)
	}
}

func (m DashboardModel) nextCabFilter(delta int) string {
	filters := make([]string, 0, len(m.cabs)+1)
	filters = append(filters, api.AllCabs)
	for _, c := range m.cabs {
		filters = append(filters, c.ID.String())
	}
	pos := 0
	for i, f := range filters {
		if f == m.cabFilter {
			pos = i
			break
		}
	}
	return filters[wrap(pos+delta, len(filters))]
}

func (m DashboardModel) editRequest() tea.Cmd {
	if m.daily == nil || m.dayCursor >= len(m.daily.Days) {
		return nil
	}
	ec := EditContext{Date: viewmodel.NormalizeDate(m.daily.Days[m.dayCursor].Date)}
	if cab, ok := model.FindCabByID(m.cabs, m.cabFilter); ok {
		ec.CabNumber = cab.ServiceNumber
	}
	return func() tea.Msg { return EditRequestMsg{Context: ec} }
}

func (m DashboardModel) monthAtCursor() (model.MonthSummary, bool) {
	if m.monthly == nil || m.monthCursor >= len(m.monthly.Months) {
		return model.MonthSummary{}, false
	}
	return m.monthly.Months[m.monthCursor], true
}

func (m DashboardModel) busy() bool {
	return m.loadingMonthly || m.loadingDaily
}

// CabFilter returns the active cab filter: api.AllCabs or a cab id.
func (m DashboardModel) CabFilter() string {
	return m.cabFilter
}

// SelectedMonth returns the selected month number, or zero.
func (m DashboardModel) SelectedMonth() int {
	return m.selectedMonth
}

// Monthly returns the displayed monthly summary, if loaded.
func (m DashboardModel) Monthly() *model.MonthlySummary {
	return m.monthly
}

// Daily returns the displayed daily summary, if loaded.
func (m DashboardModel) Daily() *model.DailySummary {
	return m.daily
}

// IsExpanded reports whether a month is open in the compact layout.
func (m DashboardModel) IsExpanded(month int) bool {
	return m.expanded[month]
}

// Err returns the error banner, if any.
func (m DashboardModel) Err() error {
	return m.err
}

// Resize updates the component dimensions.
func (m *DashboardModel) Resize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	sections := []string{m.renderHeader()}

	switch {
	case m.err != nil:
		sections = append(sections, m.theme.StatusError.Render(m.err.Error()))
	case m.busy():
		sections = append(sections, m.spinner.View()+" "+m.theme.StatusPending.Render("Loading dashboard data..."))
	}

	if m.monthly != nil {
		monthly := viewmodel.NewMonthlyTable(*m.monthly, m.selectedMonth, m.expanded)
		switch {
		case m.width < CompactWidth:
			sections = append(sections, m.renderCompact(monthly))
		case m.width < WideWidth:
			sections = append(sections, m.renderMonthly(monthly), "", m.renderDaily())
		default:
			sections = append(sections, lipgloss.JoinHorizontal(
				lipgloss.Top,
				m.renderMonthly(monthly),
				"  ",
				m.renderDaily(),
			))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderHeader() string {
	cabLabel := "All Cabs"
	if cab, ok := model.FindCabByID(m.cabs, m.cabFilter); ok {
		cabLabel = cab.Label()
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Title.Render("Cab Dashboard"),
		m.theme.Normal.Render("Cab: ")+m.theme.Highlighted.Render("◀ "+cabLabel+" ▶"),
	)
}

func (m DashboardModel) renderMonthly(t viewmodel.MonthlyTable) string {
	rows := t.Rows
	if t.Totals != nil {
		rows = append(rows, *t.Totals)
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(m.theme.Border)).
		Headers(viewmodel.MonthlyColumns...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return m.theme.TableHeader
			}
			r := rows[row]
			style := m.theme.Normal
			switch {
			case r.IsTotal:
				style = m.theme.TotalRow
			case m.pane == PaneMonths && row == m.monthCursor:
				style = m.theme.Highlighted
			case r.Selected:
				style = m.theme.Selected
			}
			if col == len(viewmodel.MonthlyColumns)-1 {
				style = m.signStyle(style, r.NetIncome)
			}
			return style.Padding(0, 1)
		})
	for _, r := range rows {
		tbl.Row(r.Cells()...)
	}

	title := fmt.Sprintf("%s - %d", t.Title, t.Year)
	return lipgloss.JoinVertical(lipgloss.Left, m.theme.Subtitle.Render(title), tbl.Render())
}

func (m DashboardModel) renderDaily() string {
	title := "Daily Details - Select Month"
	if m.daily == nil {
		return m.theme.Subtitle.Render(title)
	}

	t := viewmodel.NewDailyTable(*m.daily)
	if t.MonthName != "" {
		title = "Daily Details - " + t.MonthName
	}
	rows := t.Rows
	if t.Totals != nil {
		rows = append(rows, *t.Totals)
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(m.theme.Border)).
		Headers(viewmodel.DailyColumns...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return m.theme.TableHeader
			case rows[row].IsTotal:
				return m.theme.TotalRow.Padding(0, 1)
			case m.pane == PaneDays && row == m.dayCursor:
				return m.theme.Highlighted.Padding(0, 1)
			}
			return m.theme.Normal.Padding(0, 1)
		})
	for _, r := range rows {
		tbl.Row(r.Cells()...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.theme.Subtitle.Render(title), tbl.Render())
}

func (m DashboardModel) renderCompact(t viewmodel.MonthlyTable) string {
	lines := []string{m.theme.Subtitle.Render(fmt.Sprintf("%s - %d", t.Title, t.Year))}

	for i, r := range t.Rows {
		icon := "▶"
		if r.Expanded {
			icon = "▼"
		}
		header := fmt.Sprintf("%s %-10s Trips: %-6s Net Income: ", icon, r.Month, r.Trips)
		style := m.theme.Normal
		if m.pane == PaneMonths && i == m.monthCursor {
			style = m.theme.Highlighted
		}
		lines = append(lines, style.Render(header)+m.signStyle(m.theme.Normal, r.NetIncome).Render(r.NetIncome.Text))

		if !r.Expanded {
			continue
		}
		lines = append(lines, m.theme.Normal.Render(strings.Join([]string{
			"    Distance: " + r.Distance,
			"    Expenses: " + r.Expenses,
			"    Salaries: " + r.Salaries,
			"    Payments: " + r.Payments,
		}, "\n")))
		if r.MonthNumber == m.selectedMonth && m.daily != nil {
			lines = append(lines, m.renderCompactDays())
		}
	}

	if t.Totals != nil {
		lines = append(lines, "", m.theme.TotalRow.Render(fmt.Sprintf(
			"Year Total  Trips: %s  Distance: %s  Expenses: %s  Salaries: %s  Payments: %s  Net Income: ",
			t.Totals.Trips, t.Totals.Distance, t.Totals.Expenses, t.Totals.Salaries, t.Totals.Payments,
		))+m.signStyle(m.theme.TotalRow, t.Totals.NetIncome).Render(t.Totals.NetIncome.Text))
	}

	return lipgloss.NewStyle().Width(m.width).Render(strings.Join(lines, "\n"))
}

func (m DashboardModel) renderCompactDays() string {
	t := viewmodel.NewDailyTable(*m.daily)
	lines := []string{"    " + m.theme.Bold.Render("Daily Breakdown")}
	for i, r := range t.Rows {
		line := fmt.Sprintf("    %-7s %4s  %12s  %12s", r.Day, r.Trips, r.Distance, r.Expenses)
		if m.pane == PaneDays && i == m.dayCursor {
			line = m.theme.Highlighted.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m DashboardModel) signStyle(base lipgloss.Style, money viewmodel.Money) lipgloss.Style {
	if money.Negative {
		return base.Foreground(m.theme.Negative.GetForeground())
	}
	return base.Foreground(m.theme.Positive.GetForeground())
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
