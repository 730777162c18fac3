package viewmodel

import "github.com/Veraticus/cabdesk/internal/model"

// TotalLabel heads the totals row of both summary tables.
const TotalLabel = "Total"

// MonthlyColumns are the monthly summary table headers.
var MonthlyColumns = []string{"Month", "Trips", "Distance", "Expenses", "Salaries", "Payments", "Net Income"}

// DailyColumns are the daily summary table headers.
var DailyColumns = []string{"Date", "Trips", "Distance", "Expenses"}

// MonthRow is one rendered row of the monthly summary.
type MonthRow struct {
	Month       string
	Trips       string
	Distance    string
	Expenses    string
	Salaries    string
	Payments    string
	NetIncome   Money
	MonthNumber int
	Selected    bool
	Expanded    bool
	IsTotal     bool
}

// Cells returns the row in MonthlyColumns order.
func (r MonthRow) Cells() []string {
	return []string{r.Month, r.Trips, r.Distance, r.Expenses, r.Salaries, r.Payments, r.NetIncome.Text}
}

// MonthlyTable is the view model for the yearly summary.
type MonthlyTable struct {
	Totals *MonthRow
	Title  string
	Rows   []MonthRow
	Year   int
}

// NewMonthlyTable renders summary. selected marks the chosen month and
// expanded the months opened in the compact layout.
func NewMonthlyTable(summary model.MonthlySummary, selected int, expanded map[int]bool) MonthlyTable {
	t := MonthlyTable{
		Title: "Monthly Summary",
		Year:  summary.Year,
		Rows:  make([]MonthRow, 0, len(summary.Months)),
	}
	for _, m := range summary.Months {
		row := monthRow(m)
		row.Selected = m.MonthNumber == selected
		row.Expanded = expanded[m.MonthNumber]
		t.Rows = append(t.Rows, row)
	}
	if summary.Totals != nil {
		totals := monthRow(*summary.Totals)
		totals.Month = TotalLabel
		totals.IsTotal = true
		t.Totals = &totals
	}
	return t
}

func monthRow(m model.MonthSummary) MonthRow {
	return MonthRow{
		Month:       m.Month,
		MonthNumber: m.MonthNumber,
		Trips:       FormatCount(m.TotalTrips),
		Distance:    FormatDistance(m.TotalDistance),
		Expenses:    FormatCurrency(m.TotalExpenses),
		Salaries:    FormatCurrency(m.TotalSalaries),
		Payments:    FormatCurrency(m.TotalPayments),
		NetIncome:   FormatNetIncome(m.NetIncome),
	}
}

// DayRow is one rendered row of the daily summary.
type DayRow struct {
	Date     string
	Day      string
	Trips    string
	Distance string
	Expenses string
	IsTotal  bool
}

// Cells returns the row in DailyColumns order.
func (r DayRow) Cells() []string {
	return []string{r.Day, r.Trips, r.Distance, r.Expenses}
}

// DailyTable is the view model for one month's daily summary.
type DailyTable struct {
	Totals    *DayRow
	MonthName string
	Rows      []DayRow
}

// NewDailyTable renders summary.
func NewDailyTable(summary model.DailySummary) DailyTable {
	t := DailyTable{
		MonthName: summary.MonthName,
		Rows:      make([]DayRow, 0, len(summary.Days)),
	}
	for _, d := range summary.Days {
		t.Rows = append(t.Rows, dayRow(d))
	}
	if summary.Totals != nil {
		totals := dayRow(*summary.Totals)
		totals.Date = ""
		totals.Day = TotalLabel
		totals.IsTotal = true
		t.Totals = &totals
	}
	return t
}

func dayRow(d model.DaySummary) DayRow {
	return DayRow{
		Date:     NormalizeDate(d.Date),
		Day:      FormatDay(d.Date),
		Trips:    FormatCount(d.TotalTrips),
		Distance: FormatDistance(d.TotalDistance),
		Expenses: FormatCurrency(d.TotalExpenses),
	}
}
