package model

// MonthSummary aggregates one month of entries.
type MonthSummary struct {
	Month         string `json:"month"`
	MonthNumber   int    `json:"month_number"`
	TotalTrips    Number `json:"total_trips"`
	TotalDistance Number `json:"total_distance"`
	TotalExpenses Number `json:"total_expenses"`
	TotalSalaries Number `json:"total_salaries"`
	TotalPayments Number `json:"total_payments"`
	NetIncome     Number `json:"net_income"`
}

// MonthlySummary is the yearly dashboard response.
type MonthlySummary struct {
	Totals *MonthSummary  `json:"totals"`
	Months []MonthSummary `json:"monthly_summary"`
	Year   int            `json:"year"`
}

// FirstMonth returns the first month present in the summary.
func (s MonthlySummary) FirstMonth() (MonthSummary, bool) {
	if len(s.Months) == 0 {
		return MonthSummary{}, false
	}
	return s.Months[0], true
}

// DaySummary aggregates one day of entries.
type DaySummary struct {
	Date          string `json:"date"`
	TotalTrips    Number `json:"total_trips"`
	TotalDistance Number `json:"total_distance"`
	TotalExpenses Number `json:"total_expenses"`
}

// DailySummary is the per-month dashboard response.
type DailySummary struct {
	Totals    *DaySummary  `json:"totals"`
	MonthName string       `json:"month_name"`
	Days      []DaySummary `json:"daily_summary"`
}
