// Package testutil provides an in-memory fleet API and fixtures for tests
// and the TUI demo.
package testutil

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/Veraticus/cabdesk/internal/api"
	"github.com/Veraticus/cabdesk/internal/model"
	"github.com/Veraticus/cabdesk/internal/service"
)

// Fleet is a stateful service.FleetAPI. Saved submissions are applied to
// the stored entries and summaries are aggregated from them the way the
// server does.
type Fleet struct {
	entries map[model.EntryKey]model.Entry
	cabs    []model.Cab
	saved   []model.Submission
	nextID  int
	mu      sync.Mutex
}

var _ service.FleetAPI = (*Fleet)(nil)

// NewFleet creates an empty fleet with the given cabs.
func NewFleet(cabs ...model.Cab) *Fleet {
	return &Fleet{
		entries: make(map[model.EntryKey]model.Entry),
		cabs:    cabs,
	}
}

// Put stores e under key, assigning an id.
func (f *Fleet) Put(key model.EntryKey, e model.Entry) model.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.put(key, e)
}

func (f *Fleet) put(key model.EntryKey, e model.Entry) model.Entry {
	f.nextID++
	e.ID = model.ID(fmt.Sprint(f.nextID))
	f.entries[key] = e
	return e
}

// Saved returns every submission received, in order.
func (f *Fleet) Saved() []model.Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Submission(nil), f.saved...)
}

// ListCabs implements service.CabDirectory.
func (f *Fleet) ListCabs(_ context.Context) ([]model.Cab, error) {
	return f.cabs, nil
}

// GetEntry implements service.EntryStore. Unknown keys return the empty
// entry.
func (f *Fleet) GetEntry(_ context.Context, key model.EntryKey) (model.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[key], nil
}

// SaveEntry implements service.EntryStore.
func (f *Fleet) SaveEntry(_ context.Context, s model.Submission) (model.Entry, error) {
	if s.Details == nil {
		return model.Entry{}, fmt.Errorf("submission for %s/%s has no details", s.Date, s.CabNumber)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, s)

	key := model.EntryKey{Date: s.Date, CabNumber: s.CabNumber, Category: s.Details.Category()}
	e := f.entries[key]
	if s.IsUpdate() && e.ID != s.ID {
		return model.Entry{}, &api.StatusError{StatusCode: http.StatusNotFound, Message: "Entry not found"}
	}

	switch d := s.Details.(type) {
	case model.TripDetails:
		e.TotalTrips = intNumber(d.TotalTrips)
		e.DistanceKM = floatNumber(d.DistanceKM)
	case model.ExpenseDetails:
		e.Amount = intNumber(d.Amount)
		e.Type, e.Subtype = d.Type, d.Subtype
		e.Comments, e.PaidBy = d.Comments, d.PaidBy
	case model.PaymentDetails:
		e.Amount = floatNumber(d.Amount)
	case model.SalaryDetails:
		e.Amount = intNumber(d.Amount)
		e.PaidBy = d.PaidBy
	}

	if s.IsUpdate() {
		f.entries[key] = e
		return e, nil
	}
	return f.put(key, e), nil
}

// MonthlySummary implements service.DashboardSource. Months are those of the
// latest year holding entries.
func (f *Fleet) MonthlySummary(_ context.Context, cabID string) (model.MonthlySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	year := 0
	for key := range f.entries {
		if date, err := time.Parse(model.DateLayout, key.Date); err == nil && date.Year() > year {
			year = date.Year()
		}
	}
	if year == 0 {
		return model.MonthlySummary{Year: time.Now().Year()}, nil
	}

	byMonth := map[time.Month]*totals{}
	var all totals
	for key, e := range f.entries {
		date, err := time.Parse(model.DateLayout, key.Date)
		if err != nil || date.Year() != year || !f.inScope(key, cabID) {
			continue
		}
		t := byMonth[date.Month()]
		if t == nil {
			t = &totals{}
			byMonth[date.Month()] = t
		}
		t.add(key.Category, e)
		all.add(key.Category, e)
	}

	summary := model.MonthlySummary{Year: year}
	for month, t := range byMonth {
		row := t.month()
		row.Month = month.String()
		row.MonthNumber = int(month)
		summary.Months = append(summary.Months, row)
	}
	sort.Slice(summary.Months, func(i, j int) bool {
		return summary.Months[i].MonthNumber < summary.Months[j].MonthNumber
	})
	if len(summary.Months) > 0 {
		totalsRow := all.month()
		summary.Totals = &totalsRow
	}
	return summary, nil
}

// DailySummary implements service.DashboardSource.
func (f *Fleet) DailySummary(_ context.Context, year, month int, cabID string) (model.DailySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	byDay := map[string]*totals{}
	var all totals
	for key, e := range f.entries {
		date, err := time.Parse(model.DateLayout, key.Date)
		if err != nil || date.Year() != year || int(date.Month()) != month || !f.inScope(key, cabID) {
			continue
		}
		t := byDay[key.Date]
		if t == nil {
			t = &totals{}
			byDay[key.Date] = t
		}
		t.add(key.Category, e)
		all.add(key.Category, e)
	}

	summary := model.DailySummary{MonthName: time.Month(month).String()}
	for date, t := range byDay {
		summary.Days = append(summary.Days, t.day(date))
	}
	sort.Slice(summary.Days, func(i, j int) bool { return summary.Days[i].Date < summary.Days[j].Date })
	if len(summary.Days) > 0 {
		totalsRow := all.day("")
		summary.Totals = &totalsRow
	}
	return summary, nil
}

func (f *Fleet) inScope(key model.EntryKey, cabID string) bool {
	if cabID == "" || cabID == api.AllCabs {
		return true
	}
	cab, ok := model.FindCabByID(f.cabs, cabID)
	return ok && cab.ServiceNumber == key.CabNumber
}

type totals struct {
	trips    float64
	distance float64
	expenses float64
	salaries float64
	payments float64
}

func (t *totals) add(category model.Category, e model.Entry) {
	switch category {
	case model.CategoryTrips:
		t.trips += e.TotalTrips.Float()
		t.distance += e.DistanceKM.Float()
	case model.CategoryExpenses:
		t.expenses += e.Amount.Float()
	case model.CategorySalaries:
		t.salaries += e.Amount.Float()
	case model.CategoryPayments:
		t.payments += e.Amount.Float()
	}
}

func (t totals) month() model.MonthSummary {
	return model.MonthSummary{
		TotalTrips:    model.NewNumber(t.trips),
		TotalDistance: model.NewNumber(t.distance),
		TotalExpenses: model.NewNumber(t.expenses),
		TotalSalaries: model.NewNumber(t.salaries),
		TotalPayments: model.NewNumber(t.payments),
		NetIncome:     model.NewNumber(t.payments - t.expenses - t.salaries),
	}
}

func (t totals) day(date string) model.DaySummary {
	return model.DaySummary{
		Date:          date,
		TotalTrips:    model.NewNumber(t.trips),
		TotalDistance: model.NewNumber(t.distance),
		TotalExpenses: model.NewNumber(t.expenses),
	}
}

func intNumber(v *int64) model.Number {
	if v == nil {
		return model.Number{}
	}
	return model.NewNumber(float64(*v))
}

func floatNumber(v *float64) model.Number {
	if v == nil {
		return model.Number{}
	}
	return model.NewNumber(*v)
}
