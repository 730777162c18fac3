package components

import "github.com/Veraticus/cabdesk/internal/model"

// Owner identifies which component issued a shared request.
type Owner int

// Request owners.
const (
	OwnerForm Owner = iota
	OwnerDashboard
)

// CabsLoadedMsg carries the cab directory.
type CabsLoadedMsg struct {
	Err   error
	Cabs  []model.Cab
	Owner Owner
}

// EntryLoadedMsg carries the stored entry for Key, if any.
type EntryLoadedMsg struct {
	Err   error
	Key   model.EntryKey
	Entry model.Entry
}

// EntrySavedMsg reports the outcome of a submission.
type EntrySavedMsg struct {
	Err        error
	Key        model.EntryKey
	Submission model.Submission
	Entry      model.Entry
}

// MonthlyLoadedMsg carries the yearly summary requested for CabFilter.
type MonthlyLoadedMsg struct {
	Err       error
	CabFilter string
	Summary   model.MonthlySummary
}

// DailyLoadedMsg carries one month's daily summary.
type DailyLoadedMsg struct {
	Err     error
	Request DailyRequest
	Summary model.DailySummary
}

// DailyRequest is the selector a daily summary was fetched for.
type DailyRequest struct {
	CabFilter string
	Year      int
	Month     int
}

// EditRequestMsg asks the coordinator to open a day in the entry form.
type EditRequestMsg struct {
	Context EditContext
}

// EditContext is the (date, cab) pair handed from the dashboard to the
// entry form.
type EditContext struct {
	Date      string
	CabNumber string
}

// EditContextConsumedMsg tells the coordinator the form has applied the
// edit context.
type EditContextConsumedMsg struct {
	Context EditContext
}
