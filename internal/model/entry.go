package model

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for entry dates.
const DateLayout = "2006-01-02"

// EntryKey identifies at most one cab-data entry.
type EntryKey struct {
	Date      string
	CabNumber string
	Category  Category
}

// Complete reports whether every part of the key is set and the date parses.
func (k EntryKey) Complete() bool {
	if k.CabNumber == "" || k.Category == "" {
		return false
	}
	_, err := time.Parse(DateLayout, k.Date)
	return err == nil
}

func (k EntryKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Date, k.CabNumber, k.Category)
}

// Entry is a cab-data record as returned by the API. Only the attributes of
// the entry's category are meaningful.
type Entry struct {
	ID         ID          `json:"id"`
	Type       ExpenseType `json:"type"`
	Subtype    FuelSubtype `json:"subtype"`
	Comments   string      `json:"comments"`
	PaidBy     string      `json:"paid_by"`
	TotalTrips Number      `json:"total_trips"`
	DistanceKM Number      `json:"distance_km"`
	Amount     Number      `json:"amount"`
}

// Exists reports whether the API returned a stored record.
func (e Entry) Exists() bool {
	return !e.ID.IsZero()
}

// Details projects the stored record onto the category's variant.
func (e Entry) Details(category Category) Details {
	switch category {
	case CategoryTrips:
		return TripDetails{
			TotalTrips: e.TotalTrips.IntPtr(),
			DistanceKM: e.DistanceKM.FloatPtr(),
		}
	case CategoryExpenses:
		return ExpenseDetails{
			Amount:   e.Amount.IntPtr(),
			Type:     e.Type,
			Subtype:  e.Subtype,
			Comments: e.Comments,
			PaidBy:   e.PaidBy,
		}
	case CategoryPayments:
		return PaymentDetails{Amount: e.Amount.FloatPtr()}
	case CategorySalaries:
		return SalaryDetails{
			Amount: e.Amount.IntPtr(),
			PaidBy: e.PaidBy,
		}
	default:
		return nil
	}
}
