package model

import (
	"errors"
	"fmt"
)

// ErrNegative is returned when a quantity is below zero.
var ErrNegative = errors.New("must not be negative")

// Details holds the category-specific attributes of an entry.
type Details interface {
	Category() Category
	Validate() error
}

// TripDetails are the attributes of a trips entry.
type TripDetails struct {
	TotalTrips *int64   `json:"total_trips,omitempty"`
	DistanceKM *float64 `json:"distance_km,omitempty"`
}

// Category implements Details.
func (TripDetails) Category() Category { return CategoryTrips }

// Validate implements Details.
func (d TripDetails) Validate() error {
	if d.TotalTrips != nil && *d.TotalTrips < 0 {
		return fmt.Errorf("total trips %w", ErrNegative)
	}
	if d.DistanceKM != nil && *d.DistanceKM < 0 {
		return fmt.Errorf("distance %w", ErrNegative)
	}
	return nil
}

// ExpenseDetails are the attributes of an expenses entry.
type ExpenseDetails struct {
	Amount   *int64      `json:"amount,omitempty"`
	Type     ExpenseType `json:"type,omitempty"`
	Subtype  FuelSubtype `json:"subtype,omitempty"`
	Comments string      `json:"comments"`
	PaidBy   string      `json:"paid_by"`
}

// Category implements Details.
func (ExpenseDetails) Category() Category { return CategoryExpenses }

// Validate implements Details.
func (d ExpenseDetails) Validate() error {
	if d.Amount != nil && *d.Amount < 0 {
		return fmt.Errorf("amount %w", ErrNegative)
	}
	switch d.Type {
	case ExpenseFuel:
		if d.Subtype != FuelPetrol && d.Subtype != FuelCNG {
			return fmt.Errorf("unknown fuel subtype %q", d.Subtype)
		}
	case ExpenseMaintenance, ExpenseOthers:
		if d.Subtype != "" {
			return fmt.Errorf("subtype is only allowed for fuel expenses")
		}
	default:
		return fmt.Errorf("unknown expense type %q", d.Type)
	}
	return nil
}

// PaymentDetails are the attributes of a payments entry. Payments keep
// fractional amounts.
type PaymentDetails struct {
	Amount *float64 `json:"amount,omitempty"`
}

// Category implements Details.
func (PaymentDetails) Category() Category { return CategoryPayments }

// Validate implements Details.
func (d PaymentDetails) Validate() error {
	if d.Amount != nil && *d.Amount < 0 {
		return fmt.Errorf("amount %w", ErrNegative)
	}
	return nil
}

// SalaryDetails are the attributes of a salaries entry.
type SalaryDetails struct {
	Amount *int64 `json:"amount,omitempty"`
	PaidBy string `json:"paid_by"`
}

// Category implements Details.
func (SalaryDetails) Category() Category { return CategorySalaries }

// Validate implements Details.
func (d SalaryDetails) Validate() error {
	if d.Amount != nil && *d.Amount < 0 {
		return fmt.Errorf("amount %w", ErrNegative)
	}
	return nil
}
