package model

import (
	"fmt"
	"strings"
)

// Category selects which kind of cab-data entry is being recorded.
type Category string

const (
	// CategoryTrips records trip counts and distance driven.
	CategoryTrips Category = "trips"
	// CategoryExpenses records fuel, maintenance and other costs.
	CategoryExpenses Category = "expenses"
	// CategoryPayments records money collected for the cab.
	CategoryPayments Category = "payments"
	// CategorySalaries records driver salary payouts.
	CategorySalaries Category = "salaries"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryTrips,
	CategoryExpenses,
	CategoryPayments,
	CategorySalaries,
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Title returns the capitalized category name.
func (c Category) Title() string {
	return Capitalize(string(c))
}

// Label returns the selector label for the category.
func (c Category) Label() string {
	switch c {
	case CategoryExpenses:
		return "Expense"
	case CategorySalaries:
		return "Salary"
	default:
		return c.Title()
	}
}

// ExpenseType classifies an expense entry.
type ExpenseType string

const (
	ExpenseFuel        ExpenseType = "fuel"
	ExpenseMaintenance ExpenseType = "maintenance"
	ExpenseOthers      ExpenseType = "others"
)

// ExpenseTypes lists the expense types in display order.
var ExpenseTypes = []ExpenseType{ExpenseFuel, ExpenseMaintenance, ExpenseOthers}

// FuelSubtype narrows a fuel expense.
type FuelSubtype string

const (
	FuelPetrol FuelSubtype = "petrol"
	FuelCNG    FuelSubtype = "cng"
)

// FuelSubtypes lists the fuel subtypes in display order.
var FuelSubtypes = []FuelSubtype{FuelPetrol, FuelCNG}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
