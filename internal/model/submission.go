package model

import (
	"encoding/json"
	"fmt"
)

// Submission is the create-or-update body posted to the cab-data endpoint.
type Submission struct {
	Details   Details
	ID        ID
	CabNumber string
	Date      string
	UpdatedBy string
	CreatedBy string
}

// IsUpdate reports whether the submission targets an existing record.
func (s Submission) IsUpdate() bool {
	return !s.ID.IsZero()
}

// MarshalJSON flattens the category details next to the envelope fields.
func (s Submission) MarshalJSON() ([]byte, error) {
	if s.Details == nil {
		return nil, fmt.Errorf("submission for %s/%s has no details", s.Date, s.CabNumber)
	}

	raw, err := json.Marshal(s.Details)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal details: %w", err)
	}
	body := map[string]any{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("failed to flatten details: %w", err)
	}

	body["category"] = s.Details.Category()
	body["cab_number"] = s.CabNumber
	body["date"] = s.Date
	body["updated_by"] = s.UpdatedBy
	if s.IsUpdate() {
		body["id"] = s.ID
	} else {
		body["created_by"] = s.CreatedBy
	}

	return json.Marshal(body)
}

// Key returns the date, cab and category the submission is filed under.
func (s Submission) Key() EntryKey {
	key := EntryKey{Date: s.Date, CabNumber: s.CabNumber}
	if s.Details != nil {
		key.Category = s.Details.Category()
	}
	return key
}

// Entry returns the record stored under id once s has been saved.
func (s Submission) Entry(id ID) Entry {
	e := Entry{ID: id}
	switch d := s.Details.(type) {
	case TripDetails:
		e.TotalTrips = NumberFromInt(d.TotalTrips)
		e.DistanceKM = NumberFromFloat(d.DistanceKM)
	case ExpenseDetails:
		e.Amount = NumberFromInt(d.Amount)
		e.Type = d.Type
		e.Subtype = d.Subtype
		e.Comments = d.Comments
		e.PaidBy = d.PaidBy
	case PaymentDetails:
		e.Amount = NumberFromFloat(d.Amount)
	case SalaryDetails:
		e.Amount = NumberFromInt(d.Amount)
		e.PaidBy = d.PaidBy
	}
	return e
}
