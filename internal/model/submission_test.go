package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func float64Ptr(v float64) *float64 { return &v }

func TestSubmission_MarshalJSON_Create(t *testing.T) {
	s := Submission{
		Details: ExpenseDetails{
			Amount:   int64Ptr(500),
			Type:     ExpenseFuel,
			Subtype:  FuelPetrol,
			Comments: "Fuel (Petrol): ₹500",
			PaidBy:   "owner",
		},
		CabNumber: "KA01",
		Date:      "2025-03-05",
		UpdatedBy: "user",
		CreatedBy: "user",
	}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))

	assert.Equal(t, "expenses", body["category"])
	assert.Equal(t, "KA01", body["cab_number"])
	assert.Equal(t, "2025-03-05", body["date"])
	assert.Equal(t, "user", body["updated_by"])
	assert.Equal(t, "user", body["created_by"])
	assert.InDelta(t, 500, body["amount"], 0.001)
	assert.Equal(t, "fuel", body["type"])
	assert.Equal(t, "petrol", body["subtype"])
	assert.Equal(t, "Fuel (Petrol): ₹500", body["comments"])
	assert.NotContains(t, body, "id")
}

func TestSubmission_MarshalJSON_Update(t *testing.T) {
	s := Submission{
		Details:   TripDetails{TotalTrips: int64Ptr(12)},
		ID:        "42",
		CabNumber: "KA01",
		Date:      "2025-03-05",
		UpdatedBy: "user",
		CreatedBy: "user",
	}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))

	assert.Equal(t, "trips", body["category"])
	assert.InDelta(t, 42, body["id"], 0.001)
	assert.InDelta(t, 12, body["total_trips"], 0.001)
	assert.NotContains(t, body, "created_by")
	assert.NotContains(t, body, "distance_km", "absent distance must not be sent as zero")
}

func TestSubmission_MarshalJSON_NoDetails(t *testing.T) {
	_, err := json.Marshal(Submission{CabNumber: "KA01"})
	assert.Error(t, err)
}

func TestDetails_Validate(t *testing.T) {
	tests := []struct {
		details Details
		name    string
		wantErr bool
	}{
		{name: "valid trips", details: TripDetails{TotalTrips: int64Ptr(3), DistanceKM: float64Ptr(12.5)}},
		{name: "negative trips", details: TripDetails{TotalTrips: int64Ptr(-1)}, wantErr: true},
		{name: "fuel with subtype", details: ExpenseDetails{Amount: int64Ptr(100), Type: ExpenseFuel, Subtype: FuelCNG}},
		{name: "fuel without subtype", details: ExpenseDetails{Amount: int64Ptr(100), Type: ExpenseFuel}, wantErr: true},
		{name: "maintenance with subtype", details: ExpenseDetails{Type: ExpenseMaintenance, Subtype: FuelPetrol}, wantErr: true},
		{name: "unknown type", details: ExpenseDetails{Type: "toll"}, wantErr: true},
		{name: "fractional payment", details: PaymentDetails{Amount: float64Ptr(99.5)}},
		{name: "negative salary", details: SalaryDetails{Amount: int64Ptr(-5)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.details.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Expenses ")
	require.NoError(t, err)
	assert.Equal(t, CategoryExpenses, c)

	_, err = ParseCategory("fuel")
	assert.Error(t, err)
}

func TestSubmission_Entry(t *testing.T) {
	s := Submission{
		Details:   SalaryDetails{Amount: int64Ptr(900), PaidBy: "Owner"},
		CabNumber: "KA01",
		Date:      "2025-03-05",
	}

	assert.Equal(t, EntryKey{Date: "2025-03-05", CabNumber: "KA01", Category: CategorySalaries}, s.Key())

	e := s.Entry("12")
	assert.True(t, e.Exists())
	assert.Equal(t, 900.0, e.Amount.Float())
	assert.Equal(t, "Owner", e.PaidBy)
	assert.Equal(t, s.Details, e.Details(CategorySalaries))

	trips := Submission{Details: TripDetails{TotalTrips: int64Ptr(4)}}.Entry("3")
	assert.Equal(t, int64(4), trips.TotalTrips.Int())
	assert.False(t, trips.DistanceKM.Valid)
}
