package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/cabdesk/internal/api"
	"github.com/Veraticus/cabdesk/internal/entry"
	"github.com/Veraticus/cabdesk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newEntryStore returns a mock that remembers saved entries.
func newEntryStore() *api.MockClient {
	stored := map[model.EntryKey]model.Entry{}
	mock := api.NewMockClient()
	mock.GetEntryFn = func(_ context.Context, key model.EntryKey) (model.Entry, error) {
		return stored[key], nil
	}
	mock.SaveEntryFn = func(_ context.Context, s model.Submission) (model.Entry, error) {
		e := s.Entry("7")
		stored[s.Key()] = e
		return e, nil
	}
	return mock
}

func TestParseImportCSV(t *testing.T) {
	input := `Date,Cab,Category,Trips,Distance,Amount,Type,Subtype,Paid_By,Comments
2025-03-05,KA01,trips,12,180.5,,,,,
2025-03-05, KA01 ,Expenses,,,500,Fuel,Petrol,Ravi,

2025-03-06,KA02,salaries,,,900,,,Owner,
`
	rows, err := parseImportCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, model.EntryKey{Date: "2025-03-05", CabNumber: "KA01", Category: model.CategoryTrips}, rows[0].Key)
	assert.Equal(t, entryInput{Trips: "12", Distance: "180.5"}, rows[0].Input)

	assert.Equal(t, model.CategoryExpenses, rows[1].Key.Category)
	assert.Equal(t, "KA01", rows[1].Key.CabNumber)
	assert.Equal(t, entryInput{Amount: "500", Type: "Fuel", Subtype: "Petrol", PaidBy: "Ravi"}, rows[1].Input)

	assert.Equal(t, 5, rows[2].Line)
	assert.Equal(t, "Owner", rows[2].Input.PaidBy)
}

func TestParseImportCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
		isErr   error
	}{
		{
			name:    "missing cab column",
			input:   "date,category\n2025-03-05,trips\n",
			wantErr: "cab_number",
			isErr:   errMissingColumn,
		},
		{
			name:    "unknown category",
			input:   "date,cab_number,category\n2025-03-05,KA01,bonus\n",
			wantErr: "line 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseImportCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			if tt.isErr != nil {
				assert.ErrorIs(t, err, tt.isErr)
			}
		})
	}
}

func TestParseImportCSV_Empty(t *testing.T) {
	rows, err := parseImportCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestImportRows_MergesRowsForSameKey(t *testing.T) {
	store := newEntryStore()
	key := model.EntryKey{Date: "2025-03-05", CabNumber: "KA01", Category: model.CategoryExpenses}
	rows := []importRow{
		{Line: 2, Key: key, Input: entryInput{Amount: "500", Type: "fuel", Subtype: "petrol"}},
		{Line: 3, Key: key, Input: entryInput{Amount: "300", Type: "maintenance"}},
	}

	var progressed int
	result := importRows(context.Background(), store, rows, importOptions{User: "importer", Timeout: time.Second}, func() {
		progressed++
	})

	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 2, progressed)

	require.Len(t, store.SaveEntryCalls, 2)
	first := store.SaveEntryCalls[0]
	assert.Equal(t, "importer", first.CreatedBy)
	assert.False(t, first.IsUpdate())

	second := store.SaveEntryCalls[1]
	assert.True(t, second.IsUpdate())
	details, ok := second.Details.(model.ExpenseDetails)
	require.True(t, ok)
	assert.Equal(t, int64(800), *details.Amount)
	assert.Equal(t, "Fuel (Petrol): ₹500; Maintenance: ₹800", details.Comments)
}

func TestImportRows_ContinuesAfterFailure(t *testing.T) {
	store := newEntryStore()
	rows := []importRow{
		{Line: 2, Key: model.EntryKey{Date: "2025-03-05", CabNumber: "KA01", Category: model.CategoryTrips}},
		{Line: 3, Key: model.EntryKey{Date: "2025-03-05", CabNumber: "KA02", Category: model.CategoryTrips}, Input: entryInput{Trips: "4"}},
	}

	result := importRows(context.Background(), store, rows, importOptions{Timeout: time.Second}, nil)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error(), "line 2")
	assert.Contains(t, result.Errors[0].Error(), "total trips is required")
	assert.Equal(t, 1, result.Created)
	require.Len(t, store.SaveEntryCalls, 1)
	assert.Equal(t, "KA02", store.SaveEntryCalls[0].CabNumber)
}

func TestImportRows_DryRunSavesNothing(t *testing.T) {
	store := newEntryStore()
	rows := []importRow{
		{Line: 2, Key: model.EntryKey{Date: "2025-03-05", CabNumber: "KA01", Category: model.CategoryPayments}, Input: entryInput{Amount: "99.5"}},
	}

	result := importRows(context.Background(), store, rows, importOptions{DryRun: true}, nil)

	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, result.Created)
	assert.Empty(t, store.SaveEntryCalls)
	assert.Len(t, store.GetEntryCalls, 1)
}

func TestImportRows_DryRunMergesRowsSharingAKey(t *testing.T) {
	store := newEntryStore()
	key := model.EntryKey{Date: "2025-03-05", CabNumber: "KA01", Category: model.CategoryTrips}
	rows := []importRow{
		{Line: 2, Key: key, Input: entryInput{Trips: "4", Distance: "60"}},
		{Line: 3, Key: key, Input: entryInput{Trips: "3"}},
		{Line: 4, Key: model.EntryKey{Date: "2025-03-05", CabNumber: "KA02", Category: model.CategoryTrips}, Input: entryInput{Trips: "1"}},
	}

	dry := importRows(context.Background(), store, rows, importOptions{DryRun: true}, nil)
	assert.Empty(t, dry.Errors)
	assert.Empty(t, store.SaveEntryCalls)
	assert.Len(t, store.GetEntryCalls, 2, "the repeated key is answered from the staged entry")

	store.Reset()
	saved := importRows(context.Background(), store, rows, importOptions{Timeout: time.Second}, nil)
	assert.Empty(t, saved.Errors)
	assert.Len(t, store.SaveEntryCalls, 3)

	assert.Equal(t, saved.Created, dry.Created)
	assert.Equal(t, saved.Updated, dry.Updated)
	assert.Equal(t, 2, dry.Created)
	assert.Equal(t, 1, dry.Updated)
}

func TestStagedStore_MergesStagedEntry(t *testing.T) {
	store := newStagedStore(newEntryStore())
	key := model.EntryKey{Date: "2025-03-05", CabNumber: "KA01", Category: model.CategoryExpenses}
	ctx := context.Background()

	first := entryInput{Amount: "500", Type: "fuel", Subtype: "petrol"}
	s, err := entry.Compose(entry.Draft{Values: first.values(key.Category, model.Entry{}), Key: key, User: "cli"})
	require.NoError(t, err)
	_, err = store.SaveEntry(ctx, s)
	require.NoError(t, err)

	existing, err := store.GetEntry(ctx, key)
	require.NoError(t, err)
	assert.True(t, existing.Exists())
	assert.Equal(t, 500.0, existing.Amount.Float())
	assert.Equal(t, "Fuel (Petrol): ₹500", existing.Comments)

	second := entryInput{Amount: "300", Type: "maintenance"}
	s, err = entry.Compose(entry.Draft{Values: second.values(key.Category, existing), Key: key, User: "cli", Existing: existing})
	require.NoError(t, err)
	assert.True(t, s.IsUpdate())

	details, ok := s.Details.(model.ExpenseDetails)
	require.True(t, ok)
	assert.Equal(t, int64(800), *details.Amount)
	assert.Equal(t, "Fuel (Petrol): ₹500; Maintenance: ₹800", details.Comments)
}

func TestImportRows_StopsWhenCanceled(t *testing.T) {
	store := newEntryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := []importRow{
		{Line: 2, Key: model.EntryKey{Date: "2025-03-05", CabNumber: "KA01", Category: model.CategoryTrips}, Input: entryInput{Trips: "4"}},
	}
	result := importRows(ctx, store, rows, importOptions{Timeout: time.Second}, nil)

	assert.Zero(t, result.Created)
	assert.Empty(t, store.GetEntryCalls)
}

func TestImportRows_SaveFailure(t *testing.T) {
	store := newEntryStore()
	store.SaveEntryFn = func(_ context.Context, _ model.Submission) (model.Entry, error) {
		return model.Entry{}, errors.New("connection reset")
	}
	rows := []importRow{
		{Line: 2, Key: model.EntryKey{Date: "2025-03-05", CabNumber: "KA01", Category: model.CategorySalaries}, Input: entryInput{Amount: "900"}},
	}

	result := importRows(context.Background(), store, rows, importOptions{Timeout: time.Second}, nil)

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error(), "connection reset")
}

func TestPrintImportSummary(t *testing.T) {
	var buf bytes.Buffer
	printImportSummary(&buf, importResult{Created: 2, Updated: 1, Errors: []error{errors.New("line 4: boom")}}, false)

	out := buf.String()
	assert.Contains(t, out, "Imported 3 rows: 2 created, 1 updated")
	assert.Contains(t, out, "line 4: boom")
}
