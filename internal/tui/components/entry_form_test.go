package components

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/cabdesk/internal/api"
	"github.com/Veraticus/cabdesk/internal/common"
	"github.com/Veraticus/cabdesk/internal/entry"
	"github.com/Veraticus/cabdesk/internal/model"
	tuitest "github.com/Veraticus/cabdesk/internal/tui/testing"
	"github.com/Veraticus/cabdesk/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCabs = []model.Cab{
	{ID: "1", ServiceNumber: "KA01", DriverName: "Ravi"},
	{ID: "2", ServiceNumber: "KA02", DriverName: "Manoj"},
}

func newTestMock() *api.MockClient {
	mock := api.NewMockClient()
	mock.ListCabsFn = func(_ context.Context) ([]model.Cab, error) {
		return testCabs, nil
	}
	return mock
}

func newTestForm(mock *api.MockClient) EntryFormModel {
	return NewEntryFormModel(FormConfig{
		Cabs:  mock,
		Store: mock,
		Theme: themes.Default,
		User:  "tester",
		Now: func() time.Time {
			return time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
		},
	})
}

func settleForm(m EntryFormModel, cmd tea.Cmd) EntryFormModel {
	return tuitest.Settle(m, cmd, EntryFormModel.Update)
}

func press(m EntryFormModel, msgs ...tea.Msg) EntryFormModel {
	for _, msg := range msgs {
		var cmd tea.Cmd
		m, cmd = m.Update(msg)
		m = settleForm(m, cmd)
	}
	return m
}

func focusOn(t *testing.T, m EntryFormModel, kind slotKind, field entry.FieldID) EntryFormModel {
	t.Helper()
	for i, s := range m.slots() {
		if s.kind == kind && (kind != slotField || s.field.ID == field) {
			m.focus = i
			m.syncFocus()
			return m
		}
	}
	t.Fatalf("slot %v/%s not on form", kind, field)
	return m
}

func TestEntryForm_InitLoadsCabsAndEntry(t *testing.T) {
	mock := newTestMock()
	m := newTestForm(mock)

	m = settleForm(m, m.Init())

	assert.Equal(t, 1, mock.ListCabsCalls)
	require.Len(t, mock.GetEntryCalls, 1)
	assert.Equal(t, model.EntryKey{Date: "2025-03-05", CabNumber: "KA01", Category: model.CategoryTrips}, mock.GetEntryCalls[0])
	assert.False(t, m.Busy())
	assert.NoError(t, m.Err())
}

func TestEntryForm_CabsErrorShowsBanner(t *testing.T) {
	mock := api.NewMockClient()
	mock.ListCabsFn = func(_ context.Context) ([]model.Cab, error) {
		return nil, errors.New("connection refused")
	}
	m := newTestForm(mock)

	m = settleForm(m, m.Init())

	require.Error(t, m.Err())
	assert.Equal(t, "Error fetching cabs: connection refused", m.Err().Error())
	assert.Empty(t, mock.GetEntryCalls)
	assert.Contains(t, tuitest.StripANSI(m.View()), "Error fetching cabs")
}

func TestEntryForm_UpdateSumsAdditionalAmount(t *testing.T) {
	mock := newTestMock()
	stored := model.Entry{
		ID:       "7",
		Amount:   model.NewNumber(500),
		Type:     model.ExpenseFuel,
		Subtype:  model.FuelPetrol,
		Comments: "Fuel (Petrol): ₹500",
	}
	mock.GetEntryFn = func(_ context.Context, key model.EntryKey) (model.Entry, error) {
		if key.Category == model.CategoryExpenses {
			return stored, nil
		}
		return model.Entry{}, nil
	}

	m := newTestForm(mock)
	m = settleForm(m, m.Init())
	m = focusOn(t, m, slotCategory, "")
	m = press(m, tuitest.KeyRight())

	require.True(t, m.Existing().Exists())
	assert.Equal(t, model.CategoryExpenses, m.Key().Category)
	assert.Empty(t, m.Value(entry.FieldAdditionalAmount))
	assert.Equal(t, "Fuel (Petrol): ₹500", m.Value(entry.FieldComments))

	m = focusOn(t, m, slotField, entry.FieldAdditionalAmount)
	m = press(m, tuitest.KeyPress("250"), tuitest.KeyCtrl("s"))

	require.Len(t, mock.SaveEntryCalls, 1)
	saved := mock.SaveEntryCalls[0]
	details, ok := saved.Details.(model.ExpenseDetails)
	require.True(t, ok)
	assert.Equal(t, int64(750), *details.Amount)
	assert.Equal(t, "Fuel (Petrol): ₹500; Fuel (Petrol): ₹750", details.Comments)
	assert.Equal(t, model.ID("7"), saved.ID)
	assert.Empty(t, saved.CreatedBy)
	assert.Equal(t, "tester", saved.UpdatedBy)

	assert.Equal(t, "Data updated successfully!", m.Status())
	// initial load, category change, refetch after save
	assert.Len(t, mock.GetEntryCalls, 3)
}

func TestEntryForm_CreateSendsCreatedBy(t *testing.T) {
	mock := newTestMock()
	m := newTestForm(mock)
	m = settleForm(m, m.Init())

	m = focusOn(t, m, slotField, entry.FieldTotalTrips)
	m = press(m, tuitest.KeyPress("12"), tuitest.KeyTab(), tuitest.KeyPress("180.5"))
	m = focusOn(t, m, slotSubmit, "")
	m = press(m, tuitest.KeyEnter())

	require.Len(t, mock.SaveEntryCalls, 1)
	saved := mock.SaveEntryCalls[0]
	assert.Equal(t, "tester", saved.CreatedBy)
	assert.False(t, saved.IsUpdate())
	assert.Equal(t, "KA01", saved.CabNumber)
	assert.Equal(t, "2025-03-05", saved.Date)
	details := saved.Details.(model.TripDetails)
	assert.Equal(t, int64(12), *details.TotalTrips)
	assert.InDelta(t, 180.5, *details.DistanceKM, 0.001)
	assert.Equal(t, "Data created successfully!", m.Status())
}

func TestEntryForm_NoStoredEntryResetsAdditionalField(t *testing.T) {
	mock := newTestMock()
	mock.GetEntryFn = func(_ context.Context, key model.EntryKey) (model.Entry, error) {
		if key.CabNumber == "KA01" {
			return model.Entry{ID: "3", TotalTrips: model.NewNumber(10)}, nil
		}
		return model.Entry{}, nil
	}

	m := newTestForm(mock)
	m = settleForm(m, m.Init())
	require.True(t, m.Existing().Exists())

	m = focusOn(t, m, slotField, entry.FieldAdditionalTrips)
	m = press(m, tuitest.KeyPress("4"))
	assert.Equal(t, "4", m.Value(entry.FieldAdditionalTrips))

	m = focusOn(t, m, slotCab, "")
	m = press(m, tuitest.KeyRight())

	assert.Equal(t, "KA02", m.Key().CabNumber)
	assert.False(t, m.Existing().Exists())
	assert.Empty(t, m.Value(entry.FieldAdditionalTrips))
	assert.Empty(t, m.Value(entry.FieldTotalTrips))
	view := tuitest.StripANSI(m.View())
	assert.Contains(t, view, "Total Trips")
	assert.NotContains(t, view, "Additional Trips")
}

func TestEntryForm_DiscardsStaleEntryResponse(t *testing.T) {
	mock := newTestMock()
	mock.GetEntryFn = func(_ context.Context, key model.EntryKey) (model.Entry, error) {
		if key.CabNumber == "KA02" {
			return model.Entry{ID: "99", TotalTrips: model.NewNumber(1)}, nil
		}
		return model.Entry{ID: "5", TotalTrips: model.NewNumber(20)}, nil
	}

	m := newTestForm(mock)
	m = settleForm(m, m.Init())
	m = focusOn(t, m, slotCab, "")

	m, toSecond := m.Update(tuitest.KeyRight())
	m, backToFirst := m.Update(tuitest.KeyLeft())

	stale := tuitest.RunCmd(toSecond)
	fresh := tuitest.RunCmd(backToFirst)

	for _, msg := range append(fresh, stale...) {
		m, _ = m.Update(msg)
	}

	assert.Equal(t, "KA01", m.Key().CabNumber)
	assert.Equal(t, model.ID("5"), m.Existing().ID)
	assert.False(t, m.Busy())
}

func TestEntryForm_SubmitErrorKeepsInput(t *testing.T) {
	mock := newTestMock()
	mock.SaveEntryFn = func(_ context.Context, _ model.Submission) (model.Entry, error) {
		return model.Entry{}, &api.StatusError{StatusCode: 500, Message: "database unavailable"}
	}

	m := newTestForm(mock)
	m = settleForm(m, m.Init())
	m = focusOn(t, m, slotField, entry.FieldTotalTrips)
	m = press(m, tuitest.KeyPress("12"), tuitest.KeyCtrl("s"))

	require.Error(t, m.Err())
	assert.True(t, common.IsUserError(m.Err()))
	assert.ErrorIs(t, m.Err(), common.ErrAPIStatus)
	assert.Contains(t, m.Err().Error(), "Error submitting data")
	assert.Equal(t, "12", m.Value(entry.FieldTotalTrips))
	assert.Empty(t, m.Status())
	assert.Len(t, mock.GetEntryCalls, 1, "no refetch after a failed submit")
}

func TestEntryForm_MissingAmountIsNotSubmitted(t *testing.T) {
	mock := newTestMock()
	m := newTestForm(mock)
	m = settleForm(m, m.Init())
	m = focusOn(t, m, slotCategory, "")
	m = press(m, tuitest.KeyLeft()) // wraps to salaries

	assert.Equal(t, model.CategorySalaries, m.Key().Category)
	m = press(m, tuitest.KeyCtrl("s"))

	assert.Empty(t, mock.SaveEntryCalls)
	require.Error(t, m.Err())
	assert.ErrorIs(t, m.Err(), common.ErrInvalidInput)
}

func TestEntryForm_FuelSubtypeOnlyForFuel(t *testing.T) {
	mock := newTestMock()
	m := newTestForm(mock)
	m = settleForm(m, m.Init())
	m = focusOn(t, m, slotCategory, "")
	m = press(m, tuitest.KeyRight())

	assert.Contains(t, tuitest.StripANSI(m.View()), "Fuel Subtype")

	m = focusOn(t, m, slotField, entry.FieldType)
	m = press(m, tuitest.KeyRight())

	assert.Equal(t, "maintenance", m.Value(entry.FieldType))
	assert.NotContains(t, tuitest.StripANSI(m.View()), "Fuel Subtype")

	m = focusOn(t, m, slotField, entry.FieldAmount)
	m = press(m, tuitest.KeyPress("300"), tuitest.KeyCtrl("s"))

	require.Len(t, mock.SaveEntryCalls, 1)
	details := mock.SaveEntryCalls[0].Details.(model.ExpenseDetails)
	assert.Equal(t, "Maintenance: ₹300", details.Comments)
	assert.Empty(t, details.Subtype)
}

func TestEntryForm_ApplyEditContextBeforeCabsLoad(t *testing.T) {
	mock := newTestMock()
	m := newTestForm(mock)

	m, cmd := m.ApplyEditContext(EditContext{Date: "2025-02-10", CabNumber: "KA02"})
	msgs := tuitest.RunCmd(cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, EditContextConsumedMsg{Context: EditContext{Date: "2025-02-10", CabNumber: "KA02"}}, msgs[0])

	m = settleForm(m, m.Init())

	require.NotEmpty(t, mock.GetEntryCalls)
	assert.Equal(t,
		model.EntryKey{Date: "2025-02-10", CabNumber: "KA02", Category: model.CategoryTrips},
		mock.GetEntryCalls[len(mock.GetEntryCalls)-1],
	)
}

func TestEntryForm_ApplyEditContextAfterCabsLoad(t *testing.T) {
	mock := newTestMock()
	m := newTestForm(mock)
	m = settleForm(m, m.Init())
	mock.Reset()

	m, cmd := m.ApplyEditContext(EditContext{Date: "2025-03-01", CabNumber: "KA02"})
	msgs := tuitest.RunCmd(cmd)

	assert.Contains(t, msgs, tea.Msg(EditContextConsumedMsg{Context: EditContext{Date: "2025-03-01", CabNumber: "KA02"}}))
	require.Len(t, mock.GetEntryCalls, 1)
	assert.Equal(t, "KA02", mock.GetEntryCalls[0].CabNumber)
	assert.Equal(t, "2025-03-01", m.Key().Date)
}

func TestEntryForm_IgnoresDashboardCabs(t *testing.T) {
	m := newTestForm(newTestMock())
	m, cmd := m.Update(CabsLoadedMsg{Owner: OwnerDashboard, Cabs: testCabs})
	assert.Nil(t, cmd)
	assert.Empty(t, m.Key().CabNumber)
}

func TestEntryForm_IncompleteDateDoesNotFetch(t *testing.T) {
	mock := newTestMock()
	m := newTestForm(mock)
	m = settleForm(m, m.Init())
	mock.Reset()

	m = focusOn(t, m, slotDate, "")
	m = press(m, tuitest.KeyBackspace())

	assert.Equal(t, "2025-03-0", m.Key().Date)
	assert.Empty(t, mock.GetEntryCalls)
	assert.False(t, m.Busy())

	m = press(m, tuitest.KeyPress("6"))
	require.Len(t, mock.GetEntryCalls, 1)
	assert.Equal(t, "2025-03-06", mock.GetEntryCalls[0].Date)
}

func TestEntryForm_FailedFetchBlocksSubmitUntilReload(t *testing.T) {
	mock := newTestMock()
	fail := true
	mock.GetEntryFn = func(_ context.Context, _ model.EntryKey) (model.Entry, error) {
		if fail {
			return model.Entry{}, errors.New("timeout")
		}
		return model.Entry{ID: "4", Amount: model.NewNumber(250)}, nil
	}

	m := newTestForm(mock)
	m = settleForm(m, m.Init())
	m = focusOn(t, m, slotCategory, "")
	m = press(m, tuitest.KeyLeft(), tuitest.KeyLeft()) // payments

	require.Equal(t, model.CategoryPayments, m.Key().Category)
	require.Error(t, m.Err())
	assert.Contains(t, m.Err().Error(), ErrFetchingFormData)
	assert.Contains(t, tuitest.StripANSI(m.View()), "Press ctrl+r to reload")

	m = focusOn(t, m, slotField, entry.FieldAmount)
	m = press(m, tuitest.KeyPress("100"), tuitest.KeyCtrl("s"))

	assert.Empty(t, mock.SaveEntryCalls, "an entry that may exist must not be submitted as new")
	require.Error(t, m.Err())
	assert.ErrorIs(t, m.Err(), errEntryNotLoaded)
	assert.Equal(t, "100", m.Value(entry.FieldAmount))

	fail = false
	m = press(m, tuitest.KeyCtrl("r"))
	require.NoError(t, m.Err())
	require.True(t, m.Existing().Exists())

	m = focusOn(t, m, slotField, entry.FieldAdditionalAmount)
	m = press(m, tuitest.KeyPress("100"), tuitest.KeyCtrl("s"))

	require.Len(t, mock.SaveEntryCalls, 1)
	saved := mock.SaveEntryCalls[0]
	assert.Equal(t, "4", saved.ID.String())
	assert.Empty(t, saved.CreatedBy)
	details := saved.Details.(model.PaymentDetails)
	require.NotNil(t, details.Amount)
	assert.InDelta(t, 350, *details.Amount, 0.001)
}
