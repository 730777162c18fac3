package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Veraticus/cabdesk/internal/common"
	"github.com/Veraticus/cabdesk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL + "/api"})
	require.NoError(t, err)
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	_, err = NewClient(Config{BaseURL: "ftp://example.com"})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	client, err := NewClient(Config{BaseURL: "http://localhost:3000/api/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/api", client.BaseURL())
}

func TestClient_ListCabs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/cabs", r.URL.Path)
		writeJSON(t, w, http.StatusOK, []map[string]any{
			{"id": 1, "service_number": "KA01", "driver_name": "Ravi"},
			{"id": "2", "service_number": "KA02", "driver_name": "Suresh"},
		})
	})

	cabs, err := client.ListCabs(context.Background())
	require.NoError(t, err)
	require.Len(t, cabs, 2)
	assert.Equal(t, model.ID("1"), cabs[0].ID)
	assert.Equal(t, "KA01 - Ravi", cabs[0].Label())
	assert.Equal(t, "2", cabs[1].ID.String())
}

func TestClient_GetEntry(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cab-data", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "expenses", q.Get("category"))
		assert.Equal(t, "2025-03-05", q.Get("date"))
		assert.Equal(t, "KA01", q.Get("cab_number"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"id":       12,
			"amount":   "500.00",
			"type":     "fuel",
			"subtype":  "petrol",
			"comments": "Fuel (Petrol): ₹500",
		})
	})

	entry, err := client.GetEntry(context.Background(), model.EntryKey{
		Date:      "2025-03-05",
		CabNumber: "KA01",
		Category:  model.CategoryExpenses,
	})
	require.NoError(t, err)
	assert.True(t, entry.Exists())
	assert.Equal(t, int64(500), entry.Amount.Int())
	assert.Equal(t, model.ExpenseFuel, entry.Type)
}

func TestClient_GetEntry_Empty(t *testing.T) {
	bodies := []string{"{}", "null", "", `{"id": null}`}
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = io.WriteString(w, body)
			})

			entry, err := client.GetEntry(context.Background(), model.EntryKey{
				Date: "2025-03-05", CabNumber: "KA01", Category: model.CategoryTrips,
			})
			require.NoError(t, err)
			assert.False(t, entry.Exists())
		})
	}
}

func TestClient_SaveEntry(t *testing.T) {
	amount := int64(800)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/cab-data", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "salaries", body["category"])
		assert.Equal(t, "KA01", body["cab_number"])
		assert.Equal(t, "user", body["created_by"])
		assert.InDelta(t, 800, body["amount"], 0.001)

		writeJSON(t, w, http.StatusCreated, map[string]any{"id": 5, "amount": 800})
	})

	saved, err := client.SaveEntry(context.Background(), model.Submission{
		Details:   model.SalaryDetails{Amount: &amount, PaidBy: "owner"},
		CabNumber: "KA01",
		Date:      "2025-03-05",
		UpdatedBy: "user",
		CreatedBy: "user",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ID("5"), saved.ID)
}

func TestClient_SaveEntry_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]string{"error": "Invalid cab number"})
	})

	amount := 10.0
	_, err := client.SaveEntry(context.Background(), model.Submission{
		Details:   model.PaymentDetails{Amount: &amount},
		CabNumber: "XX",
		Date:      "2025-03-05",
	})
	require.Error(t, err)
	assert.Equal(t, "Invalid cab number", err.Error())
	assert.ErrorIs(t, err, common.ErrAPIStatus)
	assert.True(t, IsStatus(err, http.StatusBadRequest))
}

func TestClient_StatusErrorWithoutBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.ListCabs(context.Background())
	require.Error(t, err)
	assert.Equal(t, "API returned status 500", err.Error())
}

func TestClient_MalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"monthly_summary": "nope"}`)
	})

	_, err := client.MonthlySummary(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrMalformedResponse)
}

func TestClient_MonthlySummary(t *testing.T) {
	tests := []struct {
		name      string
		cabID     string
		wantQuery string
	}{
		{name: "all cabs", cabID: AllCabs, wantQuery: ""},
		{name: "empty filter", cabID: "", wantQuery: ""},
		{name: "single cab", cabID: "7", wantQuery: "cab_id=7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/dashboard", r.URL.Path)
				assert.Equal(t, tt.wantQuery, r.URL.RawQuery)
				writeJSON(t, w, http.StatusOK, map[string]any{
					"year": 2025,
					"monthly_summary": []map[string]any{
						{"month": "March", "month_number": 3, "total_trips": 40, "net_income": "-150.50"},
					},
					"totals": map[string]any{"total_trips": 40, "net_income": -150.5},
				})
			})

			summary, err := client.MonthlySummary(context.Background(), tt.cabID)
			require.NoError(t, err)
			assert.Equal(t, 2025, summary.Year)
			first, ok := summary.FirstMonth()
			require.True(t, ok)
			assert.Equal(t, 3, first.MonthNumber)
			assert.InDelta(t, -150.5, first.NetIncome.Float(), 0.001)
			require.NotNil(t, summary.Totals)
		})
	}
}

func TestClient_DailySummary(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/dashboard/daily", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2025", q.Get("year"))
		assert.Equal(t, "3", q.Get("month"))
		assert.Equal(t, "7", q.Get("cab_id"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"month_name": "March",
			"daily_summary": []map[string]any{
				{"date": "2025-03-01", "total_trips": 4, "total_distance": "120.5", "total_expenses": 300},
			},
			"totals": nil,
		})
	})

	summary, err := client.DailySummary(context.Background(), 2025, 3, "7")
	require.NoError(t, err)
	assert.Equal(t, "March", summary.MonthName)
	require.Len(t, summary.Days, 1)
	assert.InDelta(t, 120.5, summary.Days[0].TotalDistance.Float(), 0.001)
	assert.Nil(t, summary.Totals)
}
