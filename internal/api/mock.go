package api

import (
	"context"
	"sync"

	"github.com/Veraticus/cabdesk/internal/model"
	"github.com/Veraticus/cabdesk/internal/service"
)

// MockClient is an in-memory FleetAPI for tests.
type MockClient struct {
	// Functions that can be set by tests to control behavior
	ListCabsFn       func(ctx context.Context) ([]model.Cab, error)
	GetEntryFn       func(ctx context.Context, key model.EntryKey) (model.Entry, error)
	SaveEntryFn      func(ctx context.Context, submission model.Submission) (model.Entry, error)
	MonthlySummaryFn func(ctx context.Context, cabID string) (model.MonthlySummary, error)
	DailySummaryFn   func(ctx context.Context, year, month int, cabID string) (model.DailySummary, error)

	// Call tracking
	ListCabsCalls       int
	GetEntryCalls       []model.EntryKey
	SaveEntryCalls      []model.Submission
	MonthlySummaryCalls []string
	DailySummaryCalls   []DailySummaryCall

	mu sync.Mutex
}

// DailySummaryCall records the parameters of a DailySummary call.
type DailySummaryCall struct {
	CabID string
	Year  int
	Month int
}

var _ service.FleetAPI = (*MockClient)(nil)

// NewMockClient creates a mock with empty default responses.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// ListCabs implements service.CabDirectory.
func (m *MockClient) ListCabs(ctx context.Context) ([]model.Cab, error) {
	m.mu.Lock()
	m.ListCabsCalls++
	fn := m.ListCabsFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return []model.Cab{}, nil
}

// GetEntry implements service.EntryStore.
func (m *MockClient) GetEntry(ctx context.Context, key model.EntryKey) (model.Entry, error) {
	m.mu.Lock()
	m.GetEntryCalls = append(m.GetEntryCalls, key)
	fn := m.GetEntryFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, key)
	}
	return model.Entry{}, nil
}

// SaveEntry implements service.EntryStore.
func (m *MockClient) SaveEntry(ctx context.Context, submission model.Submission) (model.Entry, error) {
	m.mu.Lock()
	m.SaveEntryCalls = append(m.SaveEntryCalls, submission)
	fn := m.SaveEntryFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, submission)
	}
	return model.Entry{ID: "1"}, nil
}

// MonthlySummary implements service.DashboardSource.
func (m *MockClient) MonthlySummary(ctx context.Context, cabID string) (model.MonthlySummary, error) {
	m.mu.Lock()
	m.MonthlySummaryCalls = append(m.MonthlySummaryCalls, cabID)
	fn := m.MonthlySummaryFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, cabID)
	}
	return model.MonthlySummary{}, nil
}

// DailySummary implements service.DashboardSource.
func (m *MockClient) DailySummary(ctx context.Context, year, month int, cabID string) (model.DailySummary, error) {
	m.mu.Lock()
	m.DailySummaryCalls = append(m.DailySummaryCalls, DailySummaryCall{CabID: cabID, Year: year, Month: month})
	fn := m.DailySummaryFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, year, month, cabID)
	}
	return model.DailySummary{}, nil
}

// Reset clears all call tracking.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCabsCalls = 0
	m.GetEntryCalls = nil
	m.SaveEntryCalls = nil
	m.MonthlySummaryCalls = nil
	m.DailySummaryCalls = nil
}
