// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/cabdesk/internal/model"
)

// CabDirectory lists the fleet's cabs.
type CabDirectory interface {
	ListCabs(ctx context.Context) ([]model.Cab, error)
}

// EntryStore loads and saves cab-data entries.
type EntryStore interface {
	GetEntry(ctx context.Context, key model.EntryKey) (model.Entry, error)
	SaveEntry(ctx context.Context, submission model.Submission) (model.Entry, error)
}

// DashboardSource provides server-computed summaries. An empty cabID means
// every cab.
type DashboardSource interface {
	MonthlySummary(ctx context.Context, cabID string) (model.MonthlySummary, error)
	DailySummary(ctx context.Context, year, month int, cabID string) (model.DailySummary, error)
}

// FleetAPI is the full contract of the fleet REST API.
type FleetAPI interface {
	CabDirectory
	EntryStore
	DashboardSource
}
