package components

import (
	"context"
	"log/slog"
	"time"

	"github.com/Veraticus/cabdesk/internal/model"
	"github.com/Veraticus/cabdesk/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultTimeout bounds every API request issued by a component.
const DefaultTimeout = 30 * time.Second

func fetchCabs(cabs service.CabDirectory, owner Owner, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		list, err := cabs.ListCabs(ctx)
		return CabsLoadedMsg{Cabs: list, Err: err, Owner: owner}
	}
}

func fetchEntry(store service.EntryStore, key model.EntryKey, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		e, err := store.GetEntry(ctx, key)
		return EntryLoadedMsg{Key: key, Entry: e, Err: err}
	}
}

func saveEntry(store service.EntryStore, key model.EntryKey, s model.Submission, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		slog.Debug("Submitting entry", "key", key.String(), "update", s.IsUpdate())
		e, err := store.SaveEntry(ctx, s)
		return EntrySavedMsg{Key: key, Submission: s, Entry: e, Err: err}
	}
}

func fetchMonthly(src service.DashboardSource, cabFilter string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		summary, err := src.MonthlySummary(ctx, cabFilter)
		return MonthlyLoadedMsg{CabFilter: cabFilter, Summary: summary, Err: err}
	}
}

func fetchDaily(src service.DashboardSource, req DailyRequest, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		summary, err := src.DailySummary(ctx, req.Year, req.Month, req.CabFilter)
		return DailyLoadedMsg{Request: req, Summary: summary, Err: err}
	}
}
