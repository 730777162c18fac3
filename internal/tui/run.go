package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/cabdesk/internal/common"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive program and blocks until the user quits or ctx
// is canceled.
func Run(ctx context.Context, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.API == nil {
		return fmt.Errorf("fleet API client: %w", common.ErrMissingConfig)
	}

	program := tea.NewProgram(
		newModel(cfg),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	slog.Debug("Starting TUI", "user", cfg.User, "timeout", cfg.Timeout)
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
