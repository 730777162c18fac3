package main

import (
	"github.com/Veraticus/cabdesk/internal/tui"
	"github.com/Veraticus/cabdesk/internal/tui/themes"
	"github.com/spf13/cobra"
)

func uiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive dashboard and entry form",
		Long: `Open the interactive terminal UI. The dashboard shows monthly and daily
summaries; the data entry view records trips, expenses, payments and salaries.`,
		RunE: runUI,
	}
}

func runUI(cmd *cobra.Command, _ []string) error {
	client, settings, err := newAPIClient()
	if err != nil {
		return err
	}

	return tui.Run(cmd.Context(),
		tui.WithAPI(client),
		tui.WithTheme(themes.GetTheme(settings.Theme)),
		tui.WithUser(settings.User),
		tui.WithTimeout(settings.APITimeout),
	)
}
