package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/cabdesk/internal/api"
	"github.com/Veraticus/cabdesk/internal/cli"
	"github.com/Veraticus/cabdesk/internal/model"
	"github.com/Veraticus/cabdesk/internal/service"
	"github.com/Veraticus/cabdesk/internal/tui/viewmodel"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print dashboard summaries",
	}

	cmd.AddCommand(reportMonthlyCmd())
	cmd.AddCommand(reportDailyCmd())

	return cmd
}

func reportMonthlyCmd() *cobra.Command {
	var cabID string

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Print the yearly summary, month by month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, settings, err := newAPIClient()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), settings.APITimeout)
			defer cancel()

			var summary model.MonthlySummary
			label, err := fetchWithCabLabel(ctx, client, cabID, func(ctx context.Context) error {
				var fetchErr error
				summary, fetchErr = client.MonthlySummary(ctx, cabID)
				return fetchErr
			})
			if err != nil {
				return err
			}

			fmt.Println(renderMonthlyReport(summary, label)) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().StringVar(&cabID, "cab-id", api.AllCabs, "cab id to scope the summary to")
	return cmd
}

func reportDailyCmd() *cobra.Command {
	var (
		cabID string
		year  int
		month int
	)

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Print the day-by-day summary of one month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			if year == 0 {
				year = now.Year()
			}
			if month == 0 {
				month = int(now.Month())
			}
			if month < 1 || month > 12 {
				return fmt.Errorf("invalid month %d: expected 1-12", month)
			}

			client, settings, err := newAPIClient()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), settings.APITimeout)
			defer cancel()

			var summary model.DailySummary
			label, err := fetchWithCabLabel(ctx, client, cabID, func(ctx context.Context) error {
				var fetchErr error
				summary, fetchErr = client.DailySummary(ctx, year, month, cabID)
				return fetchErr
			})
			if err != nil {
				return err
			}

			fmt.Println(renderDailyReport(summary, label)) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().StringVar(&cabID, "cab-id", api.AllCabs, "cab id to scope the summary to")
	cmd.Flags().IntVar(&year, "year", 0, "year (default: current year)")
	cmd.Flags().IntVar(&month, "month", 0, "month number 1-12 (default: current month)")
	return cmd
}

// fetchWithCabLabel runs fetch alongside the cab lookup that names the
// report's scope.
func fetchWithCabLabel(ctx context.Context, cabs service.CabDirectory, cabID string, fetch func(context.Context) error) (string, error) {
	label := "All Cabs"
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := fetch(gctx); err != nil {
			return fmt.Errorf("failed to fetch summary: %w", err)
		}
		return nil
	})

	if cabID != "" && cabID != api.AllCabs {
		g.Go(func() error {
			list, err := cabs.ListCabs(gctx)
			if err != nil {
				return fmt.Errorf("failed to list cabs: %w", err)
			}
			cab, ok := model.FindCabByID(list, cabID)
			if !ok {
				return fmt.Errorf("unknown cab id %q", cabID)
			}
			label = cab.Label()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}
	return label, nil
}

func renderMonthlyReport(summary model.MonthlySummary, cabLabel string) string {
	t := viewmodel.NewMonthlyTable(summary, 0, nil)
	if len(t.Rows) == 0 {
		return cli.FormatInfo(fmt.Sprintf("No data for %s in %d", cabLabel, t.Year))
	}

	rows := t.Rows
	if t.Totals != nil {
		rows = append(rows, *t.Totals)
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(cli.SubtleColor)).
		Headers(viewmodel.MonthlyColumns...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cli.BoldStyle.Foreground(cli.PrimaryColor).Padding(0, 1)
			}
			style := lipgloss.NewStyle().Padding(0, 1)
			if rows[row].IsTotal {
				style = cli.BoldStyle.Padding(0, 1)
			}
			if col == len(viewmodel.MonthlyColumns)-1 {
				if rows[row].NetIncome.Negative {
					return style.Foreground(cli.ErrorColor)
				}
				return style.Foreground(cli.SuccessColor)
			}
			return style
		})
	for _, r := range rows {
		tbl.Row(r.Cells()...)
	}

	title := fmt.Sprintf("%s - %d · %s", t.Title, t.Year, cabLabel)
	return lipgloss.JoinVertical(lipgloss.Left, cli.FormatTitle(title), tbl.Render())
}

func renderDailyReport(summary model.DailySummary, cabLabel string) string {
	t := viewmodel.NewDailyTable(summary)
	if len(t.Rows) == 0 {
		return cli.FormatInfo(fmt.Sprintf("No daily data for %s in %s", cabLabel, t.MonthName))
	}

	rows := t.Rows
	if t.Totals != nil {
		rows = append(rows, *t.Totals)
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(cli.SubtleColor)).
		Headers(viewmodel.DailyColumns...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return cli.BoldStyle.Foreground(cli.PrimaryColor).Padding(0, 1)
			case rows[row].IsTotal:
				return cli.BoldStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, r := range rows {
		tbl.Row(r.Cells()...)
	}

	title := fmt.Sprintf("Daily Details - %s · %s", t.MonthName, cabLabel)
	return lipgloss.JoinVertical(lipgloss.Left, cli.FormatTitle(title), tbl.Render())
}
