package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/cabdesk/internal/cli"
	"github.com/Veraticus/cabdesk/internal/model"
	"github.com/Veraticus/cabdesk/internal/tui/viewmodel"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func cabsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cabs",
		Short: "List the fleet's cabs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, settings, err := newAPIClient()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), settings.APITimeout)
			defer cancel()

			cabs, err := client.ListCabs(ctx)
			if err != nil {
				return fmt.Errorf("failed to list cabs: %w", err)
			}

			if len(cabs) == 0 {
				fmt.Println(cli.InfoStyle.Render("No cabs found.")) //nolint:forbidigo // User-facing output
				return nil
			}

			return printCabs(os.Stdout, cabs)
		},
	}
}

const driverColumnWidth = 24

func printCabs(out io.Writer, cabs []model.Cab) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	// Header
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		headerStyle.Render("ID"),
		headerStyle.Render("Service Number"),
		headerStyle.Render("Driver"))
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		strings.Repeat("-", 4),
		strings.Repeat("-", 14),
		strings.Repeat("-", 20))

	for _, cab := range cabs {
		driver := viewmodel.TruncateString(viewmodel.SanitizeForDisplay(cab.DriverName), driverColumnWidth)
		if driver == "" {
			driver = cli.SubtleStyle.Render("(unassigned)")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", cab.ID, cab.ServiceNumber, driver)
	}

	return w.Flush()
}
