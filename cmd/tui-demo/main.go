// Package main runs the TUI against an in-memory fleet.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Veraticus/cabdesk/internal/testutil"
	"github.com/Veraticus/cabdesk/internal/tui"
)

func main() {
	now := time.Now()
	fleet := testutil.NewFleet(testutil.DemoCabs()...)
	testutil.SeedDays(fleet, time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, time.UTC), 20)

	fmt.Println("Starting cabdesk demo with an in-memory fleet...") //nolint:forbidigo // User-facing output

	fmt.Println("Ctrl+T switches views, e edits a day, ? for help, q to quit") //nolint:forbidigo // User-facing output

	if err := tui.Run(context.Background(), tui.WithAPI(fleet), tui.WithUser("demo")); err != nil {
		log.Fatalf("Failed to run TUI: %v", err)
	}
}
