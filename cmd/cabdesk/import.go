package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Veraticus/cabdesk/internal/cli"
	"github.com/Veraticus/cabdesk/internal/config"
	"github.com/Veraticus/cabdesk/internal/entry"
	"github.com/Veraticus/cabdesk/internal/model"
	"github.com/Veraticus/cabdesk/internal/service"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// Import CSV columns. Aliases map alternative header names.
const (
	colDate     = "date"
	colCab      = "cab_number"
	colCategory = "category"
	colTrips    = "trips"
	colDistance = "distance_km"
	colAmount   = "amount"
	colType     = "type"
	colSubtype  = "subtype"
	colPaidBy   = "paid_by"
	colComments = "comments"
)

var columnAliases = map[string]string{
	"cab":         colCab,
	"total_trips": colTrips,
	"distance":    colDistance,
}

var errMissingColumn = errors.New("missing required column")

// importRow is one CSV line turned into an entry key and raw input.
type importRow struct {
	Key   model.EntryKey
	Input entryInput
	Line  int
}

type importOptions struct {
	User    string
	Timeout time.Duration
	DryRun  bool
}

type importResult struct {
	Errors  []error
	Created int
	Updated int
}

func importCmd() *cobra.Command {
	var (
		user   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import entries from a CSV file",
		Long: `Import cab data entries from a CSV file with a header row.

Required columns: date, cab_number, category. Optional columns: trips,
distance_km, amount, type, subtype, paid_by, comments.

Rows are submitted in file order. A row whose date, cab and category already
has an entry adds its trips or amount to the stored totals, so several rows for
the same day accumulate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open import file: %w", err)
			}
			defer f.Close()

			rows, err := parseImportCSV(f)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println(cli.FormatInfo("No rows to import.")) //nolint:forbidigo // User-facing output
				return nil
			}

			client, settings, err := newAPIClient()
			if err != nil {
				return err
			}
			if user == "" {
				user = settings.User
			}

			var done atomic.Int64
			handler := cli.NewInterruptHandler(os.Stderr)
			ctx := handler.HandleInterrupts(cmd.Context(), func() string {
				return fmt.Sprintf("Imported %d of %d rows", done.Load(), len(rows))
			})

			bar := newImportProgressBar(len(rows), dryRun)
			result := importRows(ctx, client, rows, importOptions{
				User:    user,
				Timeout: settings.APITimeout,
				DryRun:  dryRun,
			}, func() {
				done.Add(1)
				if err := bar.Add(1); err != nil {
					slog.Warn("Failed to update progress bar", "error", err)
				}
			})

			printImportSummary(os.Stdout, result, dryRun)
			if handler.WasInterrupted() {
				return context.Canceled
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d of %d rows failed", len(result.Errors), len(rows))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "recorded as created_by/updated_by (default: config user)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate rows without saving")

	return cmd
}

func newImportProgressBar(total int, dryRun bool) *progressbar.ProgressBar {
	description := "[cyan][bold]Importing entries...[reset]"
	if dryRun {
		description = "[cyan][bold]Validating entries...[reset]"
	}

	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(os.Stderr); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

// parseImportCSV reads rows keyed by header name.
func parseImportCSV(r io.Reader) ([]importRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if alias, ok := columnAliases[name]; ok {
			name = alias
		}
		index[name] = i
	}
	for _, required := range []string{colDate, colCab, colCategory} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: %s", errMissingColumn, required)
		}
	}

	var rows []importRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		if get(colDate) == "" && get(colCab) == "" && get(colCategory) == "" {
			continue
		}

		category, err := model.ParseCategory(get(colCategory))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rows = append(rows, importRow{
			Line: line,
			Key: model.EntryKey{
				Date:      get(colDate),
				CabNumber: get(colCab),
				Category:  category,
			},
			Input: entryInput{
				Trips:    get(colTrips),
				Distance: get(colDistance),
				Amount:   get(colAmount),
				Type:     get(colType),
				Subtype:  get(colSubtype),
				PaidBy:   get(colPaidBy),
				Comments: get(colComments),
			},
		})
	}

	return rows, nil
}

// importRows submits rows one after another so rows sharing a key merge in
// file order. A failed row is recorded and the import moves on.
func importRows(ctx context.Context, store service.EntryStore, rows []importRow, opts importOptions, progress func()) importResult {
	var result importResult
	if opts.Timeout <= 0 {
		opts.Timeout = config.DefaultTimeout
	}
	if opts.DryRun {
		store = newStagedStore(store)
	}

	for _, row := range rows {
		if ctx.Err() != nil {
			break
		}

		updated, err := importRowEntry(ctx, store, row, opts)
		switch {
		case err != nil:
			slog.Warn("Import row failed", "line", row.Line, "key", row.Key.String(), "error", err)
			result.Errors = append(result.Errors, fmt.Errorf("line %d: %w", row.Line, err))
		case updated:
			result.Updated++
		default:
			result.Created++
		}

		if progress != nil {
			progress()
		}
	}

	return result
}

func importRowEntry(ctx context.Context, store service.EntryStore, row importRow, opts importOptions) (bool, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	existing, err := store.GetEntry(fetchCtx, row.Key)
	cancel()
	if err != nil {
		return false, fmt.Errorf("failed to fetch entry: %w", err)
	}

	submission, err := entry.Compose(entry.Draft{
		Values:   row.Input.values(row.Key.Category, existing),
		Key:      row.Key,
		User:     opts.User,
		Existing: existing,
	})
	if err != nil {
		return false, err
	}
	saveCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	if _, err := store.SaveEntry(saveCtx, submission); err != nil {
		return false, fmt.Errorf("failed to save entry: %w", err)
	}
	return submission.IsUpdate(), nil
}

// stagedID marks entries that exist only within a dry run.
const stagedID model.ID = "staged"

// stagedStore keeps saves in memory and answers reads for those keys from
// them, so a dry run merges rows sharing a key the way a real import does.
type stagedStore struct {
	service.EntryStore
	staged map[model.EntryKey]model.Entry
}

func newStagedStore(store service.EntryStore) *stagedStore {
	return &stagedStore{EntryStore: store, staged: make(map[model.EntryKey]model.Entry)}
}

func (s *stagedStore) GetEntry(ctx context.Context, key model.EntryKey) (model.Entry, error) {
	if e, ok := s.staged[key]; ok {
		return e, nil
	}
	return s.EntryStore.GetEntry(ctx, key)
}

func (s *stagedStore) SaveEntry(_ context.Context, submission model.Submission) (model.Entry, error) {
	id := submission.ID
	if !submission.IsUpdate() {
		id = stagedID
	}
	e := submission.Entry(id)
	s.staged[submission.Key()] = e
	return e, nil
}

func printImportSummary(out io.Writer, result importResult, dryRun bool) {
	verb := "Imported"
	if dryRun {
		verb = "Validated"
	}
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%s %d rows: %d created, %d updated",
		verb, result.Created+result.Updated, result.Created, result.Updated)))

	for _, err := range result.Errors {
		fmt.Fprintln(out, cli.FormatError(err.Error()))
	}
}
