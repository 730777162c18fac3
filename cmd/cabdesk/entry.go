package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/cabdesk/internal/cli"
	"github.com/Veraticus/cabdesk/internal/entry"
	"github.com/Veraticus/cabdesk/internal/model"
	"github.com/Veraticus/cabdesk/internal/tui/viewmodel"
	"github.com/spf13/cobra"
)

// entryInput is raw per-field input from flags or an import row. Quantities
// count as additional amounts when the entry already exists.
type entryInput struct {
	Trips    string
	Distance string
	Amount   string
	Type     string
	Subtype  string
	PaidBy   string
	Comments string
}

// values layers the input over the form defaults for existing.
func (in entryInput) values(category model.Category, existing model.Entry) entry.Values {
	values := entry.Defaults(category, existing)
	set := func(id entry.FieldID, v string) {
		if v = strings.TrimSpace(v); v != "" {
			values[id] = v
		}
	}

	switch category {
	case model.CategoryTrips:
		set(entry.PrimaryField(category, existing.Exists()), in.Trips)
		set(entry.FieldDistance, in.Distance)
	case model.CategoryExpenses:
		set(entry.PrimaryField(category, existing.Exists()), in.Amount)
		set(entry.FieldType, strings.ToLower(in.Type))
		set(entry.FieldSubtype, strings.ToLower(in.Subtype))
		if note := strings.TrimSpace(in.Comments); note != "" {
			values[entry.FieldComments] = entry.AppendComment(values.Get(entry.FieldComments), note)
		}
		set(entry.FieldPaidBy, in.PaidBy)
	case model.CategoryPayments:
		set(entry.PrimaryField(category, existing.Exists()), in.Amount)
	case model.CategorySalaries:
		set(entry.PrimaryField(category, existing.Exists()), in.Amount)
		set(entry.FieldPaidBy, in.PaidBy)
	}
	return values
}

type entryKeyFlags struct {
	date     string
	cab      string
	category string
}

func (f *entryKeyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "today", "entry date (YYYY-MM-DD, today, yesterday)")
	cmd.Flags().StringVar(&f.cab, "cab", "", "cab service number")
	cmd.Flags().StringVar(&f.category, "category", string(model.CategoryTrips), "category (trips, expenses, payments, salaries)")
	_ = cmd.MarkFlagRequired("cab")
}

func (f entryKeyFlags) key(now time.Time) (model.EntryKey, error) {
	date, err := resolveDate(f.date, now)
	if err != nil {
		return model.EntryKey{}, err
	}
	category, err := model.ParseCategory(f.category)
	if err != nil {
		return model.EntryKey{}, err
	}
	return model.EntryKey{
		Date:      date,
		CabNumber: strings.TrimSpace(f.cab),
		Category:  category,
	}, nil
}

func entryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Show or record cab data entries",
	}

	cmd.AddCommand(entryShowCmd())
	cmd.AddCommand(entryAddCmd())

	return cmd
}

func entryShowCmd() *cobra.Command {
	var keyFlags entryKeyFlags

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored entry for a date, cab and category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := keyFlags.key(time.Now())
			if err != nil {
				return err
			}

			client, settings, err := newAPIClient()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), settings.APITimeout)
			defer cancel()

			stored, err := client.GetEntry(ctx, key)
			if err != nil {
				return fmt.Errorf("failed to fetch entry: %w", err)
			}

			printEntry(os.Stdout, key, stored)
			return nil
		},
	}

	keyFlags.register(cmd)
	return cmd
}

func entryAddCmd() *cobra.Command {
	var (
		keyFlags entryKeyFlags
		input    entryInput
		user     string
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an entry or add to the stored one",
		Long: `Create an entry, or add to the stored one for the same date, cab and category.

For a stored entry, --trips and --amount are added to the stored totals rather
than replacing them. Expense submissions append an auto-generated comment such
as "Fuel (Petrol): ₹500".`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := keyFlags.key(time.Now())
			if err != nil {
				return err
			}

			client, settings, err := newAPIClient()
			if err != nil {
				return err
			}
			if user == "" {
				user = settings.User
			}

			ctx := cmd.Context()
			fetchCtx, cancel := context.WithTimeout(ctx, settings.APITimeout)
			if _, err := lookupCab(fetchCtx, client, key.CabNumber); err != nil {
				cancel()
				return err
			}
			existing, err := client.GetEntry(fetchCtx, key)
			cancel()
			if err != nil {
				return fmt.Errorf("failed to fetch entry: %w", err)
			}

			values := input.values(key.Category, existing)
			primary := entry.PrimaryField(key.Category, existing.Exists())
			if values.Get(primary) == "" && !yes {
				reader := cli.NewNonBlockingReader(os.Stdin)
				answer, askErr := reader.Ask(ctx, os.Stdout, primaryPrompt(key.Category, existing.Exists()), "")
				if askErr != nil {
					return fmt.Errorf("failed to read %s: %w", primary, askErr)
				}
				values[primary] = answer
			}

			submission, err := entry.Compose(entry.Draft{
				Values:   values,
				Key:      key,
				User:     user,
				Existing: existing,
			})
			if err != nil {
				return err
			}

			saveCtx, cancel := context.WithTimeout(ctx, settings.APITimeout)
			defer cancel()
			if _, err := client.SaveEntry(saveCtx, submission); err != nil {
				return fmt.Errorf("failed to save entry: %w", err)
			}

			fmt.Println(cli.FormatSuccess(entry.SuccessMessage(submission))) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	keyFlags.register(cmd)
	cmd.Flags().StringVar(&input.Trips, "trips", "", "total trips, or additional trips for a stored entry")
	cmd.Flags().StringVar(&input.Distance, "distance", "", "distance in km")
	cmd.Flags().StringVar(&input.Amount, "amount", "", "amount, or additional amount for a stored entry")
	cmd.Flags().StringVar(&input.Type, "type", "", "expense type (fuel, maintenance, others)")
	cmd.Flags().StringVar(&input.Subtype, "subtype", "", "fuel subtype (petrol, cng)")
	cmd.Flags().StringVar(&input.PaidBy, "paid-by", "", "who paid")
	cmd.Flags().StringVar(&input.Comments, "comments", "", "note appended to the stored comments")
	cmd.Flags().StringVar(&user, "user", "", "recorded as created_by/updated_by (default: config user)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "never prompt for missing values")

	return cmd
}

func primaryPrompt(category model.Category, exists bool) string {
	what := "Amount"
	if category == model.CategoryTrips {
		what = "Total trips"
	}
	if exists {
		return "Additional " + strings.ToLower(what)
	}
	return what
}

func printEntry(out io.Writer, key model.EntryKey, e model.Entry) {
	title := fmt.Sprintf("%s entry · %s · %s", key.Category.Title(), key.CabNumber, key.Date)
	if !e.Exists() {
		fmt.Fprintln(out, cli.FormatInfo(title+": no entry yet"))
		return
	}

	lines := []string{fmt.Sprintf("ID: %s", e.ID)}
	switch key.Category {
	case model.CategoryTrips:
		lines = append(lines,
			"Total Trips: "+viewmodel.FormatCount(e.TotalTrips),
			"Distance: "+viewmodel.FormatDistance(e.DistanceKM),
		)
	case model.CategoryExpenses:
		lines = append(lines,
			"Amount: "+viewmodel.FormatCurrency(e.Amount),
			"Type: "+model.Capitalize(string(e.Type)),
		)
		if e.Subtype != "" {
			lines = append(lines, "Subtype: "+model.Capitalize(string(e.Subtype)))
		}
		lines = append(lines,
			"Comments: "+viewmodel.SanitizeForDisplay(e.Comments),
			"Paid By: "+viewmodel.SanitizeForDisplay(e.PaidBy),
		)
	case model.CategoryPayments:
		lines = append(lines, "Amount: "+viewmodel.FormatCurrency(e.Amount))
	case model.CategorySalaries:
		lines = append(lines,
			"Amount: "+viewmodel.FormatCurrency(e.Amount),
			"Paid By: "+viewmodel.SanitizeForDisplay(e.PaidBy),
		)
	}

	fmt.Fprintln(out, cli.RenderBox(title, strings.Join(lines, "\n")))
}
