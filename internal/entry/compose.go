package entry

import (
	"fmt"

	"github.com/Veraticus/cabdesk/internal/common"
	"github.com/Veraticus/cabdesk/internal/model"
)

// Draft is everything needed to turn form input into a submission.
type Draft struct {
	Values   Values
	Key      model.EntryKey
	User     string
	Existing model.Entry
}

type composer func(d Draft) (model.Details, error)

var composers = map[model.Category]composer{
	model.CategoryTrips:    composeTrips,
	model.CategoryExpenses: composeExpenses,
	model.CategoryPayments: composePayments,
	model.CategorySalaries: composeSalaries,
}

// Compose builds the create-or-update submission for d. Stored quantities
// are merged with any additional quantity the user entered.
func Compose(d Draft) (model.Submission, error) {
	if !d.Key.Complete() {
		return model.Submission{}, fmt.Errorf("%w: select a cab, a valid date and a category", common.ErrInvalidInput)
	}

	compose, ok := composers[d.Key.Category]
	if !ok {
		return model.Submission{}, fmt.Errorf("%w: unknown category %q", common.ErrInvalidInput, d.Key.Category)
	}

	details, err := compose(d)
	if err != nil {
		return model.Submission{}, err
	}
	if err := details.Validate(); err != nil {
		return model.Submission{}, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}

	s := model.Submission{
		Details:   details,
		CabNumber: d.Key.CabNumber,
		Date:      d.Key.Date,
		UpdatedBy: d.User,
	}
	if d.Existing.Exists() {
		s.ID = d.Existing.ID
	} else {
		s.CreatedBy = d.User
	}
	return s, nil
}

// SuccessMessage returns the banner shown after a successful submission.
func SuccessMessage(s model.Submission) string {
	if s.IsUpdate() {
		return "Data updated successfully!"
	}
	return "Data created successfully!"
}

func composeTrips(d Draft) (model.Details, error) {
	var trips *int64
	if d.Existing.Exists() {
		additional, err := additionalInt(d.Values, FieldAdditionalTrips)
		if err != nil {
			return nil, err
		}
		trips = MergeInt(d.Existing.TotalTrips.IntPtr(), additional)
	} else {
		trips = ParseOptionalInt(d.Values.Get(FieldTotalTrips))
	}
	if trips == nil {
		return nil, requiredError("total trips")
	}

	return model.TripDetails{
		TotalTrips: trips,
		DistanceKM: ParseOptionalFloat(d.Values.Get(FieldDistance)),
	}, nil
}

func composeExpenses(d Draft) (model.Details, error) {
	amount, err := intAmount(d)
	if err != nil {
		return nil, err
	}

	expType := expenseType(d.Values)
	var subtype model.FuelSubtype
	if expType == model.ExpenseFuel {
		subtype = fuelSubtype(d.Values)
	}

	fragment := CommentFragment(expType, subtype, *amount)

	return model.ExpenseDetails{
		Amount:   amount,
		Type:     expType,
		Subtype:  subtype,
		Comments: AppendComment(d.Values.Get(FieldComments), fragment),
		PaidBy:   d.Values.Get(FieldPaidBy),
	}, nil
}

// composePayments keeps fractional amounts; the other money categories are
// whole rupees.
func composePayments(d Draft) (model.Details, error) {
	var amount *float64
	if d.Existing.Exists() {
		additional := ParseOptionalFloat(d.Values.Get(FieldAdditionalAmount))
		if additional != nil && *additional < 0 {
			return nil, negativeError("additional amount")
		}
		amount = MergeFloat(d.Existing.Amount.FloatPtr(), additional)
	} else {
		amount = ParseOptionalFloat(d.Values.Get(FieldAmount))
	}
	if amount == nil {
		return nil, requiredError("amount")
	}
	return model.PaymentDetails{Amount: amount}, nil
}

func composeSalaries(d Draft) (model.Details, error) {
	amount, err := intAmount(d)
	if err != nil {
		return nil, err
	}
	return model.SalaryDetails{
		Amount: amount,
		PaidBy: d.Values.Get(FieldPaidBy),
	}, nil
}

func intAmount(d Draft) (*int64, error) {
	var amount *int64
	if d.Existing.Exists() {
		additional, err := additionalInt(d.Values, FieldAdditionalAmount)
		if err != nil {
			return nil, err
		}
		amount = MergeInt(d.Existing.Amount.IntPtr(), additional)
	} else {
		amount = ParseOptionalInt(d.Values.Get(FieldAmount))
	}
	if amount == nil {
		return nil, requiredError("amount")
	}
	return amount, nil
}

func additionalInt(values Values, id FieldID) (*int64, error) {
	additional := ParseOptionalInt(values.Get(id))
	if additional != nil && *additional < 0 {
		return nil, negativeError("additional value")
	}
	return additional, nil
}

func requiredError(field string) error {
	return fmt.Errorf("%w: %s is required", common.ErrInvalidInput, field)
}

func negativeError(field string) error {
	return fmt.Errorf("%w: %s %v", common.ErrInvalidInput, field, model.ErrNegative)
}
