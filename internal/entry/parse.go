package entry

import (
	"strconv"
	"strings"

	"github.com/Veraticus/cabdesk/internal/model"
)

// ParseOptionalInt parses s as a base-10 integer. Empty input and parse
// failures both yield nil so a cleared field is sent as absent, not zero.
func ParseOptionalInt(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseOptionalFloat parses s as a decimal number with the same rules as
// ParseOptionalInt.
func ParseOptionalFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// MergeInt applies the additional-amount policy: with no additional value
// the stored value is kept, otherwise the two are summed.
func MergeInt(stored, additional *int64) *int64 {
	if additional == nil {
		return stored
	}
	var sum int64
	if stored != nil {
		sum = *stored
	}
	sum += *additional
	return &sum
}

// MergeFloat is MergeInt for fractional quantities.
func MergeFloat(stored, additional *float64) *float64 {
	if additional == nil {
		return stored
	}
	var sum float64
	if stored != nil {
		sum = *stored
	}
	sum += *additional
	return &sum
}

// CommentFragment renders the audit fragment for one expense submission,
// e.g. "Fuel (Petrol): ₹500" or "Maintenance: ₹300".
func CommentFragment(expenseType model.ExpenseType, subtype model.FuelSubtype, amount int64) string {
	label := model.Capitalize(string(expenseType))
	if expenseType == model.ExpenseFuel && subtype != "" {
		label += " (" + model.Capitalize(string(subtype)) + ")"
	}
	return label + ": ₹" + strconv.FormatInt(amount, 10)
}

// AppendComment joins fragment onto existing comment text with "; ".
func AppendComment(existing, fragment string) string {
	if strings.TrimSpace(existing) == "" {
		return fragment
	}
	return existing + "; " + fragment
}

func formatOptionalFloat(n model.Number) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}
