package entry

import "github.com/Veraticus/cabdesk/internal/model"

// FieldID identifies an input on the entry form.
type FieldID string

// Form fields.
const (
	FieldTotalTrips       FieldID = "total_trips"
	FieldAdditionalTrips  FieldID = "additional_trips"
	FieldDistance         FieldID = "distance_km"
	FieldAmount           FieldID = "amount"
	FieldAdditionalAmount FieldID = "additional_amount"
	FieldType             FieldID = "type"
	FieldSubtype          FieldID = "subtype"
	FieldComments         FieldID = "comments"
	FieldPaidBy           FieldID = "paid_by"
)

// FieldKind tells the form how to edit a field.
type FieldKind int

const (
	KindInteger FieldKind = iota
	KindDecimal
	KindText
	KindChoice
)

// Field describes one input of a category's form.
type Field struct {
	ID          FieldID
	Label       string
	Placeholder string
	Choices     []string
	Kind        FieldKind
}

// IsNumeric reports whether the field takes a number.
func (f Field) IsNumeric() bool {
	return f.Kind == KindInteger || f.Kind == KindDecimal
}

// Values holds raw form input keyed by field.
type Values map[FieldID]string

// Get returns the raw value of id.
func (v Values) Get(id FieldID) string {
	if v == nil {
		return ""
	}
	return v[id]
}

// Clone returns a copy of v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// PrimaryField returns the quantity field a submission cannot go without.
// For stored entries it is the additional-quantity field.
func PrimaryField(category model.Category, exists bool) FieldID {
	switch category {
	case model.CategoryTrips:
		if exists {
			return FieldAdditionalTrips
		}
		return FieldTotalTrips
	default:
		if exists {
			return FieldAdditionalAmount
		}
		return FieldAmount
	}
}

// FieldsFor returns the inputs shown for category. The subtype selector only
// appears while the expense type is fuel.
func FieldsFor(category model.Category, exists bool, values Values) []Field {
	switch category {
	case model.CategoryTrips:
		return []Field{
			tripsField(exists),
			{ID: FieldDistance, Label: "Distance (KM)", Kind: KindDecimal, Placeholder: "0.00"},
		}

	case model.CategoryExpenses:
		fields := []Field{
			amountField(exists, KindInteger),
			{ID: FieldType, Label: "Expense Type", Kind: KindChoice, Choices: expenseTypeChoices()},
		}
		if expenseType(values) == model.ExpenseFuel {
			fields = append(fields, Field{
				ID: FieldSubtype, Label: "Fuel Subtype", Kind: KindChoice, Choices: fuelSubtypeChoices(),
			})
		}
		return append(fields,
			Field{ID: FieldComments, Label: "Comments", Kind: KindText},
			Field{ID: FieldPaidBy, Label: "Paid By", Kind: KindText},
		)

	case model.CategoryPayments:
		return []Field{amountField(exists, KindDecimal)}

	case model.CategorySalaries:
		return []Field{
			amountField(exists, KindInteger),
			{ID: FieldPaidBy, Label: "Paid By", Kind: KindText},
		}

	default:
		return nil
	}
}

func tripsField(exists bool) Field {
	if exists {
		return Field{ID: FieldAdditionalTrips, Label: "Additional Trips", Kind: KindInteger, Placeholder: "0"}
	}
	return Field{ID: FieldTotalTrips, Label: "Total Trips", Kind: KindInteger, Placeholder: "0"}
}

func amountField(exists bool, kind FieldKind) Field {
	if exists {
		return Field{ID: FieldAdditionalAmount, Label: "Additional Amount", Kind: kind, Placeholder: "0"}
	}
	return Field{ID: FieldAmount, Label: "Amount", Kind: kind, Placeholder: "0"}
}

func expenseTypeChoices() []string {
	out := make([]string, len(model.ExpenseTypes))
	for i, t := range model.ExpenseTypes {
		out[i] = string(t)
	}
	return out
}

func fuelSubtypeChoices() []string {
	out := make([]string, len(model.FuelSubtypes))
	for i, s := range model.FuelSubtypes {
		out[i] = string(s)
	}
	return out
}

func expenseType(values Values) model.ExpenseType {
	if t := model.ExpenseType(values.Get(FieldType)); t != "" {
		return t
	}
	return model.ExpenseFuel
}

func fuelSubtype(values Values) model.FuelSubtype {
	if s := model.FuelSubtype(values.Get(FieldSubtype)); s != "" {
		return s
	}
	return model.FuelPetrol
}

// Defaults returns the initial form values for category. A stored entry
// prefills every field except the additional quantities, which start blank.
func Defaults(category model.Category, existing model.Entry) Values {
	values := Values{}

	switch category {
	case model.CategoryTrips:
		if existing.Exists() {
			values[FieldAdditionalTrips] = ""
		}
		values[FieldDistance] = formatOptionalFloat(existing.DistanceKM)

	case model.CategoryExpenses:
		values[FieldType] = string(model.ExpenseFuel)
		values[FieldSubtype] = string(model.FuelPetrol)
		if existing.Exists() {
			if existing.Type != "" {
				values[FieldType] = string(existing.Type)
			}
			if existing.Subtype != "" {
				values[FieldSubtype] = string(existing.Subtype)
			}
			values[FieldComments] = existing.Comments
			values[FieldPaidBy] = existing.PaidBy
		}

	case model.CategorySalaries:
		if existing.Exists() {
			values[FieldPaidBy] = existing.PaidBy
		}
	}

	return values
}
