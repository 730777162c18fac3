package testutil

import (
	"time"

	"github.com/Veraticus/cabdesk/internal/model"
)

// TwoCabs is the small fleet most tests use.
func TwoCabs() []model.Cab {
	return []model.Cab{
		{ID: "1", ServiceNumber: "KA01", DriverName: "Ravi"},
		{ID: "2", ServiceNumber: "KA02", DriverName: "Manoj"},
	}
}

// DemoCabs is the fleet shown by the demo.
func DemoCabs() []model.Cab {
	return []model.Cab{
		{ID: "1", ServiceNumber: "KA01AB1234", DriverName: "Ravi"},
		{ID: "2", ServiceNumber: "KA02CD5678", DriverName: "Manoj"},
		{ID: "3", ServiceNumber: "KA03EF9012"},
	}
}

// SeedDays stores a trips, a fuel expense and a payment entry for every cab
// on each of the days starting at first.
func SeedDays(f *Fleet, first time.Time, days int) {
	for day := 0; day < days; day++ {
		date := first.AddDate(0, 0, day).Format(model.DateLayout)
		for i, cab := range f.cabs {
			key := func(c model.Category) model.EntryKey {
				return model.EntryKey{Date: date, CabNumber: cab.ServiceNumber, Category: c}
			}
			f.Put(key(model.CategoryTrips), model.Entry{
				TotalTrips: model.NewNumber(float64(8 + (day+i)%6)),
				DistanceKM: model.NewNumber(float64(140+day*3) + 0.5),
			})
			f.Put(key(model.CategoryExpenses), model.Entry{
				Amount:   model.NewNumber(float64(400 + 50*(day%4))),
				Type:     model.ExpenseFuel,
				Subtype:  model.FuelCNG,
				Comments: "Fuel (Cng): ₹400",
			})
			f.Put(key(model.CategoryPayments), model.Entry{
				Amount: model.NewNumber(float64(2200+25*i) + 0.75),
			})
		}
	}
}
