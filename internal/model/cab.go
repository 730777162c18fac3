package model

import "fmt"

// Cab is a fleet vehicle as reported by the API.
type Cab struct {
	ID            ID     `json:"id"`
	ServiceNumber string `json:"service_number"`
	DriverName    string `json:"driver_name"`
}

// Label returns the display text used in selectors.
func (c Cab) Label() string {
	if c.DriverName == "" {
		return c.ServiceNumber
	}
	return fmt.Sprintf("%s - %s", c.ServiceNumber, c.DriverName)
}

// FindCabByNumber returns the cab with the given service number.
func FindCabByNumber(cabs []Cab, serviceNumber string) (Cab, bool) {
	for _, c := range cabs {
		if c.ServiceNumber == serviceNumber {
			return c, true
		}
	}
	return Cab{}, false
}

// FindCabByID returns the cab with the given identifier.
func FindCabByID(cabs []Cab, id string) (Cab, bool) {
	for _, c := range cabs {
		if c.ID.String() == id {
			return c, true
		}
	}
	return Cab{}, false
}
