// Package catalog holds the static service catalog. Offerings are fixed
// configuration data, denormalized onto bookings at creation time rather
// than joined live.
package catalog

import "github.com/lagoon/bookings/internal/domain"

type Service struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	UnitPriceCents int64              `json:"unit_price_cents"`
	Mode           domain.BookingMode `json:"mode"`
	Duration       string             `json:"duration,omitempty"`
	Features       []string           `json:"features,omitempty"`
}

var services = []Service{
	{
		ID:             "catamaran-day-trip",
		Name:           "Catamaran Day Trip",
		Description:    "Full-day catamaran cruise along the west coast with lunch and snorkeling stops.",
		UnitPriceCents: 250000,
		Mode:           domain.ModeSingle,
		Duration:       "8h",
		Features:       []string{"Lunch included", "Snorkeling gear", "Hotel pickup"},
	},
	{
		ID:             "island-tour",
		Name:           "South Island Tour",
		Description:    "Guided minivan tour of the south: viewpoints, waterfalls and the tea route.",
		UnitPriceCents: 180000,
		Mode:           domain.ModeSingle,
		Duration:       "6h",
		Features:       []string{"Licensed guide", "Entry tickets", "Hotel pickup"},
	},
	{
		ID:             "car-rental",
		Name:           "Car Rental",
		Description:    "Compact automatic car, unlimited mileage, priced per day.",
		UnitPriceCents: 120000,
		Mode:           domain.ModeRental,
		Features:       []string{"Unlimited mileage", "Full insurance", "Airport delivery"},
	},
	{
		ID:             "scooter-rental",
		Name:           "Scooter Rental",
		Description:    "125cc scooter with two helmets, priced per day.",
		UnitPriceCents: 45000,
		Mode:           domain.ModeRental,
		Features:       []string{"Two helmets", "Third-party insurance"},
	},
}

func All() []Service {
	out := make([]Service, len(services))
	copy(out, services)
	return out
}

func ByID(id string) (Service, bool) {
	for _, s := range services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

func ByName(name string) (Service, bool) {
	for _, s := range services {
		if s.Name == name {
			return s, true
		}
	}
	return Service{}, false
}
