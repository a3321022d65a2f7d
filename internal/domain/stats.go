package domain

// WindowStats aggregates bookings over a trailing time window.
type WindowStats struct {
	Bookings     int64 `json:"bookings"`
	Confirmed    int64 `json:"confirmed"`
	RevenueCents int64 `json:"revenue_cents"`
}

type Stats struct {
	Pending int64       `json:"pending"`
	Week    WindowStats `json:"week"`
	Month   WindowStats `json:"month"`
}
