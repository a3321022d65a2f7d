package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/lagoon/bookings/internal/service"
	"github.com/lagoon/bookings/pkg/config"
)

type Handlers struct {
	bookings service.BookingService
	auth     service.AuthService
	cfg      *config.Config
}

func New(bookings service.BookingService, auth service.AuthService, cfg *config.Config) *Handlers {
	return &Handlers{
		bookings: bookings,
		auth:     auth,
		cfg:      cfg,
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// Helper to parse pagination parameters
func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}
