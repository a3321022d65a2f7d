package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lagoon/bookings/internal/catalog"
	"github.com/lagoon/bookings/internal/domain"
	"github.com/lagoon/bookings/internal/http/response"
)

// CreateBooking handles the public booking form submission.
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req domain.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON format")
		return
	}

	booking, err := h.bookings.Create(r.Context(), &req)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":     booking.ID,
		"status": booking.Status,
	})
}

// ListServices returns the static service catalog.
func (h *Handlers) ListServices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.All())
}
