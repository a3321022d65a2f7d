package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lagoon/bookings/internal/domain"
	"github.com/lagoon/bookings/internal/http/response"
	"github.com/lagoon/bookings/pkg/logger"
)

// ListBookings handles the admin dashboard booking list, optionally
// filtered server-side by status.
func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		st, ok := domain.ParseBookingStatus(statusParam)
		if !ok {
			response.BadRequest(w, "invalid status parameter")
			return
		}
		bookings, err := h.bookings.ListByStatus(r.Context(), st, limit, offset)
		if err != nil {
			response.InternalError(w, "failed to retrieve bookings")
			return
		}
		writeJSON(w, http.StatusOK, bookings)
		return
	}

	bookings, err := h.bookings.List(r.Context(), limit, offset)
	if err != nil {
		response.InternalError(w, "failed to retrieve bookings")
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// StreamBookings pushes live booking-list snapshots over SSE. The consumer
// reconnects on mount and the subscription is torn down with the request
// context.
func (h *Handlers) StreamBookings(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalError(w, "streaming unsupported")
		return
	}

	var status *domain.BookingStatus
	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		st, parsed := domain.ParseBookingStatus(statusParam)
		if !parsed {
			response.BadRequest(w, "invalid status parameter")
			return
		}
		status = &st
	}

	snapshots, err := h.bookings.Watch(r.Context(), status)
	if err != nil {
		response.InternalError(w, "failed to subscribe")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for snapshot := range snapshots {
		data, err := json.Marshal(snapshot)
		if err != nil {
			logger.ErrorContext(r.Context(), "failed to marshal booking snapshot", "error", err)
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}
}

// GetBooking handles getting a single booking for the dashboard.
func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid booking ID")
		return
	}

	booking, err := h.bookings.Get(r.Context(), id)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// UpdateBookingStatus applies an admin state transition (confirm, cancel,
// recover from error).
func (h *Handlers) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid booking ID")
		return
	}

	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON format")
		return
	}

	status, ok := domain.ParseBookingStatus(req.Status)
	if !ok {
		response.BadRequest(w, "invalid status value")
		return
	}

	updated, err := h.bookings.UpdateStatus(r.Context(), id, status)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

type confirmReq struct {
	BookingID int64 `json:"booking_id"`
	AdminID   int64 `json:"admin_id"`
}

// ConfirmBooking is the dedicated confirm endpoint used by the dashboard's
// one-click action.
func (h *Handlers) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	var req confirmReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON format")
		return
	}
	if req.BookingID == 0 || req.AdminID == 0 {
		response.BadRequest(w, "booking_id and admin_id are required")
		return
	}

	updated, err := h.bookings.UpdateStatus(r.Context(), req.BookingID, domain.BookingConfirmed)
	if err != nil {
		response.WriteDomainError(w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking confirmed by admin", "booking_id", req.BookingID, "admin_id", req.AdminID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"booking": updated,
	})
}

// GetStats returns counts and revenue over trailing week/month windows.
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.bookings.Stats(r.Context())
	if err != nil {
		response.InternalError(w, "failed to compute stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
