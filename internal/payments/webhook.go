package payments

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/lagoon/bookings/internal/domain"
	"github.com/lagoon/bookings/internal/http/response"
	"github.com/lagoon/bookings/pkg/logger"
)

const maxWebhookBody = 64 * 1024

// WebhookHandler verifies inbound Stripe events against the shared webhook
// secret and transitions the referenced booking to confirmed on a completed
// payment. Signature failures never touch the store.
type WebhookHandler struct {
	bookings Bookings
	secret   string
}

func NewWebhookHandler(bookings Bookings, secret string) *WebhookHandler {
	return &WebhookHandler{bookings: bookings, secret: secret}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.secret == "" {
		response.WriteError(w, http.StatusServiceUnavailable, "payment integration not configured", response.CodeNotConfigured)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		response.BadRequest(w, "failed to read request body")
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), h.secret)
	if err != nil {
		sigErr := &domain.SignatureError{Err: err}
		logger.WarnContext(ctx, "webhook rejected", "error", sigErr)
		response.WriteError(w, http.StatusBadRequest, "invalid signature", response.CodeInvalidSignature)
		return
	}

	switch string(event.Type) {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		var session struct {
			Metadata map[string]string `json:"metadata"`
		}
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			logger.ErrorContext(ctx, "failed to parse webhook event object", "error", err, "event_type", event.Type)
			response.BadRequest(w, "malformed event object")
			return
		}

		bookingID, err := strconv.ParseInt(session.Metadata["booking_id"], 10, 64)
		if err != nil {
			logger.WarnContext(ctx, "webhook event missing booking_id metadata", "event_type", event.Type)
			break
		}

		// Confirming an already-confirmed booking is a no-op, so duplicate
		// deliveries settle on identical document state.
		if _, err := h.bookings.UpdateStatus(ctx, bookingID, domain.BookingConfirmed); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.WarnContext(ctx, "webhook referenced unknown booking", "booking_id", bookingID)
				break
			}
			logger.ErrorContext(ctx, "failed to confirm booking from webhook", "error", err, "booking_id", bookingID)
			response.InternalError(w, "failed to update booking")
			return
		}
		logger.InfoContext(ctx, "booking confirmed by payment webhook", "booking_id", bookingID)

	default:
		logger.DebugContext(ctx, "ignoring webhook event", "event_type", event.Type)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"received":true}`))
}
