package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	stripe "github.com/stripe/stripe-go/v76"

	"github.com/lagoon/bookings/internal/domain"
)

const testWebhookSecret = "whsec_test_secret"

func signPayload(t *testing.T, secret string, payload []byte) string {
	t.Helper()
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func checkoutCompletedPayload(t *testing.T, bookingID string) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"id":          "evt_test_1",
		"api_version": stripe.APIVersion,
		"type":        "checkout.session.completed",
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":       "cs_test_1",
				"metadata": map[string]string{"booking_id": bookingID},
			},
		},
	})
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	return payload
}

func postWebhook(h *WebhookHandler, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(string(payload)))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWebhookConfirmsBooking(t *testing.T) {
	b := pendingBooking()
	b.Status = domain.BookingPendingPayment
	bookings := newFakeBookings(b)
	h := NewWebhookHandler(bookings, testWebhookSecret)

	payload := checkoutCompletedPayload(t, "7")
	rec := postWebhook(h, payload, signPayload(t, testWebhookSecret, payload))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	if got := bookings.bookings[7].Status; got != domain.BookingConfirmed {
		t.Errorf("booking status = %s, want confirmed", got)
	}
}

func TestWebhookDuplicateDelivery(t *testing.T) {
	b := pendingBooking()
	b.Status = domain.BookingPendingPayment
	bookings := newFakeBookings(b)
	h := NewWebhookHandler(bookings, testWebhookSecret)

	payload := checkoutCompletedPayload(t, "7")
	for i := 0; i < 2; i++ {
		rec := postWebhook(h, payload, signPayload(t, testWebhookSecret, payload))
		if rec.Code != 200 {
			t.Fatalf("delivery %d: status = %d, want 200, body: %s", i, rec.Code, rec.Body.String())
		}
	}
	if got := bookings.bookings[7].Status; got != domain.BookingConfirmed {
		t.Errorf("booking status = %s, want confirmed", got)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	b := pendingBooking()
	b.Status = domain.BookingPendingPayment
	bookings := newFakeBookings(b)
	h := NewWebhookHandler(bookings, testWebhookSecret)

	payload := checkoutCompletedPayload(t, "7")
	rec := postWebhook(h, payload, signPayload(t, "whsec_wrong_secret", payload))

	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := bookings.bookings[7].Status; got != domain.BookingPendingPayment {
		t.Errorf("booking status = %s, want untouched", got)
	}
	if !strings.Contains(rec.Body.String(), "INVALID_SIGNATURE") {
		t.Errorf("body = %s, want INVALID_SIGNATURE code", rec.Body.String())
	}
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	bookings := newFakeBookings(pendingBooking())
	h := NewWebhookHandler(bookings, testWebhookSecret)

	rec := postWebhook(h, checkoutCompletedPayload(t, "7"), "")
	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestWebhookUnconfiguredSecret(t *testing.T) {
	bookings := newFakeBookings(pendingBooking())
	h := NewWebhookHandler(bookings, "")

	payload := checkoutCompletedPayload(t, "7")
	rec := postWebhook(h, payload, signPayload(t, testWebhookSecret, payload))

	if rec.Code != 503 {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestWebhookIgnoresUnknownEventType(t *testing.T) {
	b := pendingBooking()
	b.Status = domain.BookingPendingPayment
	bookings := newFakeBookings(b)
	h := NewWebhookHandler(bookings, testWebhookSecret)

	payload := []byte(fmt.Sprintf(`{"id":"evt_test_2","api_version":%q,"type":"invoice.paid","data":{"object":{}}}`, stripe.APIVersion))
	rec := postWebhook(h, payload, signPayload(t, testWebhookSecret, payload))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := bookings.bookings[7].Status; got != domain.BookingPendingPayment {
		t.Errorf("booking status = %s, want untouched", got)
	}
}

func TestWebhookUnknownBookingStillAcks(t *testing.T) {
	bookings := newFakeBookings(nil)
	h := NewWebhookHandler(bookings, testWebhookSecret)

	payload := checkoutCompletedPayload(t, "404")
	rec := postWebhook(h, payload, signPayload(t, testWebhookSecret, payload))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200 so the provider stops retrying", rec.Code)
	}
}
