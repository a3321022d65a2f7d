package payments

import (
	"context"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/lagoon/bookings/pkg/config"
)

const currency = "usd"

// StripeProvider creates hosted Checkout sessions scoped to a single
// booking. The client is injected via config at construction, never read
// from package-level globals.
type StripeProvider struct {
	api        *client.API
	successURL string
}

func NewStripeProvider(cfg config.StripeConfig) *StripeProvider {
	p := &StripeProvider{successURL: cfg.SuccessURL}
	if cfg.SecretKey != "" {
		p.api = &client.API{}
		p.api.Init(cfg.SecretKey, nil)
	}
	return p
}

func (p *StripeProvider) Configured() bool { return p.api != nil }

func (p *StripeProvider) CreatePaymentLink(ctx context.Context, req *LinkRequest) (string, error) {
	if p.api == nil {
		return "", fmt.Errorf("stripe is not configured")
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(p.successURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(req.AmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(req.ServiceName),
				},
			},
			Quantity: stripe.Int64(1),
		}},
	}
	params.Context = ctx
	params.AddMetadata("booking_id", strconv.FormatInt(req.BookingID, 10))
	params.AddMetadata("customer_name", req.CustomerName)
	params.AddMetadata("customer_phone", req.CustomerPhone)
	params.AddMetadata("service_name", req.ServiceName)

	session, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return session.URL, nil
}
