package payment

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/paymentintent"
)

// IntentCreator creates an outbound payment intent for an order. The order
// service calls it after commit for card payments; a nil creator disables
// the outbound leg entirely.
type IntentCreator interface {
	CreateIntent(ctx context.Context, orderID uuid.UUID, amount float64) (string, error)
}

// StripeGateway creates Stripe payment intents.
type StripeGateway struct {
	logger zerolog.Logger
}

// NewStripeGateway configures the Stripe client with the given API key.
func NewStripeGateway(apiKey string, logger zerolog.Logger) *StripeGateway {
	stripe.Key = apiKey
	return &StripeGateway{
		logger: logger.With().Str("gateway", "stripe").Logger(),
	}
}

// CreateIntent creates a payment intent for the order amount and returns
// the client secret the frontend completes the payment with.
func (g *StripeGateway) CreateIntent(ctx context.Context, orderID uuid.UUID, amount float64) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(amount * 100))),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("order_id", orderID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		g.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Msg("failed to create payment intent")
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}

	g.logger.Info().
		Str("order_id", orderID.String()).
		Str("intent_id", pi.ID).
		Msg("payment intent created")

	return pi.ClientSecret, nil
}
