package payments

import (
	"context"
	"errors"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// StripeProcessor implements Processor against Stripe payment intents.
type StripeProcessor struct{}

// NewStripeProcessor sets the account secret key and returns a processor.
func NewStripeProcessor(secretKey string) *StripeProcessor {
	stripe.Key = secretKey
	return &StripeProcessor{}
}

func (p *StripeProcessor) CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}
	return fromStripe(pi), nil
}

func (p *StripeProcessor) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(id, params)
	if err != nil {
		if isMissing(err) {
			return nil, ErrIntentNotFound
		}
		return nil, err
	}
	return fromStripe(pi), nil
}

func (p *StripeProcessor) UpdateIntentAmount(ctx context.Context, id string, amount int64) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount: stripe.Int64(amount),
	}
	params.Context = ctx

	pi, err := paymentintent.Update(id, params)
	if err != nil {
		if isMissing(err) {
			return nil, ErrIntentNotFound
		}
		return nil, err
	}
	return fromStripe(pi), nil
}

func fromStripe(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
	}
}

func isMissing(err error) bool {
	var sErr *stripe.Error
	if errors.As(err, &sErr) {
		return sErr.Code == stripe.ErrorCodeResourceMissing || sErr.HTTPStatusCode == 404
	}
	return false
}
