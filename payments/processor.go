package payments

import (
	"context"
	"errors"
)

// ErrIntentNotFound is returned when the processor no longer knows the
// requested intent id.
var ErrIntentNotFound = errors.New("payment_intent_not_found")

// Intent is the slice of a processor payment intent this service cares about.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
	Status       string
}

// Finalized reports whether the intent can no longer be amended (already
// captured or canceled on the processor side).
func (i Intent) Finalized() bool {
	return i.Status == "succeeded" || i.Status == "canceled"
}

// Processor is the contract the booking flow expects from the payment
// provider. Amounts are integer minor units throughout.
type Processor interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error)
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
	UpdateIntentAmount(ctx context.Context, id string, amount int64) (*Intent, error)
}
