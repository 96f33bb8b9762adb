package payments

import (
	"context"
	"fmt"
	"sync"
)

// FakeProcessor is an in-memory Processor used by tests. Failure modes are
// injected per call via the Fail* hooks.
type FakeProcessor struct {
	mu      sync.Mutex
	seq     int
	intents map[string]*Intent

	CreateCalls   int
	RetrieveCalls int
	UpdateCalls   int

	FailCreate   error
	FailRetrieve error
	FailUpdate   error
}

func NewFakeProcessor() *FakeProcessor {
	return &FakeProcessor{intents: make(map[string]*Intent)}
}

func (f *FakeProcessor) CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	if f.FailCreate != nil {
		return nil, f.FailCreate
	}
	f.seq++
	intent := &Intent{
		ID:           fmt.Sprintf("pi_fake_%06d", f.seq),
		ClientSecret: fmt.Sprintf("pi_fake_%06d_secret", f.seq),
		Amount:       amount,
		Currency:     currency,
		Status:       "requires_payment_method",
	}
	f.intents[intent.ID] = intent
	return copyIntent(intent), nil
}

func (f *FakeProcessor) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RetrieveCalls++
	if f.FailRetrieve != nil {
		return nil, f.FailRetrieve
	}
	intent, ok := f.intents[id]
	if !ok {
		return nil, ErrIntentNotFound
	}
	return copyIntent(intent), nil
}

func (f *FakeProcessor) UpdateIntentAmount(ctx context.Context, id string, amount int64) (*Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	if f.FailUpdate != nil {
		return nil, f.FailUpdate
	}
	intent, ok := f.intents[id]
	if !ok {
		return nil, ErrIntentNotFound
	}
	intent.Amount = amount
	return copyIntent(intent), nil
}

// SetStatus moves an intent into the given processor-side status.
func (f *FakeProcessor) SetStatus(id, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if intent, ok := f.intents[id]; ok {
		intent.Status = status
	}
}

// Forget drops an intent as if the processor never knew it.
func (f *FakeProcessor) Forget(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.intents, id)
}

// Amount reports the current amount held on the processor side.
func (f *FakeProcessor) Amount(id string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if intent, ok := f.intents[id]; ok {
		return intent.Amount
	}
	return -1
}

func copyIntent(i *Intent) *Intent {
	c := *i
	return &c
}
