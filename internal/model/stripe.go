package model

import (
	"encoding/json"
	"fmt"
)

// Event kinds the reconciler dispatches on. Stripe's own union is open
// ended; anything else falls through to the unhandled branch.
const (
	StripeEventCheckoutCompleted   = "checkout.session.completed"
	StripeEventSubscriptionDeleted = "customer.subscription.deleted"
	StripeEventInvoiceFailed       = "invoice.payment_failed"
)

// StripeEvent is the verified webhook envelope. Data.Object stays raw
// until the dispatcher knows which variant to decode.
type StripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// StripeCheckoutSession is the data.object of checkout.session.completed.
type StripeCheckoutSession struct {
	ID            string            `json:"id"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	PaymentIntent string            `json:"payment_intent"`
	Subscription  string            `json:"subscription"`
	Customer      string            `json:"customer"`
	Metadata      map[string]string `json:"metadata"`
}

// StripeSubscription is the data.object of customer.subscription.deleted.
type StripeSubscription struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// StripeInvoice is the data.object of invoice.payment_failed.
type StripeInvoice struct {
	ID           string `json:"id"`
	Subscription string `json:"subscription"`
}

func (e *StripeEvent) CheckoutSession() (*StripeCheckoutSession, error) {
	var s StripeCheckoutSession
	if err := json.Unmarshal(e.Data.Object, &s); err != nil {
		return nil, fmt.Errorf("decode checkout session object: %w", err)
	}
	return &s, nil
}

func (e *StripeEvent) Subscription() (*StripeSubscription, error) {
	var s StripeSubscription
	if err := json.Unmarshal(e.Data.Object, &s); err != nil {
		return nil, fmt.Errorf("decode subscription object: %w", err)
	}
	return &s, nil
}

func (e *StripeEvent) Invoice() (*StripeInvoice, error) {
	var inv StripeInvoice
	if err := json.Unmarshal(e.Data.Object, &inv); err != nil {
		return nil, fmt.Errorf("decode invoice object: %w", err)
	}
	return &inv, nil
}
