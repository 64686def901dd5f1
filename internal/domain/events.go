package domain

import "time"

// Event types
const (
	EventTypeAccountCreated      = "account.created"
	EventTypeAccountClosed       = "account.closed"
	EventTypeAccountReopened     = "account.reopened"
	EventTypeChargeCreated       = "charge.created"
	EventTypeTransactionRecorded = "transaction.recorded"
	EventTypeInvoiceCreated      = "invoice.created"
	EventTypeInvoicePastDue      = "invoice.past_due"
	EventTypeInvoicePayed        = "invoice.payed"
	EventTypeInvoiceCancelled    = "invoice.cancelled"
	EventTypeCardRegistered      = "credit_card.registered"
	EventTypeCardDeactivated     = "credit_card.deactivated"
	EventTypeCardReactivated     = "credit_card.reactivated"
	EventTypeCardExpiryUpdated   = "credit_card.expiry_updated"
)

// Aggregate types
const (
	AggregateTypeAccount     = "account"
	AggregateTypeCharge      = "charge"
	AggregateTypeTransaction = "transaction"
	AggregateTypeInvoice     = "invoice"
	AggregateTypeCreditCard  = "credit_card"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// InvoiceEventType maps an invoice event to its outbox event type.
func InvoiceEventType(event Event) string {
	switch event {
	case EventMarkPastDue:
		return EventTypeInvoicePastDue
	case EventPay:
		return EventTypeInvoicePayed
	case EventCancel:
		return EventTypeInvoiceCancelled
	default:
		return "invoice." + string(event)
	}
}

// AccountCreatedEvent payload
type AccountCreatedEvent struct {
	AccountID string `json:"account_id"`
	OwnerID   string `json:"owner_id"`
	Currency  string `json:"currency"`
}

// ChargeCreatedEvent payload
type ChargeCreatedEvent struct {
	ChargeID    string `json:"charge_id"`
	AccountID   string `json:"account_id"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	ProductCode string `json:"product_code,omitempty"`
}

// TransactionRecordedEvent payload
type TransactionRecordedEvent struct {
	TransactionID string `json:"transaction_id"`
	AccountID     string `json:"account_id"`
	InvoiceID     string `json:"invoice_id,omitempty"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Success       bool   `json:"success"`
}

// InvoiceCreatedEvent payload
type InvoiceCreatedEvent struct {
	InvoiceID   string            `json:"invoice_id"`
	AccountID   string            `json:"account_id"`
	ChargeCount int               `json:"charge_count"`
	Total       map[string]string `json:"total"`
}

// CardExpiryUpdatedEvent payload
type CardExpiryUpdatedEvent struct {
	CardID       string `json:"card_id"`
	AccountID    string `json:"account_id"`
	ExpiryMonth  int    `json:"expiry_month"`
	ExpiryYear   int    `json:"expiry_year"`
	ExpiryDate   string `json:"expiry_date"`
	PreviousDate string `json:"previous_expiry_date"`
}

// StatusChangedEvent payload, shared by accounts, invoices and cards.
type StatusChangedEvent struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}
