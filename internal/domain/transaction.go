package domain

import (
	"fmt"
	"strings"
	"time"
)

// TransactionType is derived from the amount sign.
type TransactionType string

const (
	TransactionTypePayment TransactionType = "Payment"
	TransactionTypeRefund  TransactionType = "Refund"
)

// ProviderRef points at an object owned by a payment service provider. The core
// stores it and never interprets it.
type ProviderRef struct {
	Kind string
	ID   string
}

// IsZero reports whether the reference is unset.
func (r ProviderRef) IsZero() bool {
	return r.Kind == "" && r.ID == ""
}

// Validate requires both kind and id.
func (r ProviderRef) Validate() error {
	if strings.TrimSpace(r.Kind) == "" || strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: provider reference needs kind and id", ErrValidation)
	}
	return nil
}

func (r ProviderRef) String() string {
	return r.Kind + ":" + r.ID
}

// Transaction records a payment (positive) or refund (negative). Failed
// attempts are persisted but never count towards totals.
type Transaction struct {
	ID               string
	AccountID        string
	InvoiceID        *string
	Amount           Money
	Success          bool
	PaymentMethod    string
	CreditCardNumber string
	Provider         ProviderRef
	CreatedAt        time.Time
	ModifiedAt       time.Time
}

// Validate checks fields before persistence.
func (t *Transaction) Validate() error {
	if err := ValidateCurrency(t.Amount.Currency); err != nil {
		return err
	}
	if err := validateRequired("payment method", t.PaymentMethod, MaxPaymentMethodLength); err != nil {
		return err
	}
	if len(t.CreditCardNumber) > MaxCardNumberLength {
		return fmt.Errorf("%w: credit card number exceeds %d characters", ErrValidation, MaxCardNumberLength)
	}
	return t.Provider.Validate()
}

// Type returns Payment or Refund. A zero amount has no type and ok is false.
func (t *Transaction) Type() (typ TransactionType, ok bool) {
	switch {
	case t.Amount.IsPositive():
		return TransactionTypePayment, true
	case t.Amount.IsNegative():
		return TransactionTypeRefund, true
	default:
		return "", false
	}
}

func (t *Transaction) String() string {
	typ, ok := t.Type()
	if !ok {
		typ = "Untyped"
	}
	outcome := "failure"
	if t.Success {
		outcome = "success"
	}
	return fmt.Sprintf("%s-%s (%s)", typ, t.CreditCardNumber, outcome)
}

// SuccessfulTotal sums successful transactions per currency.
func SuccessfulTotal(txs []*Transaction) Total {
	t := NewTotal()
	for _, tx := range txs {
		if tx.Success {
			t = t.AddMoney(tx.Amount)
		}
	}
	return t
}
