package domain

import (
	"fmt"
	"time"
)

// ChargeType is informational and derived from the amount sign.
type ChargeType string

const (
	ChargeTypeCharge ChargeType = "Charge"
	ChargeTypeCredit ChargeType = "Credit"
)

// Charge is a signed amount against an account. A negative amount is a credit.
// Only the invoice reference changes after creation, and only once.
type Charge struct {
	ID          string
	AccountID   string
	InvoiceID   *string
	Amount      Money
	AdHocLabel  string
	ProductCode string
	Properties  []ProductProperty
	CreatedAt   time.Time
	ModifiedAt  time.Time
}

// ProductProperty is free-form metadata attached to a charge.
type ProductProperty struct {
	ID         string
	ChargeID   string
	Name       string
	Value      string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// Validate checks the label/product code rule and the attached properties.
func (c *Charge) Validate() error {
	if c.AdHocLabel == "" && c.ProductCode == "" {
		return fmt.Errorf("%w: either the ad-hoc label or the product code must be filled", ErrValidation)
	}

	if c.ProductCode != "" {
		if err := ValidateProductCode(c.ProductCode); err != nil {
			return err
		}
	}

	if err := ValidateCurrency(c.Amount.Currency); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Properties))
	for _, p := range c.Properties {
		if err := ValidatePropertyName(p.Name); err != nil {
			return err
		}
		if len(p.Value) > MaxPropertyValueLength {
			return fmt.Errorf("%w: property %q value exceeds %d characters", ErrValidation, p.Name, MaxPropertyValueLength)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate property %q", ErrValidation, p.Name)
		}
		seen[p.Name] = true
	}

	return nil
}

// Type is Charge for amounts >= 0 and Credit otherwise.
func (c *Charge) Type() ChargeType {
	if c.Amount.IsNegative() {
		return ChargeTypeCredit
	}
	return ChargeTypeCharge
}

// IsInvoiced reports whether the charge belongs to an invoice.
func (c *Charge) IsInvoiced() bool {
	return c.InvoiceID != nil
}

// ChargesTotal sums the amounts of charges per currency.
func ChargesTotal(charges []*Charge) Total {
	t := NewTotal()
	for _, c := range charges {
		t = t.AddMoney(c.Amount)
	}
	return t
}
