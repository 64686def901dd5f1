package domain

import (
	"fmt"
	"time"
)

// CreditCardStatus is the lifecycle state of a stored card.
type CreditCardStatus string

const (
	CreditCardStatusActive   CreditCardStatus = "ACTIVE"
	CreditCardStatusInactive CreditCardStatus = "INACTIVE"
)

const (
	EventDeactivate Event = "deactivate"
	EventReactivate Event = "reactivate"
)

var creditCardMachine = NewMachine("credit card",
	Transition[CreditCardStatus]{Event: EventDeactivate, Sources: []CreditCardStatus{CreditCardStatusActive}, Target: CreditCardStatusInactive},
	Transition[CreditCardStatus]{Event: EventReactivate, Sources: []CreditCardStatus{CreditCardStatusInactive}, Target: CreditCardStatusActive},
)

// CreditCard is a stored payment instrument. ExpiryDate is derived from the
// expiry month and year and is stored so range queries can compare on it.
type CreditCard struct {
	ID          string
	AccountID   string
	Type        string
	Number      string
	ExpiryMonth int
	ExpiryYear  int
	ExpiryDate  time.Time
	Status      CreditCardStatus
	Provider    ProviderRef
	CreatedAt   time.Time
	ModifiedAt  time.Time
}

// ComputeExpiryDate returns the last day of month in year 2000+twoDigitYear.
func ComputeExpiryDate(twoDigitYear, month int) (time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: expiry month %d out of range 1-12", ErrValidation, month)
	}
	if twoDigitYear < 0 || twoDigitYear > 99 {
		return time.Time{}, fmt.Errorf("%w: expiry year %d out of range 0-99", ErrValidation, twoDigitYear)
	}

	// Day 0 of the next month is the last day of this one.
	return time.Date(2000+twoDigitYear, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC), nil
}

// SetExpiry sets month and year and recomputes ExpiryDate.
func (c *CreditCard) SetExpiry(month, twoDigitYear int) error {
	date, err := ComputeExpiryDate(twoDigitYear, month)
	if err != nil {
		return err
	}
	c.ExpiryMonth = month
	c.ExpiryYear = twoDigitYear
	c.ExpiryDate = date
	return nil
}

// Validate checks fields before persistence.
func (c *CreditCard) Validate() error {
	if err := validateRequired("card type", c.Type, MaxCardTypeLength); err != nil {
		return err
	}
	if err := validateRequired("card number", c.Number, MaxCardNumberLength); err != nil {
		return err
	}
	expected, err := ComputeExpiryDate(c.ExpiryYear, c.ExpiryMonth)
	if err != nil {
		return err
	}
	if !c.ExpiryDate.Equal(expected) {
		return fmt.Errorf("%w: expiry date %s does not match %02d/%02d", ErrValidation, c.ExpiryDate.Format(time.DateOnly), c.ExpiryMonth, c.ExpiryYear)
	}
	return c.Provider.Validate()
}

// IsValid reports whether the card has not expired on the date of asOf.
func (c *CreditCard) IsValid(asOf time.Time) bool {
	return !c.ExpiryDate.Before(DateOf(asOf))
}

// Deactivate moves an active card to inactive.
func (c *CreditCard) Deactivate(now time.Time) error {
	return c.fire(EventDeactivate, now)
}

// Reactivate moves an inactive card to active.
func (c *CreditCard) Reactivate(now time.Time) error {
	return c.fire(EventReactivate, now)
}

func (c *CreditCard) fire(event Event, now time.Time) error {
	next, err := creditCardMachine.Fire(c.Status, event)
	if err != nil {
		return err
	}
	c.Status = next
	c.ModifiedAt = now
	return nil
}

// ValidCards keeps the cards that are valid as of asOf.
func ValidCards(cards []*CreditCard, asOf time.Time) []*CreditCard {
	out := make([]*CreditCard, 0, len(cards))
	for _, c := range cards {
		if c.IsValid(asOf) {
			out = append(out, c)
		}
	}
	return out
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
