package domain

import (
	"fmt"
	"strings"
	"time"
)

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	AccountStatusOpen   AccountStatus = "OPEN"
	AccountStatusClosed AccountStatus = "CLOSED"
)

const (
	EventClose  Event = "close"
	EventReopen Event = "reopen"
)

var accountMachine = NewMachine("account",
	Transition[AccountStatus]{Event: EventClose, Sources: []AccountStatus{AccountStatusOpen}, Target: AccountStatusClosed},
	Transition[AccountStatus]{Event: EventReopen, Sources: []AccountStatus{AccountStatusClosed}, Target: AccountStatusOpen},
)

// Account is the billing anchor for one owner. Charges, transactions, invoices
// and cards reference it by ID.
type Account struct {
	ID         string
	OwnerID    string
	Currency   string
	Status     AccountStatus
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// NewAccount creates an open account.
func NewAccount(id, ownerID, currency string, now time.Time) (*Account, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrValidation)
	}
	if err := ValidateCurrency(currency); err != nil {
		return nil, err
	}

	return &Account{
		ID:         id,
		OwnerID:    ownerID,
		Currency:   strings.ToUpper(currency),
		Status:     AccountStatusOpen,
		CreatedAt:  now,
		ModifiedAt: now,
	}, nil
}

// Close moves an open account to closed. Children are not affected.
func (a *Account) Close(now time.Time) error {
	return a.fire(EventClose, now)
}

// Reopen moves a closed account back to open.
func (a *Account) Reopen(now time.Time) error {
	return a.fire(EventReopen, now)
}

// IsOpen reports whether the account is open.
func (a *Account) IsOpen() bool {
	return a.Status == AccountStatusOpen
}

func (a *Account) fire(event Event, now time.Time) error {
	next, err := accountMachine.Fire(a.Status, event)
	if err != nil {
		return err
	}
	a.Status = next
	a.ModifiedAt = now
	return nil
}
