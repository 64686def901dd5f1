package domain

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNewAccount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		ownerID     string
		currency    string
		expectError bool
	}{
		{name: "valid", ownerID: "owner-1", currency: "usd"},
		{name: "blank owner", ownerID: "  ", currency: "USD", expectError: true},
		{name: "bad currency", ownerID: "owner-1", currency: "DOLLARS", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, err := NewAccount("acc-1", tt.ownerID, tt.currency, testNow)
			if tt.expectError {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if acc.Currency != "USD" || acc.Status != AccountStatusOpen || !acc.IsOpen() {
				t.Fatalf("unexpected account %+v", acc)
			}
			if !acc.CreatedAt.Equal(testNow) || !acc.ModifiedAt.Equal(testNow) {
				t.Fatalf("unexpected timestamps %+v", acc)
			}
		})
	}
}

func TestAccount_CloseReopen(t *testing.T) {
	t.Parallel()

	acc, err := NewAccount("acc-1", "owner-1", "EUR", testNow)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	later := testNow.Add(time.Hour)
	if err := acc.Close(later); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if acc.Status != AccountStatusClosed || !acc.ModifiedAt.Equal(later) {
		t.Fatalf("unexpected account after close %+v", acc)
	}

	if err := acc.Close(later.Add(time.Hour)); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if acc.Status != AccountStatusClosed || !acc.ModifiedAt.Equal(later) {
		t.Fatalf("failed transition changed the account %+v", acc)
	}

	if err := acc.Reopen(later); err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if !acc.IsOpen() {
		t.Fatal("expected account to be open")
	}
	if err := acc.Reopen(later); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}
