package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestCharge_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		charge      Charge
		expectError bool
	}{
		{
			name:   "ad-hoc label only",
			charge: Charge{Amount: MustMoney("10.00", "USD"), AdHocLabel: "setup fee"},
		},
		{
			name:   "product code only",
			charge: Charge{Amount: MustMoney("10.00", "USD"), ProductCode: "ACME01"},
		},
		{
			name:        "neither label nor product code",
			charge:      Charge{Amount: MustMoney("10.00", "USD")},
			expectError: true,
		},
		{
			name:        "lowercase product code",
			charge:      Charge{Amount: MustMoney("10.00", "USD"), ProductCode: "acme01"},
			expectError: true,
		},
		{
			name:        "short product code",
			charge:      Charge{Amount: MustMoney("10.00", "USD"), ProductCode: "ABC"},
			expectError: true,
		},
		{
			name: "valid properties",
			charge: Charge{
				Amount:      MustMoney("10.00", "USD"),
				ProductCode: "ACME01",
				Properties:  []ProductProperty{{Name: "color", Value: "red"}, {Name: "size_2", Value: "L"}},
			},
		},
		{
			name: "duplicate property",
			charge: Charge{
				Amount:     MustMoney("10.00", "USD"),
				AdHocLabel: "x",
				Properties: []ProductProperty{{Name: "color", Value: "red"}, {Name: "color", Value: "blue"}},
			},
			expectError: true,
		},
		{
			name: "property name starting with digit",
			charge: Charge{
				Amount:     MustMoney("10.00", "USD"),
				AdHocLabel: "x",
				Properties: []ProductProperty{{Name: "1color", Value: "red"}},
			},
			expectError: true,
		},
		{
			name: "property value too long",
			charge: Charge{
				Amount:     MustMoney("10.00", "USD"),
				AdHocLabel: "x",
				Properties: []ProductProperty{{Name: "note", Value: strings.Repeat("a", MaxPropertyValueLength+1)}},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.charge.Validate()
			if tt.expectError {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestCharge_Type(t *testing.T) {
	t.Parallel()

	if typ := (&Charge{Amount: MustMoney("10.00", "USD")}).Type(); typ != ChargeTypeCharge {
		t.Fatalf("expected Charge, got %s", typ)
	}
	if typ := (&Charge{Amount: MustMoney("0.00", "USD")}).Type(); typ != ChargeTypeCharge {
		t.Fatalf("expected zero to be a Charge, got %s", typ)
	}
	if typ := (&Charge{Amount: MustMoney("-3.00", "USD")}).Type(); typ != ChargeTypeCredit {
		t.Fatalf("expected Credit, got %s", typ)
	}
}

func TestCharge_IsInvoiced(t *testing.T) {
	t.Parallel()

	c := &Charge{Amount: MustMoney("1.00", "USD"), AdHocLabel: "x"}
	if c.IsInvoiced() {
		t.Fatal("expected uninvoiced charge")
	}
	id := "inv-1"
	c.InvoiceID = &id
	if !c.IsInvoiced() {
		t.Fatal("expected invoiced charge")
	}
}
