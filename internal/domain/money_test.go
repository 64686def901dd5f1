package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewMoney(t *testing.T) {
	t.Parallel()

	t.Run("uppercases currency", func(t *testing.T) {
		m, err := NewMoney(decimal.RequireFromString("1.50"), "usd")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if m.Currency != "USD" {
			t.Fatalf("expected USD, got %s", m.Currency)
		}
	})

	t.Run("rejects excess precision", func(t *testing.T) {
		_, err := NewMoney(decimal.RequireFromString("1.005"), "USD")
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("rejects unknown currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(1), "XXX")
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})
}

func TestMoney_AddSub(t *testing.T) {
	t.Parallel()

	sum, err := MustMoney("10.00", "USD").Add(MustMoney("-3.00", "USD"))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !sum.Equal(MustMoney("7.00", "USD")) {
		t.Fatalf("expected 7.00 USD, got %s", sum)
	}

	diff, err := MustMoney("1.00", "EUR").Sub(MustMoney("2.50", "EUR"))
	if err != nil {
		t.Fatalf("sub failed: %v", err)
	}
	if !diff.IsNegative() || diff.String() != "-1.50 EUR" {
		t.Fatalf("expected -1.50 EUR, got %s", diff)
	}

	if _, err := MustMoney("1.00", "USD").Add(MustMoney("1.00", "EUR")); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
	}
	if _, err := MustMoney("1.00", "USD").Sub(MustMoney("1.00", "EUR")); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
	}
}

func TestNewTotal_FoldsPerCurrency(t *testing.T) {
	t.Parallel()

	total := NewTotal(
		MustMoney("10.00", "USD"),
		MustMoney("-3.00", "USD"),
		MustMoney("5.00", "EUR"),
	)

	if total.Len() != 2 {
		t.Fatalf("expected 2 currencies, got %d", total.Len())
	}
	usd, ok := total.Get("USD")
	if !ok || !usd.Equal(MustMoney("7.00", "USD")) {
		t.Fatalf("expected 7.00 USD, got %v (present=%v)", usd, ok)
	}
	eur, ok := total.Get("EUR")
	if !ok || !eur.Equal(MustMoney("5.00", "EUR")) {
		t.Fatalf("expected 5.00 EUR, got %v (present=%v)", eur, ok)
	}
	if total.String() != "5.00 EUR, 7.00 USD" {
		t.Fatalf("unexpected string %q", total.String())
	}
}

func TestTotal_KeepsZeroEntries(t *testing.T) {
	t.Parallel()

	total := NewTotal(MustMoney("5.00", "USD"), MustMoney("-5.00", "USD"))

	if total.Len() != 1 {
		t.Fatalf("expected zero entry to be kept, got %d entries", total.Len())
	}
	if !total.IsZero() {
		t.Fatalf("expected zero total, got %s", total)
	}
}

func TestTotal_AddSubImmutable(t *testing.T) {
	t.Parallel()

	a := NewTotal(MustMoney("1.00", "USD"))
	b := NewTotal(MustMoney("2.00", "USD"), MustMoney("3.00", "GBP"))

	sum := a.Add(b)
	diff := a.Sub(b)

	if !a.Equal(NewTotal(MustMoney("1.00", "USD"))) {
		t.Fatalf("receiver mutated: %s", a)
	}
	if !sum.Equal(NewTotal(MustMoney("3.00", "USD"), MustMoney("3.00", "GBP"))) {
		t.Fatalf("unexpected sum %s", sum)
	}
	if !diff.Equal(NewTotal(MustMoney("-1.00", "USD"), MustMoney("-3.00", "GBP"))) {
		t.Fatalf("unexpected diff %s", diff)
	}
	if !a.AddMoney(MustMoney("1.00", "USD")).SubMoney(MustMoney("1.00", "USD")).Equal(a) {
		t.Fatal("add then subtract should round-trip")
	}
}

func TestTotal_EqualTreatsMissingAsZero(t *testing.T) {
	t.Parallel()

	withZero := NewTotal(MustMoney("7.00", "USD"), MustMoney("0.00", "EUR"))
	without := NewTotal(MustMoney("7.00", "USD"))

	if !withZero.Equal(without) || !without.Equal(withZero) {
		t.Fatal("expected totals to be equal")
	}
	if without.Equal(NewTotal(MustMoney("7.01", "USD"))) {
		t.Fatal("expected totals to differ")
	}
	if !NewTotal().Equal(Total{}) {
		t.Fatal("expected empty totals to be equal")
	}
}

func TestTotal_JSON(t *testing.T) {
	t.Parallel()

	total := NewTotal(MustMoney("7", "USD"), MustMoney("5.5", "EUR"))

	data, err := json.Marshal(total)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"EUR":"5.50","USD":"7.00"}` {
		t.Fatalf("unexpected json %s", data)
	}

	var decoded Total
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !decoded.Equal(total) {
		t.Fatalf("expected %s, got %s", total, decoded)
	}
}

func TestChargesTotal(t *testing.T) {
	t.Parallel()

	charges := []*Charge{
		{Amount: MustMoney("10.00", "USD")},
		{Amount: MustMoney("-3.00", "USD")},
		{Amount: MustMoney("5.00", "EUR")},
	}

	got := ChargesTotal(charges)
	want := NewTotal(MustMoney("7.00", "USD"), MustMoney("5.00", "EUR"))
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}

	if ChargesTotal(nil).Len() != 0 {
		t.Fatal("expected empty total for no charges")
	}
}
