package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits stored for every amount.
const MoneyScale = 2

// Money is an exact decimal amount in a single currency.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// NewMoney builds a Money value at scale MoneyScale. Amounts with more than
// MoneyScale fractional digits are rejected instead of being rounded.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if err := ValidateCurrency(currency); err != nil {
		return Money{}, err
	}

	if !amount.Equal(amount.Truncate(MoneyScale)) {
		return Money{}, fmt.Errorf("%w: amount %s has more than %d fractional digits", ErrValidation, amount, MoneyScale)
	}

	return Money{Amount: amount.Round(MoneyScale), Currency: strings.ToUpper(currency)}, nil
}

// MustMoney parses amount and panics on error. Intended for tests and constants.
func MustMoney(amount, currency string) Money {
	m, err := NewMoney(decimal.RequireFromString(amount), currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Add returns m + other. Currencies must match.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: cannot add %s to %s", ErrCurrencyMismatch, other.Currency, m.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Sub returns m - other. Currencies must match.
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: cannot subtract %s from %s", ErrCurrencyMismatch, other.Currency, m.Currency)
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{Amount: m.Amount.Neg(), Currency: m.Currency}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.Amount.IsZero() }

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool { return m.Amount.IsNegative() }

// IsPositive reports whether the amount is above zero.
func (m Money) IsPositive() bool { return m.Amount.IsPositive() }

// Equal compares amount and currency.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

func (m Money) String() string {
	return m.Amount.StringFixed(MoneyScale) + " " + m.Currency
}

// Total is a per-currency sum. Each currency appears at most once and amounts in
// different currencies are never combined. Operations return a new Total.
type Total struct {
	amounts map[string]decimal.Decimal
}

// NewTotal folds the given amounts into a Total.
func NewTotal(monies ...Money) Total {
	t := Total{amounts: make(map[string]decimal.Decimal, len(monies))}
	for _, m := range monies {
		t.amounts[m.Currency] = t.amounts[m.Currency].Add(m.Amount)
	}
	return t
}

func (t Total) clone() Total {
	c := Total{amounts: make(map[string]decimal.Decimal, len(t.amounts))}
	for cur, amt := range t.amounts {
		c.amounts[cur] = amt
	}
	return c
}

// Add returns t + other, merged per currency.
func (t Total) Add(other Total) Total {
	r := t.clone()
	for cur, amt := range other.amounts {
		r.amounts[cur] = r.amounts[cur].Add(amt)
	}
	return r
}

// Sub returns t - other, merged per currency.
func (t Total) Sub(other Total) Total {
	r := t.clone()
	for cur, amt := range other.amounts {
		r.amounts[cur] = r.amounts[cur].Sub(amt)
	}
	return r
}

// AddMoney returns t with m added to the entry for m's currency.
func (t Total) AddMoney(m Money) Total {
	return t.Add(NewTotal(m))
}

// SubMoney returns t with m subtracted from the entry for m's currency.
func (t Total) SubMoney(m Money) Total {
	return t.Sub(NewTotal(m))
}

// Get returns the entry for currency, if present.
func (t Total) Get(currency string) (Money, bool) {
	amt, ok := t.amounts[currency]
	if !ok {
		return Money{}, false
	}
	return Money{Amount: amt, Currency: currency}, true
}

// Currencies returns the currencies present, sorted.
func (t Total) Currencies() []string {
	curs := make([]string, 0, len(t.amounts))
	for cur := range t.amounts {
		curs = append(curs, cur)
	}
	sort.Strings(curs)
	return curs
}

// Monies returns one Money per currency, sorted by currency.
func (t Total) Monies() []Money {
	curs := t.Currencies()
	out := make([]Money, 0, len(curs))
	for _, cur := range curs {
		out = append(out, Money{Amount: t.amounts[cur], Currency: cur})
	}
	return out
}

// Len returns the number of currencies present.
func (t Total) Len() int { return len(t.amounts) }

// IsZero reports whether every entry is zero. An empty Total is zero.
func (t Total) IsZero() bool {
	for _, amt := range t.amounts {
		if !amt.IsZero() {
			return false
		}
	}
	return true
}

// Equal reports whether both totals hold the same amount for every currency.
// A missing currency compares equal to a zero entry.
func (t Total) Equal(other Total) bool {
	for cur, amt := range t.amounts {
		if !amt.Equal(other.amounts[cur]) {
			return false
		}
	}
	for cur, amt := range other.amounts {
		if !amt.Equal(t.amounts[cur]) {
			return false
		}
	}
	return true
}

func (t Total) String() string {
	monies := t.Monies()
	parts := make([]string, len(monies))
	for i, m := range monies {
		parts[i] = m.String()
	}
	return strings.Join(parts, ", ")
}

// MarshalJSON encodes the total as {"USD":"7.00"}.
func (t Total) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(t.amounts))
	for cur, amt := range t.amounts {
		out[cur] = amt.StringFixed(MoneyScale)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the {"USD":"7.00"} form.
func (t *Total) UnmarshalJSON(data []byte) error {
	var raw map[string]decimal.Decimal
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.amounts = make(map[string]decimal.Decimal, len(raw))
	for cur, amt := range raw {
		t.amounts[cur] = amt
	}
	return nil
}
