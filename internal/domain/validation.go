package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Validation constants
const (
	MaxPropertyNameLength  = 100
	MaxPropertyValueLength = 255
	MaxPaymentMethodLength = 3
	MaxCardTypeLength      = 3
	MaxCardNumberLength    = 255
)

// Valid currency codes (ISO 4217)
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "AUD": true, "CAD": true, "CHF": true,
	"SEK": true, "NZD": true, "KRW": true, "SGD": true,
	"NOK": true, "MXN": true, "INR": true, "BRL": true,
	"ZAR": true, "RUB": true, "TRY": true, "HKD": true,
	"DKK": true, "PLN": true, "CZK": true,
}

var (
	productCodeRegex  = regexp.MustCompile(`^[A-Z0-9]{4,8}$`)
	propertyNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)
)

// ValidateCurrency validates currency code
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %q is not a valid ISO 4217 currency code", ErrValidation, currency)
	}

	return nil
}

// ValidateProductCode checks the 4 to 8 uppercase letters or digits format.
func ValidateProductCode(code string) error {
	if !productCodeRegex.MatchString(code) {
		return fmt.Errorf("%w: product code %q must be between 4 and 8 uppercase letters or digits", ErrValidation, code)
	}
	return nil
}

// ValidatePropertyName checks a letter followed by letters, digits or underscores.
func ValidatePropertyName(name string) error {
	if len(name) > MaxPropertyNameLength {
		return fmt.Errorf("%w: property name exceeds %d characters", ErrValidation, MaxPropertyNameLength)
	}
	if !propertyNameRegex.MatchString(name) {
		return fmt.Errorf("%w: property name %q must be a letter maybe followed by letters, numbers, or underscores", ErrValidation, name)
	}
	return nil
}

func validateRequired(field, value string, maxLen int) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	if len(value) > maxLen {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrValidation, field, maxLen)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
