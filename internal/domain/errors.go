package domain

import "errors"

var (
	// Money errors
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// Validation and state errors
	ErrValidation             = errors.New("validation failed")
	ErrInvalidTransition      = errors.New("invalid state transition")
	ErrConcurrentModification = errors.New("concurrent modification")

	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrOwnerHasAccount = errors.New("owner already has an account")

	// Charge and invoice errors
	ErrChargeNotFound   = errors.New("charge not found")
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrNothingToInvoice = errors.New("no uninvoiced charges")

	// Transaction and card errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCreditCardNotFound  = errors.New("credit card not found")
)
