package usecase

import (
	"errors"

	"github.com/iho/gobilling/internal/domain"
)

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrAccountNotFound) ||
		errors.Is(err, domain.ErrChargeNotFound) ||
		errors.Is(err, domain.ErrInvoiceNotFound) ||
		errors.Is(err, domain.ErrTransactionNotFound) ||
		errors.Is(err, domain.ErrCreditCardNotFound)
}
