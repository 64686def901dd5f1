package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/gobilling/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	OwnerID  string `json:"owner_id"`
	Currency string `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		OwnerID:  r.OwnerID,
		Currency: r.Currency,
	}
}

// PropertyRequest is a product property attached to a charge.
type PropertyRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CreateChargeRequest represents a request to add a charge or credit to an account.
type CreateChargeRequest struct {
	Amount      decimal.Decimal   `json:"amount"`
	Currency    string            `json:"currency"`
	AdHocLabel  string            `json:"ad_hoc_label,omitempty"`
	ProductCode string            `json:"product_code,omitempty"`
	Properties  []PropertyRequest `json:"product_properties,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateChargeRequest) ToUseCaseInput(accountID string) usecase.CreateChargeInput {
	props := make([]usecase.PropertyInput, len(r.Properties))
	for i, p := range r.Properties {
		props[i] = usecase.PropertyInput{Name: p.Name, Value: p.Value}
	}
	return usecase.CreateChargeInput{
		AccountID:   accountID,
		Amount:      r.Amount,
		Currency:    r.Currency,
		AdHocLabel:  r.AdHocLabel,
		ProductCode: r.ProductCode,
		Properties:  props,
	}
}

// RecordTransactionRequest represents a payment or refund reported by a provider.
type RecordTransactionRequest struct {
	InvoiceID        *string         `json:"invoice_id,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Success          bool            `json:"success"`
	PaymentMethod    string          `json:"payment_method"`
	CreditCardNumber string          `json:"credit_card_number,omitempty"`
	ProviderKind     string          `json:"psp_kind"`
	ProviderID       string          `json:"psp_id"`
	SettleInvoice    bool            `json:"settle_invoice,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordTransactionRequest) ToUseCaseInput(accountID string) usecase.RecordTransactionInput {
	return usecase.RecordTransactionInput{
		AccountID:        accountID,
		InvoiceID:        r.InvoiceID,
		Amount:           r.Amount,
		Currency:         r.Currency,
		Success:          r.Success,
		PaymentMethod:    r.PaymentMethod,
		CreditCardNumber: r.CreditCardNumber,
		ProviderKind:     r.ProviderKind,
		ProviderID:       r.ProviderID,
		SettleInvoice:    r.SettleInvoice,
	}
}

// RegisterCardRequest represents a request to store a credit card.
type RegisterCardRequest struct {
	Type         string `json:"type"`
	Number       string `json:"number"`
	ExpiryMonth  int    `json:"expiry_month"`
	ExpiryYear   int    `json:"expiry_year"`
	ProviderKind string `json:"psp_kind"`
	ProviderID   string `json:"psp_id"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterCardRequest) ToUseCaseInput(accountID string) usecase.RegisterCardInput {
	return usecase.RegisterCardInput{
		AccountID:    accountID,
		Type:         r.Type,
		Number:       r.Number,
		ExpiryMonth:  r.ExpiryMonth,
		ExpiryYear:   r.ExpiryYear,
		ProviderKind: r.ProviderKind,
		ProviderID:   r.ProviderID,
	}
}

// UpdateExpiryRequest changes the expiry of a stored card.
type UpdateExpiryRequest struct {
	ExpiryMonth int `json:"expiry_month"`
	ExpiryYear  int `json:"expiry_year"`
}
