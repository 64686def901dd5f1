package dto

import (
	"time"

	"github.com/iho/gobilling/internal/domain"
)

// MoneyResponse renders an amount with two decimals.
type MoneyResponse struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// MoneyFromDomain converts domain money to response.
func MoneyFromDomain(m domain.Money) MoneyResponse {
	return MoneyResponse{
		Amount:   m.Amount.StringFixed(domain.MoneyScale),
		Currency: m.Currency,
	}
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Currency   string    `json:"currency"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:         a.ID,
		OwnerID:    a.OwnerID,
		Currency:   a.Currency,
		Status:     string(a.Status),
		CreatedAt:  a.CreatedAt,
		ModifiedAt: a.ModifiedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// PropertyResponse represents a product property.
type PropertyResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ChargeResponse represents a charge or credit in API responses.
type ChargeResponse struct {
	ID          string             `json:"id"`
	AccountID   string             `json:"account_id"`
	InvoiceID   *string            `json:"invoice_id"`
	Type        string             `json:"type"`
	Amount      MoneyResponse      `json:"amount"`
	AdHocLabel  string             `json:"ad_hoc_label,omitempty"`
	ProductCode string             `json:"product_code,omitempty"`
	Properties  []PropertyResponse `json:"product_properties"`
	CreatedAt   time.Time          `json:"created_at"`
	ModifiedAt  time.Time          `json:"modified_at"`
}

// ChargeFromDomain converts domain charge to response.
func ChargeFromDomain(c *domain.Charge) *ChargeResponse {
	props := make([]PropertyResponse, len(c.Properties))
	for i, p := range c.Properties {
		props[i] = PropertyResponse{Name: p.Name, Value: p.Value}
	}
	return &ChargeResponse{
		ID:          c.ID,
		AccountID:   c.AccountID,
		InvoiceID:   c.InvoiceID,
		Type:        string(c.Type()),
		Amount:      MoneyFromDomain(c.Amount),
		AdHocLabel:  c.AdHocLabel,
		ProductCode: c.ProductCode,
		Properties:  props,
		CreatedAt:   c.CreatedAt,
		ModifiedAt:  c.ModifiedAt,
	}
}

// ChargesFromDomain converts domain charges to responses.
func ChargesFromDomain(charges []*domain.Charge) []*ChargeResponse {
	result := make([]*ChargeResponse, len(charges))
	for i, c := range charges {
		result[i] = ChargeFromDomain(c)
	}
	return result
}

// ChargesWithTotalResponse lists charges together with their per-currency sum.
type ChargesWithTotalResponse struct {
	Charges []*ChargeResponse `json:"charges"`
	Total   domain.Total      `json:"total"`
}

// TransactionResponse represents a payment or refund in API responses.
type TransactionResponse struct {
	ID               string        `json:"id"`
	AccountID        string        `json:"account_id"`
	InvoiceID        *string       `json:"invoice_id"`
	Type             string        `json:"type,omitempty"`
	Amount           MoneyResponse `json:"amount"`
	Success          bool          `json:"success"`
	PaymentMethod    string        `json:"payment_method"`
	CreditCardNumber string        `json:"credit_card_number,omitempty"`
	ProviderKind     string        `json:"psp_kind"`
	ProviderID       string        `json:"psp_id"`
	CreatedAt        time.Time     `json:"created_at"`
	ModifiedAt       time.Time     `json:"modified_at"`
}

// TransactionFromDomain converts domain transaction to response. A zero amount
// has no type.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	typ, _ := t.Type()
	return &TransactionResponse{
		ID:               t.ID,
		AccountID:        t.AccountID,
		InvoiceID:        t.InvoiceID,
		Type:             string(typ),
		Amount:           MoneyFromDomain(t.Amount),
		Success:          t.Success,
		PaymentMethod:    t.PaymentMethod,
		CreditCardNumber: t.CreditCardNumber,
		ProviderKind:     t.Provider.Kind,
		ProviderID:       t.Provider.ID,
		CreatedAt:        t.CreatedAt,
		ModifiedAt:       t.ModifiedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txs []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txs))
	for i, t := range txs {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// InvoiceResponse represents an invoice in API responses.
type InvoiceResponse struct {
	ID         string    `json:"id"`
	AccountID  string    `json:"account_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// InvoiceFromDomain converts domain invoice to response.
func InvoiceFromDomain(i *domain.Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		ID:         i.ID,
		AccountID:  i.AccountID,
		Status:     string(i.Status),
		CreatedAt:  i.CreatedAt,
		ModifiedAt: i.ModifiedAt,
	}
}

// InvoicesFromDomain converts domain invoices to responses.
func InvoicesFromDomain(invoices []*domain.Invoice) []*InvoiceResponse {
	result := make([]*InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		result[i] = InvoiceFromDomain(inv)
	}
	return result
}

// CreditCardResponse represents a stored card in API responses.
type CreditCardResponse struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"account_id"`
	Type         string    `json:"type"`
	Number       string    `json:"number"`
	ExpiryMonth  int       `json:"expiry_month"`
	ExpiryYear   int       `json:"expiry_year"`
	ExpiryDate   string    `json:"expiry_date"`
	Status       string    `json:"status"`
	ProviderKind string    `json:"psp_kind"`
	ProviderID   string    `json:"psp_id"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}

// CreditCardFromDomain converts domain card to response.
func CreditCardFromDomain(c *domain.CreditCard) *CreditCardResponse {
	return &CreditCardResponse{
		ID:           c.ID,
		AccountID:    c.AccountID,
		Type:         c.Type,
		Number:       c.Number,
		ExpiryMonth:  c.ExpiryMonth,
		ExpiryYear:   c.ExpiryYear,
		ExpiryDate:   c.ExpiryDate.Format(time.DateOnly),
		Status:       string(c.Status),
		ProviderKind: c.Provider.Kind,
		ProviderID:   c.Provider.ID,
		CreatedAt:    c.CreatedAt,
		ModifiedAt:   c.ModifiedAt,
	}
}

// CreditCardsFromDomain converts domain cards to responses.
func CreditCardsFromDomain(cards []*domain.CreditCard) []*CreditCardResponse {
	result := make([]*CreditCardResponse, len(cards))
	for i, c := range cards {
		result[i] = CreditCardFromDomain(c)
	}
	return result
}

// TotalResponse wraps a per-currency total.
type TotalResponse struct {
	Total domain.Total `json:"total"`
}

// ValidityResponse reports whether a card is usable.
type ValidityResponse struct {
	ID    string `json:"id"`
	Valid bool   `json:"valid"`
	AsOf  string `json:"as_of"`
}

// PastDueResponse reports whether an account has past-due invoices.
type PastDueResponse struct {
	AccountID string `json:"account_id"`
	PastDue   bool   `json:"past_due"`
}

// SweepResponse reports how many invoices a sweep moved.
type SweepResponse struct {
	Cutoff time.Time `json:"cutoff"`
	Moved  int       `json:"moved"`
}

// ListAccountsResponse represents a list of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// ListChargesResponse represents a list of charges.
type ListChargesResponse struct {
	Charges []*ChargeResponse `json:"charges"`
}

// ListTransactionsResponse represents a list of transactions.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
}

// ListInvoicesResponse represents a list of invoices.
type ListInvoicesResponse struct {
	Invoices []*InvoiceResponse `json:"invoices"`
}

// ListCreditCardsResponse represents a list of cards.
type ListCreditCardsResponse struct {
	CreditCards []*CreditCardResponse `json:"credit_cards"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
