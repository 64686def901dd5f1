package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Account struct {
	ID         string             `json:"id"`
	OwnerID    string             `json:"owner_id"`
	Currency   string             `json:"currency"`
	Status     string             `json:"status"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
	ModifiedAt pgtype.Timestamptz `json:"modified_at"`
}

type Charge struct {
	ID             string             `json:"id"`
	AccountID      string             `json:"account_id"`
	InvoiceID      pgtype.Text        `json:"invoice_id"`
	Amount         pgtype.Numeric     `json:"amount"`
	AmountCurrency string             `json:"amount_currency"`
	AdHocLabel     string             `json:"ad_hoc_label"`
	ProductCode    string             `json:"product_code"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	ModifiedAt     pgtype.Timestamptz `json:"modified_at"`
}

type CreditCard struct {
	ID          string             `json:"id"`
	AccountID   string             `json:"account_id"`
	Type        string             `json:"type"`
	Number      string             `json:"number"`
	ExpiryMonth int16              `json:"expiry_month"`
	ExpiryYear  int16              `json:"expiry_year"`
	ExpiryDate  pgtype.Date        `json:"expiry_date"`
	Status      string             `json:"status"`
	PspKind     string             `json:"psp_kind"`
	PspID       string             `json:"psp_id"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
	ModifiedAt  pgtype.Timestamptz `json:"modified_at"`
}

type Invoice struct {
	ID         string             `json:"id"`
	AccountID  string             `json:"account_id"`
	Status     string             `json:"status"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
	ModifiedAt pgtype.Timestamptz `json:"modified_at"`
}

type OutboxEvent struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
	Published     bool               `json:"published"`
}

type ProductProperty struct {
	ID         string             `json:"id"`
	ChargeID   string             `json:"charge_id"`
	Name       string             `json:"name"`
	Value      string             `json:"value"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
	ModifiedAt pgtype.Timestamptz `json:"modified_at"`
}

type Transaction struct {
	ID               string             `json:"id"`
	AccountID        string             `json:"account_id"`
	InvoiceID        pgtype.Text        `json:"invoice_id"`
	Amount           pgtype.Numeric     `json:"amount"`
	AmountCurrency   string             `json:"amount_currency"`
	Success          bool               `json:"success"`
	PaymentMethod    string             `json:"payment_method"`
	CreditCardNumber string             `json:"credit_card_number"`
	PspKind          string             `json:"psp_kind"`
	PspID            string             `json:"psp_id"`
	CreatedAt        pgtype.Timestamptz `json:"created_at"`
	ModifiedAt       pgtype.Timestamptz `json:"modified_at"`
}
