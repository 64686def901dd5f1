package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createTransaction = `-- name: CreateTransaction :exec
INSERT INTO transactions (id, account_id, invoice_id, amount, amount_currency, success, payment_method, credit_card_number, psp_kind, psp_id, created_at, modified_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

type CreateTransactionParams struct {
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

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) error {
	_, err := q.db.Exec(ctx, createTransaction,
		arg.ID,
		arg.AccountID,
		arg.InvoiceID,
		arg.Amount,
		arg.AmountCurrency,
		arg.Success,
		arg.PaymentMethod,
		arg.CreditCardNumber,
		arg.PspKind,
		arg.PspID,
		arg.CreatedAt,
		arg.ModifiedAt,
	)
	return err
}

const getTransactionByID = `-- name: GetTransactionByID :one
SELECT id, account_id, invoice_id, amount, amount_currency, success, payment_method, credit_card_number, psp_kind, psp_id, created_at, modified_at
FROM transactions WHERE id = $1
`

func (q *Queries) GetTransactionByID(ctx context.Context, id string) (Transaction, error) {
	row := q.db.QueryRow(ctx, getTransactionByID, id)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.InvoiceID,
		&i.Amount,
		&i.AmountCurrency,
		&i.Success,
		&i.PaymentMethod,
		&i.CreditCardNumber,
		&i.PspKind,
		&i.PspID,
		&i.CreatedAt,
		&i.ModifiedAt,
	)
	return i, err
}

const listTransactions = `-- name: ListTransactions :many
SELECT id, account_id, invoice_id, amount, amount_currency, success, payment_method, credit_card_number, psp_kind, psp_id, created_at, modified_at
FROM transactions
WHERE ($1::text IS NULL OR account_id = $1)
  AND ($2::text IS NULL OR invoice_id = $2)
  AND (NOT $3::boolean OR success)
  AND ($4::timestamptz IS NULL OR created_at <= $4)
ORDER BY created_at, id
LIMIT $5 OFFSET $6
`

type ListTransactionsParams struct {
	AccountID      pgtype.Text        `json:"account_id"`
	InvoiceID      pgtype.Text        `json:"invoice_id"`
	SuccessfulOnly bool               `json:"successful_only"`
	CreatedUntil   pgtype.Timestamptz `json:"created_until"`
	Limit          pgtype.Int4        `json:"limit"`
	Offset         int32              `json:"offset"`
}

func (q *Queries) ListTransactions(ctx context.Context, arg ListTransactionsParams) ([]Transaction, error) {
	rows, err := q.db.Query(ctx, listTransactions,
		arg.AccountID,
		arg.InvoiceID,
		arg.SuccessfulOnly,
		arg.CreatedUntil,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.ID,
			&i.AccountID,
			&i.InvoiceID,
			&i.Amount,
			&i.AmountCurrency,
			&i.Success,
			&i.PaymentMethod,
			&i.CreditCardNumber,
			&i.PspKind,
			&i.PspID,
			&i.CreatedAt,
			&i.ModifiedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const sumSuccessfulTransactionsByCurrency = `-- name: SumSuccessfulTransactionsByCurrency :many
SELECT amount_currency, SUM(amount)::numeric AS total
FROM transactions
WHERE success
  AND ($1::text IS NULL OR account_id = $1)
  AND ($2::text IS NULL OR invoice_id = $2)
  AND ($3::timestamptz IS NULL OR created_at <= $3)
GROUP BY amount_currency
ORDER BY amount_currency
`

type SumSuccessfulTransactionsByCurrencyParams struct {
	AccountID    pgtype.Text        `json:"account_id"`
	InvoiceID    pgtype.Text        `json:"invoice_id"`
	CreatedUntil pgtype.Timestamptz `json:"created_until"`
}

type SumSuccessfulTransactionsByCurrencyRow struct {
	AmountCurrency string         `json:"amount_currency"`
	Total          pgtype.Numeric `json:"total"`
}

func (q *Queries) SumSuccessfulTransactionsByCurrency(ctx context.Context, arg SumSuccessfulTransactionsByCurrencyParams) ([]SumSuccessfulTransactionsByCurrencyRow, error) {
	rows, err := q.db.Query(ctx, sumSuccessfulTransactionsByCurrency, arg.AccountID, arg.InvoiceID, arg.CreatedUntil)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SumSuccessfulTransactionsByCurrencyRow
	for rows.Next() {
		var i SumSuccessfulTransactionsByCurrencyRow
		if err := rows.Scan(&i.AmountCurrency, &i.Total); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
