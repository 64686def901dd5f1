package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const assignChargesToInvoice = `-- name: AssignChargesToInvoice :execrows
UPDATE charges SET invoice_id = $1, modified_at = $2
WHERE id = ANY($3::text[]) AND invoice_id IS NULL
`

type AssignChargesToInvoiceParams struct {
	InvoiceID  pgtype.Text        `json:"invoice_id"`
	ModifiedAt pgtype.Timestamptz `json:"modified_at"`
	ChargeIds  []string           `json:"charge_ids"`
}

func (q *Queries) AssignChargesToInvoice(ctx context.Context, arg AssignChargesToInvoiceParams) (int64, error) {
	result, err := q.db.Exec(ctx, assignChargesToInvoice, arg.InvoiceID, arg.ModifiedAt, arg.ChargeIds)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const createCharge = `-- name: CreateCharge :exec
INSERT INTO charges (id, account_id, invoice_id, amount, amount_currency, ad_hoc_label, product_code, created_at, modified_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

type CreateChargeParams struct {
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

func (q *Queries) CreateCharge(ctx context.Context, arg CreateChargeParams) error {
	_, err := q.db.Exec(ctx, createCharge,
		arg.ID,
		arg.AccountID,
		arg.InvoiceID,
		arg.Amount,
		arg.AmountCurrency,
		arg.AdHocLabel,
		arg.ProductCode,
		arg.CreatedAt,
		arg.ModifiedAt,
	)
	return err
}

const createProductProperty = `-- name: CreateProductProperty :exec
INSERT INTO product_properties (id, charge_id, name, value, created_at, modified_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

type CreateProductPropertyParams struct {
	ID         string             `json:"id"`
	ChargeID   string             `json:"charge_id"`
	Name       string             `json:"name"`
	Value      string             `json:"value"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
	ModifiedAt pgtype.Timestamptz `json:"modified_at"`
}

func (q *Queries) CreateProductProperty(ctx context.Context, arg CreateProductPropertyParams) error {
	_, err := q.db.Exec(ctx, createProductProperty,
		arg.ID,
		arg.ChargeID,
		arg.Name,
		arg.Value,
		arg.CreatedAt,
		arg.ModifiedAt,
	)
	return err
}

const getChargeByID = `-- name: GetChargeByID :one
SELECT id, account_id, invoice_id, amount, amount_currency, ad_hoc_label, product_code, created_at, modified_at
FROM charges WHERE id = $1
`

func (q *Queries) GetChargeByID(ctx context.Context, id string) (Charge, error) {
	row := q.db.QueryRow(ctx, getChargeByID, id)
	var i Charge
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.InvoiceID,
		&i.Amount,
		&i.AmountCurrency,
		&i.AdHocLabel,
		&i.ProductCode,
		&i.CreatedAt,
		&i.ModifiedAt,
	)
	return i, err
}

const listCharges = `-- name: ListCharges :many
SELECT id, account_id, invoice_id, amount, amount_currency, ad_hoc_label, product_code, created_at, modified_at
FROM charges
WHERE ($1::text IS NULL OR account_id = $1)
  AND ($2::text IS NULL OR invoice_id = $2)
  AND ($3::text IS NULL OR amount_currency = $3)
  AND (NOT $4::boolean OR invoice_id IS NULL)
  AND ($5::timestamptz IS NULL OR created_at <= $5)
ORDER BY created_at, id
`

type ListChargesParams struct {
	AccountID    pgtype.Text        `json:"account_id"`
	InvoiceID    pgtype.Text        `json:"invoice_id"`
	Currency     pgtype.Text        `json:"currency"`
	Uninvoiced   bool               `json:"uninvoiced"`
	CreatedUntil pgtype.Timestamptz `json:"created_until"`
}

func (q *Queries) ListCharges(ctx context.Context, arg ListChargesParams) ([]Charge, error) {
	rows, err := q.db.Query(ctx, listCharges,
		arg.AccountID,
		arg.InvoiceID,
		arg.Currency,
		arg.Uninvoiced,
		arg.CreatedUntil,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Charge
	for rows.Next() {
		var i Charge
		if err := rows.Scan(
			&i.ID,
			&i.AccountID,
			&i.InvoiceID,
			&i.Amount,
			&i.AmountCurrency,
			&i.AdHocLabel,
			&i.ProductCode,
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

const listPropertiesByChargeIDs = `-- name: ListPropertiesByChargeIDs :many
SELECT id, charge_id, name, value, created_at, modified_at FROM product_properties
WHERE charge_id = ANY($1::text[])
ORDER BY charge_id, created_at, name
`

func (q *Queries) ListPropertiesByChargeIDs(ctx context.Context, chargeIds []string) ([]ProductProperty, error) {
	rows, err := q.db.Query(ctx, listPropertiesByChargeIDs, chargeIds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ProductProperty
	for rows.Next() {
		var i ProductProperty
		if err := rows.Scan(
			&i.ID,
			&i.ChargeID,
			&i.Name,
			&i.Value,
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

const sumChargesByCurrency = `-- name: SumChargesByCurrency :many
SELECT amount_currency, SUM(amount)::numeric AS total
FROM charges
WHERE ($1::text IS NULL OR account_id = $1)
  AND ($2::text IS NULL OR invoice_id = $2)
  AND ($3::text IS NULL OR amount_currency = $3)
  AND (NOT $4::boolean OR invoice_id IS NULL)
  AND ($5::timestamptz IS NULL OR created_at <= $5)
GROUP BY amount_currency
ORDER BY amount_currency
`

type SumChargesByCurrencyParams struct {
	AccountID    pgtype.Text        `json:"account_id"`
	InvoiceID    pgtype.Text        `json:"invoice_id"`
	Currency     pgtype.Text        `json:"currency"`
	Uninvoiced   bool               `json:"uninvoiced"`
	CreatedUntil pgtype.Timestamptz `json:"created_until"`
}

type SumChargesByCurrencyRow struct {
	AmountCurrency string         `json:"amount_currency"`
	Total          pgtype.Numeric `json:"total"`
}

func (q *Queries) SumChargesByCurrency(ctx context.Context, arg SumChargesByCurrencyParams) ([]SumChargesByCurrencyRow, error) {
	rows, err := q.db.Query(ctx, sumChargesByCurrency,
		arg.AccountID,
		arg.InvoiceID,
		arg.Currency,
		arg.Uninvoiced,
		arg.CreatedUntil,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SumChargesByCurrencyRow
	for rows.Next() {
		var i SumChargesByCurrencyRow
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
