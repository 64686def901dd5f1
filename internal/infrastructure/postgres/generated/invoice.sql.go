package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createInvoice = `-- name: CreateInvoice :exec
INSERT INTO invoices (id, account_id, status, created_at, modified_at)
VALUES ($1, $2, $3, $4, $5)
`

type CreateInvoiceParams struct {
	ID         string             `json:"id"`
	AccountID  string             `json:"account_id"`
	Status     string             `json:"status"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
	ModifiedAt pgtype.Timestamptz `json:"modified_at"`
}

func (q *Queries) CreateInvoice(ctx context.Context, arg CreateInvoiceParams) error {
	_, err := q.db.Exec(ctx, createInvoice,
		arg.ID,
		arg.AccountID,
		arg.Status,
		arg.CreatedAt,
		arg.ModifiedAt,
	)
	return err
}

const getInvoiceByID = `-- name: GetInvoiceByID :one
SELECT id, account_id, status, created_at, modified_at FROM invoices WHERE id = $1
`

func (q *Queries) GetInvoiceByID(ctx context.Context, id string) (Invoice, error) {
	row := q.db.QueryRow(ctx, getInvoiceByID, id)
	var i Invoice
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.Status,
		&i.CreatedAt,
		&i.ModifiedAt,
	)
	return i, err
}

const getInvoiceByIDForUpdate = `-- name: GetInvoiceByIDForUpdate :one
SELECT id, account_id, status, created_at, modified_at FROM invoices WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetInvoiceByIDForUpdate(ctx context.Context, id string) (Invoice, error) {
	row := q.db.QueryRow(ctx, getInvoiceByIDForUpdate, id)
	var i Invoice
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.Status,
		&i.CreatedAt,
		&i.ModifiedAt,
	)
	return i, err
}

const invoiceExistsWithStatus = `-- name: InvoiceExistsWithStatus :one
SELECT EXISTS (SELECT 1 FROM invoices WHERE account_id = $1 AND status = $2)
`

type InvoiceExistsWithStatusParams struct {
	AccountID string `json:"account_id"`
	Status    string `json:"status"`
}

func (q *Queries) InvoiceExistsWithStatus(ctx context.Context, arg InvoiceExistsWithStatusParams) (bool, error) {
	row := q.db.QueryRow(ctx, invoiceExistsWithStatus, arg.AccountID, arg.Status)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listInvoicesByAccount = `-- name: ListInvoicesByAccount :many
SELECT id, account_id, status, created_at, modified_at FROM invoices
WHERE account_id = $1
ORDER BY created_at, id
LIMIT $2 OFFSET $3
`

type ListInvoicesByAccountParams struct {
	AccountID string `json:"account_id"`
	Limit     int32  `json:"limit"`
	Offset    int32  `json:"offset"`
}

func (q *Queries) ListInvoicesByAccount(ctx context.Context, arg ListInvoicesByAccountParams) ([]Invoice, error) {
	rows, err := q.db.Query(ctx, listInvoicesByAccount, arg.AccountID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Invoice
	for rows.Next() {
		var i Invoice
		if err := rows.Scan(
			&i.ID,
			&i.AccountID,
			&i.Status,
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

const listInvoicesByStatus = `-- name: ListInvoicesByStatus :many
SELECT id, account_id, status, created_at, modified_at FROM invoices
WHERE status = ANY($1::text[])
  AND ($2::timestamptz IS NULL OR created_at < $2)
ORDER BY created_at, id
LIMIT $3 OFFSET $4
`

type ListInvoicesByStatusParams struct {
	Statuses      []string           `json:"statuses"`
	CreatedBefore pgtype.Timestamptz `json:"created_before"`
	Limit         int32              `json:"limit"`
	Offset        int32              `json:"offset"`
}

func (q *Queries) ListInvoicesByStatus(ctx context.Context, arg ListInvoicesByStatusParams) ([]Invoice, error) {
	rows, err := q.db.Query(ctx, listInvoicesByStatus,
		arg.Statuses,
		arg.CreatedBefore,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Invoice
	for rows.Next() {
		var i Invoice
		if err := rows.Scan(
			&i.ID,
			&i.AccountID,
			&i.Status,
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

const updateInvoiceStatus = `-- name: UpdateInvoiceStatus :execrows
UPDATE invoices SET status = $2, modified_at = $3 WHERE id = $1
`

type UpdateInvoiceStatusParams struct {
	ID         string             `json:"id"`
	Status     string             `json:"status"`
	ModifiedAt pgtype.Timestamptz `json:"modified_at"`
}

func (q *Queries) UpdateInvoiceStatus(ctx context.Context, arg UpdateInvoiceStatusParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateInvoiceStatus, arg.ID, arg.Status, arg.ModifiedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
