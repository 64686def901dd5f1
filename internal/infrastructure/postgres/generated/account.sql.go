package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createAccount = `-- name: CreateAccount :exec
INSERT INTO accounts (id, owner_id, currency, status, created_at, modified_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

type CreateAccountParams struct {
	ID         string             `json:"id"`
	OwnerID    string             `json:"owner_id"`
	Currency   string             `json:"currency"`
	Status     string             `json:"status"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
	ModifiedAt pgtype.Timestamptz `json:"modified_at"`
}

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) error {
	_, err := q.db.Exec(ctx, createAccount,
		arg.ID,
		arg.OwnerID,
		arg.Currency,
		arg.Status,
		arg.CreatedAt,
		arg.ModifiedAt,
	)
	return err
}

const getAccountByID = `-- name: GetAccountByID :one
SELECT id, owner_id, currency, status, created_at, modified_at FROM accounts WHERE id = $1
`

func (q *Queries) GetAccountByID(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByID, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Currency,
		&i.Status,
		&i.CreatedAt,
		&i.ModifiedAt,
	)
	return i, err
}

const getAccountByIDForUpdate = `-- name: GetAccountByIDForUpdate :one
SELECT id, owner_id, currency, status, created_at, modified_at FROM accounts WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetAccountByIDForUpdate(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByIDForUpdate, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Currency,
		&i.Status,
		&i.CreatedAt,
		&i.ModifiedAt,
	)
	return i, err
}

const getAccountByOwner = `-- name: GetAccountByOwner :one
SELECT id, owner_id, currency, status, created_at, modified_at FROM accounts WHERE owner_id = $1
`

func (q *Queries) GetAccountByOwner(ctx context.Context, ownerID string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByOwner, ownerID)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Currency,
		&i.Status,
		&i.CreatedAt,
		&i.ModifiedAt,
	)
	return i, err
}

const listAccounts = `-- name: ListAccounts :many
SELECT id, owner_id, currency, status, created_at, modified_at FROM accounts
ORDER BY created_at, id
LIMIT $1 OFFSET $2
`

type ListAccountsParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListAccounts(ctx context.Context, arg ListAccountsParams) ([]Account, error) {
	rows, err := q.db.Query(ctx, listAccounts, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.OwnerID,
			&i.Currency,
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

const listOpenAccountsWithUninvoicedCharges = `-- name: ListOpenAccountsWithUninvoicedCharges :many
SELECT a.id, a.owner_id, a.currency, a.status, a.created_at, a.modified_at FROM accounts a
WHERE a.status = 'OPEN'
  AND EXISTS (SELECT 1 FROM charges c WHERE c.account_id = a.id AND c.invoice_id IS NULL)
ORDER BY a.created_at, a.id
LIMIT $1 OFFSET $2
`

type ListOpenAccountsWithUninvoicedChargesParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListOpenAccountsWithUninvoicedCharges(ctx context.Context, arg ListOpenAccountsWithUninvoicedChargesParams) ([]Account, error) {
	rows, err := q.db.Query(ctx, listOpenAccountsWithUninvoicedCharges, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.OwnerID,
			&i.Currency,
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

const updateAccountStatus = `-- name: UpdateAccountStatus :execrows
UPDATE accounts SET status = $2, modified_at = $3 WHERE id = $1
`

type UpdateAccountStatusParams struct {
	ID         string             `json:"id"`
	Status     string             `json:"status"`
	ModifiedAt pgtype.Timestamptz `json:"modified_at"`
}

func (q *Queries) UpdateAccountStatus(ctx context.Context, arg UpdateAccountStatusParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateAccountStatus, arg.ID, arg.Status, arg.ModifiedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
