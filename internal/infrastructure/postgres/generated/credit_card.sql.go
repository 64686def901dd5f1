package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createCreditCard = `-- name: CreateCreditCard :exec
INSERT INTO credit_cards (id, account_id, type, number, expiry_month, expiry_year, expiry_date, status, psp_kind, psp_id, created_at, modified_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

type CreateCreditCardParams struct {
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

func (q *Queries) CreateCreditCard(ctx context.Context, arg CreateCreditCardParams) error {
	_, err := q.db.Exec(ctx, createCreditCard,
		arg.ID,
		arg.AccountID,
		arg.Type,
		arg.Number,
		arg.ExpiryMonth,
		arg.ExpiryYear,
		arg.ExpiryDate,
		arg.Status,
		arg.PspKind,
		arg.PspID,
		arg.CreatedAt,
		arg.ModifiedAt,
	)
	return err
}

const getCreditCardByID = `-- name: GetCreditCardByID :one
SELECT id, account_id, type, number, expiry_month, expiry_year, expiry_date, status, psp_kind, psp_id, created_at, modified_at
FROM credit_cards WHERE id = $1
`

func (q *Queries) GetCreditCardByID(ctx context.Context, id string) (CreditCard, error) {
	row := q.db.QueryRow(ctx, getCreditCardByID, id)
	var i CreditCard
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.Type,
		&i.Number,
		&i.ExpiryMonth,
		&i.ExpiryYear,
		&i.ExpiryDate,
		&i.Status,
		&i.PspKind,
		&i.PspID,
		&i.CreatedAt,
		&i.ModifiedAt,
	)
	return i, err
}

const getCreditCardByIDForUpdate = `-- name: GetCreditCardByIDForUpdate :one
SELECT id, account_id, type, number, expiry_month, expiry_year, expiry_date, status, psp_kind, psp_id, created_at, modified_at
FROM credit_cards WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetCreditCardByIDForUpdate(ctx context.Context, id string) (CreditCard, error) {
	row := q.db.QueryRow(ctx, getCreditCardByIDForUpdate, id)
	var i CreditCard
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.Type,
		&i.Number,
		&i.ExpiryMonth,
		&i.ExpiryYear,
		&i.ExpiryDate,
		&i.Status,
		&i.PspKind,
		&i.PspID,
		&i.CreatedAt,
		&i.ModifiedAt,
	)
	return i, err
}

const listCreditCardsExpiringBefore = `-- name: ListCreditCardsExpiringBefore :many
SELECT id, account_id, type, number, expiry_month, expiry_year, expiry_date, status, psp_kind, psp_id, created_at, modified_at
FROM credit_cards
WHERE expiry_date < $1
ORDER BY created_at, id
LIMIT $2 OFFSET $3
`

type ListCreditCardsExpiringBeforeParams struct {
	ExpiryDate pgtype.Date `json:"expiry_date"`
	Limit      int32       `json:"limit"`
	Offset     int32       `json:"offset"`
}

func (q *Queries) ListCreditCardsExpiringBefore(ctx context.Context, arg ListCreditCardsExpiringBeforeParams) ([]CreditCard, error) {
	rows, err := q.db.Query(ctx, listCreditCardsExpiringBefore, arg.ExpiryDate, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CreditCard
	for rows.Next() {
		var i CreditCard
		if err := rows.Scan(
			&i.ID,
			&i.AccountID,
			&i.Type,
			&i.Number,
			&i.ExpiryMonth,
			&i.ExpiryYear,
			&i.ExpiryDate,
			&i.Status,
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

const listValidCreditCards = `-- name: ListValidCreditCards :many
SELECT id, account_id, type, number, expiry_month, expiry_year, expiry_date, status, psp_kind, psp_id, created_at, modified_at
FROM credit_cards
WHERE account_id = $1 AND expiry_date >= $2
ORDER BY created_at, id
`

type ListValidCreditCardsParams struct {
	AccountID  string      `json:"account_id"`
	ExpiryDate pgtype.Date `json:"expiry_date"`
}

func (q *Queries) ListValidCreditCards(ctx context.Context, arg ListValidCreditCardsParams) ([]CreditCard, error) {
	rows, err := q.db.Query(ctx, listValidCreditCards, arg.AccountID, arg.ExpiryDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CreditCard
	for rows.Next() {
		var i CreditCard
		if err := rows.Scan(
			&i.ID,
			&i.AccountID,
			&i.Type,
			&i.Number,
			&i.ExpiryMonth,
			&i.ExpiryYear,
			&i.ExpiryDate,
			&i.Status,
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

const updateCreditCard = `-- name: UpdateCreditCard :execrows
UPDATE credit_cards
SET expiry_month = $2, expiry_year = $3, expiry_date = $4, status = $5, modified_at = $6
WHERE id = $1
`

type UpdateCreditCardParams struct {
	ID          string             `json:"id"`
	ExpiryMonth int16              `json:"expiry_month"`
	ExpiryYear  int16              `json:"expiry_year"`
	ExpiryDate  pgtype.Date        `json:"expiry_date"`
	Status      string             `json:"status"`
	ModifiedAt  pgtype.Timestamptz `json:"modified_at"`
}

func (q *Queries) UpdateCreditCard(ctx context.Context, arg UpdateCreditCardParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateCreditCard,
		arg.ID,
		arg.ExpiryMonth,
		arg.ExpiryYear,
		arg.ExpiryDate,
		arg.Status,
		arg.ModifiedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
