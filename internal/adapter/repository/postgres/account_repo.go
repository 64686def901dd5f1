package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/infrastructure/postgres/generated"
	"github.com/iho/gobilling/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{
		queries: generated.New(db),
	}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	err := queriesFor(r.queries, tx).CreateAccount(ctx, generated.CreateAccountParams{
		ID:         account.ID,
		OwnerID:    account.OwnerID,
		Currency:   account.Currency,
		Status:     string(account.Status),
		CreatedAt:  timeToPgTimestamptz(account.CreatedAt),
		ModifiedAt: timeToPgTimestamptz(account.ModifiedAt),
	})

	return mapError(err, nil)
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		return nil, mapError(err, domain.ErrAccountNotFound)
	}

	return rowToAccount(row), nil
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	row, err := queries.GetAccountByIDForUpdate(ctx, id)
	if err != nil {
		return nil, mapError(err, domain.ErrAccountNotFound)
	}

	return rowToAccount(row), nil
}

// GetByOwner retrieves the account held by an owner.
func (r *AccountRepository) GetByOwner(ctx context.Context, ownerID string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByOwner(ctx, ownerID)
	if err != nil {
		return nil, mapError(err, domain.ErrAccountNotFound)
	}

	return rowToAccount(row), nil
}

// UpdateStatus sets the status of an account.
func (r *AccountRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.AccountStatus, modifiedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	n, err := queries.UpdateAccountStatus(ctx, generated.UpdateAccountStatusParams{
		ID:         id,
		Status:     string(status),
		ModifiedAt: timeToPgTimestamptz(modifiedAt),
	})
	if err != nil {
		return mapError(err, nil)
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List lists accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToAccounts(rows), nil
}

// ListOpenWithUninvoicedCharges lists open accounts with at least one uninvoiced charge.
func (r *AccountRepository) ListOpenWithUninvoicedCharges(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListOpenAccountsWithUninvoicedCharges(ctx, generated.ListOpenAccountsWithUninvoicedChargesParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToAccounts(rows), nil
}

func rowsToAccounts(rows []generated.Account) []*domain.Account {
	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:         row.ID,
		OwnerID:    row.OwnerID,
		Currency:   row.Currency,
		Status:     domain.AccountStatus(row.Status),
		CreatedAt:  row.CreatedAt.Time,
		ModifiedAt: row.ModifiedAt.Time,
	}
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func numericToMoney(n pgtype.Numeric, currency string) domain.Money {
	return domain.Money{
		Amount:   numericToDecimal(n).Round(domain.MoneyScale),
		Currency: currency,
	}
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func optionalTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return timeToPgTimestamptz(*t)
}

func dateToPgDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: domain.DateOf(t), Valid: true}
}

func textFromString(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func textFromPtr(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func textToPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}
