package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/infrastructure/postgres/generated"
	"github.com/iho/gobilling/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{
		queries: generated.New(db),
	}
}

// Create inserts a transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, transaction *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	err := queries.CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:               transaction.ID,
		AccountID:        transaction.AccountID,
		InvoiceID:        textFromPtr(transaction.InvoiceID),
		Amount:           decimalToNumeric(transaction.Amount.Amount),
		AmountCurrency:   transaction.Amount.Currency,
		Success:          transaction.Success,
		PaymentMethod:    transaction.PaymentMethod,
		CreditCardNumber: transaction.CreditCardNumber,
		PspKind:          transaction.Provider.Kind,
		PspID:            transaction.Provider.ID,
		CreatedAt:        timeToPgTimestamptz(transaction.CreatedAt),
		ModifiedAt:       timeToPgTimestamptz(transaction.ModifiedAt),
	})

	return mapError(err, nil)
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row, err := r.queries.GetTransactionByID(ctx, id)
	if err != nil {
		return nil, mapError(err, domain.ErrTransactionNotFound)
	}

	return rowToTransaction(row), nil
}

// List returns matching transactions in creation order. A zero limit returns all.
func (r *TransactionRepository) List(ctx context.Context, tx usecase.Transaction, filter usecase.TransactionFilter) ([]*domain.Transaction, error) {
	var limit pgtype.Int4
	if filter.Limit > 0 {
		limit = pgtype.Int4{Int32: int32(filter.Limit), Valid: true}
	}

	rows, err := queriesFor(r.queries, tx).ListTransactions(ctx, generated.ListTransactionsParams{
		AccountID:      textFromString(filter.AccountID),
		InvoiceID:      textFromString(filter.InvoiceID),
		SuccessfulOnly: filter.SuccessfulOnly,
		CreatedUntil:   optionalTimestamptz(filter.CreatedUntil),
		Limit:          limit,
		Offset:         int32(filter.Offset),
	})
	if err != nil {
		return nil, mapError(err, nil)
	}

	transactions := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, rowToTransaction(row))
	}

	return transactions, nil
}

// SumByCurrency totals matching successful transactions per currency.
func (r *TransactionRepository) SumByCurrency(ctx context.Context, tx usecase.Transaction, filter usecase.TransactionFilter) (domain.Total, error) {
	rows, err := queriesFor(r.queries, tx).SumSuccessfulTransactionsByCurrency(ctx, generated.SumSuccessfulTransactionsByCurrencyParams{
		AccountID:    textFromString(filter.AccountID),
		InvoiceID:    textFromString(filter.InvoiceID),
		CreatedUntil: optionalTimestamptz(filter.CreatedUntil),
	})
	if err != nil {
		return domain.Total{}, mapError(err, nil)
	}

	total := domain.NewTotal()
	for _, row := range rows {
		total = total.AddMoney(numericToMoney(row.Total, row.AmountCurrency))
	}

	return total, nil
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:               row.ID,
		AccountID:        row.AccountID,
		InvoiceID:        textToPtr(row.InvoiceID),
		Amount:           numericToMoney(row.Amount, row.AmountCurrency),
		Success:          row.Success,
		PaymentMethod:    row.PaymentMethod,
		CreditCardNumber: row.CreditCardNumber,
		Provider:         domain.ProviderRef{Kind: row.PspKind, ID: row.PspID},
		CreatedAt:        row.CreatedAt.Time,
		ModifiedAt:       row.ModifiedAt.Time,
	}
}
