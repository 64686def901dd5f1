package postgres

import (
	"context"
	"time"

	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/infrastructure/postgres/generated"
	"github.com/iho/gobilling/internal/usecase"
)

// CreditCardRepository implements usecase.CreditCardRepository.
type CreditCardRepository struct {
	queries *generated.Queries
}

// NewCreditCardRepository creates a new CreditCardRepository.
func NewCreditCardRepository(db generated.DBTX) *CreditCardRepository {
	return &CreditCardRepository{
		queries: generated.New(db),
	}
}

// Create inserts a credit card.
func (r *CreditCardRepository) Create(ctx context.Context, tx usecase.Transaction, card *domain.CreditCard) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	err := queries.CreateCreditCard(ctx, generated.CreateCreditCardParams{
		ID:          card.ID,
		AccountID:   card.AccountID,
		Type:        card.Type,
		Number:      card.Number,
		ExpiryMonth: int16(card.ExpiryMonth),
		ExpiryYear:  int16(card.ExpiryYear),
		ExpiryDate:  dateToPgDate(card.ExpiryDate),
		Status:      string(card.Status),
		PspKind:     card.Provider.Kind,
		PspID:       card.Provider.ID,
		CreatedAt:   timeToPgTimestamptz(card.CreatedAt),
		ModifiedAt:  timeToPgTimestamptz(card.ModifiedAt),
	})

	return mapError(err, nil)
}

// GetByID retrieves a credit card by ID.
func (r *CreditCardRepository) GetByID(ctx context.Context, id string) (*domain.CreditCard, error) {
	row, err := r.queries.GetCreditCardByID(ctx, id)
	if err != nil {
		return nil, mapError(err, domain.ErrCreditCardNotFound)
	}

	return rowToCreditCard(row), nil
}

// GetByIDForUpdate retrieves a credit card by ID with a FOR UPDATE lock.
func (r *CreditCardRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.CreditCard, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	row, err := queries.GetCreditCardByIDForUpdate(ctx, id)
	if err != nil {
		return nil, mapError(err, domain.ErrCreditCardNotFound)
	}

	return rowToCreditCard(row), nil
}

// Update writes the expiry and status of a card.
func (r *CreditCardRepository) Update(ctx context.Context, tx usecase.Transaction, card *domain.CreditCard) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	n, err := queries.UpdateCreditCard(ctx, generated.UpdateCreditCardParams{
		ID:          card.ID,
		ExpiryMonth: int16(card.ExpiryMonth),
		ExpiryYear:  int16(card.ExpiryYear),
		ExpiryDate:  dateToPgDate(card.ExpiryDate),
		Status:      string(card.Status),
		ModifiedAt:  timeToPgTimestamptz(card.ModifiedAt),
	})
	if err != nil {
		return mapError(err, nil)
	}
	if n == 0 {
		return domain.ErrCreditCardNotFound
	}

	return nil
}

// ListValid lists the cards of an account expiring on or after asOf.
func (r *CreditCardRepository) ListValid(ctx context.Context, accountID string, asOf time.Time) ([]*domain.CreditCard, error) {
	rows, err := r.queries.ListValidCreditCards(ctx, generated.ListValidCreditCardsParams{
		AccountID:  accountID,
		ExpiryDate: dateToPgDate(asOf),
	})
	if err != nil {
		return nil, err
	}

	return rowsToCreditCards(rows), nil
}

// ListExpiringBefore lists cards expiring strictly before the given date.
func (r *CreditCardRepository) ListExpiringBefore(ctx context.Context, before time.Time, limit, offset int) ([]*domain.CreditCard, error) {
	rows, err := r.queries.ListCreditCardsExpiringBefore(ctx, generated.ListCreditCardsExpiringBeforeParams{
		ExpiryDate: dateToPgDate(before),
		Limit:      int32(limit),
		Offset:     int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToCreditCards(rows), nil
}

func rowsToCreditCards(rows []generated.CreditCard) []*domain.CreditCard {
	cards := make([]*domain.CreditCard, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, rowToCreditCard(row))
	}

	return cards
}

func rowToCreditCard(row generated.CreditCard) *domain.CreditCard {
	return &domain.CreditCard{
		ID:          row.ID,
		AccountID:   row.AccountID,
		Type:        row.Type,
		Number:      row.Number,
		ExpiryMonth: int(row.ExpiryMonth),
		ExpiryYear:  int(row.ExpiryYear),
		ExpiryDate:  domain.DateOf(row.ExpiryDate.Time),
		Status:      domain.CreditCardStatus(row.Status),
		Provider:    domain.ProviderRef{Kind: row.PspKind, ID: row.PspID},
		CreatedAt:   row.CreatedAt.Time,
		ModifiedAt:  row.ModifiedAt.Time,
	}
}
