package memory

import (
	"context"
	"time"

	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/usecase"
)

// CreditCardRepository implements usecase.CreditCardRepository.
type CreditCardRepository struct {
	store *Store
}

// NewCreditCardRepository creates a new CreditCardRepository.
func NewCreditCardRepository(store *Store) *CreditCardRepository {
	return &CreditCardRepository{store: store}
}

// Create stores a card.
func (r *CreditCardRepository) Create(_ context.Context, tx usecase.Transaction, card *domain.CreditCard) error {
	t, err := r.store.txFrom(tx)
	if err != nil {
		return err
	}

	if _, ok := t.data.accounts[card.AccountID]; !ok {
		return domain.ErrAccountNotFound
	}

	t.data.cards[card.ID] = *card
	return nil
}

// GetByID retrieves a card by ID.
func (r *CreditCardRepository) GetByID(_ context.Context, id string) (*domain.CreditCard, error) {
	return getCard(r.store.snapshot(), id)
}

// GetByIDForUpdate retrieves a card inside a transaction.
func (r *CreditCardRepository) GetByIDForUpdate(_ context.Context, tx usecase.Transaction, id string) (*domain.CreditCard, error) {
	t, err := r.store.txFrom(tx)
	if err != nil {
		return nil, err
	}
	return getCard(t.data, id)
}

func getCard(data *tables, id string) (*domain.CreditCard, error) {
	c, ok := data.cards[id]
	if !ok {
		return nil, domain.ErrCreditCardNotFound
	}
	return &c, nil
}

// Update replaces the mutable fields of a card.
func (r *CreditCardRepository) Update(_ context.Context, tx usecase.Transaction, card *domain.CreditCard) error {
	t, err := r.store.txFrom(tx)
	if err != nil {
		return err
	}

	c, ok := t.data.cards[card.ID]
	if !ok {
		return domain.ErrCreditCardNotFound
	}
	c.ExpiryMonth = card.ExpiryMonth
	c.ExpiryYear = card.ExpiryYear
	c.ExpiryDate = card.ExpiryDate
	c.Status = card.Status
	c.ModifiedAt = card.ModifiedAt
	t.data.cards[card.ID] = c
	return nil
}

// ListValid lists the cards of an account expiring on or after asOf.
func (r *CreditCardRepository) ListValid(_ context.Context, accountID string, asOf time.Time) ([]*domain.CreditCard, error) {
	return r.list(func(c domain.CreditCard) bool {
		return c.AccountID == accountID && !c.ExpiryDate.Before(asOf)
	}, 0, 0), nil
}

// ListExpiringBefore lists cards expiring strictly before the given date.
func (r *CreditCardRepository) ListExpiringBefore(_ context.Context, before time.Time, limit, offset int) ([]*domain.CreditCard, error) {
	return r.list(func(c domain.CreditCard) bool { return c.ExpiryDate.Before(before) }, limit, offset), nil
}

func (r *CreditCardRepository) list(keep func(domain.CreditCard) bool, limit, offset int) []*domain.CreditCard {
	out := make([]*domain.CreditCard, 0)
	for _, c := range r.store.snapshot().cards {
		if keep(c) {
			out = append(out, &c)
		}
	}
	sortByCreated(out, func(c *domain.CreditCard) (time.Time, string) { return c.CreatedAt, c.ID })
	return paginate(out, limit, offset)
}
