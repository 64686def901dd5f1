package usecase

import (
	"context"
	"time"

	"github.com/iho/gobilling/internal/domain"
)

// Query methods that accept a Transaction read through it when it is non-nil
// and through the pool otherwise.

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByOwner(ctx context.Context, ownerID string) (*domain.Account, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.AccountStatus, modifiedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListOpenWithUninvoicedCharges(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// ChargeFilter narrows charge queries. Zero fields do not filter.
type ChargeFilter struct {
	AccountID    string
	InvoiceID    string
	Currency     string
	Uninvoiced   bool
	CreatedUntil *time.Time
}

// ChargeRepository defines data access for charges and their product properties.
type ChargeRepository interface {
	Create(ctx context.Context, tx Transaction, charge *domain.Charge) error
	GetByID(ctx context.Context, id string) (*domain.Charge, error)
	List(ctx context.Context, tx Transaction, filter ChargeFilter) ([]*domain.Charge, error)
	// AssignInvoice sets invoice_id on those of chargeIDs that are still
	// uninvoiced and returns how many rows it claimed.
	AssignInvoice(ctx context.Context, tx Transaction, invoiceID string, chargeIDs []string, modifiedAt time.Time) (int64, error)
	SumByCurrency(ctx context.Context, tx Transaction, filter ChargeFilter) (domain.Total, error)
}

// TransactionFilter narrows transaction queries. Zero fields do not filter.
type TransactionFilter struct {
	AccountID      string
	InvoiceID      string
	SuccessfulOnly bool
	CreatedUntil   *time.Time
	Limit          int
	Offset         int
}

// TransactionRepository defines data access for payment transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	List(ctx context.Context, tx Transaction, filter TransactionFilter) ([]*domain.Transaction, error)
	// SumByCurrency only counts successful transactions.
	SumByCurrency(ctx context.Context, tx Transaction, filter TransactionFilter) (domain.Total, error)
}

// InvoiceRepository defines data access for invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, tx Transaction, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Invoice, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.InvoiceStatus, modifiedAt time.Time) error
	ExistsWithStatus(ctx context.Context, tx Transaction, accountID string, status domain.InvoiceStatus) (bool, error)
	ListByStatus(ctx context.Context, statuses []domain.InvoiceStatus, createdBefore *time.Time, limit, offset int) ([]*domain.Invoice, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Invoice, error)
}

// CreditCardRepository defines data access for stored credit cards.
type CreditCardRepository interface {
	Create(ctx context.Context, tx Transaction, card *domain.CreditCard) error
	GetByID(ctx context.Context, id string) (*domain.CreditCard, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.CreditCard, error)
	Update(ctx context.Context, tx Transaction, card *domain.CreditCard) error
	// ListValid returns the cards of accountID whose expiry date is on or after asOf.
	ListValid(ctx context.Context, accountID string, asOf time.Time) ([]*domain.CreditCard, error)
	ListExpiringBefore(ctx context.Context, before time.Time, limit, offset int) ([]*domain.CreditCard, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
	// BeginSnapshot starts a read-only transaction whose reads all observe the
	// same snapshot.
	BeginSnapshot(ctx context.Context) (Transaction, error)
}

// Retrier reruns an operation while it fails with a retryable error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock in UTC.
type SystemClock struct{}

// Now returns time.Now in UTC.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// TotalCache memoizes invoice totals. An invoice total never changes once the
// invoice exists.
type TotalCache interface {
	Get(ctx context.Context, key string) (domain.Total, bool, error)
	Set(ctx context.Context, key string, total domain.Total) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Delete releases key so a later request can claim it again.
	Delete(ctx context.Context, key string) error
}
