package postgres

import (
	"context"
	"time"

	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/infrastructure/postgres/generated"
	"github.com/iho/gobilling/internal/usecase"
)

// ChargeRepository implements usecase.ChargeRepository.
type ChargeRepository struct {
	queries *generated.Queries
}

// NewChargeRepository creates a new ChargeRepository.
func NewChargeRepository(db generated.DBTX) *ChargeRepository {
	return &ChargeRepository{
		queries: generated.New(db),
	}
}

// Create inserts a charge together with its product properties.
func (r *ChargeRepository) Create(ctx context.Context, tx usecase.Transaction, charge *domain.Charge) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	err := queries.CreateCharge(ctx, generated.CreateChargeParams{
		ID:             charge.ID,
		AccountID:      charge.AccountID,
		InvoiceID:      textFromPtr(charge.InvoiceID),
		Amount:         decimalToNumeric(charge.Amount.Amount),
		AmountCurrency: charge.Amount.Currency,
		AdHocLabel:     charge.AdHocLabel,
		ProductCode:    charge.ProductCode,
		CreatedAt:      timeToPgTimestamptz(charge.CreatedAt),
		ModifiedAt:     timeToPgTimestamptz(charge.ModifiedAt),
	})
	if err != nil {
		return mapError(err, nil)
	}

	for _, p := range charge.Properties {
		err := queries.CreateProductProperty(ctx, generated.CreateProductPropertyParams{
			ID:         p.ID,
			ChargeID:   charge.ID,
			Name:       p.Name,
			Value:      p.Value,
			CreatedAt:  timeToPgTimestamptz(p.CreatedAt),
			ModifiedAt: timeToPgTimestamptz(p.ModifiedAt),
		})
		if err != nil {
			return mapError(err, nil)
		}
	}

	return nil
}

// GetByID retrieves a charge and its properties by ID.
func (r *ChargeRepository) GetByID(ctx context.Context, id string) (*domain.Charge, error) {
	row, err := r.queries.GetChargeByID(ctx, id)
	if err != nil {
		return nil, mapError(err, domain.ErrChargeNotFound)
	}

	charges := []*domain.Charge{rowToCharge(row)}
	if err := attachProperties(ctx, r.queries, charges); err != nil {
		return nil, err
	}

	return charges[0], nil
}

// List returns matching charges in creation order.
func (r *ChargeRepository) List(ctx context.Context, tx usecase.Transaction, filter usecase.ChargeFilter) ([]*domain.Charge, error) {
	queries := queriesFor(r.queries, tx)

	rows, err := queries.ListCharges(ctx, generated.ListChargesParams{
		AccountID:    textFromString(filter.AccountID),
		InvoiceID:    textFromString(filter.InvoiceID),
		Currency:     textFromString(filter.Currency),
		Uninvoiced:   filter.Uninvoiced,
		CreatedUntil: optionalTimestamptz(filter.CreatedUntil),
	})
	if err != nil {
		return nil, mapError(err, nil)
	}

	charges := make([]*domain.Charge, 0, len(rows))
	for _, row := range rows {
		charges = append(charges, rowToCharge(row))
	}

	if err := attachProperties(ctx, queries, charges); err != nil {
		return nil, err
	}

	return charges, nil
}

// AssignInvoice claims the still uninvoiced charges among chargeIDs for invoiceID.
func (r *ChargeRepository) AssignInvoice(ctx context.Context, tx usecase.Transaction, invoiceID string, chargeIDs []string, modifiedAt time.Time) (int64, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	n, err := queries.AssignChargesToInvoice(ctx, generated.AssignChargesToInvoiceParams{
		InvoiceID:  textFromString(invoiceID),
		ModifiedAt: timeToPgTimestamptz(modifiedAt),
		ChargeIds:  chargeIDs,
	})
	if err != nil {
		return 0, mapError(err, nil)
	}

	return n, nil
}

// SumByCurrency totals matching charges per currency.
func (r *ChargeRepository) SumByCurrency(ctx context.Context, tx usecase.Transaction, filter usecase.ChargeFilter) (domain.Total, error) {
	rows, err := queriesFor(r.queries, tx).SumChargesByCurrency(ctx, generated.SumChargesByCurrencyParams{
		AccountID:    textFromString(filter.AccountID),
		InvoiceID:    textFromString(filter.InvoiceID),
		Currency:     textFromString(filter.Currency),
		Uninvoiced:   filter.Uninvoiced,
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

func attachProperties(ctx context.Context, queries *generated.Queries, charges []*domain.Charge) error {
	if len(charges) == 0 {
		return nil
	}

	ids := make([]string, len(charges))
	byID := make(map[string]*domain.Charge, len(charges))
	for i, c := range charges {
		ids[i] = c.ID
		byID[c.ID] = c
	}

	rows, err := queries.ListPropertiesByChargeIDs(ctx, ids)
	if err != nil {
		return mapError(err, nil)
	}

	for _, row := range rows {
		c, ok := byID[row.ChargeID]
		if !ok {
			continue
		}
		c.Properties = append(c.Properties, domain.ProductProperty{
			ID:         row.ID,
			ChargeID:   row.ChargeID,
			Name:       row.Name,
			Value:      row.Value,
			CreatedAt:  row.CreatedAt.Time,
			ModifiedAt: row.ModifiedAt.Time,
		})
	}

	return nil
}

func rowToCharge(row generated.Charge) *domain.Charge {
	return &domain.Charge{
		ID:          row.ID,
		AccountID:   row.AccountID,
		InvoiceID:   textToPtr(row.InvoiceID),
		Amount:      numericToMoney(row.Amount, row.AmountCurrency),
		AdHocLabel:  row.AdHocLabel,
		ProductCode: row.ProductCode,
		CreatedAt:   row.CreatedAt.Time,
		ModifiedAt:  row.ModifiedAt.Time,
	}
}
