package memory

import (
	"context"
	"maps"
	"time"

	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/usecase"
)

// OutboxRepository implements usecase.OutboxRepository.
type OutboxRepository struct {
	store *Store
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(store *Store) *OutboxRepository {
	return &OutboxRepository{store: store}
}

// Create stores an event as part of tx.
func (r *OutboxRepository) Create(_ context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	t, err := r.store.txFrom(tx)
	if err != nil {
		return err
	}

	t.data.outbox[event.ID] = cloneEvent(*event)
	return nil
}

// GetUnpublished returns up to limit unpublished events, oldest first.
func (r *OutboxRepository) GetUnpublished(_ context.Context, limit int) ([]*domain.OutboxEvent, error) {
	out := make([]*domain.OutboxEvent, 0)
	for _, e := range r.store.snapshot().outbox {
		if !e.Published {
			e = cloneEvent(e)
			out = append(out, &e)
		}
	}
	sortByCreated(out, func(e *domain.OutboxEvent) (time.Time, string) { return e.CreatedAt, e.ID })
	return paginate(out, limit, 0), nil
}

// MarkPublished flags an event as delivered.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	return r.store.autocommit(ctx, func(data *tables) error {
		e, ok := data.outbox[id]
		if !ok {
			return nil
		}
		at := publishedAt
		e.Published = true
		e.PublishedAt = &at
		data.outbox[id] = e
		return nil
	})
}

// DeletePublished drops delivered events published before the given time.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	return r.store.autocommit(ctx, func(data *tables) error {
		for id, e := range data.outbox {
			if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
				delete(data.outbox, id)
			}
		}
		return nil
	})
}

func cloneEvent(e domain.OutboxEvent) domain.OutboxEvent {
	e.Payload = maps.Clone(e.Payload)
	if e.PublishedAt != nil {
		at := *e.PublishedAt
		e.PublishedAt = &at
	}
	return e
}
