package usecase

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/iho/gobilling/internal/domain"
)

// newOutboxEvent builds an unpublished event whose payload is the JSON object
// form of payload.
func newOutboxEvent(idGen IDGenerator, aggregateType, aggregateID, eventType string, payload any, now time.Time) (*domain.OutboxEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", eventType, err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", eventType, err)
	}

	return &domain.OutboxEvent{
		ID:            idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       fields,
		CreatedAt:     now,
		Published:     false,
	}, nil
}

func totalPayload(t domain.Total) map[string]string {
	out := make(map[string]string, t.Len())
	for _, m := range t.Monies() {
		out[m.Currency] = m.Amount.StringFixed(domain.MoneyScale)
	}
	return out
}
