// Package models defines outbox entries: messages written in the same
// transaction as the state change they announce, and published later.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Melding is one outbox entry.
type Melding struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       json.RawMessage
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Attempts      int
	NextAttemptAt time.Time
	LastError     string
}

// NyMelding encodes payload and builds an entry that is due immediately.
func NyMelding(aggregateType, aggregateID, eventType, topic string, payload any, now time.Time) (*Melding, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal outbox payload: %w", err)
	}
	now = now.UTC()
	return &Melding{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       raw,
		CreatedAt:     now,
		NextAttemptAt: now,
	}, nil
}

// Headers are attached to the published record.
func (m *Melding) Headers() map[string]string {
	return map[string]string{
		"event-type":     m.EventType,
		"aggregate-type": m.AggregateType,
		"outbox-id":      m.ID.String(),
	}
}
