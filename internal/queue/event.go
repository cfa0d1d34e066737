// Package queue defines the villa change notifications exchanged over
// RabbitMQ, the publisher used by the service and the consumer that keeps
// an append-only log of them.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// VillaQueueName is the durable queue carrying VillaChangedEvent messages.
const VillaQueueName = "villa.changed"

const (
	EventVillaCreated = "villa.created"
	EventVillaUpdated = "villa.updated"
	EventVillaDeleted = "villa.deleted"
)

// VillaChangedEvent is published after a villa is created, replaced,
// patched or deleted.
type VillaChangedEvent struct {
	ID         string `json:"id"`
	Event      string `json:"event"`
	VillaID    int64  `json:"villa_id"`
	Nombre     string `json:"nombre"`
	OccurredAt string `json:"occurred_at"`
}

func NewVillaChangedEvent(kind string, villaID int64, nombre string, at time.Time) VillaChangedEvent {
	return VillaChangedEvent{
		ID:         uuid.NewString(),
		Event:      kind,
		VillaID:    villaID,
		Nombre:     nombre,
		OccurredAt: at.UTC().Format(time.RFC3339),
	}
}
