// Package events publishes donation lifecycle events for downstream
// consumers: the notification service turns them into pushes, analytics
// counts them. Delivery is best-effort; the lifecycle transition itself never
// rolls back because publishing failed.
package events

import (
	"context"
	"time"

	id "foodbridge/pkg/domain"
)

// Type enumerates donation lifecycle events.
type Type string

const (
	TypeCreated Type = "donation.created"
	TypeUpdated Type = "donation.updated"
	TypeClaimed Type = "donation.claimed"
	TypePicked  Type = "donation.picked"
	TypeDeleted Type = "donation.deleted"
)

// Event is one lifecycle fact. Keyed by donation so a partitioned log keeps
// per-donation ordering.
type Event struct {
	Type       Type          `json:"type"`
	DonationID id.DonationID `json:"donationId"`
	DonorID    id.DonorID    `json:"donorId"`
	NGOID      *id.NGOID     `json:"ngoId,omitempty"`
	OccurredAt time.Time     `json:"occurredAt"`
}

// Publisher emits lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

// Nop discards events. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close()                               {}
