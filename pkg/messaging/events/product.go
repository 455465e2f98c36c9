// Package events holds the product lifecycle events published to the message bus.
package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/tienda/pkg/messaging"
	"go.opentelemetry.io/otel/propagation"
)

// ProductEvent is the payload of every product lifecycle event.
// Carrier holds the trace context of the request that caused it.
type ProductEvent struct {
	Carrier    propagation.MapCarrier `json:"carrier,omitempty"`
	ProductID  int32                  `json:"product_id"`
	Size       string                 `json:"size,omitempty"`
	Color      string                 `json:"color,omitempty"`
	Price      string                 `json:"price,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

type ProductCreatedEvent struct {
	ProductEvent
}

func (e ProductCreatedEvent) Subject() string {
	return messaging.ProductsCreatedSubject
}

func (e ProductCreatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

type ProductUpdatedEvent struct {
	ProductEvent
}

func (e ProductUpdatedEvent) Subject() string {
	return messaging.ProductsUpdatedSubject
}

func (e ProductUpdatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

type ProductDeletedEvent struct {
	ProductEvent
}

func (e ProductDeletedEvent) Subject() string {
	return messaging.ProductsDeletedSubject
}

func (e ProductDeletedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
