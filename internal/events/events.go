// Package events publishes domain events about recorded orders.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"spicedums/internal/model"
)

const (
	EventOrderRecorded = "OrderRecorded"

	producerName = "spicedums"
)

// Envelope is the wire format of every event (version 1).
type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	Key          string          `json:"-"`
	Payload      json.RawMessage `json:"payload"`
}

type OrderItemPayload struct {
	ProductID uint            `json:"product_id"`
	Qty       int             `json:"qty"`
	Price     decimal.Decimal `json:"price"`
	Cost      decimal.Decimal `json:"cost"`
}

type OrderRecordedPayload struct {
	OrderID uint               `json:"order_id"`
	UserID  *uint              `json:"user_id"`
	Total   decimal.Decimal    `json:"total"`
	Items   []OrderItemPayload `json:"items"`
}

// Publisher sends envelopes somewhere. Implementations must not block checkout.
type Publisher interface {
	Publish(ctx context.Context, ev Envelope) error
	Close() error
}

// NewOrderRecorded builds the event for a freshly committed order, keyed by order id.
func NewOrderRecorded(order *model.Order) (Envelope, error) {
	payload := OrderRecordedPayload{
		OrderID: order.ID,
		UserID:  order.UserID,
		Total:   order.Total,
		Items:   make([]OrderItemPayload, 0, len(order.Items)),
	}
	for _, it := range order.Items {
		payload.Items = append(payload.Items, OrderItemPayload{
			ProductID: it.ProductID,
			Qty:       it.Qty,
			Price:     it.Price,
			Cost:      it.Cost,
		})
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	occurred := order.CreatedAt
	if occurred.IsZero() {
		occurred = time.Now()
	}
	return Envelope{
		EventID:      uuid.NewString(),
		EventType:    EventOrderRecorded,
		EventVersion: 1,
		OccurredAt:   occurred.UTC(),
		Producer:     producerName,
		Key:          strconv.FormatUint(uint64(order.ID), 10),
		Payload:      raw,
	}, nil
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Envelope) error { return nil }
func (Noop) Close() error                            { return nil }
