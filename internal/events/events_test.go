package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spicedums/internal/model"
)

func TestNewOrderRecorded(t *testing.T) {
	uid := uint(4)
	order := &model.Order{
		ID:        42,
		UserID:    &uid,
		Total:     decimal.NewFromInt(35000),
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Items: []model.OrderItem{
			{ProductID: 1, Qty: 2, Price: decimal.NewFromInt(10000), Cost: decimal.NewFromInt(6000)},
			{ProductID: 2, Qty: 1, Price: decimal.NewFromInt(15000)},
		},
	}

	ev, err := NewOrderRecorded(order)
	require.NoError(t, err)
	assert.Equal(t, EventOrderRecorded, ev.EventType)
	assert.Equal(t, 1, ev.EventVersion)
	assert.Equal(t, "42", ev.Key)
	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, order.CreatedAt, ev.OccurredAt)

	var payload OrderRecordedPayload
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	assert.Equal(t, uint(42), payload.OrderID)
	require.NotNil(t, payload.UserID)
	assert.Equal(t, uint(4), *payload.UserID)
	assert.True(t, payload.Total.Equal(decimal.NewFromInt(35000)))
	assert.Len(t, payload.Items, 2)
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.Publish(context.Background(), Envelope{}))
	assert.NoError(t, p.Close())
}
