package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		assert.True(t, s.Valid(), "%s", s)
	}
	assert.False(t, OrderStatus("misplaced").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestOrderStatus_Transitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusProcessing))
	assert.True(t, StatusPending.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusProcessing.CanTransitionTo(StatusShipped))
	assert.True(t, StatusShipped.CanTransitionTo(StatusDelivered))

	assert.False(t, StatusPending.CanTransitionTo(StatusDelivered))
	assert.False(t, StatusShipped.CanTransitionTo(StatusPending))
	assert.False(t, StatusDelivered.CanTransitionTo(StatusPending), "delivered is terminal")
	assert.False(t, StatusCancelled.CanTransitionTo(StatusProcessing), "cancelled is terminal")
}

func TestProduct_PriceSerializesAsDecimalString(t *testing.T) {
	p := Product{Price: decimal.RequireFromString("19.90")}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"price":"19.90"`)

	var back Product
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Price.Equal(p.Price))
}
