package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resto-api/models"
)

func TestToken_RoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", 7, "Employee", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "Employee", claims.Role)

	_, err = ParseToken("other", token)
	assert.Error(t, err)
}

func TestToken_Expired(t *testing.T) {
	token, err := GenerateToken("secret", 7, "Employee", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.Error(t, err)
}

func TestParseRange(t *testing.T) {
	start, err := ParseRangeStart("2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *start)

	end, err := ParseRangeEnd("2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 23, 59, 59, 999999999, time.UTC), *end)

	exact, err := ParseRangeEnd("2025-03-01T10:00:00+07:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 3, 0, 0, 0, time.UTC), *exact)

	none, err := ParseRangeStart("")
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = ParseRangeStart("yesterday")
	assert.Error(t, err)
}

func TestCalculateOrderChanges(t *testing.T) {
	handler := uint(3)
	oldOrder := &models.Order{Status: models.OrderPending, Quantity: 1, DishSnapshotID: 10}
	newOrder := &models.Order{Status: models.OrderProcessing, Quantity: 1, DishSnapshotID: 11, OrderHandlerID: &handler}

	changes := calculateOrderChanges("update", oldOrder, newOrder)
	require.NotNil(t, changes)
	assert.Contains(t, *changes, `"status":{"new":"Processing","old":"Pending"}`)
	assert.Contains(t, *changes, `"dish_snapshot_id":{"new":11,"old":10}`)
	assert.NotContains(t, *changes, "quantity")

	assert.Nil(t, calculateOrderChanges("create", nil, newOrder))
	assert.Nil(t, calculateOrderChanges("update", oldOrder, oldOrder))
}
