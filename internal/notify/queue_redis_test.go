package notify

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpcaldeira/travel-desk/backend/internal/domain"
	"github.com/jpcaldeira/travel-desk/backend/testutil"
)

func TestRedisQueue_RoundTrip(t *testing.T) {
	client := testutil.NewRedis(t)
	q := NewRedisQueue(client, "test:notifications")
	ev := testEvent()

	require.NoError(t, q.Enqueue(context.Background(), ev))

	got, ok, err := q.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ev.PublicID, got.PublicID)
	assert.Equal(t, ev.RecipientID, got.RecipientID)
	assert.Equal(t, ev.NewStatus, got.NewStatus)
	assert.True(t, ev.DepartureAt.Equal(got.DepartureAt))
}

func TestRedisQueue_PreservesOrder(t *testing.T) {
	client := testutil.NewRedis(t)
	q := NewRedisQueue(client, "test:notifications")

	first := testEvent()
	first.OrderCode = "ORD-first"
	second := testEvent()
	second.OrderCode = "ORD-second"

	require.NoError(t, q.Enqueue(context.Background(), first))
	require.NoError(t, q.Enqueue(context.Background(), second))

	got, ok, err := q.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ORD-first", got.OrderCode)

	got, ok, err = q.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ORD-second", got.OrderCode)
}

func TestRedisQueue_NextOnCanceledContext(t *testing.T) {
	client := testutil.NewRedis(t)
	q := NewRedisQueue(client, "test:notifications")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok, err := q.Next(ctx)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisQueue_DeadLetterLandsOnSeparateList(t *testing.T) {
	client := testutil.NewRedis(t)
	q := NewRedisQueue(client, "test:notifications")
	ev := testEvent()

	require.NoError(t, q.DeadLetter(context.Background(), ev))

	// The main queue stays empty; the event sits on the dead-letter list.
	n, err := client.LLen(context.Background(), "test:notifications").Result()
	require.NoError(t, err)
	assert.Zero(t, n)

	raw, err := client.RPop(context.Background(), "test:notifications:deadletter").Result()
	require.NoError(t, err)
	var got domain.StatusChange
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	assert.Equal(t, ev.PublicID, got.PublicID)
	assert.True(t, ev.OccurredAt.Equal(got.OccurredAt))
}
