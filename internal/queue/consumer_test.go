package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMessage(t *testing.T) {
	var got []TransferChangedEvent
	c := NewConsumer("amqp://unused", "", func(_ context.Context, ev TransferChangedEvent) error {
		got = append(got, ev)
		return nil
	}, nil)
	assert.Equal(t, TransferChangedQueue, c.queue)

	body := []byte(`{"action":"updated","transfer_id":7,"flight_code":"BA12","occurred_at":"2024-05-01T10:00:00Z"}`)
	require.NoError(t, c.handleMessage(context.Background(), body))
	require.Len(t, got, 1)
	assert.Equal(t, ActionUpdated, got[0].Action)
	assert.Equal(t, uint64(7), got[0].TransferID)
	assert.Equal(t, "BA12", got[0].FlightCode)
}

func TestHandleMessage_Rejects(t *testing.T) {
	called := false
	c := NewConsumer("amqp://unused", "", func(context.Context, TransferChangedEvent) error {
		called = true
		return nil
	}, nil)

	tests := map[string]string{
		"malformed json": `{"action":`,
		"unknown action": `{"action":"renamed","transfer_id":1}`,
		"missing id":     `{"action":"deleted"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, c.handleMessage(context.Background(), []byte(body)))
		})
	}
	assert.False(t, called)
}

func TestHandleMessage_HandlerError(t *testing.T) {
	boom := errors.New("redis down")
	c := NewConsumer("amqp://unused", "", func(context.Context, TransferChangedEvent) error { return boom }, nil)
	err := c.handleMessage(context.Background(), []byte(`{"action":"created","transfer_id":3}`))
	assert.ErrorIs(t, err, boom)
}

func TestNewTransferChangedEvent(t *testing.T) {
	ev := NewTransferChangedEvent(ActionDeleted, 4, "")
	require.NoError(t, ev.Validate())
	assert.NotEmpty(t, ev.OccurredAt)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewConsumer("amqp://127.0.0.1:1/", "", nil, nil)
	assert.ErrorIs(t, c.Run(ctx), context.Canceled)
}
