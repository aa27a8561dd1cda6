// Package queue defines message payloads exchanged over the message broker
// and the consumer that reacts to them.
package queue

import (
	"fmt"
	"time"
)

// TransferChangedQueue is the durable queue carrying TransferChangedEvent.
const TransferChangedQueue = "transfer.changed"

// Actions carried by TransferChangedEvent.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// TransferChangedEvent is published after a transfer was created, updated
// or deleted.  Consumers use it to drop cached reads; FlightCode is empty
// for deletes.
type TransferChangedEvent struct {
	Action     string `json:"action"`
	TransferID uint64 `json:"transfer_id"`
	FlightCode string `json:"flight_code,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// NewTransferChangedEvent stamps an event with the current UTC time.
func NewTransferChangedEvent(action string, id uint64, flightCode string) TransferChangedEvent {
	return TransferChangedEvent{
		Action:     action,
		TransferID: id,
		FlightCode: flightCode,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Validate rejects events a consumer cannot act on.
func (e TransferChangedEvent) Validate() error {
	switch e.Action {
	case ActionCreated, ActionUpdated, ActionDeleted:
	default:
		return fmt.Errorf("unknown action %q", e.Action)
	}
	if e.TransferID == 0 {
		return fmt.Errorf("missing transfer_id")
	}
	return nil
}
