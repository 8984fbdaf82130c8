// Package event provides the token lifecycle event stream.
//
// The engine publishes an Event for every notable token transition;
// external observers (editors, side-effecting adapters, log sinks)
// subscribe through a Bus rather than hooking the engine directly.
// Delivery is synchronous and in publish order, matching the engine's
// single-threaded tick loop.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Type classifies a lifecycle event.
type Type string

const (
	// TokenSpawned fires when a successor token is enqueued.
	TokenSpawned Type = "token.spawned"
	// TokenCompleted fires when a token reaches the end of its chain.
	TokenCompleted Type = "token.completed"
	// TokenSuspended fires when a token terminates at a suspension point.
	TokenSuspended Type = "token.suspended"
	// TokenFaulted fires when a node activation fault terminates a token.
	TokenFaulted Type = "token.faulted"
)

// Event is one token lifecycle notification. Events are immutable
// once published.
type Event struct {
	// ID is a unique event identifier.
	ID string
	// Type classifies the event.
	Type Type
	// Graph is the name of the graph the token was executing in.
	Graph string
	// NodeID is the node the token was targeting.
	NodeID string
	// TokenID identifies the token.
	TokenID string
	// Detail carries extra context, e.g. a fault message.
	Detail string
	// Timestamp is when the event was published.
	Timestamp time.Time
}

// New creates an event with a generated ID and the current time.
func New(t Type, graph, nodeID, tokenID, detail string) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      t,
		Graph:     graph,
		NodeID:    nodeID,
		TokenID:   tokenID,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}
}
