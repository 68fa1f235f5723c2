// Package events broadcasts entity changes made through the workspace to registered callbacks.
package events

import (
	"fmt"
	"sync"
)

// EventType represents the type of entity change
type EventType int

// Entity change event types.
const (
	EventCreate EventType = iota
	EventWrite
	EventRemove
	EventMkdir
)

var typeNames = map[EventType]string{
	EventCreate: "create",
	EventWrite:  "write",
	EventRemove: "remove",
	EventMkdir:  "mkdir",
}

func (t EventType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// MarshalText encodes the type by name so websocket clients see "write" rather than 1.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses a type name produced by MarshalText.
func (t *EventType) UnmarshalText(text []byte) error {
	for k, name := range typeNames {
		if name == string(text) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("events: unknown event type %q", text)
}

// Event represents an entity change
type Event struct {
	Type EventType `json:"type"`
	Path string    `json:"path"`
}

// Callback is a function called when an entity changes
type Callback func(Event)

// Bus fans events out to callbacks in registration order
type Bus struct {
	callbacks []Callback
	mu        sync.RWMutex
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{}
}

// OnChange registers a callback for change events
func (b *Bus) OnChange(cb Callback) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callbacks = append(b.callbacks, cb)
}

// Publish delivers e synchronously to every registered callback.
// A nil bus drops the event.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	callbacks := make([]Callback, len(b.callbacks))
	copy(callbacks, b.callbacks)
	b.mu.RUnlock()

	for _, cb := range callbacks {
		cb(e)
	}
}
