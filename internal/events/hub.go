// Package events provides the declared publish/subscribe hub used by
// stateful feed entities to announce lifecycle transitions.
//
// Every event must be declared, together with the payload fields it is
// required to carry, before anything can subscribe to or emit it. Emitting
// with an incomplete payload is rejected; a field may be present with a nil
// value to signal "intentionally absent".
package events

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Payload carries the named arguments of an emission.
type Payload map[string]any

// Handler receives the payload of an emission.
type Handler func(Payload)

// EventSpec declares a single event and its required payload fields.
type EventSpec struct {
	Name   string
	Fields []string
}

// Subscription identifies a registered handler. Go function values are not
// comparable, so removal goes through the handle returned by Subscribe
// rather than by passing the handler again.
type Subscription struct {
	event   string
	handler Handler
	once    bool
	removed bool
}

// Hub is a synchronous, subscription-ordered event dispatcher.
//
// Delivery happens on the emitting goroutine. A handler subscribed during
// an emission does not receive the in-flight event. A panicking handler is
// logged and does not stop delivery to the remaining subscribers.
type Hub struct {
	mu     sync.Mutex
	fields map[string][]string
	subs   map[string][]*Subscription
}

// New creates a hub with the given events pre-declared.
func New(specs ...EventSpec) *Hub {
	h := &Hub{
		fields: make(map[string][]string),
		subs:   make(map[string][]*Subscription),
	}
	for _, spec := range specs {
		h.Declare(spec.Name, spec.Fields...)
	}
	return h
}

// Declare registers an event and the payload fields every emission of it
// must carry. Declaring an already-declared event replaces its field list.
func (h *Hub) Declare(event string, fields ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.fields[event] = fields
	if _, ok := h.subs[event]; !ok {
		h.subs[event] = nil
	}
}

// Subscribe registers a handler for a declared event. The returned
// subscription is the token for Unsubscribe.
func (h *Hub) Subscribe(event string, handler Handler) (*Subscription, error) {
	return h.subscribe(event, handler, false)
}

// SubscribeOnce registers a handler that is removed after its first
// invocation.
func (h *Hub) SubscribeOnce(event string, handler Handler) (*Subscription, error) {
	return h.subscribe(event, handler, true)
}

func (h *Hub) subscribe(event string, handler Handler, once bool) (*Subscription, error) {
	if handler == nil {
		return nil, &InvalidHandlerError{Event: event}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.fields[event]; !ok {
		return nil, &UnknownEventError{Event: event}
	}

	sub := &Subscription{event: event, handler: handler, once: once}
	h.subs[event] = append(h.subs[event], sub)
	return sub, nil
}

// Unsubscribe removes a subscription. Removing one that is absent or
// already removed is a no-op.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(sub)
}

func (h *Hub) remove(sub *Subscription) {
	if sub.removed {
		return
	}
	sub.removed = true

	list := h.subs[sub.event]
	for i, s := range list {
		if s == sub {
			h.subs[sub.event] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Emit delivers the payload to the event's current subscribers, in
// subscription order. It fails without delivering anything if the event was
// never declared or if a required field is missing from the payload.
func (h *Hub) Emit(event string, payload Payload) error {
	h.mu.Lock()

	required, ok := h.fields[event]
	if !ok {
		h.mu.Unlock()
		return &UnknownEventError{Event: event}
	}

	for _, field := range required {
		if _, ok := payload[field]; !ok {
			h.mu.Unlock()
			return &MissingPayloadFieldError{Event: event, Field: field}
		}
	}

	// Snapshot so handlers registered mid-emission do not see this event.
	current := make([]*Subscription, len(h.subs[event]))
	copy(current, h.subs[event])

	// Once-handlers come out of the list before their invocation.
	for _, sub := range current {
		if sub.once {
			h.remove(sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range current {
		if !sub.once && sub.removed {
			continue
		}
		h.invoke(event, sub, payload)
	}

	return nil
}

func (h *Hub) invoke(event string, sub *Subscription, payload Payload) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{"event": event, "panic": r}).
				Error("event handler panicked; continuing delivery")
		}
	}()
	sub.handler(payload)
}
