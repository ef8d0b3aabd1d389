package events

import "fmt"

// UnknownEventError reports use of an event name that was never declared.
// It indicates a wiring bug in the caller, not a runtime condition.
type UnknownEventError struct {
	Event string
}

func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("events: %q is not a declared event", e.Event)
}

// InvalidHandlerError reports a nil handler passed to Subscribe.
type InvalidHandlerError struct {
	Event string
}

func (e *InvalidHandlerError) Error() string {
	return fmt.Sprintf("events: nil handler for %q", e.Event)
}

// MissingPayloadFieldError reports an emission whose payload lacks a field
// the event was declared to require. Set the field to nil to mark it
// intentionally absent.
type MissingPayloadFieldError struct {
	Event string
	Field string
}

func (e *MissingPayloadFieldError) Error() string {
	return fmt.Sprintf("events: %q emitted without required field %q", e.Event, e.Field)
}
