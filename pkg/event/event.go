package event

/**
 * @author: gagral.x@gmail.com
 * @file: event.go
 * @description:
 */

type Event interface {
	// EventName returns the name of the event
	EventName() string
	// EventType returns the type of the event
	EventType() string
}

type EventHandler interface {
	Handle(event Event)
}

// EventHandlerFunc adapts a plain function to the EventHandler interface.
type EventHandlerFunc func(event Event)

func (f EventHandlerFunc) Handle(event Event) {
	f(event)
}
