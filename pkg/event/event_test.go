package event

import (
	"testing"
)

/**
 * @author: gagral.x@gmail.com
 * @file: event_test.go
 * @description:
 */

type testEvent struct {
	Name string
	Data string
}

func (e testEvent) EventName() string {
	return e.Name
}

func (e testEvent) EventType() string {
	return "test"
}

func TestPublish(t *testing.T) {
	eb := NewEventBus()

	var got []string
	eb.RegisterHandler("menu.changed", EventHandlerFunc(func(ev Event) {
		got = append(got, ev.(testEvent).Data)
	}))

	eb.Publish(testEvent{Name: "menu.changed", Data: "a"})
	eb.Publish(testEvent{Name: "other", Data: "b"})

	if len(got) != 1 || got[0] != "a" {
		t.Errorf("expected only the subscribed event, got %v", got)
	}
}

func TestPublishPanicDoesNotPropagate(t *testing.T) {
	eb := NewEventBus()

	eb.RegisterHandler("boom", EventHandlerFunc(func(ev Event) {
		panic("subscriber panic")
	}))

	called := false
	eb.RegisterHandler("boom", EventHandlerFunc(func(ev Event) {
		called = true
	}))

	eb.Publish(testEvent{Name: "boom"})

	if !called {
		t.Error("second handler should still run after the first panics")
	}
}
