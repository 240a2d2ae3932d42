package event

import (
	"sync"

	"github.com/go-arcade/portal/pkg/safe"
)

// EventBus 进程内事件总线，发布是 fire-and-forget 语义，
// 任何订阅者的 panic 都不会影响发布方。
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[string][]EventHandler),
	}
}

func (eb *EventBus) RegisterHandler(eventName string, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.handlers[eventName] = append(eb.handlers[eventName], handler)
}

func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	handlers := append([]EventHandler(nil), eb.handlers[event.EventName()]...)
	eb.mu.RUnlock()

	for _, handler := range handlers {
		h := handler
		safe.Do(func() {
			h.Handle(event)
		})
	}
}
