package worker

import "fmt"

type EventHandler func(data []byte) error

// Router dispatches broker messages to the handlers registered for their
// event name. Unknown events are dropped silently; the topic is shared.
type Router struct {
	handlers map[string][]EventHandler
}

func NewRouter(handlers map[string][]EventHandler) *Router {
	return &Router{
		handlers: handlers,
	}
}

func (this *Router) Handle(event string, data []byte) error {
	for _, handler := range this.handlers[event] {
		if err := handler(data); err != nil {
			return fmt.Errorf("handling %s: %w", event, err)
		}
	}
	return nil
}
