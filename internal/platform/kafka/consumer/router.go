package consumer

import (
	"context"
	"log/slog"
)

// Router dispatches messages to topic-specific handlers.
type Router struct {
	handlers map[string]Handler
	fallback Handler
	logger   *slog.Logger
}

// NewRouter creates a topic router with an optional fallback handler.
func NewRouter(logger *slog.Logger, fallback Handler) *Router {
	return &Router{
		handlers: make(map[string]Handler),
		fallback: fallback,
		logger:   logger,
	}
}

// Register adds a handler for a topic.
func (r *Router) Register(topic string, handler Handler) {
	r.handlers[topic] = handler
}

// Topics returns the registered topic names.
func (r *Router) Topics() []string {
	topics := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		topics = append(topics, t)
	}
	return topics
}

// Handle routes the message to the handler registered for its topic.
func (r *Router) Handle(ctx context.Context, msg *Message) error {
	handler, ok := r.handlers[msg.Topic]
	if !ok {
		if r.fallback != nil {
			return r.fallback.Handle(ctx, msg)
		}
		r.logger.WarnContext(ctx, "no handler for topic, skipping message",
			"topic", msg.Topic,
			"melding_id", msg.MeldingID(),
		)
		return nil // commit to avoid redelivery
	}
	return handler.Handle(ctx, msg)
}
