// Package bus is the in-process handoff between the submission pipeline and
// the persistence listener. A topic carries exactly one subscriber;
// registration is idempotent so a re-mounted checkout screen never doubles
// its listener. Publishing is fire-and-forget with no acknowledgement.
package bus

import (
	"context"
	"sync"
)

type Handler[T any] func(ctx context.Context, event T)

type Topic[T any] struct {
	mu      sync.Mutex
	name    string
	handler Handler[T]
}

func NewTopic[T any](name string) *Topic[T] {
	return &Topic[T]{name: name}
}

func (t *Topic[T]) Name() string { return t.name }

// Subscribe registers h as the topic's single listener. It reports whether
// the registration took effect; a second call is a no-op keeping the first
// handler.
func (t *Topic[T]) Subscribe(h Handler[T]) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.handler != nil {
		return false
	}
	t.handler = h
	return true
}

func (t *Topic[T]) Unsubscribe() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = nil
}

// Publish hands the event to the listener on its own goroutine and returns
// immediately. Events published with no listener registered are dropped.
func (t *Topic[T]) Publish(ctx context.Context, event T) {
	t.mu.Lock()
	h := t.handler
	t.mu.Unlock()
	if h == nil {
		return
	}
	go h(ctx, event)
}
