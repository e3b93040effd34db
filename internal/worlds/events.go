// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package worlds

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Event records one registry operation after it completed.
type Event struct {
	ID        ulid.ULID
	Operation string
	World     string
	Result    string
	// Detail carries extra context, e.g. the clone source or link target.
	Detail string
	Time   time.Time
}

// EventHandler receives registry events. Handlers run synchronously on the
// caller's goroutine and must not call back into the registry.
type EventHandler func(Event)

type subscribers struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]EventHandler
}

func (s *subscribers) add(h EventHandler) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handlers == nil {
		s.handlers = make(map[int]EventHandler)
	}
	id := s.nextID
	s.nextID++
	s.handlers[id] = h
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.handlers, id)
	}
}

func (s *subscribers) publish(e Event) {
	s.mu.RLock()
	handlers := make([]EventHandler, 0, len(s.handlers))
	for _, h := range s.handlers {
		handlers = append(handlers, h)
	}
	s.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}
