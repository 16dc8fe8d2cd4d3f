// Package events is a synchronous, typed publish/subscribe bus used to hand
// work out of system callbacks without touching the world mid-iteration.
package events

import (
	"errors"
	"reflect"
)

// ErrTooManyTopics is returned by Subscribe once the bus holds its maximum
// number of distinct event types.
var ErrTooManyTopics = errors.New("events: too many event types")

// Bus routes each published value to the handlers subscribed to its type.
// It is not safe for concurrent use.
type Bus struct {
	topics    map[reflect.Type]int
	handlers  [][]any
	maxTopics int
}

// NewBus returns a bus accepting at most maxTopics event types. A
// non-positive maxTopics means no limit.
func NewBus(maxTopics int) *Bus {
	return &Bus{topics: make(map[reflect.Type]int), maxTopics: maxTopics}
}

// Subscribe appends handler to the subscribers of T.
func Subscribe[T any](b *Bus, handler func(T)) error {
	t := reflect.TypeFor[T]()
	id, ok := b.topics[t]
	if !ok {
		if b.maxTopics > 0 && len(b.handlers) >= b.maxTopics {
			return ErrTooManyTopics
		}
		id = len(b.handlers)
		b.topics[t] = id
		b.handlers = append(b.handlers, make([]any, 0, 4))
	}
	b.handlers[id] = append(b.handlers[id], handler)
	return nil
}

// Publish calls every handler of T with ev, in subscription order, and
// returns how many ran. Publishing does not allocate.
func Publish[T any](b *Bus, ev T) int {
	id, ok := b.topics[reflect.TypeFor[T]()]
	if !ok {
		return 0
	}
	hs := b.handlers[id]
	for _, h := range hs {
		h.(func(T))(ev)
	}
	return len(hs)
}

// Topics returns the number of event types with at least one subscriber.
func (b *Bus) Topics() int { return len(b.handlers) }
