package ui

import (
	"sort"
	"sync"

	"cheatcode/internal/source"
)

// KeyFeed turns key presses seen by the UI into a source.KeyEnvironment.
type KeyFeed struct {
	mu       sync.Mutex
	handlers map[int]func(source.KeyEvent)
	nextID   int
}

// NewKeyFeed creates a feed with no handlers.
func NewKeyFeed() *KeyFeed {
	return &KeyFeed{handlers: make(map[int]func(source.KeyEvent))}
}

// OnKeyDown implements source.KeyEnvironment.
func (f *KeyFeed) OnKeyDown(fn func(source.KeyEvent)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.handlers[id] = fn

	return func() {
		f.mu.Lock()
		delete(f.handlers, id)
		f.mu.Unlock()
	}, nil
}

// Dispatch delivers a key press to every registered handler in registration
// order. Handlers run without the feed lock held.
func (f *KeyFeed) Dispatch(key string) {
	f.mu.Lock()
	ids := make([]int, 0, len(f.handlers))
	for id := range f.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(source.KeyEvent), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, f.handlers[id])
	}
	f.mu.Unlock()

	ev := source.KeyEvent{Key: key}
	for _, fn := range fns {
		fn(ev)
	}
}
