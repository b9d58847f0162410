package source

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"cheatcode/internal/domain"
)

// Keyboard emits one symbol per key-down notification. Key repeat delivered
// by the environment is not filtered.
type Keyboard struct {
	env KeyEnvironment

	mu          sync.Mutex
	live        *atomic.Bool
	unsubscribe func()
}

// NewKeyboard creates a keyboard adapter over env.
func NewKeyboard(env KeyEnvironment) *Keyboard {
	return &Keyboard{env: env}
}

// Name implements Source.
func (k *Keyboard) Name() string { return string(TypeKeyboard) }

// Subscribe implements Source.
func (k *Keyboard) Subscribe(emit func(domain.Symbol)) error {
	if k.env == nil {
		return fmt.Errorf("%w: keyboard", ErrUnsupported)
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if k.live != nil {
		return ErrAlreadySubscribed
	}

	live := &atomic.Bool{}
	live.Store(true)
	unsub, err := k.env.OnKeyDown(func(ev KeyEvent) {
		if ev.Key == "" || !live.Load() {
			return
		}
		emit(domain.KeySymbol(ev.Key))
	})
	if err != nil {
		return fmt.Errorf("%w: keyboard: %v", ErrUnsupported, err)
	}

	k.live = live
	k.unsubscribe = unsub
	log.Printf("Keyboard source subscribed")
	return nil
}

// Unsubscribe implements Source.
func (k *Keyboard) Unsubscribe() {
	k.mu.Lock()
	live, unsub := k.live, k.unsubscribe
	k.live, k.unsubscribe = nil, nil
	k.mu.Unlock()

	if live == nil {
		return
	}
	live.Store(false)
	if unsub != nil {
		unsub()
	}
	log.Printf("Keyboard source unsubscribed")
}
