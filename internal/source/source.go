// Package source turns raw device activity into a uniform stream of symbols.
//
// Two adapters implement Source: Keyboard is push based and emits one symbol
// per key-down notification; Gamepad samples button state on a recurring
// schedule and emits one symbol per rising edge.
package source

import (
	"errors"
	"strings"

	"cheatcode/internal/domain"
)

var (
	// ErrUnsupported is returned when the environment lacks the requested input capability.
	ErrUnsupported = errors.New("input capability not available")
	// ErrAlreadySubscribed is returned by Subscribe on an active adapter.
	ErrAlreadySubscribed = errors.New("source already subscribed")
)

// Source produces symbols from device activity.
type Source interface {
	// Subscribe starts delivering symbols to emit. Symbols are delivered in
	// arrival order and never concurrently.
	Subscribe(emit func(domain.Symbol)) error
	// Unsubscribe stops delivery. It is safe to call on an idle source.
	Unsubscribe()
	// Name identifies the adapter in logs.
	Name() string
}

// Type selects a source adapter.
type Type string

const (
	TypeKeyboard Type = "keyboard"
	TypeGamepad  Type = "gamepad"
)

// ParseType maps a configuration value to a Type. Anything that is not
// "gamepad" selects the keyboard.
func ParseType(s string) Type {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(TypeGamepad):
		return TypeGamepad
	default:
		return TypeKeyboard
	}
}

// KeyEvent is a key-down notification. Key is empty when the environment
// could not identify the key.
type KeyEvent struct {
	Key string
}

// KeyEnvironment delivers key-down notifications.
type KeyEnvironment interface {
	OnKeyDown(handler func(KeyEvent)) (unsubscribe func(), err error)
}

// Pad is a snapshot of one connected gamepad.
type Pad struct {
	Index   int
	ID      string
	Buttons []bool // pressed state by button index
}

// PadEnvironment exposes connection notifications and on-demand button
// snapshots. Implementations must not hold internal locks while invoking the
// connection callbacks.
type PadEnvironment interface {
	Watch(onConnect, onDisconnect func(domain.PadInfo)) (unwatch func(), err error)
	Pads() []Pad
}
