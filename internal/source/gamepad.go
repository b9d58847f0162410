package source

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"cheatcode/internal/domain"
)

// DefaultPollInterval is one frame at 60Hz.
const DefaultPollInterval = 16 * time.Millisecond

type edge struct {
	pad    int
	button int
}

// Gamepad samples connected pads on a recurring schedule and emits a symbol
// for every button that went from released to pressed since the previous
// sample. The schedule runs only while at least one pad is connected.
type Gamepad struct {
	env          PadEnvironment
	clock        clockwork.Clock
	interval     time.Duration
	onConnect    func(domain.PadInfo)
	onDisconnect func(domain.PadInfo)

	mu        sync.Mutex
	emit      func(domain.Symbol)
	stop      chan struct{}
	unwatch   func()
	polling   bool
	connected map[int]domain.PadInfo
	held      map[edge]bool

	// emitMu serializes delivery across sampling passes
	emitMu sync.Mutex
}

// GamepadOption configures a Gamepad.
type GamepadOption func(*Gamepad)

// WithPollInterval sets the time between sampling passes.
func WithPollInterval(d time.Duration) GamepadOption {
	return func(g *Gamepad) {
		if d > 0 {
			g.interval = d
		}
	}
}

// WithClock sets the clock driving the sampling schedule.
func WithClock(c clockwork.Clock) GamepadOption {
	return func(g *Gamepad) {
		if c != nil {
			g.clock = c
		}
	}
}

// WithConnectionHandlers observes pads joining and leaving the connected set.
func WithConnectionHandlers(onConnect, onDisconnect func(domain.PadInfo)) GamepadOption {
	return func(g *Gamepad) {
		g.onConnect = onConnect
		g.onDisconnect = onDisconnect
	}
}

// NewGamepad creates a gamepad adapter over env.
func NewGamepad(env PadEnvironment, opts ...GamepadOption) *Gamepad {
	g := &Gamepad{
		env:       env,
		clock:     clockwork.NewRealClock(),
		interval:  DefaultPollInterval,
		connected: make(map[int]domain.PadInfo),
		held:      make(map[edge]bool),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name implements Source.
func (g *Gamepad) Name() string { return string(TypeGamepad) }

// Subscribe implements Source. Pads that are already connected are adopted
// as if they had just connected.
func (g *Gamepad) Subscribe(emit func(domain.Symbol)) error {
	if g.env == nil {
		return fmt.Errorf("%w: gamepad", ErrUnsupported)
	}

	g.mu.Lock()
	if g.emit != nil {
		g.mu.Unlock()
		return ErrAlreadySubscribed
	}
	g.emit = emit
	g.stop = make(chan struct{})
	g.mu.Unlock()

	unwatch, err := g.env.Watch(g.connect, g.disconnect)
	if err != nil {
		g.Unsubscribe()
		return fmt.Errorf("%w: gamepad: %v", ErrUnsupported, err)
	}

	g.mu.Lock()
	if g.emit == nil {
		// Unsubscribed while Watch was running
		g.mu.Unlock()
		unwatch()
		return nil
	}
	g.unwatch = unwatch
	g.mu.Unlock()

	for _, pad := range g.env.Pads() {
		g.connect(domain.PadInfo{Index: pad.Index, ID: pad.ID, Buttons: len(pad.Buttons)})
	}

	log.Printf("Gamepad source subscribed (poll every %s)", g.interval)
	return nil
}

// Unsubscribe implements Source. The sampling loop exits at its next
// wake-up. A pass that is already delivering when Unsubscribe runs on another
// goroutine may still emit one symbol after it returns, so emit callbacks
// must tolerate a late call. Calling it from inside emit is safe.
func (g *Gamepad) Unsubscribe() {
	g.mu.Lock()
	if g.emit == nil {
		g.mu.Unlock()
		return
	}
	g.emit = nil
	close(g.stop)
	g.polling = false
	unwatch := g.unwatch
	g.unwatch = nil
	g.connected = make(map[int]domain.PadInfo)
	g.held = make(map[edge]bool)
	g.mu.Unlock()

	if unwatch != nil {
		unwatch()
	}
	log.Printf("Gamepad source unsubscribed")
}

// Connected returns the indexes of connected pads in ascending order.
func (g *Gamepad) Connected() []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.connectedIndexes()
}

// Polling reports whether the sampling loop is scheduled.
func (g *Gamepad) Polling() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.polling
}

func (g *Gamepad) connect(info domain.PadInfo) {
	g.mu.Lock()
	if g.emit == nil {
		g.mu.Unlock()
		return
	}
	_, known := g.connected[info.Index]
	g.connected[info.Index] = info
	if !g.polling {
		g.polling = true
		go g.poll(g.stop)
	}
	g.mu.Unlock()

	if known {
		return
	}
	log.Printf("Gamepad %d connected: %s (%d buttons, %d axes)", info.Index, info.ID, info.Buttons, info.Axes)
	if g.onConnect != nil {
		g.onConnect(info)
	}
}

func (g *Gamepad) disconnect(info domain.PadInfo) {
	g.mu.Lock()
	if _, ok := g.connected[info.Index]; !ok {
		g.mu.Unlock()
		return
	}
	delete(g.connected, info.Index)
	for k := range g.held {
		if k.pad == info.Index {
			delete(g.held, k)
		}
	}
	g.mu.Unlock()

	log.Printf("Gamepad %d disconnected", info.Index)
	if g.onDisconnect != nil {
		g.onDisconnect(info)
	}
}

func (g *Gamepad) poll(stop <-chan struct{}) {
	ticker := g.clock.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			if !g.Sample() {
				return
			}
		}
	}
}

// Sample runs one sampling pass and reports whether any pad remains
// connected. Pads are visited in ascending index order and each pad's
// buttons in ascending button order, so buttons pressed within the same
// pass are emitted in index order.
func (g *Gamepad) Sample() bool {
	pads := g.env.Pads()
	sort.Slice(pads, func(i, j int) bool { return pads[i].Index < pads[j].Index })

	g.emitMu.Lock()
	defer g.emitMu.Unlock()

	g.mu.Lock()
	if g.emit == nil {
		g.mu.Unlock()
		return false
	}
	if len(g.connected) == 0 {
		g.polling = false
		g.mu.Unlock()
		return false
	}

	var rising []domain.Symbol
	for _, pad := range pads {
		if _, ok := g.connected[pad.Index]; !ok {
			continue
		}
		for button, pressed := range pad.Buttons {
			k := edge{pad: pad.Index, button: button}
			if pressed {
				if !g.held[k] {
					g.held[k] = true
					rising = append(rising, domain.ButtonSymbol(button))
				}
			} else {
				delete(g.held, k)
			}
		}
	}
	emit, stop := g.emit, g.stop
	g.mu.Unlock()

	for _, sym := range rising {
		select {
		case <-stop:
			return false
		default:
		}
		emit(sym)
	}
	return true
}

func (g *Gamepad) connectedIndexes() []int {
	idx := make([]int, 0, len(g.connected))
	for i := range g.connected {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}
