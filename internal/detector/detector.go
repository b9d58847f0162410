// Package detector wires a symbol source to a sequence buffer and invokes a
// reaction whenever the buffer equals the configured pattern.
package detector

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"cheatcode/internal/domain"
	"cheatcode/internal/eventbus"
	"cheatcode/internal/pattern"
	"cheatcode/internal/sequence"
	"cheatcode/internal/source"
)

// ErrInvalidTimeLimit is returned by New when the time limit is not positive.
var ErrInvalidTimeLimit = errors.New("time limit must be positive")

// State is the listening state of a Controller.
type State int

const (
	StateIdle State = iota
	StateListening
)

func (s State) String() string {
	if s == StateListening {
		return "listening"
	}
	return "idle"
}

// Options configures a Controller.
type Options struct {
	Pattern      string // literal pattern or preset name
	Source       source.Type
	TimeLimit    time.Duration
	PollInterval time.Duration // gamepad only
	OnMatch      func()
}

// Environment supplies the collaborators a Controller consumes.
type Environment struct {
	Keys  source.KeyEnvironment
	Pads  source.PadEnvironment
	Clock clockwork.Clock
	Bus   eventbus.EventBus
}

// Controller owns the sequence buffer for one pattern and one source.
type Controller struct {
	opts    Options
	env     Environment
	pattern pattern.Pattern

	mu      sync.Mutex
	state   State
	active  source.Source
	session uint64 // bumped by Start; symbols tagged with an older one are dropped
	buffer  *sequence.Buffer
	matches int
}

// New validates opts and creates an idle controller. The pattern is resolved
// here, once.
func New(opts Options, env Environment) (*Controller, error) {
	if opts.TimeLimit <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimeLimit, opts.TimeLimit)
	}
	if env.Clock == nil {
		env.Clock = clockwork.NewRealClock()
	}

	if t := source.ParseType(string(opts.Source)); t != opts.Source {
		if opts.Source != "" {
			log.Printf("Unknown source %q, using %s", opts.Source, t)
		}
		opts.Source = t
	}

	p := pattern.Compile(opts.Pattern)
	return &Controller{
		opts:    opts,
		env:     env,
		pattern: p,
		buffer:  sequence.New(p, opts.TimeLimit),
	}, nil
}

// Start subscribes the configured source. It does nothing when already
// listening. A subscription failure is returned and leaves the controller idle.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateListening {
		return nil
	}

	c.session++
	src := c.newSource()
	if err := src.Subscribe(c.receiver(c.session)); err != nil {
		log.Printf("Detector failed to start %s source: %v", src.Name(), err)
		return fmt.Errorf("start %s source: %w", src.Name(), err)
	}

	c.active = src
	c.state = StateListening
	log.Printf("Detector listening on %s for %q", src.Name(), c.pattern.String())
	c.publish(domain.DetectorStartedEvent{Source: src.Name()})
	return nil
}

// Stop unsubscribes the active source. It does nothing when idle. Once Stop
// returns no further symbols reach the buffer.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.state == StateIdle {
		c.mu.Unlock()
		return
	}
	src := c.active
	c.active = nil
	c.state = StateIdle
	c.mu.Unlock()

	src.Unsubscribe()
	log.Printf("Detector stopped")
	c.publish(domain.DetectorStoppedEvent{})
}

// State returns the current listening state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pattern returns the compiled pattern.
func (c *Controller) Pattern() pattern.Pattern {
	return c.pattern
}

// SourceType returns the configured source type.
func (c *Controller) SourceType() source.Type {
	return c.opts.Source
}

// Buffer returns a copy of the symbols entered since the last reset.
func (c *Controller) Buffer() []domain.Symbol {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer.Symbols()
}

// Matches returns the number of matches since the controller was created.
func (c *Controller) Matches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matches
}

func (c *Controller) newSource() source.Source {
	if source.ParseType(string(c.opts.Source)) == source.TypeGamepad {
		return source.NewGamepad(c.env.Pads,
			source.WithClock(c.env.Clock),
			source.WithPollInterval(c.opts.PollInterval),
			source.WithConnectionHandlers(
				func(info domain.PadInfo) { c.publish(domain.PadConnectedEvent{Pad: info}) },
				func(info domain.PadInfo) { c.publish(domain.PadDisconnectedEvent{Pad: info}) },
			),
		)
	}
	return source.NewKeyboard(c.env.Keys)
}

// receiver binds delivered symbols to the subscription that produced them.
func (c *Controller) receiver(session uint64) func(domain.Symbol) {
	return func(sym domain.Symbol) { c.handle(session, sym) }
}

// handle receives every symbol from the active source.
func (c *Controller) handle(session uint64, sym domain.Symbol) {
	c.mu.Lock()
	if c.state != StateListening || session != c.session {
		c.mu.Unlock()
		return
	}
	now := c.env.Clock.Now()
	matched := c.buffer.Accept(sym, now)
	gap := c.buffer.ResetGap()
	buf := c.buffer.Symbols()
	count := c.matches
	if matched {
		c.matches++
		count = c.matches
	}
	c.mu.Unlock()

	if gap > 0 {
		c.publish(domain.BufferResetEvent{Gap: gap})
	}
	c.publish(domain.SymbolAcceptedEvent{Symbol: sym, Buffer: buf, At: now})

	if !matched {
		return
	}
	log.Printf("Pattern matched (%d total)", count)
	c.publish(domain.MatchDetectedEvent{Pattern: c.pattern.String(), Count: count, At: now})
	if c.opts.OnMatch != nil {
		c.opts.OnMatch()
	}
}

func (c *Controller) publish(e domain.DomainEvent) {
	if c.env.Bus != nil {
		c.env.Bus.Publish(e)
	}
}
