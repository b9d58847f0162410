// Package sequence holds the ordered log of symbols entered since the last
// timeout and compares it against a pattern after every symbol.
package sequence

import (
	"strings"
	"time"

	"cheatcode/internal/domain"
	"cheatcode/internal/pattern"
)

// Buffer is an append-only symbol log that resets when the gap between two
// symbols exceeds the time limit. It is not safe for concurrent use.
type Buffer struct {
	target    pattern.Pattern
	timeLimit time.Duration

	symbols   []domain.Symbol
	lastEntry time.Time
	lastReset time.Duration // gap that caused the most recent reset
}

// New creates a buffer comparing against target.
func New(target pattern.Pattern, timeLimit time.Duration) *Buffer {
	return &Buffer{
		target:    target,
		timeLimit: timeLimit,
		symbols:   make([]domain.Symbol, 0, 16),
	}
}

// Accept appends sym and reports whether the buffer now equals the target.
// A gap longer than the time limit since the previous symbol clears the
// buffer first, so sym starts a fresh run.
func (b *Buffer) Accept(sym domain.Symbol, now time.Time) bool {
	b.lastReset = 0
	if !b.lastEntry.IsZero() {
		if gap := now.Sub(b.lastEntry); gap > b.timeLimit {
			if len(b.symbols) > 0 {
				b.lastReset = gap
			}
			b.symbols = b.symbols[:0]
		}
	}

	b.symbols = append(b.symbols, sym)
	b.lastEntry = now

	return b.target.Matches(b.String())
}

// ResetGap returns the gap that cleared a non-empty buffer during the last
// Accept, or zero if that call did not reset anything.
func (b *Buffer) ResetGap() time.Duration {
	return b.lastReset
}

// String serializes the buffer space-joined.
func (b *Buffer) String() string {
	parts := make([]string, len(b.symbols))
	for i, s := range b.symbols {
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}

// Symbols returns a copy of the buffered symbols.
func (b *Buffer) Symbols() []domain.Symbol {
	out := make([]domain.Symbol, len(b.symbols))
	copy(out, b.symbols)
	return out
}

// Len returns the number of buffered symbols.
func (b *Buffer) Len() int {
	return len(b.symbols)
}

// Reset empties the buffer and forgets the last entry time.
func (b *Buffer) Reset() {
	b.symbols = b.symbols[:0]
	b.lastEntry = time.Time{}
	b.lastReset = 0
}
