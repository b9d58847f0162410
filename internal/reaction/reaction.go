// Package reaction provides the callbacks run when a pattern matches.
package reaction

import (
	"fmt"
	"io"
	"log"
)

// Reaction is invoked once per match.
type Reaction interface {
	React() error
}

// Func adapts a plain function to Reaction.
type Func func() error

// React implements Reaction.
func (f Func) React() error { return f() }

// Chain returns a match callback that runs every reaction in order. A failing
// reaction is logged and does not stop the ones after it.
func Chain(reactions ...Reaction) func() {
	return func() {
		for _, r := range reactions {
			if r == nil {
				continue
			}
			if err := r.React(); err != nil {
				log.Printf("Reaction failed: %v", err)
			}
		}
	}
}

// Message writes a fixed line to w on every match.
type Message struct {
	W    io.Writer
	Text string
}

// React implements Reaction.
func (m Message) React() error {
	if m.Text == "" {
		return nil
	}
	_, err := fmt.Fprintln(m.W, m.Text)
	return err
}
