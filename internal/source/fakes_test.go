package source

import (
	"errors"
	"sync"

	"cheatcode/internal/domain"
)

type fakeKeys struct {
	mu       sync.Mutex
	handlers map[int]func(KeyEvent)
	next     int
	err      error
}

func newFakeKeys() *fakeKeys {
	return &fakeKeys{handlers: make(map[int]func(KeyEvent))}
}

func (f *fakeKeys) OnKeyDown(h func(KeyEvent)) (func(), error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next
	f.next++
	f.handlers[id] = h
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.handlers, id)
	}, nil
}

func (f *fakeKeys) press(key string) {
	f.mu.Lock()
	hs := make([]func(KeyEvent), 0, len(f.handlers))
	for _, h := range f.handlers {
		hs = append(hs, h)
	}
	f.mu.Unlock()
	for _, h := range hs {
		h(KeyEvent{Key: key})
	}
}

func (f *fakeKeys) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}

type fakePads struct {
	mu           sync.Mutex
	pads         map[int]*Pad
	onConnect    func(domain.PadInfo)
	onDisconnect func(domain.PadInfo)
	watchErr     error
	unwatched    int
}

var errNoGamepadAPI = errors.New("no gamepad api")

func newFakePads() *fakePads {
	return &fakePads{pads: make(map[int]*Pad)}
}

func (f *fakePads) Watch(onConnect, onDisconnect func(domain.PadInfo)) (func(), error) {
	if f.watchErr != nil {
		return nil, f.watchErr
	}
	f.mu.Lock()
	f.onConnect, f.onDisconnect = onConnect, onDisconnect
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.onConnect, f.onDisconnect = nil, nil
		f.unwatched++
	}, nil
}

func (f *fakePads) Pads() []Pad {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Pad, 0, len(f.pads))
	for _, p := range f.pads {
		buttons := make([]bool, len(p.Buttons))
		copy(buttons, p.Buttons)
		out = append(out, Pad{Index: p.Index, ID: p.ID, Buttons: buttons})
	}
	return out
}

func (f *fakePads) plug(index, buttons int) {
	f.mu.Lock()
	f.pads[index] = &Pad{Index: index, ID: "pad", Buttons: make([]bool, buttons)}
	cb := f.onConnect
	f.mu.Unlock()
	if cb != nil {
		cb(domain.PadInfo{Index: index, ID: "pad", Buttons: buttons, Axes: 4})
	}
}

func (f *fakePads) unplug(index int) {
	f.mu.Lock()
	delete(f.pads, index)
	cb := f.onDisconnect
	f.mu.Unlock()
	if cb != nil {
		cb(domain.PadInfo{Index: index})
	}
}

func (f *fakePads) set(index, button int, pressed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pads[index].Buttons[button] = pressed
}

type recorder struct {
	mu   sync.Mutex
	syms []string
}

func (r *recorder) emit(s domain.Symbol) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.syms = append(r.syms, s.String())
}

func (r *recorder) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.syms))
	copy(out, r.syms)
	return out
}
