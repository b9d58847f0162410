//go:build linux

package evdevinput

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	evdev "github.com/holoplot/go-evdev"

	"cheatcode/internal/domain"
	"cheatcode/internal/source"
)

// udev may not have fixed permissions on a new node yet
const (
	openAttempts = 5
	openBackoff  = 100 * time.Millisecond
)

type padDevice struct {
	dev    *evdev.InputDevice
	path   string
	info   domain.PadInfo
	layout []evdev.EvCode
}

// Gamepads exposes evdev joysticks and gamepads as a source.PadEnvironment.
// Devices are discovered when Watch is called and hot-plugged devices are
// picked up by watching the input directory.
type Gamepads struct {
	dir string

	mu      sync.Mutex
	pads    map[int]*padDevice
	byPath  map[string]int
	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup

	onConnect    func(domain.PadInfo)
	onDisconnect func(domain.PadInfo)
}

// NewGamepads creates a gamepad environment over dir (DefaultDir when empty).
func NewGamepads(dir string) *Gamepads {
	if dir == "" {
		dir = DefaultDir
	}
	return &Gamepads{
		dir:    dir,
		pads:   make(map[int]*padDevice),
		byPath: make(map[string]int),
	}
}

// Watch implements source.PadEnvironment. Pads present at call time are
// reported through onConnect before Watch returns.
func (g *Gamepads) Watch(onConnect, onDisconnect func(domain.PadInfo)) (func(), error) {
	g.mu.Lock()
	if g.watcher != nil {
		g.mu.Unlock()
		return nil, fmt.Errorf("gamepads in %s are already watched", g.dir)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		g.mu.Unlock()
		return nil, fmt.Errorf("create device watcher: %w", err)
	}
	if err := w.Add(g.dir); err != nil {
		_ = w.Close()
		g.mu.Unlock()
		return nil, fmt.Errorf("watch %s: %w", g.dir, err)
	}

	g.watcher = w
	g.done = make(chan struct{})
	g.onConnect, g.onDisconnect = onConnect, onDisconnect
	g.wg.Add(1)
	go g.watchLoop(w, g.done)
	g.mu.Unlock()

	paths, err := filepath.Glob(filepath.Join(g.dir, "event*"))
	if err != nil {
		g.unwatch()
		return nil, err
	}
	sort.Strings(paths)
	for _, path := range paths {
		g.add(path, 1)
	}

	return g.unwatch, nil
}

// Pads implements source.PadEnvironment.
func (g *Gamepads) Pads() []source.Pad {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]source.Pad, 0, len(g.pads))
	for idx, pd := range g.pads {
		state, err := pd.dev.State(evdev.EV_KEY)
		if err != nil {
			continue
		}
		buttons := make([]bool, len(pd.layout))
		for i, code := range pd.layout {
			buttons[i] = state[code]
		}
		out = append(out, source.Pad{Index: idx, ID: pd.info.ID, Buttons: buttons})
	}
	return out
}

func (g *Gamepads) unwatch() {
	g.mu.Lock()
	w, done := g.watcher, g.done
	g.watcher, g.done = nil, nil
	g.onConnect, g.onDisconnect = nil, nil
	g.mu.Unlock()

	if w == nil {
		return
	}
	close(done)
	_ = w.Close()
	g.wg.Wait()

	g.mu.Lock()
	for idx, pd := range g.pads {
		_ = pd.dev.Close()
		delete(g.pads, idx)
	}
	g.byPath = make(map[string]int)
	g.mu.Unlock()
}

func (g *Gamepads) watchLoop(w *fsnotify.Watcher, done <-chan struct{}) {
	defer g.wg.Done()

	for {
		select {
		case <-done:
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !isEventNode(ev.Name) {
				continue
			}
			switch {
			case ev.Has(fsnotify.Create):
				g.add(ev.Name, openAttempts)
			case ev.Has(fsnotify.Remove):
				g.remove(ev.Name)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("Device watcher error: %v", err)
		}
	}
}

func (g *Gamepads) add(path string, attempts int) {
	var dev *evdev.InputDevice
	var err error
	for i := 0; i < attempts; i++ {
		if dev, err = openInputDevice(path); err == nil {
			break
		}
		time.Sleep(openBackoff)
	}
	if err != nil {
		return
	}

	name := deviceName(dev, filepath.Base(path))
	layout := buttonLayout(dev.CapableEvents(evdev.EV_KEY))
	if len(layout) == 0 || deviceIsVirtual(dev, name) {
		_ = dev.Close()
		return
	}

	g.mu.Lock()
	if _, dup := g.byPath[path]; dup || g.watcher == nil {
		g.mu.Unlock()
		_ = dev.Close()
		return
	}
	idx := g.freeIndex()
	info := domain.PadInfo{
		Index:   idx,
		ID:      name,
		Buttons: len(layout),
		Axes:    len(dev.CapableEvents(evdev.EV_ABS)),
	}
	g.pads[idx] = &padDevice{dev: dev, path: path, info: info, layout: layout}
	g.byPath[path] = idx
	cb := g.onConnect
	g.mu.Unlock()

	log.Printf("Gamepad device %s opened as pad %d (%s)", path, idx, name)
	if cb != nil {
		cb(info)
	}
}

func (g *Gamepads) remove(path string) {
	g.mu.Lock()
	idx, ok := g.byPath[path]
	if !ok {
		g.mu.Unlock()
		return
	}
	pd := g.pads[idx]
	delete(g.pads, idx)
	delete(g.byPath, path)
	cb := g.onDisconnect
	g.mu.Unlock()

	_ = pd.dev.Close()
	log.Printf("Gamepad device %s removed (pad %d)", path, idx)
	if cb != nil {
		cb(pd.info)
	}
}

// freeIndex returns the lowest unused pad index. Callers hold g.mu.
func (g *Gamepads) freeIndex() int {
	for i := 0; ; i++ {
		if _, used := g.pads[i]; !used {
			return i
		}
	}
}
