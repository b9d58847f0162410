//go:build linux

package evdevinput

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	evdev "github.com/holoplot/go-evdev"

	"cheatcode/internal/source"
)

// Keyboards reads key presses from every physical keyboard and exposes them
// as a source.KeyEnvironment. Devices are opened when the first handler
// registers and closed when the last one leaves.
type Keyboards struct {
	mu       sync.Mutex
	handlers map[int]func(source.KeyEvent)
	nextID   int
	devices  []*evdev.InputDevice
	done     chan struct{}

	dispatchMu sync.Mutex
}

// NewKeyboards creates an idle keyboard environment.
func NewKeyboards() *Keyboards {
	return &Keyboards{handlers: make(map[int]func(source.KeyEvent))}
}

// OnKeyDown implements source.KeyEnvironment. Auto-repeat events count as
// key downs.
func (k *Keyboards) OnKeyDown(fn func(source.KeyEvent)) (func(), error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if len(k.handlers) == 0 {
		devices, err := openKeyboards()
		if err != nil {
			return nil, err
		}
		k.devices = devices
		k.done = make(chan struct{})
		for _, dev := range devices {
			go k.readLoop(dev, k.done)
		}
	}

	id := k.nextID
	k.nextID++
	k.handlers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() { k.remove(id) })
	}, nil
}

func (k *Keyboards) remove(id int) {
	k.mu.Lock()
	delete(k.handlers, id)
	if len(k.handlers) > 0 || k.done == nil {
		k.mu.Unlock()
		return
	}
	done, devices := k.done, k.devices
	k.done, k.devices = nil, nil
	k.mu.Unlock()

	close(done)
	closeInputDevices(devices)
}

func (k *Keyboards) readLoop(dev *evdev.InputDevice, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}

		event, err := dev.ReadOne()
		if err != nil {
			if isWouldBlockError(err) {
				if !sleepUntil(done, 10*time.Millisecond) {
					return
				}
				continue
			}
			if isDeviceClosedError(err) {
				return
			}
			if !sleepUntil(done, 25*time.Millisecond) {
				return
			}
			continue
		}
		if event == nil || event.Type != evdev.EV_KEY || event.Value == 0 {
			continue
		}
		name := KeyName(event.Code)
		if name == "" {
			continue
		}
		k.dispatch(done, source.KeyEvent{Key: name})
	}
}

// dispatch delivers one event at a time so handlers see presses from several
// keyboards in a single order.
func (k *Keyboards) dispatch(done <-chan struct{}, ev source.KeyEvent) {
	k.dispatchMu.Lock()
	defer k.dispatchMu.Unlock()

	select {
	case <-done:
		return
	default:
	}

	k.mu.Lock()
	ids := make([]int, 0, len(k.handlers))
	for id := range k.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(source.KeyEvent), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, k.handlers[id])
	}
	k.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func openKeyboards() ([]*evdev.InputDevice, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}
	sort.Slice(paths, func(i, j int) bool {
		return paths[i].Path < paths[j].Path
	})

	devices := make([]*evdev.InputDevice, 0, len(paths))
	for _, path := range paths {
		dev, err := openInputDevice(path.Path)
		if err != nil {
			continue
		}
		name := deviceName(dev, path.Name)
		if deviceIsVirtual(dev, name) || !isKeyboard(dev.CapableEvents(evdev.EV_KEY)) {
			_ = dev.Close()
			continue
		}
		if err := dev.NonBlock(); err != nil {
			_ = dev.Close()
			continue
		}
		log.Printf("Listening on keyboard %s (%s)", path.Path, name)
		devices = append(devices, dev)
	}

	if len(devices) == 0 {
		return nil, fmt.Errorf("no readable keyboards found")
	}
	return devices, nil
}

func closeInputDevices(devices []*evdev.InputDevice) {
	for _, dev := range devices {
		_ = dev.Close()
	}
}

func sleepUntil(done <-chan struct{}, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-done:
		return false
	case <-timer.C:
		return true
	}
}
