//go:build !linux

package evdevinput

import (
	"cheatcode/internal/domain"
	"cheatcode/internal/source"
)

// DefaultDir is where the kernel exposes event devices.
const DefaultDir = "/dev/input"

// Gamepads is unavailable outside Linux.
type Gamepads struct{}

func NewGamepads(dir string) *Gamepads { return &Gamepads{} }

func (g *Gamepads) Watch(onConnect, onDisconnect func(domain.PadInfo)) (func(), error) {
	return nil, source.ErrUnsupported
}

func (g *Gamepads) Pads() []source.Pad { return nil }

// Keyboards is unavailable outside Linux.
type Keyboards struct{}

func NewKeyboards() *Keyboards { return &Keyboards{} }

func (k *Keyboards) OnKeyDown(fn func(source.KeyEvent)) (func(), error) {
	return nil, source.ErrUnsupported
}

// DeviceInfo describes an input device found during discovery.
type DeviceInfo struct {
	Path      string
	Name      string
	IsVirtual bool
	IsGamepad bool
	IsKeybd   bool
}

func ListInputDevices() ([]DeviceInfo, error) { return nil, source.ErrUnsupported }
