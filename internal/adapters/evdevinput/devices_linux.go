//go:build linux

package evdevinput

import (
	"errors"
	"os"
	"sort"
	"strings"
	"syscall"

	evdev "github.com/holoplot/go-evdev"
)

// DefaultDir is where the kernel exposes event devices.
const DefaultDir = "/dev/input"

// DeviceInfo describes an input device found during discovery.
type DeviceInfo struct {
	Path      string
	Name      string
	IsVirtual bool
	IsGamepad bool
	IsKeybd   bool
}

// ListInputDevices reports every event device that can be opened.
func ListInputDevices() ([]DeviceInfo, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}

	sort.Slice(paths, func(i, j int) bool {
		return paths[i].Path < paths[j].Path
	})

	devices := make([]DeviceInfo, 0, len(paths))
	for _, path := range paths {
		dev, err := openInputDevice(path.Path)
		if err != nil {
			continue
		}

		name := path.Name
		if actualName, err := dev.Name(); err == nil && actualName != "" {
			name = actualName
		}
		keys := dev.CapableEvents(evdev.EV_KEY)

		devices = append(devices, DeviceInfo{
			Path:      path.Path,
			Name:      name,
			IsVirtual: deviceIsVirtual(dev, name),
			IsGamepad: len(buttonLayout(keys)) > 0,
			IsKeybd:   isKeyboard(keys),
		})
		_ = dev.Close()
	}

	return devices, nil
}

func openInputDevice(path string) (*evdev.InputDevice, error) {
	return evdev.OpenWithFlags(path, os.O_RDONLY)
}

func deviceName(dev *evdev.InputDevice, fallback string) string {
	if name, err := dev.Name(); err == nil && name != "" {
		return name
	}
	return fallback
}

func deviceIsVirtual(device *evdev.InputDevice, name string) bool {
	id, err := device.InputID()
	if err == nil && id.BusType == uint16(evdev.BUS_VIRTUAL) {
		return true
	}
	lower := strings.ToLower(name)
	for _, token := range []string{"virtual", "uinput", "ydotool"} {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

func isEventNode(path string) bool {
	base := path[strings.LastIndexByte(path, '/')+1:]
	return strings.HasPrefix(base, "event")
}

func isWouldBlockError(err error) bool {
	return errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK)
}

func isDeviceClosedError(err error) bool {
	return errors.Is(err, os.ErrClosed) || errors.Is(err, syscall.ENODEV) || errors.Is(err, syscall.EBADF)
}
