//go:build linux

package evdevinput

import (
	"sort"
	"strconv"
	"strings"

	evdev "github.com/holoplot/go-evdev"
)

// standardButtons lists evdev codes in standard gamepad order: the index in
// this slice is the button index a pad reports.
var standardButtons = []evdev.EvCode{
	evdev.BTN_SOUTH,      // 0
	evdev.BTN_EAST,       // 1
	evdev.BTN_WEST,       // 2
	evdev.BTN_NORTH,      // 3
	evdev.BTN_TL,         // 4
	evdev.BTN_TR,         // 5
	evdev.BTN_TL2,        // 6
	evdev.BTN_TR2,        // 7
	evdev.BTN_SELECT,     // 8
	evdev.BTN_START,      // 9
	evdev.BTN_THUMBL,     // 10
	evdev.BTN_THUMBR,     // 11
	evdev.BTN_DPAD_UP,    // 12
	evdev.BTN_DPAD_DOWN,  // 13
	evdev.BTN_DPAD_LEFT,  // 14
	evdev.BTN_DPAD_RIGHT, // 15
	evdev.BTN_MODE,       // 16
}

// keyNames maps evdev key codes to key identifiers.
var keyNames = buildKeyNames()

func buildKeyNames() map[evdev.EvCode]string {
	names := map[evdev.EvCode]string{
		evdev.KEY_UP:        "ArrowUp",
		evdev.KEY_DOWN:      "ArrowDown",
		evdev.KEY_LEFT:      "ArrowLeft",
		evdev.KEY_RIGHT:     "ArrowRight",
		evdev.KEY_ENTER:     "Enter",
		evdev.KEY_KPENTER:   "Enter",
		evdev.KEY_ESC:       "Escape",
		evdev.KEY_TAB:       "Tab",
		evdev.KEY_SPACE:     "Space",
		evdev.KEY_BACKSPACE: "Backspace",
		evdev.KEY_DELETE:    "Delete",
		evdev.KEY_INSERT:    "Insert",
		evdev.KEY_HOME:      "Home",
		evdev.KEY_END:       "End",
		evdev.KEY_PAGEUP:    "PageUp",
		evdev.KEY_PAGEDOWN:  "PageDown",
	}
	for c := 'A'; c <= 'Z'; c++ {
		if code, ok := evdev.KEYFromString["KEY_"+string(c)]; ok {
			names[code] = strings.ToLower(string(c))
		}
	}
	for c := '0'; c <= '9'; c++ {
		if code, ok := evdev.KEYFromString["KEY_"+string(c)]; ok {
			names[code] = string(c)
		}
	}
	for i := 1; i <= 12; i++ {
		name := "F" + strconv.Itoa(i)
		if code, ok := evdev.KEYFromString["KEY_"+name]; ok {
			names[code] = name
		}
	}
	return names
}

// KeyName returns the identifier for an evdev key code, or "" when the key
// has no identifier.
func KeyName(code evdev.EvCode) string {
	return keyNames[code]
}

// buttonLayout returns the codes a device's button indexes map to. Devices
// exposing the gamepad block use the standard layout; other joysticks get
// their joystick buttons in ascending code order.
func buttonLayout(capable []evdev.EvCode) []evdev.EvCode {
	for _, c := range capable {
		if c == evdev.BTN_SOUTH {
			return standardButtons
		}
	}

	var codes []evdev.EvCode
	for _, c := range capable {
		if c >= evdev.BTN_JOYSTICK && c < evdev.BTN_DIGI {
			codes = append(codes, c)
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

func isKeyboard(capable []evdev.EvCode) bool {
	var hasA, hasEnter bool
	for _, c := range capable {
		switch c {
		case evdev.KEY_A:
			hasA = true
		case evdev.KEY_ENTER:
			hasEnter = true
		}
	}
	return hasA && hasEnter
}
