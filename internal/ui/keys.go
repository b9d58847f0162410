package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap holds the controls the UI keeps for itself. Every other key press
// is fed to the detector.
type KeyMap struct {
	Toggle key.Binding
	Reset  key.Binding
	Guide  key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the standard controls. Only control chords are bound
// so that no key a pattern could contain is swallowed.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "start/stop"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "clear view"),
		),
		Guide: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "guide"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Guide, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Toggle, k.Reset}, {k.Guide, k.Quit}}
}

var namedKeys = map[tea.KeyType]string{
	tea.KeyUp:        "ArrowUp",
	tea.KeyDown:      "ArrowDown",
	tea.KeyLeft:      "ArrowLeft",
	tea.KeyRight:     "ArrowRight",
	tea.KeyEnter:     "Enter",
	tea.KeyEsc:       "Escape",
	tea.KeyTab:       "Tab",
	tea.KeySpace:     "Space",
	tea.KeyBackspace: "Backspace",
	tea.KeyDelete:    "Delete",
	tea.KeyInsert:    "Insert",
	tea.KeyHome:      "Home",
	tea.KeyEnd:       "End",
	tea.KeyPgUp:      "PageUp",
	tea.KeyPgDown:    "PageDown",
	tea.KeyF1:        "F1",
	tea.KeyF2:        "F2",
	tea.KeyF3:        "F3",
	tea.KeyF4:        "F4",
	tea.KeyF5:        "F5",
	tea.KeyF6:        "F6",
	tea.KeyF7:        "F7",
	tea.KeyF8:        "F8",
	tea.KeyF9:        "F9",
	tea.KeyF10:       "F10",
	tea.KeyF11:       "F11",
	tea.KeyF12:       "F12",
}

// KeyName returns the key identifier for a Bubble Tea key message: named
// keys use their DOM names ("ArrowUp", "Enter") and printable keys their
// character. Keys without an identifier (alt chords, control chords,
// pasted text) return "".
func KeyName(msg tea.KeyMsg) string {
	if msg.Alt || msg.Paste {
		return ""
	}
	if name, ok := namedKeys[msg.Type]; ok {
		return name
	}
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return ""
	}
	r := string(msg.Runes)
	if strings.TrimSpace(r) == "" {
		return "Space"
	}
	return r
}
