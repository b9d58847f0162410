package domain

import "strconv"

// SymbolKind distinguishes the two input families a symbol can come from
type SymbolKind int

const (
	KindKey SymbolKind = iota
	KindButton
)

func (k SymbolKind) String() string {
	switch k {
	case KindKey:
		return "key"
	case KindButton:
		return "button"
	default:
		return "unknown"
	}
}

// Symbol is one atomic input token: a key identifier or a gamepad button index
type Symbol struct {
	Kind   SymbolKind
	Key    string // key identifier for KindKey ("ArrowUp", "b", "Enter")
	Button int    // button index for KindButton
}

// KeySymbol creates a symbol for a key identifier
func KeySymbol(key string) Symbol {
	return Symbol{Kind: KindKey, Key: key}
}

// ButtonSymbol creates a symbol for a gamepad button index
func ButtonSymbol(index int) Symbol {
	return Symbol{Kind: KindButton, Button: index}
}

// String returns the form used when a buffer is compared against a pattern
func (s Symbol) String() string {
	if s.Kind == KindButton {
		return strconv.Itoa(s.Button)
	}
	return s.Key
}

// PadInfo describes a connected gamepad
type PadInfo struct {
	Index   int
	ID      string
	Buttons int // informational
	Axes    int // informational
}
