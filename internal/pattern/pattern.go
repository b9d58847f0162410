// Package pattern resolves preset names and produces the canonical string a
// sequence buffer is compared against.
package pattern

import (
	"sort"
	"strings"
)

// Presets maps a preset name to its literal pattern.
var Presets = map[string]string{
	"konamicode": "ArrowUp ArrowUp ArrowDown ArrowDown ArrowLeft ArrowRight ArrowLeft ArrowRight b a Enter",
	"starpower":  "7 1 7 0 7 2 7 3 6",
}

// Resolve returns the preset pattern for name. Unknown names are returned
// unchanged so arbitrary literal patterns can be used.
func Resolve(name string) string {
	if p, ok := Presets[name]; ok {
		return p
	}
	return name
}

// Names returns the preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pattern is a resolved comparison target.
type Pattern struct {
	raw      string
	resolved string
}

// Compile resolves raw once. The result is compared verbatim.
func Compile(raw string) Pattern {
	return Pattern{raw: raw, resolved: Resolve(raw)}
}

// String returns the canonical comparison string.
func (p Pattern) String() string {
	return p.resolved
}

// Preset returns the preset name the pattern came from, or "" for literals.
func (p Pattern) Preset() string {
	if _, ok := Presets[p.raw]; ok {
		return p.raw
	}
	return ""
}

// Symbols splits the pattern into its tokens.
func (p Pattern) Symbols() []string {
	return strings.Fields(p.resolved)
}

// Matches reports whether serialized equals the pattern.
func (p Pattern) Matches(serialized string) bool {
	return serialized == p.resolved
}
