package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"

	"cheatcode/internal/pattern"
)

// RenderGuide builds the guide shown in the pager: controls, presets and the
// key identifiers patterns are written with.
func RenderGuide(keys KeyMap, current pattern.Pattern) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var b strings.Builder

	b.WriteString(titleStyle.Render("cheatcode guide"))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Controls"))
	b.WriteString("\n")
	for _, binding := range keys.ShortHelp() {
		h := binding.Help()
		b.WriteString(fmt.Sprintf("  %-8s %s\n", keyStyle.Render(h.Key), descStyle.Render(h.Desc)))
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Current pattern"))
	b.WriteString("\n")
	b.WriteString("  " + keyStyle.Render(current.String()) + "\n")
	if name := current.Preset(); name != "" {
		b.WriteString("  " + descStyle.Render("preset "+name) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Presets"))
	b.WriteString("\n")
	for _, name := range pattern.Names() {
		b.WriteString(fmt.Sprintf("  %s\n    %s\n", keyStyle.Render(name), descStyle.Render(pattern.Presets[name])))
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Key identifiers"))
	b.WriteString("\n")
	b.WriteString("  " + descStyle.Render("ArrowUp ArrowDown ArrowLeft ArrowRight Enter Escape Tab Space") + "\n")
	b.WriteString("  " + descStyle.Render("Backspace Delete Insert Home End PageUp PageDown F1 .. F12") + "\n")
	b.WriteString("  " + descStyle.Render("Printable keys are their character: a b 7 ?") + "\n")
	b.WriteString("  " + descStyle.Render("Gamepad buttons are their index: 0 south, 1 east, 9 start") + "\n")

	filterStyle := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
	b.WriteString("\n")
	b.WriteString(filterStyle.Render("  Symbols must be entered within the time limit of each other."))

	return b.String()
}

// GuideOps shows the guide in an external pager
type GuideOps struct {
	program *tea.Program
}

// NewGuideOps creates a new guide operations instance
func NewGuideOps() *GuideOps {
	return &GuideOps{}
}

// SetProgram sets the program reference for terminal management
func (g *GuideOps) SetProgram(p *tea.Program) {
	g.program = p
}

// ShowInPager shows content using the ov pager
func (g *GuideOps) ShowInPager(content string) error {
	if g.program == nil {
		return fmt.Errorf("program not set")
	}

	if err := g.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// let ov finish tearing down before Bubble Tea takes over again
		time.Sleep(100 * time.Millisecond)
		_ = g.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
