package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Label         lipgloss.Style
	Symbol        lipgloss.Style
	SymbolMatched lipgloss.Style
	SymbolPending lipgloss.Style
	SymbolWrong   lipgloss.Style
	Banner        lipgloss.Style
	Listening     lipgloss.Style
	Idle          lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Dim:           lipgloss.NewStyle().Faint(true),
		Label:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(10),
		Symbol:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		SymbolMatched: lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true), // green
		SymbolPending: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),           // gray
		SymbolWrong:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),           // red
		Banner: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 2).
			MarginTop(1),
		Listening:     lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		Idle:          lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Help:          lipgloss.NewStyle().Faint(true),
		Main:          lipgloss.NewStyle().Padding(1, 2),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
	}
}
