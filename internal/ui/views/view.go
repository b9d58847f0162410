package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cheatcode/internal/domain"
)

// ReadyMarker is printed in every frame when the e2e driver asks for it.
const ReadyMarker = "__READY__"

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	Pattern   []string
	Preset    string
	Source    string
	Listening bool
	TimeLimit string

	Buffer       []string
	ShowBuffer   bool
	ShowProgress bool

	Banner  string
	Matches int
	Pads    []domain.PadInfo

	StatusMessage string
	StatusIsError bool
	Help          string
	Frame         int
	Ready         bool
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.styles.Title.Render("cheatcode"))
	content.WriteString("\n")

	content.WriteString(r.row("Status", r.renderListening(state)))
	patternText := strings.Join(state.Pattern, " ")
	if state.Preset != "" {
		patternText = fmt.Sprintf("%s (%s)", state.Preset, patternText)
	}
	content.WriteString(r.row("Pattern", r.styles.Symbol.Render(patternText)))
	content.WriteString(r.row("Source", r.styles.Symbol.Render(state.Source)))

	if state.ShowProgress {
		content.WriteString(r.row("Progress", r.renderProgress(state.Pattern, state.Buffer)))
	}
	if state.ShowBuffer {
		buf := strings.Join(state.Buffer, " ")
		if buf == "" {
			buf = r.styles.Dim.Render("(empty)")
		}
		content.WriteString(r.row("Buffer", buf))
	}
	content.WriteString(r.row("Matches", fmt.Sprintf("%d", state.Matches)))

	if state.Source == "gamepad" {
		content.WriteString(r.row("Pads", r.renderPads(state.Pads)))
	}

	if state.Banner != "" {
		content.WriteString(r.styles.Banner.Render(state.Banner))
		content.WriteString("\n")
	}

	if state.StatusMessage != "" {
		content.WriteString("\n")
		if state.StatusIsError {
			content.WriteString(r.styles.StatusError.Render(state.StatusMessage))
		} else {
			content.WriteString(r.styles.StatusSuccess.Render(state.StatusMessage))
		}
		content.WriteString("\n")
	}

	if state.Help != "" {
		content.WriteString("\n")
		content.WriteString(r.styles.Help.Render(state.Help))
	}
	if state.Ready {
		content.WriteString("\n")
		content.WriteString(ReadyMarker)
	}

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	return mainStyle.Render(content.String())
}

func (r *Renderer) row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, r.styles.Label.Render(label), value) + "\n"
}

func (r *Renderer) renderListening(state ViewState) string {
	if !state.Listening {
		return r.styles.Idle.Render("idle")
	}
	frame := spinnerFrames[state.Frame%len(spinnerFrames)]
	text := "listening"
	if state.TimeLimit != "" {
		text = fmt.Sprintf("listening (%s between symbols)", state.TimeLimit)
	}
	return r.styles.Listening.Render(frame + " " + text)
}

// renderProgress colours the pattern: entered symbols green, the rest gray.
// When the buffer has left the pattern the whole row is red.
func (r *Renderer) renderProgress(pattern, buffer []string) string {
	n, onTrack := Progress(pattern, buffer)
	parts := make([]string, len(pattern))
	for i, sym := range pattern {
		switch {
		case !onTrack:
			parts[i] = r.styles.SymbolWrong.Render(sym)
		case i < n:
			parts[i] = r.styles.SymbolMatched.Render(sym)
		default:
			parts[i] = r.styles.SymbolPending.Render(sym)
		}
	}
	return strings.Join(parts, " ")
}

func (r *Renderer) renderPads(pads []domain.PadInfo) string {
	if len(pads) == 0 {
		return r.styles.Dim.Render("none connected")
	}
	lines := make([]string, 0, len(pads))
	for _, p := range pads {
		lines = append(lines, fmt.Sprintf("#%d %s (%d buttons, %d axes)", p.Index, p.ID, p.Buttons, p.Axes))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Progress reports how many leading pattern symbols the buffer has entered.
// onTrack is false when the buffer is not a prefix of the pattern, in which
// case only a timeout can lead to a match again.
func Progress(pattern, buffer []string) (n int, onTrack bool) {
	if len(buffer) > len(pattern) {
		return 0, false
	}
	for i, sym := range buffer {
		if pattern[i] != sym {
			return 0, false
		}
	}
	return len(buffer), true
}
