package ui

import (
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"cheatcode/internal/config"
	"cheatcode/internal/detector"
	"cheatcode/internal/domain"
	"cheatcode/internal/eventbus"
	"cheatcode/internal/ui/views"
)

const (
	tickInterval = 80 * time.Millisecond
	// bannerTicks keeps the match banner up for about two seconds
	bannerTicks = 25
	statusTTL   = 3 * time.Second
)

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	det    *detector.Controller
	feed   *KeyFeed

	width  int
	height int
	help   help.Model
	keys   KeyMap

	buffer        []string
	matches       int
	banner        int
	frame         int
	pads          map[int]domain.PadInfo
	statusMessage string
	statusIsError bool
	inPagerMode   bool
	e2e           bool

	renderer *views.Renderer
	guide    *GuideOps
}

// NewModel creates a new UI model. Key presses that are not UI controls are
// dispatched to feed, which det is expected to listen on.
func NewModel(bus eventbus.EventBus, cfg *config.Config, det *detector.Controller, feed *KeyFeed) *Model {
	return &Model{
		bus:      bus,
		config:   cfg,
		det:      det,
		feed:     feed,
		help:     help.New(),
		keys:     DefaultKeyMap(),
		pads:     make(map[int]domain.PadInfo),
		renderer: views.NewRenderer(),
		guide:    NewGuideOps(),
		e2e:      os.Getenv("CHEATCODE_E2E_TEST") == "1",
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.guide.SetProgram(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case EventMsg:
		return m.handleEvent(msg.Event)

	case tickMsg:
		m.frame++
		if m.banner > 0 {
			m.banner--
		}
		return m, tick()

	case guidePagerMsg:
		if msg.err != nil {
			log.Printf("Guide pager failed: %v", msg.err)
			return m, m.setStatus(fmt.Sprintf("Guide unavailable: %v", msg.err), true)
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case clearStatusMsg:
		m.statusMessage = ""
		m.statusIsError = false
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.det.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		if m.det.State() == detector.StateListening {
			m.det.Stop()
			return m, m.setStatus("Stopped listening", false)
		}
		if err := m.det.Start(); err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		return m, m.setStatus("Listening", false)

	case key.Matches(msg, m.keys.Reset):
		m.buffer = nil
		m.banner = 0
		return m, nil

	case key.Matches(msg, m.keys.Guide):
		return m, m.showGuide()
	}

	if name := KeyName(msg); name != "" {
		m.feed.Dispatch(name)
	}
	return m, nil
}

func (m *Model) handleEvent(event eventbus.DomainEvent) (tea.Model, tea.Cmd) {
	switch e := event.(type) {
	case eventbus.SymbolAcceptedEvent:
		m.buffer = symbolStrings(e.Buffer)
	case eventbus.BufferResetEvent:
		m.buffer = nil
	case eventbus.MatchDetectedEvent:
		m.matches = e.Count
		m.banner = bannerTicks
	case eventbus.PadConnectedEvent:
		m.pads[e.Pad.Index] = e.Pad
	case eventbus.PadDisconnectedEvent:
		delete(m.pads, e.Pad.Index)
	case eventbus.DetectorStoppedEvent:
		m.pads = make(map[int]domain.PadInfo)
	case eventbus.ErrorEvent:
		return m, m.setStatus(e.Message, true)
	}
	return m, nil
}

func (m *Model) setStatus(text string, isError bool) tea.Cmd {
	m.statusMessage = text
	m.statusIsError = isError
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// showGuide returns a command that shows the guide in the pager
func (m *Model) showGuide() tea.Cmd {
	content := RenderGuide(m.keys, m.det.Pattern())
	program := m.guide.program
	if program == nil {
		return func() tea.Msg { return guidePagerMsg{err: fmt.Errorf("program not set")} }
	}
	return func() tea.Msg {
		program.Send(pauseRenderingMsg{})
		err := m.guide.ShowInPager(content)
		program.Send(resumeRenderingMsg{})
		return guidePagerMsg{err: err}
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}

	state := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Pattern:       m.det.Pattern().Symbols(),
		Preset:        m.det.Pattern().Preset(),
		Source:        string(m.det.SourceType()),
		Listening:     m.det.State() == detector.StateListening,
		Buffer:        m.buffer,
		ShowBuffer:    m.config.UISettings.ShowBuffer,
		ShowProgress:  m.config.UISettings.ShowProgress,
		Matches:       m.matches,
		Pads:          m.padList(),
		StatusMessage: m.statusMessage,
		StatusIsError: m.statusIsError,
		Help:          m.help.View(m.keys),
		Frame:         m.frame,
		Ready:         m.e2e,
	}
	if tl := m.config.TimeLimit(); tl > 0 {
		state.TimeLimit = tl.String()
	}
	if m.banner > 0 {
		state.Banner = m.config.Reaction.Message
		if state.Banner == "" {
			state.Banner = "Pattern matched!"
		}
	}
	return m.renderer.Render(state)
}

func (m *Model) padList() []domain.PadInfo {
	pads := make([]domain.PadInfo, 0, len(m.pads))
	for _, p := range m.pads {
		pads = append(pads, p)
	}
	sort.Slice(pads, func(i, j int) bool { return pads[i].Index < pads[j].Index })
	return pads
}

func symbolStrings(syms []domain.Symbol) []string {
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = s.String()
	}
	return out
}
