// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"math/rand/v2"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/current/internal/config"
	"github.com/xvierd/current/internal/domain"
	"github.com/xvierd/current/internal/guidance"
	"github.com/xvierd/current/internal/ports"
)

// stateMsg tells the model the controller state changed. The model reads a
// fresh snapshot instead of trusting the payload order across goroutines.
type stateMsg struct{}

// Model represents the TUI state. Session state lives in the controller;
// the model only keeps a snapshot plus view-local selection state.
type Model struct {
	ctrl  ports.SessionController
	snap  domain.SessionState
	cfg   *config.Config
	theme config.ThemeConfig
	focus *FocusBroadcaster
	rng   *rand.Rand

	width  int
	height int

	intentionInput textinput.Model
	refineInput    textinput.Model
	refining       bool

	// category is the emotion category picked before a label; it never
	// reaches the controller on its own.
	category domain.EmotionCategory
	cursor   int

	guide   guidance.Guide
	quote   *domain.Quote
	lastErr error
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithConfig sets the configuration used for presets and theme.
func WithConfig(cfg *config.Config) ModelOption {
	return func(m *Model) {
		if cfg != nil {
			m.cfg = cfg
		}
	}
}

// WithFocus routes terminal focus reports to f.
func WithFocus(f *FocusBroadcaster) ModelOption {
	return func(m *Model) { m.focus = f }
}

// WithRand sets the random source for quotes.
func WithRand(rng *rand.Rand) ModelOption {
	return func(m *Model) { m.rng = rng }
}

// NewModel creates a new TUI model showing the controller's current phase.
func NewModel(ctrl ports.SessionController, opts ...ModelOption) Model {
	m := Model{
		ctrl:  ctrl,
		cfg:   config.DefaultConfig(),
		width: getTerminalWidth(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.theme = resolveTheme(&m.cfg.Theme)

	m.intentionInput = textinput.New()
	m.intentionInput.Placeholder = "Type your intention here..."
	m.intentionInput.CharLimit = domain.MaxIntentionLength
	m.intentionInput.Width = m.inputWidth()

	m.refineInput = textinput.New()
	m.refineInput.CharLimit = domain.MaxIntentionLength
	m.refineInput.Width = m.inputWidth()

	m.snap = ctrl.Snapshot()
	m.enterPhase(domain.PhaseIdle)
	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	if m.snap.Phase == domain.PhaseIdle {
		return textinput.Blink
	}
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.ctrl.Quit()
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case stateMsg:
		return m, m.refresh()

	case tea.FocusMsg:
		if m.focus != nil {
			m.focus.Set(true)
		}
		return m, nil

	case tea.BlurMsg:
		if m.focus != nil {
			m.focus.Set(false)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.intentionInput.Width = m.inputWidth()
		m.refineInput.Width = m.inputWidth()
		return m, nil
	}

	// Cursor blink and other input messages.
	var cmd tea.Cmd
	switch {
	case m.snap.Phase == domain.PhaseIdle:
		m.intentionInput, cmd = m.intentionInput.Update(msg)
	case m.refining:
		m.refineInput, cmd = m.refineInput.Update(msg)
	}
	return m, cmd
}

// refresh pulls a new snapshot and sets up view state when the phase changed.
func (m *Model) refresh() tea.Cmd {
	prev := m.snap.Phase
	m.snap = m.ctrl.Snapshot()
	if prev == m.snap.Phase {
		return nil
	}
	return m.enterPhase(prev)
}

// enterPhase resets view-local state for the phase just entered.
func (m *Model) enterPhase(from domain.Phase) tea.Cmd {
	m.cursor = 0
	m.lastErr = nil

	switch m.snap.Phase {
	case domain.PhaseIdle:
		m.category = ""
		m.refining = false
		m.quote = nil
		m.guide = nil
		m.intentionInput.SetValue(m.snap.Intention)
		m.intentionInput.CursorEnd()
		return m.intentionInput.Focus()

	case domain.PhaseAwaitingEmotion:
		m.category = ""
		m.intentionInput.Blur()

	case domain.PhaseAwaitingDuration:
		m.refining = false
		m.guide = guidance.ForEmotion(m.snap.Emotion, m.cfg, m.rng)
		m.setQuote(domain.ScreenStartUnpleasant)

	case domain.PhaseRunning:
		m.intentionInput.Blur()
		if from == domain.PhasePaused {
			return nil
		}
		m.guide = guidance.ForEmotion(m.snap.Emotion, m.cfg, m.rng)
		m.setQuote(domain.ScreenTimerPleasant)

	case domain.PhasePreFinish:
		m.quote = nil

	case domain.PhaseCompleted:
		if m.guide == nil {
			m.guide = guidance.ForEmotion(m.snap.Emotion, m.cfg, m.rng)
		}
		m.setQuote(domain.ScreenCompletion)
	}
	return nil
}

func (m *Model) setQuote(screen domain.QuoteScreen) {
	m.quote = nil
	if m.guide == nil {
		return
	}
	if q, ok := m.guide.Quote(screen); ok {
		m.quote = &q
	}
}

func (m Model) inputWidth() int {
	w := m.width - 10
	if w < 20 {
		return 20
	}
	if w > 60 {
		return 60
	}
	return w
}

// runProgress returns the completed fraction of the current run.
func runProgress(t domain.TimerState) float64 {
	total := t.OriginalMinutes * 60
	if total <= 0 {
		return 0
	}
	done := float64(total-t.RemainingSeconds) / float64(total)
	switch {
	case done < 0:
		return 0
	case done > 1:
		return 1
	}
	return done
}

func (m Model) progressBar(paused bool) progress.Model {
	start, end := m.theme.FocusGradientStart, m.theme.FocusGradientEnd
	if paused {
		start, end = m.theme.PausedGradientStart, m.theme.PausedGradientEnd
	}
	pbar := progress.New(progress.WithGradient(start, end))
	pbar.Width = m.width - 4
	if pbar.Width > 80 {
		pbar.Width = 80
	}
	return pbar
}
