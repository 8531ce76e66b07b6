package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/current/internal/domain"
)

// handleKey dispatches a key press to the screen for the current phase.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.snap.Phase {
	case domain.PhaseIdle:
		return m.handleIntentionKey(msg)
	case domain.PhaseAwaitingEmotion:
		return m.handleEmotionKey(msg)
	case domain.PhaseAwaitingDuration:
		if m.refining {
			return m.handleRefineKey(msg)
		}
		return m.handleDurationKey(msg)
	case domain.PhaseRunning, domain.PhasePaused:
		return m.handleTimerKey(msg)
	case domain.PhasePreFinish:
		return m.handlePreFinishKey(msg)
	case domain.PhaseCompleted:
		return m.handleCompletionKey(msg)
	}
	return m, nil
}

func (m Model) handleIntentionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.ctrl.SubmitIntention(m.intentionInput.Value())
		return m, m.refresh()
	case "ctrl+s":
		m.ctrl.JustStart(m.intentionInput.Value())
		return m, m.refresh()
	case "ctrl+n":
		m.ctrl.SubmitIntention("")
		return m, m.refresh()
	case "esc":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.intentionInput, cmd = m.intentionInput.Update(msg)
	return m, cmd
}

// emotionItems returns the categories, or the labels once a category is picked.
func (m Model) emotionItems() []string {
	if m.category == "" {
		items := make([]string, len(domain.ValidCategories))
		for i, c := range domain.ValidCategories {
			items[i] = c.Title()
		}
		return items
	}
	labels := domain.LabelsFor(m.category)
	items := make([]string, len(labels))
	for i, l := range labels {
		items[i] = l.Title()
	}
	return items
}

func (m Model) handleEmotionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.emotionItems())

	switch key := msg.String(); key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "1", "2", "3":
		idx := int(key[0] - '1')
		if idx < n {
			m.cursor = idx
			return m.chooseEmotion()
		}
	case "enter":
		return m.chooseEmotion()
	case "esc":
		if m.category != "" {
			m.cursor = categoryIndex(m.category)
			m.category = ""
			return m, nil
		}
		m.ctrl.Back()
		return m, m.refresh()
	}
	return m, nil
}

func (m Model) chooseEmotion() (tea.Model, tea.Cmd) {
	if m.category == "" {
		m.category = domain.ValidCategories[m.cursor]
		m.cursor = 0
		return m, nil
	}
	label := domain.LabelsFor(m.category)[m.cursor]
	if err := m.ctrl.SelectEmotion(m.category, label); err != nil {
		m.lastErr = err
		return m, nil
	}
	return m, m.refresh()
}

func categoryIndex(c domain.EmotionCategory) int {
	for i, v := range domain.ValidCategories {
		if v == c {
			return i
		}
	}
	return 0
}

func (m Model) handleDurationKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	presets := m.currentGuide().Presets()

	switch key := msg.String(); key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(presets)-1 {
			m.cursor++
		}
	case "1", "2", "3", "4":
		idx := int(key[0] - '1')
		if idx < len(presets) {
			m.cursor = idx
			return m.chooseDuration(presets[idx].Minutes())
		}
	case "enter":
		if len(presets) > 0 {
			return m.chooseDuration(presets[m.cursor].Minutes())
		}
	case "e":
		m.refining = true
		m.refineInput.SetValue(m.snap.Intention)
		m.refineInput.CursorEnd()
		return m, m.refineInput.Focus()
	case "esc":
		m.ctrl.Back()
		return m, m.refresh()
	}
	return m, nil
}

func (m Model) chooseDuration(minutes int) (tea.Model, tea.Cmd) {
	if err := m.ctrl.ChooseDuration(minutes); err != nil {
		m.lastErr = err
		return m, nil
	}
	return m, m.refresh()
}

func (m Model) handleRefineKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.ctrl.RefineIntention(strings.TrimSpace(m.refineInput.Value()))
		m.refining = false
		m.refineInput.Blur()
		return m, m.refresh()
	case "esc":
		m.refining = false
		m.refineInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.refineInput, cmd = m.refineInput.Update(msg)
	return m, cmd
}

func (m Model) handleTimerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "p", " ":
		m.ctrl.TogglePause()
	case "+", "=":
		if err := m.ctrl.AddMinutes(m.ctrl.Settings().AddMinutes); err != nil {
			m.lastErr = err
			return m, nil
		}
	case "q":
		m.ctrl.Quit()
	default:
		return m, nil
	}
	return m, m.refresh()
}

func (m Model) handlePreFinishKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "k", "enter":
		if err := m.ctrl.KeepGoing(m.ctrl.Settings().KeepGoingMinutes); err != nil {
			m.lastErr = err
			return m, nil
		}
	case "c":
		m.ctrl.CompleteSession()
	case "q":
		m.ctrl.Quit()
	default:
		return m, nil
	}
	return m, m.refresh()
}

func (m Model) handleCompletionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "n":
		m.ctrl.StartAgain()
		return m, m.refresh()
	case "q", "esc":
		m.ctrl.Quit()
		return m, tea.Quit
	}
	return m, nil
}
