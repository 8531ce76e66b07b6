package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/current/internal/domain"
	"github.com/xvierd/current/internal/guidance"
)

// View renders the screen for the current phase. Every screen is a function
// of the snapshot plus view-local selection state.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle)).MarginBottom(1)
	sections := []string{titleStyle.Render(fmt.Sprintf("%s Current", m.theme.IconApp))}

	switch m.snap.Phase {
	case domain.PhaseIdle:
		sections = m.viewIntention(sections)
	case domain.PhaseAwaitingEmotion:
		sections = m.viewEmotion(sections)
	case domain.PhaseAwaitingDuration:
		sections = m.viewDuration(sections)
	case domain.PhaseRunning, domain.PhasePaused:
		sections = m.viewTimer(sections)
	case domain.PhasePreFinish:
		sections = m.viewPreFinish(sections)
	case domain.PhaseCompleted:
		sections = m.viewCompletion(sections)
	}

	if m.lastErr != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E06C75"))
		sections = append(sections, "", errStyle.Render(m.lastErr.Error()))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	if m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) currentGuide() guidance.Guide {
	if m.guide != nil {
		return m.guide
	}
	return guidance.ForEmotion(m.snap.Emotion, m.cfg, m.rng)
}

func (m Model) helpStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
}

func (m Model) headingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorFocus))
}

func (m Model) viewIntention(sections []string) []string {
	helpStyle := m.helpStyle()

	sections = append(sections, m.headingStyle().Render("What needs your current focus?"))
	sections = append(sections, helpStyle.Render("Set an intention for your session"))
	sections = append(sections, "")
	sections = append(sections, m.intentionInput.View())

	count := fmt.Sprintf("%d/%d", len([]rune(m.intentionInput.Value())), domain.MaxIntentionLength)
	sections = append(sections, helpStyle.Render(count))

	sections = append(sections, "")
	sections = append(sections, helpStyle.Render(fmt.Sprintf(
		"enter continue · ctrl+s just start (%d min) · ctrl+n skip for now · esc exit",
		m.ctrl.Settings().DefaultMinutes)))
	return sections
}

// renderList draws a vertical list with an arrow on the cursor row, in the
// manner of the preset picker.
func (m Model) renderList(items []string) string {
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorFocus)).Bold(true)
	dimStyle := m.helpStyle()

	var b strings.Builder
	for i, item := range items {
		line := fmt.Sprintf("[%d] %s", i+1, item)
		if i == m.cursor {
			b.WriteString(activeStyle.Render("▸ " + line))
		} else {
			b.WriteString(dimStyle.Render("  " + line))
		}
		if i < len(items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) viewEmotion(sections []string) []string {
	helpStyle := m.helpStyle()

	sections = append(sections, m.headingStyle().Render("How does starting feel right now?"))
	if m.category == "" {
		sections = append(sections, helpStyle.Render("Check in with yourself"))
	} else {
		sections = append(sections, helpStyle.Render("Choose what resonates most"))
	}
	sections = append(sections, "")
	sections = append(sections, m.renderList(m.emotionItems()))
	sections = append(sections, "")
	sections = append(sections, helpStyle.Render("↑/↓ navigate · enter select · esc back"))
	return sections
}

func (m Model) viewDuration(sections []string) []string {
	helpStyle := m.helpStyle()
	g := m.currentGuide()

	sections = m.appendIntention(sections)
	sections = append(sections, m.headingStyle().Render(g.Prompt()))
	sections = append(sections, "")

	presets := g.Presets()
	items := make([]string, len(presets))
	for i, p := range presets {
		items[i] = fmt.Sprintf("%-8s %d min", p.Name, p.Minutes())
	}
	sections = append(sections, m.renderList(items))
	sections = m.appendQuote(sections)

	sections = append(sections, "")
	if m.refining {
		sections = append(sections, helpStyle.Render("Intention: ")+m.refineInput.View())
		sections = append(sections, helpStyle.Render("enter save · esc cancel"))
	} else {
		sections = append(sections, helpStyle.Render("↑/↓ navigate · enter start · [e]dit intention · esc back"))
	}
	return sections
}

func (m Model) viewTimer(sections []string) []string {
	paused := m.snap.Phase == domain.PhasePaused
	helpStyle := m.helpStyle()

	color := lipgloss.Color(m.theme.ColorFocus)
	if paused {
		color = lipgloss.Color(m.theme.ColorPaused)
	}

	sections = m.appendIntention(sections)
	if m.snap.Emotion != nil {
		sections = append(sections, helpStyle.Render("Feeling: "+m.snap.Emotion.String()))
	}

	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorPaused))
	sections = append(sections, statusStyle.Render(m.snap.Phase.Label()))
	sections = append(sections, "")
	sections = append(sections, renderClock(m.snap.Timer.RemainingSeconds, color, m.width))

	if paused {
		pauseBadge := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(m.theme.ColorPaused)).
			Padding(0, 1).
			Render(fmt.Sprintf("%s PAUSED", m.theme.IconPaused))
		sections = append(sections, "", pauseBadge)
	}

	sections = append(sections, "")
	sections = append(sections, m.progressBar(paused).ViewAs(runProgress(m.snap.Timer)))
	sections = m.appendQuote(sections)

	pauseAction := "[p]ause"
	if paused {
		pauseAction = "[p] resume"
	}
	sections = append(sections, "")
	sections = append(sections, helpStyle.Render(fmt.Sprintf("%s  [+] add %d min  [q]uit",
		pauseAction, m.ctrl.Settings().AddMinutes)))
	return sections
}

func (m Model) viewPreFinish(sections []string) []string {
	helpStyle := m.helpStyle()

	sections = m.appendIntention(sections)
	sections = append(sections, m.headingStyle().Render("How are you feeling?"))
	sections = append(sections, helpStyle.Render(fmt.Sprintf("You rode this current for %d minutes", m.snap.FocusedMinutes())))
	sections = append(sections, "")
	sections = append(sections, m.progressBar(false).ViewAs(1.0))
	sections = append(sections, "")
	sections = append(sections, helpStyle.Render(fmt.Sprintf(
		"[k] Let's ride this current (+%d minutes)  [c] Complete my current session  [q]uit",
		m.ctrl.Settings().KeepGoingMinutes)))
	return sections
}

func (m Model) viewCompletion(sections []string) []string {
	helpStyle := m.helpStyle()

	sections = append(sections, m.headingStyle().Render("Session Complete!"))
	sections = m.appendIntention(sections)

	runs := "run"
	if m.snap.Runs != 1 {
		runs = "runs"
	}
	sections = append(sections, helpStyle.Render(fmt.Sprintf("%d minutes focused across %d %s",
		m.snap.FocusedMinutes(), m.snap.Runs, runs)))
	sections = m.appendQuote(sections)

	sections = append(sections, "")
	sections = append(sections, helpStyle.Render("[n]ew session  [q]uit"))
	return sections
}

func (m Model) appendIntention(sections []string) []string {
	if m.snap.Intention == "" {
		return sections
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorIntention))
	return append(sections, style.Render("Intention: "+m.snap.Intention))
}

func (m Model) appendQuote(sections []string) []string {
	if m.quote == nil {
		return sections
	}
	style := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color(m.theme.ColorQuote))
	width := m.width - 8
	if width > 72 {
		width = 72
	}
	if width > 0 {
		style = style.Width(width).Align(lipgloss.Center)
	}
	text := fmt.Sprintf("\"%s\"\n- %s", m.quote.Text, m.quote.Author)
	return append(sections, "", style.Render(text))
}
