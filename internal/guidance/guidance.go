// Package guidance encapsulates emotion-aware behavior of the start flow.
// The TUI queries a Guide for duration presets, prompts and quotes instead
// of checking the emotion everywhere.
package guidance

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/xvierd/current/internal/config"
	"github.com/xvierd/current/internal/domain"
)

// GentleMinutes is the length of the low-commitment run offered when
// starting feels unpleasant.
const GentleMinutes = 5

// Guide defines the behavior that depends on the check-in answer.
type Guide interface {
	// Category returns the emotion category, or "" when no check-in was given.
	Category() domain.EmotionCategory

	// Presets returns the duration presets in display order.
	Presets() []config.DurationPreset

	// Prompt returns the heading for the duration screen.
	Prompt() string

	// Quote picks a quote for screen, if this guide shows one there.
	Quote(screen domain.QuoteScreen) (domain.Quote, bool)
}

// ForEmotion returns the Guide for the given check-in answer. A nil emotion
// (just start, or skipped) gets the neutral guide. rng may be nil.
func ForEmotion(e *domain.Emotion, cfg *config.Config, rng *rand.Rand) Guide {
	b := base{presets: presetsFrom(cfg), rng: rng}
	if e == nil {
		return &neutralGuide{base: b}
	}
	switch e.Category {
	case domain.EmotionUnpleasant:
		return &unpleasantGuide{base: b, label: e.Label}
	case domain.EmotionPleasant:
		return &pleasantGuide{base: b, label: e.Label}
	default:
		return &neutralGuide{base: b}
	}
}

func presetsFrom(cfg *config.Config) []config.DurationPreset {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	var out []config.DurationPreset
	for _, p := range cfg.Timer.GetPresets() {
		if p.Duration < time.Minute {
			continue
		}
		out = append(out, p)
	}
	return out
}

type base struct {
	presets []config.DurationPreset
	rng     *rand.Rand
}

func (b base) quote(screen domain.QuoteScreen, shown ...domain.QuoteScreen) (domain.Quote, bool) {
	for _, s := range shown {
		if s == screen {
			return domain.QuoteFor(screen, b.rng)
		}
	}
	return domain.Quote{}, false
}

// --- Neutral Guide ---

type neutralGuide struct{ base }

func (g *neutralGuide) Category() domain.EmotionCategory { return "" }
func (g *neutralGuide) Prompt() string                   { return "How long do you want to focus?" }

func (g *neutralGuide) Presets() []config.DurationPreset {
	return append([]config.DurationPreset(nil), g.presets...)
}

func (g *neutralGuide) Quote(screen domain.QuoteScreen) (domain.Quote, bool) {
	return g.quote(screen, domain.ScreenCompletion)
}

// --- Pleasant Guide ---

type pleasantGuide struct {
	base
	label domain.EmotionLabel
}

func (g *pleasantGuide) Category() domain.EmotionCategory { return domain.EmotionPleasant }

func (g *pleasantGuide) Prompt() string {
	return fmt.Sprintf("Feeling %s. How long will you ride this current?", g.label)
}

func (g *pleasantGuide) Presets() []config.DurationPreset {
	return append([]config.DurationPreset(nil), g.presets...)
}

func (g *pleasantGuide) Quote(screen domain.QuoteScreen) (domain.Quote, bool) {
	return g.quote(screen, domain.ScreenTimerPleasant, domain.ScreenCompletion)
}

// --- Unpleasant Guide ---

type unpleasantGuide struct {
	base
	label domain.EmotionLabel
}

func (g *unpleasantGuide) Category() domain.EmotionCategory { return domain.EmotionUnpleasant }

func (g *unpleasantGuide) Prompt() string {
	return fmt.Sprintf("Feeling %s is normal. Could you start with just %d minutes?", g.label, GentleMinutes)
}

// Presets leads with the gentle run and drops other presets of that length
// or shorter.
func (g *unpleasantGuide) Presets() []config.DurationPreset {
	gentle := config.DurationPreset{Name: "Just 5", Duration: GentleMinutes * time.Minute}
	out := []config.DurationPreset{gentle}
	for _, p := range g.presets {
		if p.Duration <= gentle.Duration {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (g *unpleasantGuide) Quote(screen domain.QuoteScreen) (domain.Quote, bool) {
	return g.quote(screen, domain.ScreenStartUnpleasant, domain.ScreenCompletion)
}
