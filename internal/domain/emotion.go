package domain

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// EmotionCategory is the broad feeling about starting a session.
type EmotionCategory string

const (
	EmotionPleasant   EmotionCategory = "pleasant"
	EmotionUnpleasant EmotionCategory = "unpleasant"
)

// EmotionLabel is a specific feeling within a category.
type EmotionLabel string

const (
	LabelReady       EmotionLabel = "ready"
	LabelExcited     EmotionLabel = "excited"
	LabelConfident   EmotionLabel = "confident"
	LabelDrained     EmotionLabel = "drained"
	LabelOverwhelmed EmotionLabel = "overwhelmed"
	LabelDiscouraged EmotionLabel = "discouraged"
)

// ValidCategories lists all supported emotion categories in display order.
var ValidCategories = []EmotionCategory{
	EmotionPleasant,
	EmotionUnpleasant,
}

var labelsByCategory = map[EmotionCategory][]EmotionLabel{
	EmotionPleasant:   {LabelReady, LabelExcited, LabelConfident},
	EmotionUnpleasant: {LabelDrained, LabelOverwhelmed, LabelDiscouraged},
}

// Emotion is the user's check-in answer before starting a run.
type Emotion struct {
	Category EmotionCategory
	Label    EmotionLabel
}

// LabelsFor returns the labels offered for a category, or nil if the
// category is unknown.
func LabelsFor(c EmotionCategory) []EmotionLabel {
	labels := labelsByCategory[c]
	if labels == nil {
		return nil
	}
	out := make([]EmotionLabel, len(labels))
	copy(out, labels)
	return out
}

// NewEmotion validates that label belongs to category.
func NewEmotion(c EmotionCategory, l EmotionLabel) (Emotion, error) {
	for _, valid := range labelsByCategory[c] {
		if valid == l {
			return Emotion{Category: c, Label: l}, nil
		}
	}
	return Emotion{}, fmt.Errorf("%w: %q is not a %q feeling", ErrInvalidEmotion, l, c)
}

// ParseEmotion fuzzy-matches a free-form word ("overwhelm", "conf") to a
// known emotion label.
func ParseEmotion(word string) (Emotion, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return Emotion{}, ErrUnknownFeeling
	}

	var (
		names  []string
		lookup []Emotion
	)
	for _, c := range ValidCategories {
		for _, l := range labelsByCategory[c] {
			names = append(names, string(l))
			lookup = append(lookup, Emotion{Category: c, Label: l})
		}
	}

	matches := fuzzy.Find(word, names)
	if len(matches) == 0 {
		return Emotion{}, fmt.Errorf("%w: %q", ErrUnknownFeeling, word)
	}
	return lookup[matches[0].Index], nil
}

// Title returns the display form of the label.
func (l EmotionLabel) Title() string {
	if l == "" {
		return ""
	}
	return strings.ToUpper(string(l[:1])) + string(l[1:])
}

// Title returns the display form of the category.
func (c EmotionCategory) Title() string {
	switch c {
	case EmotionPleasant:
		return "Pleasant"
	case EmotionUnpleasant:
		return "Unpleasant"
	default:
		return "Unknown"
	}
}

func (e Emotion) String() string {
	return fmt.Sprintf("%s (%s)", e.Label.Title(), e.Category)
}
