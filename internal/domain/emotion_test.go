package domain

import (
	"errors"
	"testing"
)

func TestNewEmotion(t *testing.T) {
	tests := []struct {
		category EmotionCategory
		label    EmotionLabel
		wantErr  bool
	}{
		{EmotionPleasant, LabelReady, false},
		{EmotionPleasant, LabelConfident, false},
		{EmotionUnpleasant, LabelOverwhelmed, false},
		{EmotionPleasant, LabelDrained, true},
		{EmotionUnpleasant, LabelExcited, true},
		{EmotionCategory("neutral"), LabelReady, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.category)+"/"+string(tt.label), func(t *testing.T) {
			e, err := NewEmotion(tt.category, tt.label)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEmotion) {
					t.Errorf("NewEmotion() error = %v, want ErrInvalidEmotion", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewEmotion() error = %v", err)
			}
			if e.Category != tt.category || e.Label != tt.label {
				t.Errorf("NewEmotion() = %+v", e)
			}
		})
	}
}

func TestLabelsFor(t *testing.T) {
	if got := LabelsFor(EmotionPleasant); len(got) != 3 || got[0] != LabelReady {
		t.Errorf("LabelsFor(pleasant) = %v", got)
	}
	if got := LabelsFor(EmotionCategory("meh")); got != nil {
		t.Errorf("LabelsFor(unknown) = %v, want nil", got)
	}

	labels := LabelsFor(EmotionUnpleasant)
	labels[0] = "mutated"
	if LabelsFor(EmotionUnpleasant)[0] != LabelDrained {
		t.Error("LabelsFor() should return a copy")
	}
}

func TestParseEmotion(t *testing.T) {
	tests := []struct {
		word string
		want EmotionLabel
		cat  EmotionCategory
	}{
		{"overwhelm", LabelOverwhelmed, EmotionUnpleasant},
		{"Confident", LabelConfident, EmotionPleasant},
		{"  drained ", LabelDrained, EmotionUnpleasant},
		{"excit", LabelExcited, EmotionPleasant},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			e, err := ParseEmotion(tt.word)
			if err != nil {
				t.Fatalf("ParseEmotion(%q) error = %v", tt.word, err)
			}
			if e.Label != tt.want || e.Category != tt.cat {
				t.Errorf("ParseEmotion(%q) = %+v, want %s/%s", tt.word, e, tt.cat, tt.want)
			}
		})
	}

	for _, bad := range []string{"", "zzz"} {
		if _, err := ParseEmotion(bad); !errors.Is(err, ErrUnknownFeeling) {
			t.Errorf("ParseEmotion(%q) error = %v, want ErrUnknownFeeling", bad, err)
		}
	}
}

func TestEmotion_String(t *testing.T) {
	e := Emotion{Category: EmotionUnpleasant, Label: LabelDiscouraged}
	if got := e.String(); got != "Discouraged (unpleasant)" {
		t.Errorf("String() = %q", got)
	}
}
