package clock

import (
	"testing"
	"time"
)

func TestSystem_Now(t *testing.T) {
	before := time.Now()
	got := New().Now()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Errorf("Now() = %v, want between %v and %v", got, before, after)
	}
}

func TestManual(t *testing.T) {
	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	m := NewManual(start)

	if !m.Now().Equal(start) {
		t.Errorf("Now() = %v, want %v", m.Now(), start)
	}

	m.Advance(90 * time.Second)
	if want := start.Add(90 * time.Second); !m.Now().Equal(want) {
		t.Errorf("Now() after Advance = %v, want %v", m.Now(), want)
	}

	later := start.Add(time.Hour)
	m.Set(later)
	if !m.Now().Equal(later) {
		t.Errorf("Now() after Set = %v, want %v", m.Now(), later)
	}
}
