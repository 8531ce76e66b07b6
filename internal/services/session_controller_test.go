package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/xvierd/current/internal/adapters/clock"
	"github.com/xvierd/current/internal/adapters/ticker"
	"github.com/xvierd/current/internal/domain"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// fakeChime counts plays and can be told to fail.
type fakeChime struct {
	mu    sync.Mutex
	plays int
	err   error
}

func (f *fakeChime) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plays++
	return f.err
}

func (f *fakeChime) Plays() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plays
}

// fakeVisibility lets tests emit foreground changes.
type fakeVisibility struct {
	fns map[int]func(bool)
	id  int
}

func (v *fakeVisibility) Subscribe(fn func(bool)) func() {
	if v.fns == nil {
		v.fns = make(map[int]func(bool))
	}
	id := v.id
	v.id++
	v.fns[id] = fn
	return func() { delete(v.fns, id) }
}

func (v *fakeVisibility) emit(foreground bool) {
	for _, fn := range v.fns {
		fn(foreground)
	}
}

type harness struct {
	ctrl   *SessionController
	clock  *clock.Manual
	ticker *ticker.Manual
	chime  *fakeChime
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		clock:  clock.NewManual(epoch),
		ticker: ticker.NewManual(),
		chime:  &fakeChime{},
	}
	h.ctrl = NewSessionController(h.clock, h.ticker, WithChime(h.chime))
	t.Cleanup(h.ctrl.Close)
	return h
}

// advance moves the clock forward and delivers one tick.
func (h *harness) advance(d time.Duration) {
	h.clock.Advance(d)
	h.ticker.Fire()
}

func (h *harness) startRun(t *testing.T, minutes int) {
	t.Helper()
	h.ctrl.SubmitIntention("focus")
	require.NoError(t, h.ctrl.SelectEmotion(domain.EmotionPleasant, domain.LabelReady))
	require.NoError(t, h.ctrl.ChooseDuration(minutes))
	require.Equal(t, domain.PhaseRunning, h.ctrl.Snapshot().Phase)
}

func assertIdle(t *testing.T, s domain.SessionState) {
	t.Helper()
	assert.Equal(t, domain.NewSessionState(), s)
}

func TestSessionController_InitialState(t *testing.T) {
	h := newHarness(t)
	assertIdle(t, h.ctrl.Snapshot())
	assert.Equal(t, domain.DefaultTimerSettings(), h.ctrl.Settings())
}

func TestSessionController_SelectionFlow(t *testing.T) {
	h := newHarness(t)

	h.ctrl.SubmitIntention("  draft outline  ")
	s := h.ctrl.Snapshot()
	assert.Equal(t, domain.PhaseAwaitingEmotion, s.Phase)
	assert.Equal(t, "draft outline", s.Intention)
	assert.NotEmpty(t, s.ID)
	assert.Nil(t, s.Emotion)

	t.Run("back to idle keeps intention", func(t *testing.T) {
		h.ctrl.Back()
		s := h.ctrl.Snapshot()
		assert.Equal(t, domain.PhaseIdle, s.Phase)
		assert.Equal(t, "draft outline", s.Intention)
		h.ctrl.SubmitIntention("draft outline")
	})

	t.Run("invalid emotion rejected", func(t *testing.T) {
		err := h.ctrl.SelectEmotion(domain.EmotionPleasant, domain.LabelDrained)
		assert.ErrorIs(t, err, domain.ErrInvalidEmotion)
		assert.Equal(t, domain.PhaseAwaitingEmotion, h.ctrl.Snapshot().Phase)
	})

	t.Run("select emotion", func(t *testing.T) {
		require.NoError(t, h.ctrl.SelectEmotion(domain.EmotionUnpleasant, domain.LabelOverwhelmed))
		s := h.ctrl.Snapshot()
		assert.Equal(t, domain.PhaseAwaitingDuration, s.Phase)
		require.NotNil(t, s.Emotion)
		assert.Equal(t, domain.LabelOverwhelmed, s.Emotion.Label)
	})

	t.Run("back to emotion clears answer", func(t *testing.T) {
		h.ctrl.Back()
		s := h.ctrl.Snapshot()
		assert.Equal(t, domain.PhaseAwaitingEmotion, s.Phase)
		assert.Nil(t, s.Emotion)
		require.NoError(t, h.ctrl.SelectEmotion(domain.EmotionPleasant, domain.LabelExcited))
	})

	t.Run("refine intention", func(t *testing.T) {
		h.ctrl.RefineIntention("draft outline v2")
		assert.Equal(t, "draft outline v2", h.ctrl.Snapshot().Intention)
	})

	t.Run("duration below one minute rejected", func(t *testing.T) {
		assert.ErrorIs(t, h.ctrl.ChooseDuration(0), domain.ErrInvalidDuration)
		assert.Equal(t, domain.PhaseAwaitingDuration, h.ctrl.Snapshot().Phase)
		assert.Equal(t, 0, h.ticker.Active())
	})

	t.Run("choose duration starts run", func(t *testing.T) {
		require.NoError(t, h.ctrl.ChooseDuration(30))
		s := h.ctrl.Snapshot()
		assert.Equal(t, domain.PhaseRunning, s.Phase)
		assert.Equal(t, 30, s.Timer.OriginalMinutes)
		assert.Equal(t, 1800, s.Timer.RemainingSeconds)
		require.NotNil(t, s.Timer.StartedAt)
		assert.True(t, s.Timer.StartedAt.Equal(epoch))
		assert.Zero(t, s.Timer.AccumulatedPause)
		assert.Nil(t, s.Timer.PauseStartedAt)
		assert.Equal(t, 1, h.ticker.Active())
		require.NotNil(t, s.Emotion)
		assert.Equal(t, domain.LabelExcited, s.Emotion.Label)
	})
}

func TestSessionController_JustStart(t *testing.T) {
	h := newHarness(t)
	h.ctrl.SetSettings(domain.TimerSettings{DefaultMinutes: 30})

	h.ctrl.JustStart("inbox zero")
	s := h.ctrl.Snapshot()

	assert.Equal(t, domain.PhaseRunning, s.Phase)
	assert.Equal(t, "inbox zero", s.Intention)
	assert.Nil(t, s.Emotion)
	assert.Equal(t, 30, s.Timer.OriginalMinutes)
	assert.Equal(t, 30*60, s.Timer.RemainingSeconds)
}

func TestSessionController_JustStartFor(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctrl.JustStartFor("inbox zero", 10))
	s := h.ctrl.Snapshot()
	assert.Equal(t, domain.PhaseRunning, s.Phase)
	assert.Equal(t, 10, s.Timer.OriginalMinutes)
	assert.Equal(t, 25, h.ctrl.Settings().DefaultMinutes, "the default is untouched")

	h.ctrl.Quit()
	h.ctrl.JustStart("next")
	assert.Equal(t, 25, h.ctrl.Snapshot().Timer.OriginalMinutes, "later sessions use the default")

	assert.ErrorIs(t, h.ctrl.JustStartFor("x", 0), domain.ErrInvalidDuration)
}

func TestSessionController_StartIsFullLength(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		minutes := rapid.IntRange(1, 600).Draw(rt, "minutes")
		ctrl := NewSessionController(clock.NewManual(epoch), ticker.NewManual())
		defer ctrl.Close()

		ctrl.SubmitIntention("")
		if err := ctrl.SelectEmotion(domain.EmotionPleasant, domain.LabelConfident); err != nil {
			rt.Fatalf("SelectEmotion() error = %v", err)
		}
		if err := ctrl.ChooseDuration(minutes); err != nil {
			rt.Fatalf("ChooseDuration() error = %v", err)
		}
		if got := ctrl.Snapshot().Timer.RemainingSeconds; got != minutes*60 {
			rt.Fatalf("remaining = %d, want %d", got, minutes*60)
		}
	})
}

func TestSessionController_TickIsDriftFree(t *testing.T) {
	h := newHarness(t)
	h.startRun(t, 10)

	// Only three ticks fire across 90 seconds, as if the tab were throttled.
	h.clock.Advance(30 * time.Second)
	h.ticker.Fire()
	h.clock.Advance(59 * time.Second)
	h.ticker.Fire()
	h.clock.Advance(1500 * time.Millisecond)
	h.ticker.Fire()

	assert.Equal(t, 600-90, h.ctrl.Snapshot().Timer.RemainingSeconds)
}

func TestSessionController_ZeroCrossingFiresOnce(t *testing.T) {
	h := newHarness(t)
	h.startRun(t, 1)

	h.advance(time.Minute)
	s := h.ctrl.Snapshot()
	assert.Equal(t, domain.PhasePreFinish, s.Phase)
	assert.Equal(t, 0, s.Timer.RemainingSeconds)
	assert.True(t, s.Timer.Notified)
	assert.Equal(t, 1, h.chime.Plays())
	assert.Equal(t, 0, h.ticker.Active(), "ticking should stop at zero")

	for i := 0; i < 5; i++ {
		h.ctrl.Tick()
		h.ctrl.VisibilityChanged(true)
		h.advance(time.Second)
	}

	assert.Equal(t, 1, h.chime.Plays())
	assert.Equal(t, domain.PhasePreFinish, h.ctrl.Snapshot().Phase)
	assert.Equal(t, 60, h.ctrl.Snapshot().FocusedSeconds)
}

func TestSessionController_ChimeFailureIsSwallowed(t *testing.T) {
	h := newHarness(t)
	h.chime.err = errors.New("playback rejected")
	h.startRun(t, 1)

	h.advance(2 * time.Minute)

	assert.Equal(t, domain.PhasePreFinish, h.ctrl.Snapshot().Phase)
	assert.Equal(t, 1, h.chime.Plays())
}

func TestSessionController_PauseResume(t *testing.T) {
	h := newHarness(t)
	h.startRun(t, 10)

	h.advance(42 * time.Second)
	h.ctrl.Pause()

	s := h.ctrl.Snapshot()
	assert.Equal(t, domain.PhasePaused, s.Phase)
	require.NotNil(t, s.Timer.PauseStartedAt)
	assert.Equal(t, 600-42, s.Timer.RemainingSeconds)
	assert.Equal(t, 0, h.ticker.Active(), "pause should cancel the tick")

	h.clock.Advance(3 * time.Hour)
	h.ctrl.Tick()
	assert.Equal(t, 600-42, h.ctrl.Snapshot().Timer.RemainingSeconds, "remaining frozen while paused")

	h.ctrl.Pause()
	assert.Equal(t, domain.PhasePaused, h.ctrl.Snapshot().Phase)

	h.ctrl.Resume()
	s = h.ctrl.Snapshot()
	assert.Equal(t, domain.PhaseRunning, s.Phase)
	assert.Nil(t, s.Timer.PauseStartedAt)
	assert.Equal(t, 3*time.Hour, s.Timer.AccumulatedPause)
	assert.Equal(t, 600-42, s.Timer.RemainingSeconds)
	assert.Equal(t, 1, h.ticker.Active())

	h.advance(8 * time.Second)
	assert.Equal(t, 600-50, h.ctrl.Snapshot().Timer.RemainingSeconds)
}

func TestSessionController_PauseAccountingProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		minutes := rapid.IntRange(1, 120).Draw(rt, "minutes")
		k := rapid.IntRange(0, minutes*60-1).Draw(rt, "k")
		wait := rapid.Int64Range(0, int64(24*time.Hour)).Draw(rt, "wait")

		c := clock.NewManual(epoch)
		ctrl := NewSessionController(c, ticker.NewManual())
		defer ctrl.Close()
		ctrl.SubmitIntention("")
		_ = ctrl.SelectEmotion(domain.EmotionPleasant, domain.LabelReady)
		_ = ctrl.ChooseDuration(minutes)

		c.Advance(time.Duration(k) * time.Second)
		ctrl.Pause()
		c.Advance(time.Duration(wait))
		ctrl.Resume()

		if got := ctrl.Snapshot().Timer.RemainingSeconds; got != minutes*60-k {
			rt.Fatalf("remaining after resume = %d, want %d", got, minutes*60-k)
		}
	})
}

func TestSessionController_TogglePause(t *testing.T) {
	h := newHarness(t)
	h.startRun(t, 5)

	h.ctrl.TogglePause()
	assert.Equal(t, domain.PhasePaused, h.ctrl.Snapshot().Phase)
	h.ctrl.TogglePause()
	assert.Equal(t, domain.PhaseRunning, h.ctrl.Snapshot().Phase)
}

// Intents that arrive after the deadline passed but before the next tick
// must settle the zero-crossing rather than act on a run at 0.
func TestSessionController_OverdueCrossingWins(t *testing.T) {
	intents := map[string]func(c *SessionController){
		"pause":        func(c *SessionController) { c.Pause() },
		"toggle pause": func(c *SessionController) { c.TogglePause() },
		"add minutes":  func(c *SessionController) { _ = c.AddMinutes(1) },
	}

	for name, intent := range intents {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			h.startRun(t, 1)
			h.clock.Advance(90 * time.Second)

			intent(h.ctrl)

			s := h.ctrl.Snapshot()
			assert.Equal(t, domain.PhasePreFinish, s.Phase)
			assert.Equal(t, 0, s.Timer.RemainingSeconds)
			assert.Equal(t, 1, s.Timer.OriginalMinutes, "an overdue run is not extended")
			assert.Equal(t, 1, h.chime.Plays())
			assert.Equal(t, 0, h.ticker.Active())

			h.ctrl.Resume()
			h.ctrl.Tick()
			assert.Equal(t, domain.PhasePreFinish, h.ctrl.Snapshot().Phase)
			assert.Equal(t, 1, h.chime.Plays(), "crossing fires once")
		})
	}
}

func TestSessionController_PauseJustBeforeDeadline(t *testing.T) {
	h := newHarness(t)
	h.startRun(t, 1)
	h.clock.Advance(59 * time.Second)

	h.ctrl.Pause()
	s := h.ctrl.Snapshot()
	assert.Equal(t, domain.PhasePaused, s.Phase)
	assert.Equal(t, 1, s.Timer.RemainingSeconds)
	assert.Zero(t, h.chime.Plays())

	h.clock.Advance(time.Hour)
	h.ctrl.Resume()
	assert.Equal(t, domain.PhaseRunning, h.ctrl.Snapshot().Phase)

	h.advance(time.Second)
	assert.Equal(t, domain.PhasePreFinish, h.ctrl.Snapshot().Phase)
	assert.Equal(t, 1, h.chime.Plays())
}

func TestSessionController_VisibilityRestore(t *testing.T) {
	h := newHarness(t)
	vis := &fakeVisibility{}
	h.ctrl.Watch(vis)
	h.startRun(t, 20)

	h.advance(10 * time.Second)
	before := h.ctrl.Snapshot().Timer.RemainingSeconds

	// Ticks are suspended while hidden: the clock moves, nothing fires.
	vis.emit(false)
	h.clock.Advance(7 * time.Minute)
	assert.Equal(t, before, h.ctrl.Snapshot().Timer.RemainingSeconds)

	vis.emit(true)
	assert.Equal(t, before-7*60, h.ctrl.Snapshot().Timer.RemainingSeconds)

	t.Run("restore past zero crosses once", func(t *testing.T) {
		h.clock.Advance(time.Hour)
		vis.emit(true)
		vis.emit(true)
		assert.Equal(t, domain.PhasePreFinish, h.ctrl.Snapshot().Phase)
		assert.Equal(t, 1, h.chime.Plays())
	})

	t.Run("close drops subscription", func(t *testing.T) {
		h.ctrl.Close()
		assert.Empty(t, vis.fns)
	})
}

func TestSessionController_AddMinutes(t *testing.T) {
	t.Run("running", func(t *testing.T) {
		h := newHarness(t)
		h.startRun(t, 5)
		h.advance(100 * time.Second)
		before := h.ctrl.Snapshot()

		require.NoError(t, h.ctrl.AddMinutes(15))
		after := h.ctrl.Snapshot()

		assert.Equal(t, domain.PhaseRunning, after.Phase)
		assert.Equal(t, 20, after.Timer.OriginalMinutes)
		assert.Equal(t, before.Timer.RemainingSeconds+15*60, after.Timer.RemainingSeconds)
		assert.Equal(t, before.Timer.StartedAt, after.Timer.StartedAt)
		assert.Equal(t, before.Timer.AccumulatedPause, after.Timer.AccumulatedPause)
	})

	t.Run("paused stays paused", func(t *testing.T) {
		h := newHarness(t)
		h.startRun(t, 5)
		h.advance(time.Minute)
		h.ctrl.Pause()
		h.clock.Advance(10 * time.Minute)

		require.NoError(t, h.ctrl.AddMinutes(15))
		s := h.ctrl.Snapshot()
		assert.Equal(t, domain.PhasePaused, s.Phase)
		assert.Equal(t, 4*60+15*60, s.Timer.RemainingSeconds)
		assert.Equal(t, 0, h.ticker.Active())
	})

	t.Run("invalid amount", func(t *testing.T) {
		h := newHarness(t)
		h.startRun(t, 5)
		assert.ErrorIs(t, h.ctrl.AddMinutes(0), domain.ErrInvalidDuration)
		assert.Equal(t, 5, h.ctrl.Snapshot().Timer.OriginalMinutes)
	})

	t.Run("ignored outside a run", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.ctrl.AddMinutes(15))
		assertIdle(t, h.ctrl.Snapshot())
	})
}

func TestSessionController_QuitResetsFromEveryPhase(t *testing.T) {
	setups := map[domain.Phase]func(h *harness, t *testing.T){
		domain.PhaseAwaitingEmotion: func(h *harness, t *testing.T) {
			h.ctrl.SubmitIntention("x")
		},
		domain.PhaseAwaitingDuration: func(h *harness, t *testing.T) {
			h.ctrl.SubmitIntention("x")
			require.NoError(t, h.ctrl.SelectEmotion(domain.EmotionPleasant, domain.LabelReady))
		},
		domain.PhaseRunning: func(h *harness, t *testing.T) {
			h.startRun(t, 5)
		},
		domain.PhasePaused: func(h *harness, t *testing.T) {
			h.startRun(t, 5)
			h.ctrl.Pause()
		},
		domain.PhasePreFinish: func(h *harness, t *testing.T) {
			h.startRun(t, 1)
			h.advance(time.Minute)
		},
		domain.PhaseCompleted: func(h *harness, t *testing.T) {
			h.startRun(t, 1)
			h.advance(time.Minute)
			h.ctrl.CompleteSession()
		},
	}

	for phase, setup := range setups {
		t.Run(string(phase), func(t *testing.T) {
			h := newHarness(t)
			setup(h, t)
			require.Equal(t, phase, h.ctrl.Snapshot().Phase)

			h.ctrl.Quit()

			assertIdle(t, h.ctrl.Snapshot())
			assert.Equal(t, 0, h.ticker.Active(), "quit should cancel the tick")
		})
	}
}

func TestSessionController_StaleTickIgnored(t *testing.T) {
	h := newHarness(t)
	capture := &capturingTicker{}
	h.ctrl = NewSessionController(h.clock, capture, WithChime(h.chime))
	h.startRun(t, 1)
	staleTick := capture.last

	h.ctrl.Quit()
	h.startRun(t, 5)
	current := h.ctrl.Snapshot()

	h.clock.Advance(time.Minute)
	staleTick()

	s := h.ctrl.Snapshot()
	assert.Equal(t, domain.PhaseRunning, s.Phase)
	assert.Equal(t, current.Timer.RemainingSeconds, s.Timer.RemainingSeconds, "stale tick must not recompute")
	assert.Equal(t, 0, h.chime.Plays())
}

// capturingTicker keeps the last callback even after it is stopped.
type capturingTicker struct {
	last func()
}

func (c *capturingTicker) Start(_ time.Duration, fn func()) func() {
	c.last = fn
	return func() {}
}

func TestSessionController_IgnoredEventsAreNoOps(t *testing.T) {
	h := newHarness(t)

	h.ctrl.Pause()
	h.ctrl.Resume()
	h.ctrl.Back()
	h.ctrl.CompleteSession()
	h.ctrl.StartAgain()
	h.ctrl.Quit()
	h.ctrl.RefineIntention("nope")
	assert.NoError(t, h.ctrl.KeepGoing(15))
	assert.NoError(t, h.ctrl.ChooseDuration(5))
	assert.NoError(t, h.ctrl.SelectEmotion(domain.EmotionPleasant, domain.LabelReady))

	assertIdle(t, h.ctrl.Snapshot())

	h.startRun(t, 5)
	h.ctrl.SubmitIntention("other")
	h.ctrl.JustStart("other")
	assert.Equal(t, "focus", h.ctrl.Snapshot().Intention)
	assert.Equal(t, 1, h.ctrl.Snapshot().Runs)
}

func TestSessionController_Subscribe(t *testing.T) {
	h := newHarness(t)
	var got []domain.Phase
	unsubscribe := h.ctrl.Subscribe(func(s domain.SessionState) {
		got = append(got, s.Phase)
	})

	h.ctrl.SubmitIntention("x")
	h.ctrl.Pause() // ignored, no notification
	h.ctrl.Back()
	unsubscribe()
	unsubscribe()
	h.ctrl.SubmitIntention("y")

	assert.Equal(t, []domain.Phase{domain.PhaseAwaitingEmotion, domain.PhaseIdle}, got)
}

func TestSessionController_Scenario(t *testing.T) {
	h := newHarness(t)

	h.ctrl.SubmitIntention("draft outline")
	require.NoError(t, h.ctrl.SelectEmotion(domain.EmotionPleasant, domain.LabelReady))
	require.NoError(t, h.ctrl.ChooseDuration(5))
	assert.Equal(t, 300, h.ctrl.Snapshot().Timer.RemainingSeconds)

	h.advance(300 * time.Second)
	s := h.ctrl.Snapshot()
	assert.Equal(t, domain.PhasePreFinish, s.Phase)
	assert.Equal(t, 1, h.chime.Plays())
	firstRun := s.Timer.RunID

	assert.ErrorIs(t, h.ctrl.KeepGoing(0), domain.ErrInvalidDuration)
	require.NoError(t, h.ctrl.KeepGoing(15))
	s = h.ctrl.Snapshot()
	assert.Equal(t, domain.PhaseRunning, s.Phase)
	assert.Equal(t, 900, s.Timer.RemainingSeconds)
	assert.NotEqual(t, firstRun, s.Timer.RunID)
	assert.False(t, s.Timer.Notified)
	assert.Zero(t, s.Timer.AccumulatedPause)
	assert.Equal(t, "draft outline", s.Intention)

	h.advance(900 * time.Second)
	s = h.ctrl.Snapshot()
	assert.Equal(t, domain.PhasePreFinish, s.Phase)
	assert.Equal(t, 2, h.chime.Plays())
	assert.Equal(t, 20, s.FocusedMinutes())
	assert.Equal(t, 2, s.Runs)

	h.ctrl.CompleteSession()
	assert.Equal(t, domain.PhaseCompleted, h.ctrl.Snapshot().Phase)

	h.ctrl.StartAgain()
	assertIdle(t, h.ctrl.Snapshot())
	assert.Equal(t, 0, h.ticker.Active())
}

func TestSessionController_SetSettingsNormalizes(t *testing.T) {
	h := newHarness(t)
	h.ctrl.SetSettings(domain.TimerSettings{DefaultMinutes: 0, AddMinutes: 10})

	got := h.ctrl.Settings()
	assert.Equal(t, 25, got.DefaultMinutes)
	assert.Equal(t, 10, got.AddMinutes)
}
