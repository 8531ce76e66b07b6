package services

import (
	"log/slog"
	"sync"

	"github.com/xvierd/current/internal/domain"
	"github.com/xvierd/current/internal/ports"
)

// SessionController owns the session state and every transition on it.
// All mutations happen under mu; listeners and the chime are called after
// the lock is released.
type SessionController struct {
	mu       sync.Mutex
	state    domain.SessionState
	settings domain.TimerSettings

	clock  ports.Clock
	ticker ports.Ticker
	chime  ports.Chime
	logger *slog.Logger

	stopTick     func()
	unwatchVis   func()
	listeners    map[int]func(domain.SessionState)
	nextListener int
}

// ControllerOption configures a SessionController.
type ControllerOption func(*SessionController)

// WithChime sets the completion side effect.
func WithChime(chime ports.Chime) ControllerOption {
	return func(c *SessionController) { c.chime = chime }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *SessionController) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSettings overrides the default timer settings.
func WithSettings(settings domain.TimerSettings) ControllerOption {
	return func(c *SessionController) { c.settings = settings.Normalize() }
}

// NewSessionController creates a controller in the idle state.
func NewSessionController(clock ports.Clock, ticker ports.Ticker, opts ...ControllerOption) *SessionController {
	c := &SessionController{
		state:     domain.NewSessionState(),
		settings:  domain.DefaultTimerSettings(),
		clock:     clock,
		ticker:    ticker,
		logger:    slog.New(slog.DiscardHandler),
		listeners: make(map[int]func(domain.SessionState)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// transition is the result of a locked mutation.
type transition struct {
	changed bool
	chime   bool
}

// apply runs fn under the lock and then notifies listeners and fires the
// chime outside of it.
func (c *SessionController) apply(event string, fn func() transition) {
	c.mu.Lock()
	from := c.state.Phase
	tr := fn()
	snap := c.state.Clone()
	var listeners []func(domain.SessionState)
	if tr.changed {
		listeners = make([]func(domain.SessionState), 0, len(c.listeners))
		for _, l := range c.listeners {
			listeners = append(listeners, l)
		}
	}
	c.mu.Unlock()

	if !tr.changed {
		c.logger.Debug("event ignored", "event", event, "phase", from)
		return
	}
	if from != snap.Phase {
		c.logger.Debug("transition", "event", event, "from", from, "to", snap.Phase, "session", snap.ID)
	}

	if tr.chime {
		c.playChime(snap)
	}
	for _, l := range listeners {
		l(snap)
	}
}

func (c *SessionController) playChime(snap domain.SessionState) {
	if c.chime == nil {
		return
	}
	if err := c.chime.Play(); err != nil {
		c.logger.Warn("completion chime failed", "error", err, "run", snap.Timer.RunID)
	}
}

// SubmitIntention implements ports.SessionController.
func (c *SessionController) SubmitIntention(text string) {
	c.apply("submit_intention", func() transition {
		if c.state.Phase != domain.PhaseIdle {
			return transition{}
		}
		c.state.Begin(text)
		c.state.Phase = domain.PhaseAwaitingEmotion
		return transition{changed: true}
	})
}

// JustStart implements ports.SessionController.
func (c *SessionController) JustStart(text string) {
	c.apply("just_start", func() transition {
		return c.justStartLocked(text, c.settings.DefaultMinutes)
	})
}

// JustStartFor skips the check-in like JustStart but runs for minutes.
// The default duration in the settings is left alone.
func (c *SessionController) JustStartFor(text string, minutes int) error {
	if minutes < 1 {
		return domain.ErrInvalidDuration
	}
	c.apply("just_start", func() transition {
		return c.justStartLocked(text, minutes)
	})
	return nil
}

func (c *SessionController) justStartLocked(text string, minutes int) transition {
	if c.state.Phase != domain.PhaseIdle {
		return transition{}
	}
	c.state.Begin(text)
	if err := c.startRunLocked(minutes); err != nil {
		c.state = domain.NewSessionState()
		return transition{}
	}
	return transition{changed: true}
}

// SelectEmotion implements ports.SessionController.
func (c *SessionController) SelectEmotion(category domain.EmotionCategory, label domain.EmotionLabel) error {
	emotion, err := domain.NewEmotion(category, label)
	if err != nil {
		return err
	}
	c.apply("select_emotion", func() transition {
		if c.state.Phase != domain.PhaseAwaitingEmotion {
			return transition{}
		}
		c.state.Emotion = &emotion
		c.state.Phase = domain.PhaseAwaitingDuration
		return transition{changed: true}
	})
	return nil
}

// RefineIntention implements ports.SessionController.
func (c *SessionController) RefineIntention(text string) {
	c.apply("refine_intention", func() transition {
		if c.state.Phase != domain.PhaseAwaitingDuration {
			return transition{}
		}
		c.state.Intention = domain.NormalizeIntention(text)
		return transition{changed: true}
	})
}

// Back implements ports.SessionController.
func (c *SessionController) Back() {
	c.apply("back", func() transition {
		switch c.state.Phase {
		case domain.PhaseAwaitingEmotion:
			c.state.Phase = domain.PhaseIdle
		case domain.PhaseAwaitingDuration:
			// The check-in is asked again, so the old answer is dropped.
			c.state.Emotion = nil
			c.state.Phase = domain.PhaseAwaitingEmotion
		default:
			return transition{}
		}
		return transition{changed: true}
	})
}

// ChooseDuration implements ports.SessionController.
func (c *SessionController) ChooseDuration(minutes int) error {
	if minutes < 1 {
		return domain.ErrInvalidDuration
	}
	c.apply("choose_duration", func() transition {
		if c.state.Phase != domain.PhaseAwaitingDuration {
			return transition{}
		}
		if err := c.startRunLocked(minutes); err != nil {
			return transition{}
		}
		return transition{changed: true}
	})
	return nil
}

// Pause implements ports.SessionController.
func (c *SessionController) Pause() {
	c.apply("pause", func() transition {
		if c.state.Phase != domain.PhaseRunning {
			return transition{}
		}
		if tr := c.recomputeLocked(); tr.chime {
			return tr
		}
		c.pauseLocked()
		return transition{changed: true}
	})
}

// Resume implements ports.SessionController.
func (c *SessionController) Resume() {
	c.apply("resume", func() transition {
		if c.state.Phase != domain.PhasePaused {
			return transition{}
		}
		return c.resumeLocked()
	})
}

// TogglePause implements ports.SessionController.
func (c *SessionController) TogglePause() {
	c.apply("toggle_pause", func() transition {
		switch c.state.Phase {
		case domain.PhaseRunning:
			if tr := c.recomputeLocked(); tr.chime {
				return tr
			}
			c.pauseLocked()
			return transition{changed: true}
		case domain.PhasePaused:
			return c.resumeLocked()
		default:
			return transition{}
		}
	})
}

// AddMinutes implements ports.SessionController. A paused run stays paused.
// A run whose deadline already passed crosses zero instead of extending.
func (c *SessionController) AddMinutes(minutes int) error {
	if minutes < 1 {
		return domain.ErrInvalidDuration
	}
	c.apply("add_minutes", func() transition {
		if !c.state.IsActive() {
			return transition{}
		}
		if tr := c.recomputeLocked(); tr.chime {
			return tr
		}
		if err := c.state.Timer.AddMinutes(c.clock.Now(), minutes); err != nil {
			return transition{}
		}
		return transition{changed: true}
	})
	return nil
}

// KeepGoing implements ports.SessionController. The extension is a new run,
// so remaining time becomes exactly extensionMinutes.
func (c *SessionController) KeepGoing(extensionMinutes int) error {
	if extensionMinutes < 1 {
		return domain.ErrInvalidDuration
	}
	c.apply("keep_going", func() transition {
		if c.state.Phase != domain.PhasePreFinish {
			return transition{}
		}
		if err := c.startRunLocked(extensionMinutes); err != nil {
			return transition{}
		}
		return transition{changed: true}
	})
	return nil
}

// CompleteSession implements ports.SessionController.
func (c *SessionController) CompleteSession() {
	c.apply("complete_session", func() transition {
		if c.state.Phase != domain.PhasePreFinish {
			return transition{}
		}
		c.state.Phase = domain.PhaseCompleted
		return transition{changed: true}
	})
}

// StartAgain implements ports.SessionController.
func (c *SessionController) StartAgain() {
	c.apply("start_again", func() transition {
		if c.state.Phase != domain.PhaseCompleted {
			return transition{}
		}
		c.resetLocked()
		return transition{changed: true}
	})
}

// Quit implements ports.SessionController. The pending tick is cancelled
// and the state replaced in the same critical section.
func (c *SessionController) Quit() {
	c.apply("quit", func() transition {
		if c.state.Phase == domain.PhaseIdle {
			return transition{}
		}
		c.resetLocked()
		return transition{changed: true}
	})
}

// Tick recomputes the remaining time and fires the zero-crossing once.
// It is what the scheduled ticker calls; hosts may also call it directly.
func (c *SessionController) Tick() {
	c.apply("tick", func() transition {
		return c.recomputeLocked()
	})
}

// VisibilityChanged corrects drift once when the UI returns to the
// foreground; ticks may have been throttled while it was hidden.
func (c *SessionController) VisibilityChanged(foreground bool) {
	if !foreground {
		c.logger.Debug("ui hidden")
		return
	}
	c.apply("visibility_restored", func() transition {
		return c.recomputeLocked()
	})
}

// Watch subscribes the controller to a visibility source, replacing any
// previous subscription.
func (c *SessionController) Watch(v ports.Visibility) {
	unsubscribe := v.Subscribe(c.VisibilityChanged)
	c.mu.Lock()
	prev := c.unwatchVis
	c.unwatchVis = unsubscribe
	c.mu.Unlock()
	if prev != nil {
		prev()
	}
}

// Snapshot implements ports.SessionController.
func (c *SessionController) Snapshot() domain.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Subscribe implements ports.SessionController.
func (c *SessionController) Subscribe(fn func(domain.SessionState)) func() {
	c.mu.Lock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// Settings implements ports.SessionController.
func (c *SessionController) Settings() domain.TimerSettings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// SetSettings replaces the timer settings. The current run keeps its
// duration; new values apply to later operations.
func (c *SessionController) SetSettings(settings domain.TimerSettings) {
	c.mu.Lock()
	c.settings = settings.Normalize()
	c.mu.Unlock()
	c.logger.Debug("settings updated", "default_minutes", settings.DefaultMinutes)
}

// Close stops any pending tick and drops the visibility subscription.
func (c *SessionController) Close() {
	c.mu.Lock()
	c.cancelTickLocked()
	unwatch := c.unwatchVis
	c.unwatchVis = nil
	c.mu.Unlock()
	if unwatch != nil {
		unwatch()
	}
}

// Ensure SessionController implements ports.SessionController.
var _ ports.SessionController = (*SessionController)(nil)

// --- locked helpers; callers hold mu ---

func (c *SessionController) startRunLocked(minutes int) error {
	c.cancelTickLocked()
	if err := c.state.StartRun(c.clock.Now(), minutes); err != nil {
		return err
	}
	c.scheduleTickLocked()
	return nil
}

func (c *SessionController) pauseLocked() {
	c.cancelTickLocked()
	c.state.Timer.Pause(c.clock.Now())
	c.state.Phase = domain.PhasePaused
}

// resumeLocked restarts the countdown. A run resumed with nothing left
// crosses zero at once rather than sitting in Running at 0.
func (c *SessionController) resumeLocked() transition {
	c.state.Timer.Resume(c.clock.Now())
	c.state.Phase = domain.PhaseRunning
	c.scheduleTickLocked()
	return c.recomputeLocked()
}

func (c *SessionController) resetLocked() {
	c.cancelTickLocked()
	c.state = domain.NewSessionState()
}

// recomputeLocked refreshes the countdown and performs the zero-crossing.
// The Notified flag makes the crossing fire exactly once per run. Pause,
// resume and add-time call it first so an overdue crossing always wins.
func (c *SessionController) recomputeLocked() transition {
	if c.state.Phase != domain.PhaseRunning {
		return transition{}
	}
	remaining := c.state.Timer.Refresh(c.clock.Now())
	if remaining > 0 || c.state.Timer.Notified {
		return transition{changed: true}
	}

	c.state.Timer.Notified = true
	c.state.FocusedSeconds += c.state.Timer.OriginalMinutes * 60
	c.state.Phase = domain.PhasePreFinish
	c.cancelTickLocked()
	return transition{changed: true, chime: true}
}

func (c *SessionController) scheduleTickLocked() {
	if c.ticker == nil {
		return
	}
	runID := c.state.Timer.RunID
	c.stopTick = c.ticker.Start(c.settings.TickInterval, func() {
		c.tickRun(runID)
	})
}

func (c *SessionController) cancelTickLocked() {
	if c.stopTick != nil {
		c.stopTick()
		c.stopTick = nil
	}
}

// tickRun drops ticks that belong to a superseded run.
func (c *SessionController) tickRun(runID string) {
	c.apply("tick", func() transition {
		if c.state.Timer.RunID != runID {
			return transition{}
		}
		return c.recomputeLocked()
	})
}
