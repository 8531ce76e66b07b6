package tui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/current/internal/config"
	"github.com/xvierd/current/internal/domain"
	"github.com/xvierd/current/internal/ports"
)

// App runs the Bubbletea program for a session controller.
type App struct {
	ctrl   ports.SessionController
	cfg    *config.Config
	focus  *FocusBroadcaster
	logger *slog.Logger

	mu      sync.RWMutex
	program *tea.Program
}

// NewApp creates the TUI application.
func NewApp(ctrl ports.SessionController, cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &App{
		ctrl:   ctrl,
		cfg:    cfg,
		focus:  NewFocusBroadcaster(),
		logger: logger,
	}
}

// Visibility returns the focus broadcaster fed by terminal focus reports.
func (a *App) Visibility() ports.Visibility {
	return a.focus
}

// Run starts the interface and blocks until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	model := NewModel(a.ctrl, WithConfig(a.cfg), WithFocus(a.focus))
	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)

	a.mu.Lock()
	a.program = program
	a.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Listeners may fire from inside Update, where a blocking Send would
	// deadlock the event loop. Changes are coalesced into one pending signal.
	pending := make(chan struct{}, 1)
	unsubscribe := a.ctrl.Subscribe(func(domain.SessionState) {
		select {
		case pending <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				program.Quit()
				return
			case <-pending:
				program.Send(stateMsg{})
			}
		}
	}()

	a.logger.Debug("tui started", "phase", a.ctrl.Snapshot().Phase)
	_, err := program.Run()

	cancel()
	wg.Wait()

	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// Stop asks a running program to exit.
func (a *App) Stop() {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.program != nil {
		a.program.Quit()
	}
}
