package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/xvierd/current/internal/adapters/clock"
	"github.com/xvierd/current/internal/adapters/notification"
	"github.com/xvierd/current/internal/adapters/ticker"
	"github.com/xvierd/current/internal/config"
	"github.com/xvierd/current/internal/logging"
	"github.com/xvierd/current/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	loader   *config.Loader
	config   *config.Config
	logger   *slog.Logger
	closeLog func() error
	notifier *notification.Notifier
	session  *services.SessionController
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	// .env values feed the CURRENT_* overrides below
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	loader, err := config.NewLoader(configPath)
	if err != nil {
		return err
	}
	app.loader = loader

	var cfgErr error
	app.config, cfgErr = loader.Load()
	if cfgErr != nil {
		// If config loading fails, use defaults
		app.config = config.DefaultConfig()
	}

	logPath := app.config.Log.File
	if logFile != "" {
		logPath = logFile
	}
	app.logger, app.closeLog, err = logging.Open(logPath, app.config.Log.Level)
	if err != nil {
		return err
	}
	if cfgErr != nil {
		app.logger.Warn("using default configuration", "path", loader.Path(), "error", cfgErr)
	}

	app.notifier = notification.New(&app.config.Notifications)
	if noSound {
		app.notifier.Mute()
	}

	app.session = services.NewSessionController(
		clock.New(),
		ticker.New(),
		services.WithChime(app.notifier),
		services.WithLogger(app.logger),
		services.WithSettings(app.config.ToTimerSettings()),
	)

	app.logger.Debug("services initialized", "config", loader.Path(), "config_found", loader.Exists())
	return nil
}

// cleanupServices closes all resources.
func cleanupServices() error {
	if app.session != nil {
		app.session.Close()
	}
	if app.closeLog != nil {
		return app.closeLog()
	}
	return nil
}

// watchConfig pushes config file edits into the running session.
func watchConfig() {
	app.loader.Watch(applyConfigReload)
}

// applyConfigReload hands the timer and notification sections of a
// reloaded config to the session and the chime. --no-sound stays in force.
func applyConfigReload(cfg *config.Config, err error) {
	if err != nil {
		app.logger.Warn("config reload failed", "error", err)
		return
	}
	app.session.SetSettings(cfg.ToTimerSettings())
	app.notifier.SetConfig(cfg.Notifications)
	app.logger.Info("config reloaded",
		"path", app.loader.Path(),
		"notifications", cfg.Notifications.Enabled,
		"sound", cfg.Notifications.Sound && !app.notifier.IsMuted(),
	)
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// mustHaveSession guards commands that need initialized services.
func mustHaveSession() error {
	if app.session == nil {
		return fmt.Errorf("services not initialized")
	}
	return nil
}
