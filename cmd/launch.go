package cmd

import (
	"github.com/xvierd/current/internal/adapters/tui"
)

// launchTUI runs the Bubbletea interface on the shared session controller
// until the user exits or an interrupt arrives.
func launchTUI() error {
	if err := mustHaveSession(); err != nil {
		return err
	}

	ctx, cancel := setupSignalHandler()
	defer cancel()

	watchConfig()

	ui := tui.NewApp(app.session, app.config, app.logger)
	app.session.Watch(ui.Visibility())

	return ui.Run(ctx)
}
