package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/xvierd/current/internal/domain"
	"github.com/xvierd/current/internal/services"
)

var startIntention string
var startFeeling string

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start [minutes]",
	Short: "Start a focus session",
	Long: `Start a focus session without stepping through every screen.

With minutes, the countdown starts right away. With --feeling alone, the
duration screen opens with guidance for that feeling. With neither, the
default duration starts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mustHaveSession(); err != nil {
			return err
		}

		opts, err := parseStartArgs(args, startIntention, startFeeling)
		if err != nil {
			return err
		}
		if err := opts.apply(app.session); err != nil {
			return err
		}

		return launchTUI()
	},
}

func init() {
	startCmd.Flags().StringVarP(&startIntention, "intention", "m", "", "What this session is for")
	startCmd.Flags().StringVarP(&startFeeling, "feeling", "f", "", "How starting feels (e.g. ready, drained, overwhelmed)")
}

// startOptions is a validated start request.
type startOptions struct {
	intention string
	minutes   int
	emotion   *domain.Emotion
}

// parseStartArgs validates everything before the controller is touched, so
// a bad flag never leaves a half-started session.
func parseStartArgs(args []string, intention, feeling string) (startOptions, error) {
	opts := startOptions{intention: intention}

	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return opts, fmt.Errorf("%w: %q", domain.ErrInvalidDuration, args[0])
		}
		opts.minutes = n
	}

	if feeling != "" {
		e, err := domain.ParseEmotion(feeling)
		if err != nil {
			return opts, err
		}
		opts.emotion = &e
	}
	return opts, nil
}

// apply drives the controller to the phase the options describe.
func (o startOptions) apply(ctrl *services.SessionController) error {
	if o.emotion == nil {
		if o.minutes == 0 {
			ctrl.JustStart(o.intention)
			return nil
		}
		if err := ctrl.JustStartFor(o.intention, o.minutes); err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}
		return nil
	}

	ctrl.SubmitIntention(o.intention)
	if err := ctrl.SelectEmotion(o.emotion.Category, o.emotion.Label); err != nil {
		return fmt.Errorf("failed to record feeling: %w", err)
	}
	if o.minutes == 0 {
		return nil
	}
	if err := ctrl.ChooseDuration(o.minutes); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	return nil
}
