package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/current/internal/config"
)

var configJSON bool
var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration after defaults, the config file, .env and
CURRENT_* environment overrides are applied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configJSON {
			return writeConfigJSON(cmd.OutOrStdout(), app.config)
		}
		printConfig(cmd.OutOrStdout(), app.config, app.loader.Path(), app.loader.Exists())
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.loader.Exists() && !configForce {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", app.loader.Path())
		}
		if err := app.loader.Save(config.DefaultConfig()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", app.loader.Path())
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit duration presets, timer steps and notifications",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(cmd.InOrStdin())
		return runConfigEdit(reader, cmd.OutOrStdout(), app.config, app.loader.Save)
	},
}

func init() {
	configCmd.Flags().BoolVar(&configJSON, "json", false, "Output the configuration as JSON")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configEditCmd)
}

func notificationStatus(n config.NotificationConfig) string {
	switch {
	case n.Enabled && n.Sound:
		return "on (with sound)"
	case n.Enabled:
		return "on"
	case n.Sound:
		return "sound only"
	default:
		return "off"
	}
}

func printConfig(w io.Writer, cfg *config.Config, path string, exists bool) {
	source := "defaults (file not found)"
	if exists {
		source = "file"
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Config:  %s\n", path)
	fmt.Fprintf(w, "  Source:  %s\n", source)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Duration presets:")
	for i, p := range cfg.Timer.GetPresets() {
		fmt.Fprintf(w, "    [%d] %-8s  %s\n", i+1, p.Name, formatMinutes(p.Duration))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "    Just start:            %d min\n", cfg.Timer.DefaultMinutes)
	fmt.Fprintf(w, "    Add time step:         %d min\n", cfg.Timer.AddMinutes)
	fmt.Fprintf(w, "    Keep going extension:  %d min\n", cfg.Timer.KeepGoingMinutes)
	fmt.Fprintf(w, "    Tick interval:         %s\n", cfg.Timer.TickInterval)
	fmt.Fprintf(w, "    Notifications:         %s\n", notificationStatus(cfg.Notifications))
	fmt.Fprintf(w, "    Log level:             %s\n", cfg.Log.Level)
	if cfg.Log.File != "" {
		fmt.Fprintf(w, "    Log file:              %s\n", cfg.Log.File)
	}
}

func writeConfigJSON(w io.Writer, cfg *config.Config) error {
	presets := make([]map[string]any, 0, 4)
	for _, p := range cfg.Timer.GetPresets() {
		presets = append(presets, map[string]any{
			"name":    p.Name,
			"minutes": p.Minutes(),
		})
	}

	result := map[string]any{
		"timer": map[string]any{
			"default_minutes":    cfg.Timer.DefaultMinutes,
			"add_minutes":        cfg.Timer.AddMinutes,
			"keep_going_minutes": cfg.Timer.KeepGoingMinutes,
			"tick_interval":      cfg.Timer.TickInterval.String(),
			"presets":            presets,
		},
		"notifications": map[string]any{
			"enabled": cfg.Notifications.Enabled,
			"sound":   cfg.Notifications.Sound,
		},
		"log": map[string]any{
			"level": cfg.Log.Level,
			"file":  cfg.Log.File,
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// runConfigEdit shows the editable settings, applies one change and saves.
func runConfigEdit(reader *bufio.Reader, w io.Writer, cfg *config.Config, save func(*config.Config) error) error {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Duration presets:")
	for i, p := range cfg.Timer.GetPresets() {
		fmt.Fprintf(w, "    [%d] %-8s  %s\n", i+1, p.Name, formatMinutes(p.Duration))
	}
	fmt.Fprintf(w, "    Notifications:  %s\n", notificationStatus(cfg.Notifications))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  What would you like to change?")
	fmt.Fprintln(w, "    [1-4] Edit a preset")
	fmt.Fprintln(w, "    [t] Edit timer steps")
	fmt.Fprintln(w, "    [n] Change notifications")
	fmt.Fprintln(w, "    [q] Quit without saving")
	fmt.Fprint(w, "  Choose: ")

	choice := readLine(reader)
	switch strings.ToLower(choice) {
	case "1", "2", "3", "4":
		num, _ := strconv.Atoi(choice)
		return editPreset(reader, w, cfg, num, save)
	case "t":
		return editTimer(reader, w, cfg, save)
	case "n":
		return editNotifications(reader, w, cfg, save)
	case "q", "":
		fmt.Fprintln(w, "  No changes made.")
		return nil
	default:
		return fmt.Errorf("invalid choice %q", choice)
	}
}

func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func editPreset(reader *bufio.Reader, w io.Writer, cfg *config.Config, num int, save func(*config.Config) error) error {
	p := cfg.Timer.GetPresets()[num-1]

	fmt.Fprintf(w, "\n  Editing preset %d (currently: %s, %s)\n", num, p.Name, formatMinutes(p.Duration))

	fmt.Fprintf(w, "  Name [%s]: ", p.Name)
	if name := readLine(reader); name != "" {
		p.Name = name
	}

	fmt.Fprintf(w, "  Duration [%s]: ", formatMinutes(p.Duration))
	if input := readLine(reader); input != "" {
		parsed, err := time.ParseDuration(input)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", input, err)
		}
		if parsed < time.Minute {
			return fmt.Errorf("invalid duration %q: must be at least 1m", input)
		}
		p.Duration = parsed
	}

	if err := cfg.Timer.SetPreset(num, p); err != nil {
		return err
	}
	if err := save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(w, "\n  Saved: [%d] %s, %s\n", num, p.Name, formatMinutes(p.Duration))
	return nil
}

func editTimer(reader *bufio.Reader, w io.Writer, cfg *config.Config, save func(*config.Config) error) error {
	fmt.Fprintln(w, "\n  Editing timer steps (minutes)")

	fields := []struct {
		label string
		value *int
	}{
		{"Just start", &cfg.Timer.DefaultMinutes},
		{"Add time step", &cfg.Timer.AddMinutes},
		{"Keep going extension", &cfg.Timer.KeepGoingMinutes},
	}

	updated := make([]int, len(fields))
	for i, f := range fields {
		updated[i] = *f.value
		fmt.Fprintf(w, "  %s [%d]: ", f.label, *f.value)
		input := readLine(reader)
		if input == "" {
			continue
		}
		n, err := strconv.Atoi(input)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid minutes %q: must be a whole number of at least 1", input)
		}
		updated[i] = n
	}
	for i, f := range fields {
		*f.value = updated[i]
	}

	if err := save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(w, "\n  Saved: just start %d min, add %d min, keep going %d min\n",
		cfg.Timer.DefaultMinutes, cfg.Timer.AddMinutes, cfg.Timer.KeepGoingMinutes)
	return nil
}

func editNotifications(reader *bufio.Reader, w io.Writer, cfg *config.Config, save func(*config.Config) error) error {
	fmt.Fprintf(w, "\n  Current notifications: %s\n\n", notificationStatus(cfg.Notifications))
	fmt.Fprintln(w, "    [1] Off")
	fmt.Fprintln(w, "    [2] On (visual only)")
	fmt.Fprintln(w, "    [3] On (with sound)")
	fmt.Fprint(w, "  Choose: ")

	switch readLine(reader) {
	case "1":
		cfg.Notifications.Enabled = false
		cfg.Notifications.Sound = false
	case "2":
		cfg.Notifications.Enabled = true
		cfg.Notifications.Sound = false
	case "3":
		cfg.Notifications.Enabled = true
		cfg.Notifications.Sound = true
	default:
		fmt.Fprintln(w, "  No changes made.")
		return nil
	}

	if err := save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(w, "\n  Saved: notifications %s\n", notificationStatus(cfg.Notifications))
	return nil
}

// formatMinutes formats a duration as a human-friendly string like "25m" or "1h30m".
func formatMinutes(d time.Duration) string {
	if d >= time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}
