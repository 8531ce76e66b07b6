// Package config provides configuration management for Current.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/xvierd/current/internal/domain"
)

// EnvPrefix is the prefix for environment overrides (CURRENT_TIMER_DEFAULT_MINUTES).
const EnvPrefix = "CURRENT"

// Config holds all configuration for the Current application.
type Config struct {
	Timer         TimerConfig        `mapstructure:"timer"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Log           LogConfig          `mapstructure:"log"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// TimerConfig holds countdown settings and the duration presets.
type TimerConfig struct {
	DefaultMinutes   int      `mapstructure:"default_minutes"`
	AddMinutes       int      `mapstructure:"add_minutes"`
	KeepGoingMinutes int      `mapstructure:"keep_going_minutes"`
	TickInterval     Duration `mapstructure:"tick_interval"`
	Preset1Name      string   `mapstructure:"preset1_name"`
	Preset1Duration  Duration `mapstructure:"preset1_duration"`
	Preset2Name      string   `mapstructure:"preset2_name"`
	Preset2Duration  Duration `mapstructure:"preset2_duration"`
	Preset3Name      string   `mapstructure:"preset3_name"`
	Preset3Duration  Duration `mapstructure:"preset3_duration"`
	Preset4Name      string   `mapstructure:"preset4_name"`
	Preset4Duration  Duration `mapstructure:"preset4_duration"`
}

// DurationPreset represents a named run duration offered on the duration screen.
type DurationPreset struct {
	Name     string
	Duration time.Duration
}

// Minutes returns the preset length in whole minutes, at least 1.
func (p DurationPreset) Minutes() int {
	m := int(p.Duration / time.Minute)
	if m < 1 {
		return 1
	}
	return m
}

// GetPresets returns the four duration presets.
func (c *TimerConfig) GetPresets() []DurationPreset {
	return []DurationPreset{
		{Name: c.Preset1Name, Duration: time.Duration(c.Preset1Duration)},
		{Name: c.Preset2Name, Duration: time.Duration(c.Preset2Duration)},
		{Name: c.Preset3Name, Duration: time.Duration(c.Preset3Duration)},
		{Name: c.Preset4Name, Duration: time.Duration(c.Preset4Duration)},
	}
}

// SetPreset replaces preset num (1-4).
func (c *TimerConfig) SetPreset(num int, p DurationPreset) error {
	d := Duration(p.Duration)
	switch num {
	case 1:
		c.Preset1Name, c.Preset1Duration = p.Name, d
	case 2:
		c.Preset2Name, c.Preset2Duration = p.Name, d
	case 3:
		c.Preset3Name, c.Preset3Duration = p.Name, d
	case 4:
		c.Preset4Name, c.Preset4Duration = p.Name, d
	default:
		return fmt.Errorf("preset %d out of range 1-4", num)
	}
	return nil
}

// NotificationConfig holds completion chime settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// LogConfig holds logging settings. An empty File disables logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// ThemeConfig holds theme customization settings (colors and icons).
type ThemeConfig struct {
	ColorFocus          string `mapstructure:"color_focus"`
	ColorPaused         string `mapstructure:"color_paused"`
	ColorTitle          string `mapstructure:"color_title"`
	ColorIntention      string `mapstructure:"color_intention"`
	ColorQuote          string `mapstructure:"color_quote"`
	ColorHelp           string `mapstructure:"color_help"`
	FocusGradientStart  string `mapstructure:"focus_gradient_start"`
	FocusGradientEnd    string `mapstructure:"focus_gradient_end"`
	PausedGradientStart string `mapstructure:"paused_gradient_start"`
	PausedGradientEnd   string `mapstructure:"paused_gradient_end"`
	IconApp             string `mapstructure:"icon_app"`
	IconPaused          string `mapstructure:"icon_paused"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorFocus:          "#2E86AB",
		ColorPaused:         "#6B7280",
		ColorTitle:          "#6B7280",
		ColorIntention:      "#A0AEC0",
		ColorQuote:          "#8E9AAF",
		ColorHelp:           "#95A5A6",
		FocusGradientStart:  "#2E86AB",
		FocusGradientEnd:    "#4ECDC4",
		PausedGradientStart: "#6B7280",
		PausedGradientEnd:   "#4B5563",
		IconApp:             "🌊",
		IconPaused:          "⏸",
	}
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timer: TimerConfig{
			DefaultMinutes:   25,
			AddMinutes:       15,
			KeepGoingMinutes: 15,
			TickInterval:     Duration(time.Second),
			Preset1Name:      "Warm-up",
			Preset1Duration:  Duration(5 * time.Minute),
			Preset2Name:      "Focus",
			Preset2Duration:  Duration(30 * time.Minute),
			Preset3Name:      "Deep",
			Preset3Duration:  Duration(60 * time.Minute),
			Preset4Name:      "Flow",
			Preset4Duration:  Duration(90 * time.Minute),
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Theme: DefaultThemeConfig(),
	}
}

// ToTimerSettings converts the config to the controller's timer settings.
func (c *Config) ToTimerSettings() domain.TimerSettings {
	return domain.TimerSettings{
		DefaultMinutes:   c.Timer.DefaultMinutes,
		AddMinutes:       c.Timer.AddMinutes,
		KeepGoingMinutes: c.Timer.KeepGoingMinutes,
		TickInterval:     time.Duration(c.Timer.TickInterval),
	}.Normalize()
}

// Loader reads the config file, environment overrides and .env values
// through its own viper instance.
type Loader struct {
	v    *viper.Viper
	path string
}

// NewLoader creates a loader for path, or for the default path when empty.
func NewLoader(path string) (*Loader, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return &Loader{v: v, path: path}, nil
}

// Path returns the config file path.
func (l *Loader) Path() string {
	return l.path
}

// Exists reports whether the config file is present.
func (l *Loader) Exists() bool {
	_, err := os.Stat(l.path)
	return err == nil
}

// Load reads the configuration. A missing file falls back to defaults and
// environment overrides.
func (l *Loader) Load() (*Config, error) {
	if l.Exists() {
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return l.decode()
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := l.v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Watch reloads the config whenever the file changes and passes the result
// to onChange. It does nothing if the file does not exist.
func (l *Loader) Watch(onChange func(*Config, error)) {
	if !l.Exists() {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		onChange(l.decode())
	})
	l.v.WatchConfig()
}

// Save writes cfg to the config file, creating its directory.
func (l *Loader) Save(cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// A fresh instance keeps environment overrides out of the written file.
	w := viper.New()
	w.SetConfigType("toml")
	w.Set("timer.default_minutes", cfg.Timer.DefaultMinutes)
	w.Set("timer.add_minutes", cfg.Timer.AddMinutes)
	w.Set("timer.keep_going_minutes", cfg.Timer.KeepGoingMinutes)
	w.Set("timer.tick_interval", cfg.Timer.TickInterval.String())
	for i, p := range cfg.Timer.GetPresets() {
		w.Set(fmt.Sprintf("timer.preset%d_name", i+1), p.Name)
		w.Set(fmt.Sprintf("timer.preset%d_duration", i+1), Duration(p.Duration).String())
	}
	w.Set("notifications.enabled", cfg.Notifications.Enabled)
	w.Set("notifications.sound", cfg.Notifications.Sound)
	w.Set("log.level", cfg.Log.Level)
	w.Set("log.file", cfg.Log.File)
	w.Set("theme", themeMap(cfg.Theme))

	if err := w.WriteConfigAs(l.path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Existing variables win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".current", "config.toml"), nil
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("timer.default_minutes", d.Timer.DefaultMinutes)
	v.SetDefault("timer.add_minutes", d.Timer.AddMinutes)
	v.SetDefault("timer.keep_going_minutes", d.Timer.KeepGoingMinutes)
	v.SetDefault("timer.tick_interval", d.Timer.TickInterval.String())
	for i, p := range d.Timer.GetPresets() {
		v.SetDefault(fmt.Sprintf("timer.preset%d_name", i+1), p.Name)
		v.SetDefault(fmt.Sprintf("timer.preset%d_duration", i+1), Duration(p.Duration).String())
	}
	v.SetDefault("notifications.enabled", d.Notifications.Enabled)
	v.SetDefault("notifications.sound", d.Notifications.Sound)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)

	// Theme defaults
	for k, val := range themeMap(d.Theme) {
		v.SetDefault("theme."+k, val)
	}
}

func themeMap(t ThemeConfig) map[string]string {
	return map[string]string{
		"color_focus":           t.ColorFocus,
		"color_paused":          t.ColorPaused,
		"color_title":           t.ColorTitle,
		"color_intention":       t.ColorIntention,
		"color_quote":           t.ColorQuote,
		"color_help":            t.ColorHelp,
		"focus_gradient_start":  t.FocusGradientStart,
		"focus_gradient_end":    t.FocusGradientEnd,
		"paused_gradient_start": t.PausedGradientStart,
		"paused_gradient_end":   t.PausedGradientEnd,
		"icon_app":              t.IconApp,
		"icon_paused":           t.IconPaused,
	}
}
