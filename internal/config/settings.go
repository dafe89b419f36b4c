package config

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/hostwatch-io/hostwatch/internal/models"
)

// LoadSettings loads the agent settings from ~/.hostwatch/settings.yaml.
// If the file doesn't exist, returns default settings. Missing durations are
// filled with defaults either way.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	settings, err := LoadYAMLOrDefault(path, models.NewSettings)
	if err != nil {
		return nil, err
	}
	settings.ApplyDefaults()
	return settings, nil
}

// SaveSettings saves the agent settings to ~/.hostwatch/settings.yaml.
func SaveSettings(settings *models.Settings) error {
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}

// SettableKeys lists the keys accepted by SetSetting, in display order.
var SettableKeys = []string{
	"collector.url",
	"collector.user",
	"collector.timeout",
	"upload.interval",
	"sampling.idle_threshold",
	"signals.print_spool_dir",
	"signals.dbus",
	"signals.clipboard",
	"diagnostics.trace",
}

// SetSetting updates a single setting identified by its dotted YAML key.
func SetSetting(s *models.Settings, key, value string) error {
	switch key {
	case "collector.url":
		if value != "" {
			u, err := url.Parse(value)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return fmt.Errorf("invalid collector URL %q: expected http(s)://host/path", value)
			}
		}
		s.Collector.URL = value
	case "collector.user":
		s.Collector.User = value
	case "collector.timeout":
		return setDuration(&s.Collector.Timeout, key, value)
	case "upload.interval":
		return setDuration(&s.Upload.Interval, key, value)
	case "sampling.idle_threshold":
		return setDuration(&s.Sampling.IdleThreshold, key, value)
	case "signals.print_spool_dir":
		s.Signals.PrintSpoolDir = value
	case "signals.dbus":
		return setBool(&s.Signals.DBus, key, value)
	case "signals.clipboard":
		return setBool(&s.Signals.Clipboard, key, value)
	case "diagnostics.trace":
		return setBool(&s.Diagnostics.Trace, key, value)
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

func setDuration(dst *time.Duration, key, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s must be positive", key)
	}
	*dst = d
	return nil
}

func setBool(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for %s: %w", key, err)
	}
	*dst = b
	return nil
}
