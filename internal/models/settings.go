package models

import "time"

// CollectorConfig describes the remote endpoint that receives log uploads.
type CollectorConfig struct {
	URL     string        `yaml:"url"`     // Empty disables uploading
	User    string        `yaml:"user"`    // Empty means the current OS user
	Timeout time.Duration `yaml:"timeout"` // Per-request limit
}

// SamplingConfig holds the cadence and thresholds of the activity samplers.
type SamplingConfig struct {
	Interval          time.Duration `yaml:"interval"`
	ClipboardInterval time.Duration `yaml:"clipboard_interval"`
	IdleThreshold     time.Duration `yaml:"idle_threshold"`
	GapThreshold      time.Duration `yaml:"gap_threshold"`
}

// UploadConfig holds the upload cadence.
type UploadConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// SignalsConfig selects which host notification sources are enabled.
type SignalsConfig struct {
	PrintSpoolDir string `yaml:"print_spool_dir"` // Empty disables print tracking
	DBus          bool   `yaml:"dbus"`            // logind session/power notifications
	Clipboard     bool   `yaml:"clipboard"`
}

// DiagnosticsConfig controls the error log.
type DiagnosticsConfig struct {
	Trace bool `yaml:"trace"` // Also record transient signal failures
}

// Settings represents the agent settings.
// This corresponds to ~/.hostwatch/settings.yaml.
type Settings struct {
	Version     int               `yaml:"version"`
	Collector   CollectorConfig   `yaml:"collector"`
	Sampling    SamplingConfig    `yaml:"sampling"`
	Upload      UploadConfig      `yaml:"upload"`
	Signals     SignalsConfig     `yaml:"signals"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Collector: CollectorConfig{
			URL:     "",
			User:    "",
			Timeout: 30 * time.Second,
		},
		Sampling: SamplingConfig{
			Interval:          time.Second,
			ClipboardInterval: time.Second,
			IdleThreshold:     5 * time.Minute,
			GapThreshold:      15 * time.Second,
		},
		Upload: UploadConfig{
			Interval: 15 * time.Minute,
		},
		Signals: SignalsConfig{
			PrintSpoolDir: "/var/spool/cups",
			DBus:          true,
			Clipboard:     true,
		},
	}
}

// ApplyDefaults fills zero-valued durations with their defaults. A settings
// file written by hand may omit any of them.
func (s *Settings) ApplyDefaults() {
	def := NewSettings()
	if s.Version == 0 {
		s.Version = def.Version
	}
	if s.Collector.Timeout <= 0 {
		s.Collector.Timeout = def.Collector.Timeout
	}
	if s.Sampling.Interval <= 0 {
		s.Sampling.Interval = def.Sampling.Interval
	}
	if s.Sampling.ClipboardInterval <= 0 {
		s.Sampling.ClipboardInterval = def.Sampling.ClipboardInterval
	}
	if s.Sampling.IdleThreshold <= 0 {
		s.Sampling.IdleThreshold = def.Sampling.IdleThreshold
	}
	if s.Sampling.GapThreshold <= 0 {
		s.Sampling.GapThreshold = def.Sampling.GapThreshold
	}
	if s.Upload.Interval <= 0 {
		s.Upload.Interval = def.Upload.Interval
	}
}
