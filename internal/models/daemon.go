package models

import (
	"time"

	"github.com/google/uuid"
)

// DaemonInfo represents the running agent's identity.
// This corresponds to ~/.hostwatch/daemon.yaml.
type DaemonInfo struct {
	Version    int       `yaml:"version"`
	PID        int       `yaml:"pid"`
	InstanceID string    `yaml:"instance_id"` // Fresh per process start
	LogsDir    string    `yaml:"logs_dir"`
	StartedAt  time.Time `yaml:"started_at"`
}

// NewDaemonInfo creates a new daemon info with current values.
func NewDaemonInfo(pid int, logsDir string) *DaemonInfo {
	return &DaemonInfo{
		Version:    1,
		PID:        pid,
		InstanceID: uuid.New().String(),
		LogsDir:    logsDir,
		StartedAt:  time.Now().UTC(),
	}
}
