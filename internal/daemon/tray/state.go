// Package tray implements the system tray icon and menu for the daemon.
package tray

import "time"

// AgentState provides read-only access to agent state for the tray, plus
// the two actions the menu offers.
type AgentState interface {
	InstanceID() string
	Idle() bool
	UploadEnabled() bool
	LastUpload() (at time.Time, ok bool, ran bool)
	UploadNow()
	RequestShutdown()
}
