package tray

import (
	"fmt"
	"log"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/getlantern/systray"
)

// refreshInterval is how often the status items are redrawn.
const refreshInterval = 5 * time.Second

var (
	state   AgentState
	onStart func()
	onExit  func()
	now     = time.Now

	statusItem *systray.MenuItem
	uploadItem *systray.MenuItem
	sendItem   *systray.MenuItem
	quitItem   *systray.MenuItem
	stopCh     = make(chan struct{})
)

// Run starts the system tray. This blocks the calling goroutine (must be main).
// onStartFn is called when the tray is ready (start the agent here).
// onExitFn is called when the tray exits (cleanup here).
func Run(s AgentState, onStartFn, onExitFn func()) {
	state = s
	onStart = onStartFn
	onExit = onExitFn
	systray.Run(onReady, onQuit)
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

func onReady() {
	systray.SetTemplateIcon(iconData, iconData)
	systray.SetTooltip("Hostwatch")

	// Header
	header := systray.AddMenuItem("Hostwatch Agent", "")
	header.Disable()

	statusItem = systray.AddMenuItem("Starting...", "")
	statusItem.Disable()

	uploadItem = systray.AddMenuItem("", "")
	uploadItem.Disable()

	systray.AddSeparator()

	// Actions
	sendItem = systray.AddMenuItem("Upload now", "Send the logs to the collector")
	quitItem = systray.AddMenuItem("Quit", "Shut down the Hostwatch agent")

	// Start the agent
	if onStart != nil {
		onStart()
	}

	refresh()

	go handleClicks()
	go refreshLoop()
}

func onQuit() {
	close(stopCh)
	if onExit != nil {
		onExit()
	}
}

func handleClicks() {
	for {
		select {
		case <-stopCh:
			return

		case <-sendItem.ClickedCh:
			if state != nil {
				log.Println("[tray] Upload requested")
				state.UploadNow()
			}

		case <-quitItem.ClickedCh:
			if state != nil {
				state.RequestShutdown()
			}
		}
	}
}

func refreshLoop() {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			refresh()
		}
	}
}

// refresh redraws the status items and tooltip.
func refresh() {
	if state == nil {
		return
	}
	idle := state.Idle()
	statusItem.SetTitle(formatStatus(idle))

	if !state.UploadEnabled() {
		uploadItem.SetTitle("Uploads disabled")
		sendItem.Disable()
	} else {
		at, ok, ran := state.LastUpload()
		uploadItem.SetTitle(formatLastUpload(at, ok, ran, now()))
		sendItem.Enable()
	}
	systray.SetTooltip(formatTooltip(idle, state.InstanceID()))
}

func formatStatus(idle bool) string {
	if idle {
		return "○ Idle"
	}
	return "● Active"
}

func formatLastUpload(at time.Time, ok, ran bool, now time.Time) string {
	if !ran {
		return "Last upload: never"
	}
	when := humanize.RelTime(at, now, "ago", "from now")
	if !ok {
		return fmt.Sprintf("Last upload: failed %s", when)
	}
	return fmt.Sprintf("Last upload: %s", when)
}

func formatTooltip(idle bool, instanceID string) string {
	status := "active"
	if idle {
		status = "idle"
	}
	if len(instanceID) > 8 {
		instanceID = instanceID[:8]
	}
	return fmt.Sprintf("Hostwatch (%s) %s", instanceID, status)
}
