package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hostwatch-io/hostwatch/internal/config"
	"github.com/hostwatch-io/hostwatch/internal/daemon/agent"
	"github.com/hostwatch-io/hostwatch/internal/daemon/eventlog"
	"github.com/hostwatch-io/hostwatch/internal/daemon/signals"
	"github.com/hostwatch-io/hostwatch/internal/daemon/tray"
	"github.com/hostwatch-io/hostwatch/internal/daemon/upload"
	"github.com/hostwatch-io/hostwatch/internal/models"
)

// clipboardTimeout bounds one clipboard read on the owning thread.
const clipboardTimeout = 2 * time.Second

// instance is a fully wired agent plus what must be released after it stops.
type instance struct {
	agent   *agent.Agent
	info    *models.DaemonInfo
	closers []func()
}

// newInstance builds the agent from the current settings.
func newInstance() (*instance, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	logsDir, err := config.GlobalLogsDir()
	if err != nil {
		return nil, err
	}
	info := models.NewDaemonInfo(os.Getpid(), logsDir)
	inst := &instance{info: info}

	var diag *eventlog.Diagnostics
	diag, err = eventlog.OpenDiagnostics(config.ErrorLogFile(logsDir), settings.Diagnostics.Trace)
	if err != nil {
		log.Printf("Diagnostics log unavailable, using stderr: %v", err)
		diag = eventlog.NewDiagnostics(os.Stderr, settings.Diagnostics.Trace)
	}
	inst.closers = append(inst.closers, func() { _ = diag.Close() })

	events := eventlog.New(logsDir, diag)
	port := signals.Port{Sampler: signals.NewX11Sampler()}

	if settings.Signals.Clipboard {
		tb := signals.NewThreadBound(signals.SystemClipboard{}, clipboardTimeout)
		port.Clipboard = tb
		inst.closers = append(inst.closers, tb.Close)
	}
	if settings.Signals.DBus {
		port.Sources = append(port.Sources, signals.NewLogindSource())
	}
	if settings.Signals.PrintSpoolDir != "" {
		port.Sources = append(port.Sources, signals.NewPrintSpoolSource(settings.Signals.PrintSpoolDir, upload.CurrentUser(), nil))
	}

	uploader := upload.NewScheduler(upload.Config{
		URL:        settings.Collector.URL,
		User:       settings.Collector.User,
		InstanceID: info.InstanceID,
		Timeout:    settings.Collector.Timeout,
	}, events, diag)

	inst.agent = agent.New(agent.Options{
		Settings:   settings,
		InstanceID: info.InstanceID,
		Log:        events,
		Diag:       diag,
		Port:       port,
		Uploader:   uploader,
	})
	return inst, nil
}

// start launches the agent and publishes the daemon info.
func (i *instance) start() error {
	if err := i.agent.Start(); err != nil {
		return err
	}
	if err := config.SaveDaemonInfo(i.info); err != nil {
		i.agent.Stop()
		return fmt.Errorf("failed to write daemon info: %w", err)
	}
	log.Printf("Agent started (PID %d, instance %s)", i.info.PID, i.info.InstanceID)
	return nil
}

// stop halts the agent and removes the daemon info.
func (i *instance) stop() {
	i.agent.Stop()
	for _, c := range i.closers {
		c()
	}
	if err := config.RemoveDaemonInfo(); err != nil {
		log.Printf("Failed to remove daemon info: %v", err)
	}
}

// runForeground runs the agent without a system tray, blocking on signals.
func runForeground() error {
	inst, err := newInstance()
	if err != nil {
		return err
	}
	if err := inst.start(); err != nil {
		return err
	}

	quit := make(chan struct{})
	var quitOnce sync.Once
	inst.agent.OnShutdown(func() { quitOnce.Do(func() { close(quit) }) })
	stopUploads := notifyUpload(inst.agent.UploadNow)
	defer stopUploads()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, shutting down...", sig)
	case <-quit:
		log.Println("Shutdown requested")
	}

	inst.stop()
	fmt.Println("Daemon stopped")
	return nil
}

// runWithTray runs the agent with a system tray icon on the main goroutine.
// systray.Run must occupy the main goroutine on macOS (Cocoa requirement).
func runWithTray() error {
	inst, err := newInstance()
	if err != nil {
		return err
	}
	inst.agent.OnShutdown(tray.Quit)

	var stopUploads func()
	onStart := func() {
		if err := inst.start(); err != nil {
			log.Fatalf("Failed to start agent: %v", err)
		}
		stopUploads = notifyUpload(inst.agent.UploadNow)

		// Quit tray on SIGINT/SIGTERM
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			log.Printf("Received signal %v, shutting down...", sig)
			tray.Quit()
		}()
	}

	onExit := func() {
		if stopUploads != nil {
			stopUploads()
		}
		inst.stop()
		fmt.Println("Daemon stopped")
	}

	// This blocks the main goroutine until tray exits.
	tray.Run(inst.agent, onStart, onExit)
	return nil
}
