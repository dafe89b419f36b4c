//go:build unix

package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"
)

// notifyUpload calls fn on every SIGUSR1 until the returned stop is called.
func notifyUpload(fn func()) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigCh, syscall.SIGUSR1)

	go func() {
		for {
			select {
			case <-done:
				return
			case <-sigCh:
				log.Println("Received SIGUSR1, uploading")
				fn()
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}
