//go:build unix

package cli

import (
	"fmt"
	"os"
	"syscall"
)

// signalUpload asks the running agent at pid for an immediate upload.
func signalUpload(pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find daemon process: %w", err)
	}
	if err := process.Signal(syscall.SIGUSR1); err != nil {
		return fmt.Errorf("failed to send upload signal: %w", err)
	}
	return nil
}
