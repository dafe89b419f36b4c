//go:build !unix

package cli

import "errors"

func signalUpload(pid int) error {
	return errors.New("signalling the daemon is not supported on this platform; run `hostwatch upload` without --daemon")
}
