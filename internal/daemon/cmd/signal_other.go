//go:build !unix

package cmd

// notifyUpload is a no-op where SIGUSR1 does not exist.
func notifyUpload(fn func()) (stop func()) {
	return func() {}
}
