package cli

import (
	"os"
	"os/signal"
	"syscall"
)

// WaitForShutdown returns a channel that delivers the first SIGINT or
// SIGTERM. After that a second signal exits the process immediately,
// so a stuck shutdown can still be interrupted from the terminal.
func WaitForShutdown() <-chan os.Signal {
	notify := make(chan os.Signal, 2)
	signal.Notify(notify, os.Interrupt, syscall.SIGTERM)

	first := make(chan os.Signal, 1)
	go func() {
		first <- <-notify
		<-notify
		os.Exit(1)
	}()

	return first
}
