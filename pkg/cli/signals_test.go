package cli

import (
	"os"
	"syscall"
	"testing"
	"time"
)

func TestWaitForShutdownStartsEmpty(t *testing.T) {
	ch := WaitForShutdown()
	if ch == nil {
		t.Fatal("WaitForShutdown returned a nil channel")
	}

	select {
	case sig := <-ch:
		t.Fatalf("signal before any was sent: %v", sig)
	case <-time.After(10 * time.Millisecond):
	}
}

func TestWaitForShutdownDeliversSIGTERM(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping signal delivery in short mode")
	}

	ch := WaitForShutdown()

	// One signal for the whole binary. Every channel registered by
	// this test file receives a copy, and a second signal would trip
	// their hard-exit path.
	go func() {
		time.Sleep(50 * time.Millisecond)
		p, _ := os.FindProcess(os.Getpid())
		_ = p.Signal(syscall.SIGTERM)
	}()

	select {
	case sig := <-ch:
		if sig != syscall.SIGTERM {
			t.Errorf("received %v, want SIGTERM", sig)
		}
	case <-time.After(500 * time.Millisecond):
		t.Skip("signal not delivered in time")
	}
}
