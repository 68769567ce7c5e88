package launcher

import (
	"os"
	"os/signal"
	"syscall"
)

// forwardSignals relays SIGINT and SIGTERM to the child process until the
// returned stop function is called. Without this, killing the launcher
// would leave the viewer running detached.
func forwardSignals(proc *os.Process) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigCh:
				// Best-effort: the child may already be gone
				_ = proc.Signal(sig)
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}
