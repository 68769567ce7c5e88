package launcher

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/term"
)

// launchPTY runs the child on a pseudo-terminal with the controlling
// terminal in raw mode, so interactive viewers get key and mouse events
// directly. Window size changes are mirrored onto the pty.
func (l *Local) launchPTY(cmd *exec.Cmd) (int, error) {
	stdin := l.stdin.(*os.File)
	stdout := l.stdout.(*os.File)

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return 0, fmt.Errorf("start tool on pty: %w", err)
	}
	defer ptmx.Close()

	// Mirror the terminal size, now and on every SIGWINCH
	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	defer func() {
		signal.Stop(winch)
		close(winch)
	}()
	go func() {
		for range winch {
			if err := pty.InheritSize(stdin, ptmx); err != nil {
				l.logger.Printf("resize pty: %v", err)
			}
		}
	}()
	winch <- syscall.SIGWINCH

	oldState, err := term.MakeRaw(int(stdin.Fd()))
	if err != nil {
		return 0, fmt.Errorf("set raw mode: %w", err)
	}
	defer term.Restore(int(stdin.Fd()), oldState)

	stop := forwardSignals(cmd.Process)
	defer stop()

	go io.Copy(ptmx, stdin)

	// Read returns EIO on Linux when the child closes its side; that is
	// the normal end of stream, not a failure.
	if _, err := io.Copy(stdout, ptmx); err != nil && !errors.Is(err, syscall.EIO) {
		l.logger.Printf("pty stream: %v", err)
	}

	if err := cmd.Wait(); err != nil {
		if code, ok := exitStatus(err); ok {
			return code, nil
		}
		return 0, fmt.Errorf("wait for tool: %w", err)
	}
	return 0, nil
}

// isTerminalFd reports whether f is attached to a terminal.
func isTerminalFd(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
