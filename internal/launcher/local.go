package launcher

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"time"

	"termite/pkg/launch"
)

// Local runs the tool directly on the host. When attached to a terminal
// (and pty mode is enabled) the child gets a pseudo-terminal so raw-mode
// viewers work; otherwise stdio is passed through unchanged.
type Local struct {
	logger *log.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	pty    bool
}

// NewLocal creates a local launcher wired to the process stdio.
func NewLocal(logger *log.Logger) *Local {
	if logger == nil {
		logger = log.New(os.Stderr, "[termite] ", log.LstdFlags|log.Lmsgprefix)
	}
	return &Local{
		logger: logger,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// UsePTY enables pty allocation when stdin and stdout are terminals.
func (l *Local) UsePTY(on bool) {
	l.pty = on
}

// SetIO redirects the child's stdio, replacing the process defaults.
// PTY mode requires real terminal files and is skipped otherwise.
func (l *Local) SetIO(stdin io.Reader, stdout, stderr io.Writer) {
	l.stdin = stdin
	l.stdout = stdout
	l.stderr = stderr
}

// Launch resolves the tool on PATH and runs it to completion in req.Dir.
func (l *Local) Launch(ctx context.Context, req *launch.Request) (*launch.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid launch request: %w", err)
	}

	toolPath, err := exec.LookPath(req.Tool)
	if err != nil {
		return nil, fmt.Errorf("find tool %q: %w", req.Tool, err)
	}

	l.logger.Printf("local launch: %s %v (dir=%s)", toolPath, req.Args, req.Dir)

	cmd := exec.CommandContext(ctx, toolPath, req.Args...)
	cmd.Dir = req.Dir
	cmd.Env = req.Env

	start := time.Now()

	var exitCode int
	if l.pty && isTerminal(l.stdin) && isTerminal(l.stdout) {
		exitCode, err = l.launchPTY(cmd)
	} else {
		exitCode, err = l.launchPlain(cmd)
	}
	if err != nil {
		return nil, err
	}

	// A context kill surfaces as a signal death; report the cause instead.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("tool %q: %w", req.Tool, ctxErr)
	}

	return &launch.Result{
		ExitCode: exitCode,
		Duration: time.Since(start),
	}, nil
}

// launchPlain runs the child with stdio passed through directly.
func (l *Local) launchPlain(cmd *exec.Cmd) (int, error) {
	cmd.Stdin = l.stdin
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start tool: %w", err)
	}

	stop := forwardSignals(cmd.Process)
	defer stop()

	if err := cmd.Wait(); err != nil {
		if code, ok := exitStatus(err); ok {
			return code, nil
		}
		return 0, fmt.Errorf("wait for tool: %w", err)
	}
	return 0, nil
}

// isTerminal reports whether v is an *os.File attached to a terminal.
func isTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	return ok && isTerminalFd(f)
}
