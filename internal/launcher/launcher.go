// Package launcher implements the strategies for running the viewer tool:
// Local (exec on the host, optionally on a pty) and Docker (ephemeral
// container for hosts without the tool installed).
package launcher

import (
	"context"
	"errors"
	"os/exec"

	"termite/pkg/launch"
)

// Strategy names recorded in launch history.
const (
	StrategyLocal  = "local"
	StrategyDocker = "docker"
)

// Launcher runs the tool described by req and reports its outcome.
// Launch blocks until the child has terminated.
type Launcher interface {
	Launch(ctx context.Context, req *launch.Request) (*launch.Result, error)
}

// exitStatus extracts the child's exit code from a Wait error.
func exitStatus(err error) (int, bool) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}
