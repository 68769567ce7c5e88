// Package launch defines the shared types describing a single tool
// invocation: what to run, with which arguments, where, and with what
// environment. The launcher strategies consume these instead of reading
// the process-global argument vector and working directory directly.
package launch

import (
	"fmt"
	"os"
	"time"
)

// Identity holds the UID/GID of the user invoking the launcher.
type Identity struct {
	UID int `json:"uid"`
	GID int `json:"gid"`
}

// Request describes one tool invocation.
type Request struct {
	Tool     string   `json:"tool"` // executable name, e.g. "t3d"
	Args     []string `json:"args"` // arguments, first is the object file
	Dir      string   `json:"dir"`  // working directory for the child
	Env      []string `json:"env"`  // environment in KEY=VALUE form
	Identity Identity `json:"identity"`
}

// Validate checks that the request is complete enough to launch.
func (r *Request) Validate() error {
	if r.Tool == "" {
		return fmt.Errorf("no tool name")
	}
	if len(r.Args) == 0 {
		return fmt.Errorf("no object file argument")
	}
	if r.Dir == "" {
		return fmt.Errorf("no working directory")
	}
	return nil
}

// Result is the outcome of a completed launch.
type Result struct {
	ExitCode int
	Duration time.Duration
}

// Capture builds a Request from the current process context: the given
// tool and args, the process working directory, environment, and identity.
func Capture(tool string, args []string) (*Request, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	return &Request{
		Tool: tool,
		Args: args,
		Dir:  cwd,
		Env:  os.Environ(),
		Identity: Identity{
			UID: os.Getuid(),
			GID: os.Getgid(),
		},
	}, nil
}
