// Package cli implements the termite command line: it resolves
// configuration, captures the invocation context, launches the viewer
// tool, and records the outcome.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/docker/docker/client"
	flag "github.com/spf13/pflag"

	"termite/internal/audit"
	"termite/internal/config"
	"termite/internal/launcher"
	"termite/pkg/launch"
)

const version = "1.0.0"

// Exit codes for launcher-side outcomes. The child's own exit code is
// forwarded unchanged when propagation is on.
const (
	exitFailure = 1
	exitUsage   = 2
)

// Run executes the CLI with the process's real arguments and stdio.
func Run() int {
	return run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// "history" has its own flags; dispatch before parsing the launch ones
	if len(args) >= 1 && args[0] == "history" {
		return runHistory(args[1:], stdout, stderr)
	}

	flags := flag.NewFlagSet("termite", flag.ContinueOnError)
	flags.SetOutput(stderr)
	// Everything after the object file belongs to the tool
	flags.SetInterspersed(false)

	configPath := flags.String("config", "", "Path to the config file")
	toolName := flags.String("tool", "", "Executable to launch (default from config, \"t3d\")")
	timeout := flags.Duration("timeout", 0, "Kill the tool after this duration (0 = no limit)")
	noPTY := flags.Bool("no-pty", false, "Never allocate a pseudo-terminal")
	useDocker := flags.Bool("docker", false, "Run the tool in an ephemeral container")
	verbose := flags.BoolP("verbose", "v", false, "Log launcher activity to stderr")
	showVersion := flags.Bool("version", false, "Print version and exit")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "termite v%s - launch the t3d terminal model viewer\n\n", version)
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  termite [options] <object-file> [extra tool args...]\n")
		fmt.Fprintf(stderr, "  termite history [-n N]    Show recent launches\n\n")
		fmt.Fprintf(stderr, "The tool runs in the current working directory and termite\n")
		fmt.Fprintf(stderr, "exits with the tool's exit code.\n\n")
		fmt.Fprintf(stderr, "Options:\n%s", flags.FlagUsages())
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return exitUsage
	}

	if *showVersion {
		fmt.Fprintf(stdout, "termite v%s\n", version)
		return 0
	}

	if flags.NArg() < 1 {
		fmt.Fprintf(stderr, "termite: missing object file argument\n\n")
		flags.Usage()
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "termite: %v\n", err)
		return exitFailure
	}

	// Flags override the config file
	if *toolName != "" {
		cfg.Tool = *toolName
	}
	if flags.Changed("timeout") {
		cfg.Timeout = *timeout
	}
	if *noPTY {
		cfg.PTY = config.PTYNever
	}
	if *useDocker {
		cfg.Docker.Enabled = true
	}

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(stderr, "[termite] ", log.LstdFlags|log.Lmsgprefix)
	}

	req, err := launch.Capture(cfg.Tool, flags.Args())
	if err != nil {
		fmt.Fprintf(stderr, "termite: %v\n", err)
		return exitFailure
	}
	if cfg.Env.Scrub {
		req.Env = launcher.ScrubEnvironment(req.Env, cfg.Env.Allow, cfg.Env.Deny)
	}

	l, strategy, err := buildLauncher(cfg, logger, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "termite: %v\n", err)
		return exitFailure
	}

	history, err := audit.NewLogger(cfg.AuditLog)
	if err != nil {
		// History must never block a launch
		logger.Printf("history disabled: %v", err)
		history, _ = audit.NewLogger("")
	}
	defer history.Close()

	ctx := context.Background()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	res, err := l.Launch(ctx, req)

	entry := audit.Entry{
		Tool:     req.Tool,
		Args:     req.Args,
		Dir:      req.Dir,
		Strategy: strategy,
		Identity: req.Identity,
	}
	if res != nil {
		entry.ExitCode = res.ExitCode
		entry.Duration = float64(res.Duration) / float64(time.Millisecond)
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if recErr := history.Record(entry); recErr != nil {
		logger.Printf("record history: %v", recErr)
	}

	if err != nil {
		fmt.Fprintf(stderr, "termite: %v\n", err)
		return exitFailure
	}

	if cfg.PropagatesExit() {
		return res.ExitCode
	}
	return 0
}

// buildLauncher picks the launch strategy from the resolved config.
func buildLauncher(cfg *config.Config, logger *log.Logger, stdin io.Reader, stdout, stderr io.Writer) (launcher.Launcher, string, error) {
	if cfg.Docker.Enabled {
		dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
		if err != nil {
			return nil, "", fmt.Errorf("connect to docker: %w", err)
		}
		d := launcher.NewDocker(dockerClient, cfg.Docker.Image, logger)
		d.SetIO(stdout, stderr)
		return d, launcher.StrategyDocker, nil
	}

	local := launcher.NewLocal(logger)
	local.SetIO(stdin, stdout, stderr)
	local.UsePTY(cfg.PTY == config.PTYAuto)
	return local, launcher.StrategyLocal, nil
}
