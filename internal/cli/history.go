package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	flag "github.com/spf13/pflag"

	"termite/internal/audit"
	"termite/internal/config"
)

// runHistory prints recent launches from the history file.
func runHistory(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("termite history", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "Path to the config file")
	count := flags.IntP("count", "n", 20, "Number of entries to show (0 = all)")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "termite: %v\n", err)
		return exitFailure
	}

	if cfg.AuditLog == "" {
		fmt.Fprintf(stderr, "termite: history is disabled (set audit_log in the config)\n")
		return exitFailure
	}

	entries, err := audit.ReadLog(cfg.AuditLog)
	if err != nil {
		fmt.Fprintf(stderr, "termite: %v\n", err)
		return exitFailure
	}

	if len(entries) == 0 {
		fmt.Fprintln(stdout, "No launches recorded")
		return 0
	}

	if *count > 0 && len(entries) > *count {
		entries = entries[len(entries)-*count:]
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTOOL\tARGS\tDIR\tEXIT\tDURATION")
	for _, entry := range entries {
		timestamp := entry.Timestamp
		if t, err := time.Parse(time.RFC3339Nano, timestamp); err == nil {
			timestamp = t.Local().Format("2006-01-02 15:04:05")
		}

		exit := fmt.Sprintf("%d", entry.ExitCode)
		if entry.Error != "" {
			exit = "error"
		}

		duration := ""
		if entry.Duration > 0 {
			duration = fmt.Sprintf("%.0fms", entry.Duration)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			timestamp, entry.Tool, strings.Join(entry.Args, " "), entry.Dir, exit, duration)
	}
	w.Flush()
	return 0
}
