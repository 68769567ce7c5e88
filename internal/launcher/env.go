package launcher

import (
	"strings"
)

// Environment scrubbing for the child process. Off by default (the tool
// inherits the full environment); when enabled, only allowlisted
// variables pass through, and blocklisted ones never do.

// envAllowlist contains variables that are safe to pass through.
var envAllowlist = map[string]bool{
	"PATH":      true,
	"LANG":      true,
	"LANGUAGE":  true,
	"LC_ALL":    true,
	"TERM":      true,
	"COLORTERM": true,
	"HOME":      true,
	"USER":      true,
	"SHELL":     true,
	"TMPDIR":    true,
}

// envBlocklist contains variables that are never passed through,
// even when extra allow entries name them.
var envBlocklist = map[string]bool{
	"LD_PRELOAD":            true,
	"LD_LIBRARY_PATH":       true,
	"DYLD_INSERT_LIBRARIES": true,
}

// ScrubEnvironment filters env through the built-in lists plus the
// caller's extra allow and deny entries.
func ScrubEnvironment(env, allow, deny []string) []string {
	extraAllow := make(map[string]bool, len(allow))
	for _, key := range allow {
		extraAllow[key] = true
	}
	extraDeny := make(map[string]bool, len(deny))
	for _, key := range deny {
		extraDeny[key] = true
	}

	scrubbed := make([]string, 0, len(env))
	for _, entry := range env {
		key := envKey(entry)

		// Deny lists win over everything
		if envBlocklist[key] || extraDeny[key] {
			continue
		}

		if envAllowlist[key] || extraAllow[key] {
			scrubbed = append(scrubbed, entry)
		}
	}

	return scrubbed
}

// envKey extracts the key from a "KEY=VALUE" environment entry.
func envKey(entry string) string {
	if idx := strings.IndexByte(entry, '='); idx >= 0 {
		return entry[:idx]
	}
	return entry
}
