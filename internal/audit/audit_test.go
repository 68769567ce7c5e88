package audit

import (
	"path/filepath"
	"testing"

	"termite/pkg/launch"
)

func TestLoggerRoundTrip(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "history.jsonl")

	logger, err := NewLogger(logPath)
	if err != nil {
		t.Fatalf("create logger: %v", err)
	}

	entries := []Entry{
		{
			Tool:     "t3d",
			Args:     []string{"scene.obj"},
			Dir:      "/home/user/models",
			Strategy: "local",
			Identity: launch.Identity{UID: 1000, GID: 1000},
			ExitCode: 0,
			Duration: 1523.4,
		},
		{
			Tool:     "t3d",
			Args:     []string{"missing.obj"},
			Dir:      "/home/user/models",
			Strategy: "local",
			Identity: launch.Identity{UID: 1000, GID: 1000},
			ExitCode: 1,
			Duration: 12.7,
		},
		{
			Tool:     "t3d",
			Args:     []string{"scene.obj"},
			Dir:      "/srv/render",
			Strategy: "docker",
			ExitCode: 0,
			Error:    "",
		},
	}

	for _, entry := range entries {
		if err := logger.Record(entry); err != nil {
			t.Fatalf("record entry: %v", err)
		}
	}
	logger.Close()

	read, err := ReadLog(logPath)
	if err != nil {
		t.Fatalf("read history: %v", err)
	}

	if len(read) != len(entries) {
		t.Fatalf("expected %d entries, got %d", len(entries), len(read))
	}

	for i, entry := range read {
		if entry.Tool != entries[i].Tool {
			t.Errorf("entry %d: tool = %q, want %q", i, entry.Tool, entries[i].Tool)
		}
		if entry.ExitCode != entries[i].ExitCode {
			t.Errorf("entry %d: exit code = %d, want %d", i, entry.ExitCode, entries[i].ExitCode)
		}
		if entry.Strategy != entries[i].Strategy {
			t.Errorf("entry %d: strategy = %q, want %q", i, entry.Strategy, entries[i].Strategy)
		}
		if entry.Timestamp == "" {
			t.Errorf("entry %d: timestamp is empty", i)
		}
	}
}

func TestLoggerDisabled(t *testing.T) {
	logger, err := NewLogger("")
	if err != nil {
		t.Fatalf("create disabled logger: %v", err)
	}
	defer logger.Close()

	if err := logger.Record(Entry{Tool: "t3d"}); err != nil {
		t.Errorf("record on disabled logger: %v", err)
	}
}

func TestLoggerCreatesDirectory(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "state", "termite", "history.jsonl")

	logger, err := NewLogger(logPath)
	if err != nil {
		t.Fatalf("create logger: %v", err)
	}
	if err := logger.Record(Entry{Tool: "t3d", Args: []string{"a.obj"}}); err != nil {
		t.Fatalf("record entry: %v", err)
	}
	logger.Close()

	read, err := ReadLog(logPath)
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	if len(read) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(read))
	}
}

func TestReadLogMissingFile(t *testing.T) {
	entries, err := ReadLog(filepath.Join(t.TempDir(), "absent.jsonl"))
	if err != nil {
		t.Fatalf("read missing history: %v", err)
	}
	if entries != nil {
		t.Errorf("expected nil entries, got %v", entries)
	}
}
