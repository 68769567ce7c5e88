// Package audit records launch history as JSON lines, one entry per
// tool invocation. History is best effort: a failure to record never
// fails the launch itself.
package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"termite/pkg/launch"
)

// Entry is a single launch record.
type Entry struct {
	Timestamp string          `json:"timestamp"`
	Tool      string          `json:"tool"`
	Args      []string        `json:"args"`
	Dir       string          `json:"dir"`
	Strategy  string          `json:"strategy"` // "local" or "docker"
	Identity  launch.Identity `json:"identity"`
	ExitCode  int             `json:"exit_code"`
	Duration  float64         `json:"duration_ms,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// Logger appends launch entries to a history file.
type Logger struct {
	writer io.WriteCloser
	mu     sync.Mutex
}

// NewLogger opens (creating if needed) the history file at path.
// An empty path disables recording.
func NewLogger(path string) (*Logger, error) {
	if path == "" {
		return &Logger{writer: nopWriteCloser{}}, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}

	return &Logger{writer: file}, nil
}

// Record appends one entry, stamping it if the caller did not.
func (l *Logger) Record(entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	data = append(data, '\n')
	if _, err := l.writer.Write(data); err != nil {
		return fmt.Errorf("write history entry: %w", err)
	}

	return nil
}

// Close closes the underlying history file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writer.Close()
}

// ReadLog reads all entries from the history file at path.
// A missing file yields no entries.
func ReadLog(path string) ([]Entry, error) {
	if path == "" {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer file.Close()

	var entries []Entry
	decoder := json.NewDecoder(file)
	for {
		var entry Entry
		if err := decoder.Decode(&entry); err != nil {
			if err == io.EOF {
				break
			}
			// Skip malformed lines
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

type nopWriteCloser struct{}

func (nopWriteCloser) Write(p []byte) (int, error) { return len(p), nil }
func (nopWriteCloser) Close() error                { return nil }
