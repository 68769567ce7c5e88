package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	// Point the default location somewhere empty
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Tool != "t3d" {
		t.Errorf("Tool = %q, want %q", cfg.Tool, "t3d")
	}
	if !cfg.PropagatesExit() {
		t.Error("expected exit propagation by default")
	}
	if cfg.PTY != PTYAuto {
		t.Errorf("PTY = %q, want %q", cfg.PTY, PTYAuto)
	}
	if cfg.Timeout != 0 {
		t.Errorf("Timeout = %v, want 0", cfg.Timeout)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for explicit missing config")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
tool: t3d-dev
propagate_exit_code: false
timeout: 90s
audit_log: /tmp/termite-history.jsonl
pty: never
env:
  scrub: true
  allow: [EDITOR]
docker:
  enabled: true
  image: termite/t3d:latest
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Tool != "t3d-dev" {
		t.Errorf("Tool = %q, want %q", cfg.Tool, "t3d-dev")
	}
	if cfg.PropagatesExit() {
		t.Error("expected exit propagation disabled")
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", cfg.Timeout)
	}
	if cfg.PTY != PTYNever {
		t.Errorf("PTY = %q, want %q", cfg.PTY, PTYNever)
	}
	if !cfg.Env.Scrub {
		t.Error("expected env scrubbing enabled")
	}
	if !cfg.Docker.Enabled || cfg.Docker.Image != "termite/t3d:latest" {
		t.Errorf("Docker = %+v, want enabled with image", cfg.Docker)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "tool: [unterminated"},
		{"bad pty mode", "pty: sometimes"},
		{"negative timeout", "timeout: -5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("audit_log: /tmp/h.jsonl\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Tool != "t3d" {
		t.Errorf("Tool = %q, want default %q", cfg.Tool, "t3d")
	}
	if !cfg.PropagatesExit() {
		t.Error("expected exit propagation by default")
	}
	if cfg.AuditLog != "/tmp/h.jsonl" {
		t.Errorf("AuditLog = %q", cfg.AuditLog)
	}
}
