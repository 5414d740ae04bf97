package domain

import (
	"strings"
	"testing"
	"time"
)

func TestWorkspaceDir(t *testing.T) {
	got := WorkspaceDir("/home/user/project")
	want := "/home/user/project/.ticketsync"
	if got != want {
		t.Errorf("WorkspaceDir() = %q, want %q", got, want)
	}
}

func TestRepoConfigPath(t *testing.T) {
	got := RepoConfigPath("/home/user/project")
	want := "/home/user/project/.ticketsync/config.toml"
	if got != want {
		t.Errorf("RepoConfigPath() = %q, want %q", got, want)
	}
}

func TestGlobalConfigDir(t *testing.T) {
	got := GlobalConfigDir("/home/user/.config")
	want := "/home/user/.config/ticketsync"
	if got != want {
		t.Errorf("GlobalConfigDir() = %q, want %q", got, want)
	}
}

func TestLogPath(t *testing.T) {
	got := LogPath("/w/.ticketsync")
	want := "/w/.ticketsync/logs/ticketsync.log"
	if got != want {
		t.Errorf("LogPath() = %q, want %q", got, want)
	}
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Remote.GH != DefaultGH || cfg.Remote.Limit != DefaultRemoteLimit || cfg.Remote.Name != DefaultRemoteName {
		t.Errorf("Remote = %+v", cfg.Remote)
	}
	if cfg.Create.Delay != time.Second || !cfg.Create.LinkComment {
		t.Errorf("Create = %+v", cfg.Create)
	}
	if len(cfg.Reconcile.RequiredMarkers) != 3 {
		t.Errorf("RequiredMarkers = %v", cfg.Reconcile.RequiredMarkers)
	}

	// Defaults must not alias the package-level slices.
	cfg.Sources.Patterns[0] = "changed"
	cfg.Reconcile.RequiredMarkers[0] = "changed"
	if DefaultSourcePatterns[0] == "changed" || DefaultRequiredMarkers[0] == "changed" {
		t.Error("NewDefaultConfig shares slices with the defaults")
	}
}

func TestConfig_ResolvePath(t *testing.T) {
	cfg := NewDefaultConfig()
	tests := []struct {
		root, path, want string
	}{
		{"/w", "issue_map.json", "/w/issue_map.json"},
		{"/w", "out/export.json", "/w/out/export.json"},
		{"/w", "/abs/export.json", "/abs/export.json"},
		{"", "issue_map.json", "issue_map.json"},
		{"/w", "", ""},
	}
	for _, tt := range tests {
		if got := cfg.ResolvePath(tt.root, tt.path); got != tt.want {
			t.Errorf("ResolvePath(%q, %q) = %q, want %q", tt.root, tt.path, got, tt.want)
		}
	}
}

func TestRenderConfigTemplate(t *testing.T) {
	content := RenderConfigTemplate(nil)

	// Check that default values from constants are embedded
	for _, want := range []string{
		`level = "info"`,
		`gh = "gh"`,
		`name = "origin"`,
		`limit = 1000`,
		`delay = "1s"`,
		`link_comment = true`,
		`required_markers = ["REQUIRES", "PROVIDES", "PRIORITY"]`,
		`"create_*.py"`,
		`exported = "exported_issues.json"`,
	} {
		if !strings.Contains(content, want) {
			t.Errorf("expected %s in template", want)
		}
	}

	// Check header is present
	if !strings.Contains(content, "# ticketsync configuration") {
		t.Error("expected header to be present")
	}
}

func TestRenderConfigTemplate_Values(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Remote.Repository = "acme/widgets"
	cfg.Create.Delay = 250 * time.Millisecond
	cfg.Create.LinkComment = false

	content := RenderConfigTemplate(cfg)
	for _, want := range []string{`repository = "acme/widgets"`, `delay = "250ms"`, `link_comment = false`} {
		if !strings.Contains(content, want) {
			t.Errorf("expected %s in template", want)
		}
	}
}
