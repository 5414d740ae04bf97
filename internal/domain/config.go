package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings  []string        `toml:"-"`         // Unknown keys found while loading
	Remote    RemoteConfig    `toml:"remote"`    // [remote] settings
	Sources   SourcesConfig   `toml:"sources"`   // [sources] settings
	Files     FilesConfig     `toml:"files"`     // [files] settings
	Reconcile ReconcileConfig `toml:"reconcile"` // [reconcile] settings
	Log       LogConfig       `toml:"log"`       // [log] settings
	Create    CreateConfig    `toml:"create"`    // [create] settings
}

// RemoteConfig holds remote tracker settings from [remote] section.
type RemoteConfig struct {
	Repository string `toml:"repository"` // owner/repo; empty = detect from the git remote
	Name       string `toml:"name"`       // git remote used to detect the repository
	GH         string `toml:"gh"`         // gh executable
	Limit      int    `toml:"limit"`      // Maximum tickets fetched for the snapshot
}

// SourcesConfig holds definition source discovery settings from [sources] section.
type SourcesConfig struct {
	Dir      string   `toml:"dir"`      // Directory searched for sources
	Patterns []string `toml:"patterns"` // Glob patterns matched against file names
}

// FilesConfig holds artifact paths from [files] section.
// Relative paths are resolved against the workspace root.
type FilesConfig struct {
	Candidates string `toml:"candidates"` // Extraction output
	IssueMap   string `toml:"issue_map"`  // canonical_id -> remote number
	Exported   string `toml:"exported"`   // Reconciliation output
}

// ReconcileConfig holds reconciliation settings from [reconcile] section.
type ReconcileConfig struct {
	RequiredMarkers []string `toml:"required_markers"` // Markers every remote body must contain
}

// CreateConfig holds settings for acting on the export from [create] section.
// Fields are ordered to minimize memory padding.
type CreateConfig struct {
	Delay       time.Duration `toml:"-"`            // Pause between remote-mutating calls
	Burst       int           `toml:"burst"`        // Calls allowed before pacing applies
	LinkComment bool          `toml:"link_comment"` // Comment the parent link when sub-issue linking fails
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level"` // Log level: debug, info, warn, error
}

// Config file and directory names.
const (
	AppDirName     = ".ticketsync"    // Workspace state directory
	GlobalDirName  = "ticketsync"     // Directory under XDG_CONFIG_HOME
	ConfigFileName = "config.toml"    // Config file name
	LogFileName    = "ticketsync.log" // Log file name
)

// Default configuration values.
const (
	DefaultLogLevel       = "info"
	DefaultGH             = "gh"
	DefaultRemoteName     = "origin"
	DefaultRemoteLimit    = 1000
	DefaultCandidatesFile = "canonical_candidates.json"
	DefaultIssueMapFile   = "issue_map.json"
	DefaultExportedFile   = "exported_issues.json"
	DefaultCreateDelay    = time.Second
	DefaultCreateBurst    = 1
)

// DefaultSourcePatterns are the file name patterns searched for definitions.
var DefaultSourcePatterns = []string{
	"create_*.py",
	"create_all_*.py",
	"create_remaining*.py",
	"create_go*.py",
	"*create*.py",
	"tickets*.yaml",
	"tickets*.yml",
	"tickets*.json",
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Remote: RemoteConfig{
			Name:  DefaultRemoteName,
			GH:    DefaultGH,
			Limit: DefaultRemoteLimit,
		},
		Sources: SourcesConfig{
			Dir:      ".",
			Patterns: append([]string(nil), DefaultSourcePatterns...),
		},
		Files: FilesConfig{
			Candidates: DefaultCandidatesFile,
			IssueMap:   DefaultIssueMapFile,
			Exported:   DefaultExportedFile,
		},
		Reconcile: ReconcileConfig{
			RequiredMarkers: append([]string(nil), DefaultRequiredMarkers...),
		},
		Create: CreateConfig{
			Delay:       DefaultCreateDelay,
			Burst:       DefaultCreateBurst,
			LinkComment: true,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// ResolvePath resolves a configured path against the workspace root.
func (c *Config) ResolvePath(root, path string) string {
	if path == "" || filepath.IsAbs(path) || root == "" {
		return path
	}
	return filepath.Join(root, path)
}

// WorkspaceDir returns the state directory for a workspace root.
func WorkspaceDir(root string) string {
	return filepath.Join(root, AppDirName)
}

// RepoConfigPath returns the workspace config path.
func RepoConfigPath(root string) string {
	return filepath.Join(WorkspaceDir(root), ConfigFileName)
}

// GlobalConfigDir returns the global config directory.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, GlobalDirName)
}

// LogPath returns the log file path for a workspace state directory.
func LogPath(appDir string) string {
	return filepath.Join(appDir, "logs", LogFileName)
}

// templateData holds data for rendering the config template.
type templateData struct {
	Repository      string
	RemoteName      string
	GH              string
	SourceDir       string
	Patterns        string
	Candidates      string
	IssueMap        string
	Exported        string
	RequiredMarkers string
	Delay           string
	LogLevel        string
	Limit           int
	Burst           int
	LinkComment     bool
}

// RenderConfigTemplate renders a commented config file from cfg.
func RenderConfigTemplate(cfg *Config) string {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	data := templateData{
		Repository:      cfg.Remote.Repository,
		RemoteName:      cfg.Remote.Name,
		GH:              cfg.Remote.GH,
		Limit:           cfg.Remote.Limit,
		SourceDir:       cfg.Sources.Dir,
		Patterns:        tomlStringArray(cfg.Sources.Patterns),
		Candidates:      cfg.Files.Candidates,
		IssueMap:        cfg.Files.IssueMap,
		Exported:        cfg.Files.Exported,
		RequiredMarkers: tomlStringArray(cfg.Reconcile.RequiredMarkers),
		Delay:           cfg.Create.Delay.String(),
		Burst:           cfg.Create.Burst,
		LinkComment:     cfg.Create.LinkComment,
		LogLevel:        cfg.Log.Level,
	}

	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}
	return buf.String()
}

func tomlStringArray(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = strconv.Quote(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
