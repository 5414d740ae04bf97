package domain

import (
	"context"
	"time"
)

// TicketTracker is the remote tracking store.
// Implementations own transport, authentication and pagination.
type TicketTracker interface {
	// ListTickets returns every ticket in the repository, open and closed.
	ListTickets(ctx context.Context, repo string) ([]RemoteTicket, error)

	// GetParent returns the parent ticket number, or nil if there is none.
	GetParent(ctx context.Context, repo string, number int) (*int, error)

	// CreateTicket creates a ticket and returns its identity.
	CreateTicket(ctx context.Context, repo string, t NewTicket) (*CreatedTicket, error)

	// Comment adds a comment to a ticket.
	Comment(ctx context.Context, repo string, number int, body string) error

	// EditBody replaces a ticket's body.
	EditBody(ctx context.Context, repo string, number int, body string) error

	// LinkParent makes child a sub-ticket of parent.
	LinkParent(ctx context.Context, repo string, parent, child int) error
}

// SourceFinder discovers ticket definition sources.
type SourceFinder interface {
	// Find returns files under dir whose names match any pattern.
	// Each file appears once, in pattern order then lexical order.
	Find(dir string, patterns []string) ([]string, error)

	// Read returns the content of a source file.
	Read(path string) ([]byte, error)
}

// SourceExtractor extracts top-level literals from a definition source.
type SourceExtractor interface {
	// Supports reports whether the extractor understands the file.
	Supports(path string) bool

	// Extract returns the literals bound at the top level of content.
	// A source that cannot be parsed at all returns a *ParseError.
	Extract(path string, content []byte) ([]Literal, error)
}

// CandidateStore persists extraction output.
type CandidateStore interface {
	// LoadCandidates reads a candidates file. Returns ErrCandidatesNotFound if absent.
	LoadCandidates(path string) (*CandidateFile, error)

	// SaveCandidates writes a candidates file.
	SaveCandidates(path string, file *CandidateFile) error
}

// IssueMapStore persists the canonical ID to remote number mapping.
type IssueMapStore interface {
	// LoadIssueMap reads the issue map. A missing file yields an empty map.
	LoadIssueMap(path string) (IssueMap, error)

	// SaveIssueMap writes the issue map.
	SaveIssueMap(path string, m IssueMap) error
}

// ExportStore persists the exported diff set.
type ExportStore interface {
	// LoadExport reads an export file. Returns ErrExportNotFound if absent.
	LoadExport(path string) ([]ExportRecord, error)

	// SaveExport writes an export file.
	SaveExport(path string, records []ExportRecord) error
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (default <- global <- workspace).
	Load() (*Config, error)
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// GetRepoConfigInfo returns information about the workspace config file.
	GetRepoConfigInfo() ConfigInfo

	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo

	// InitRepoConfig writes a config template for the workspace.
	InitRepoConfig(cfg *Config) error

	// InitGlobalConfig writes a global config template.
	InitGlobalConfig(cfg *Config) error
}

// ConfigInfo describes a config file.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// RepositoryResolver determines the remote repository of a workspace.
type RepositoryResolver interface {
	// Repository returns the owner/repo slug of the workspace's origin remote.
	Repository() (string, error)
}

// CommandExecutor runs external commands.
type CommandExecutor interface {
	// Output runs the command and returns its standard output.
	// A non-zero exit returns a *CommandError carrying standard error.
	Output(ctx context.Context, cmd *ExecCommand) ([]byte, error)
}

// Pacer spaces out remote-mutating calls.
type Pacer interface {
	// Wait blocks until the next call is allowed or ctx is done.
	Wait(ctx context.Context) error
}

// Logger records diagnostic events by category.
type Logger interface {
	Debug(category, msg string)
	Info(category, msg string)
	Warn(category, msg string)
	Error(category, msg string)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
