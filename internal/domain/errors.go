package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors.
var (
	ErrRemoteUnavailable   = errors.New("remote snapshot unavailable")
	ErrSnapshotTruncated   = errors.New("remote snapshot truncated")
	ErrNoRepository        = errors.New("no repository configured (set [remote] repository or add an origin remote)")
	ErrInvalidRepository   = errors.New("invalid repository (want owner/repo)")
	ErrCandidatesNotFound  = errors.New("candidates file not found (run 'ticketsync extract' first)")
	ErrExportNotFound      = errors.New("export file not found (run 'ticketsync reconcile' first)")
	ErrNoSources           = errors.New("no definition sources found")
	ErrUnsupportedSource   = errors.New("unsupported source type")
	ErrConfigExists        = errors.New("config file already exists")
	ErrNotGitRepository    = errors.New("not a git repository (or any of the parent directories)")
	ErrUnexpectedOutput    = errors.New("unexpected command output")
	ErrParentNotCreated    = errors.New("parent ticket not created")
	ErrTicketNumberMissing = errors.New("ticket number not found in output")
)

// ParseError reports a definition source that cannot be read as literal data.
// Fields are ordered to minimize memory padding.
type ParseError struct {
	Err     error // Underlying cause (optional)
	Source  string
	Message string
	Line    int
	Column  int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %d:%d: %s", e.Source, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Source, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// CommandError reports a failed external command.
// Fields are ordered to minimize memory padding.
type CommandError struct {
	Err      error
	Program  string
	Stderr   string
	Args     []string
	ExitCode int
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	cmd := strings.TrimSpace(e.Program + " " + strings.Join(e.Args, " "))
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %v: %s", cmd, e.Err, strings.TrimSpace(e.Stderr))
	}
	return fmt.Sprintf("%s: %v", cmd, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *CommandError) Unwrap() error {
	return e.Err
}
