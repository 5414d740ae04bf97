// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/runoshun/ticketsync/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockExecutor is a test double for domain.CommandExecutor.
// OutputFunc decides the result of each call; Calls records every command.
type MockExecutor struct {
	OutputFunc func(cmd *domain.ExecCommand) ([]byte, error)
	Calls      []*domain.ExecCommand
}

// Output records the command and delegates to OutputFunc.
func (m *MockExecutor) Output(_ context.Context, cmd *domain.ExecCommand) ([]byte, error) {
	m.Calls = append(m.Calls, cmd)
	if m.OutputFunc == nil {
		return nil, nil
	}
	return m.OutputFunc(cmd)
}

// LinkCall records a LinkParent call.
type LinkCall struct {
	Parent int
	Child  int
}

// TextCall records a Comment or EditBody call.
type TextCall struct {
	Body   string
	Number int
}

// MockTicketTracker is an in-memory test double for domain.TicketTracker.
// Fields are ordered to minimize memory padding.
type MockTicketTracker struct {
	ListErr     error
	CreateErr   error
	LinkErr     error
	CommentErr  error
	EditErr     error
	Parents     map[int]int
	ParentErrs  map[int]error
	Tickets     []domain.RemoteTicket
	Created     []domain.NewTicket
	Links       []LinkCall
	Comments    []TextCall
	Edits       []TextCall
	ParentCalls []int
	ListCalls   int
	NextNumber  int
}

// NewMockTicketTracker creates a MockTicketTracker holding tickets.
func NewMockTicketTracker(tickets ...domain.RemoteTicket) *MockTicketTracker {
	next := 1
	for _, t := range tickets {
		if t.Number >= next {
			next = t.Number + 1
		}
	}
	return &MockTicketTracker{
		Tickets:    tickets,
		Parents:    make(map[int]int),
		ParentErrs: make(map[int]error),
		NextNumber: next,
	}
}

// ListTickets returns the configured tickets.
func (m *MockTicketTracker) ListTickets(_ context.Context, _ string) ([]domain.RemoteTicket, error) {
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]domain.RemoteTicket, len(m.Tickets))
	copy(out, m.Tickets)
	return out, nil
}

// GetParent returns the configured parent.
func (m *MockTicketTracker) GetParent(_ context.Context, _ string, number int) (*int, error) {
	m.ParentCalls = append(m.ParentCalls, number)
	if err := m.ParentErrs[number]; err != nil {
		return nil, err
	}
	p, ok := m.Parents[number]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// CreateTicket appends a ticket with the next number.
func (m *MockTicketTracker) CreateTicket(_ context.Context, repo string, t domain.NewTicket) (*domain.CreatedTicket, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	number := m.NextNumber
	m.NextNumber++
	m.Created = append(m.Created, t)
	m.Tickets = append(m.Tickets, domain.RemoteTicket{Number: number, Title: t.Title, Body: t.Body})
	return &domain.CreatedTicket{
		Number: number,
		URL:    fmt.Sprintf("https://github.com/%s/issues/%d", repo, number),
	}, nil
}

// Comment records the comment.
func (m *MockTicketTracker) Comment(_ context.Context, _ string, number int, body string) error {
	if m.CommentErr != nil {
		return m.CommentErr
	}
	m.Comments = append(m.Comments, TextCall{Number: number, Body: body})
	return nil
}

// EditBody records the edit.
func (m *MockTicketTracker) EditBody(_ context.Context, _ string, number int, body string) error {
	if m.EditErr != nil {
		return m.EditErr
	}
	m.Edits = append(m.Edits, TextCall{Number: number, Body: body})
	return nil
}

// LinkParent records the link and updates Parents.
func (m *MockTicketTracker) LinkParent(_ context.Context, _ string, parent, child int) error {
	if m.LinkErr != nil {
		return m.LinkErr
	}
	m.Links = append(m.Links, LinkCall{Parent: parent, Child: child})
	m.Parents[child] = parent
	return nil
}

// MockSourceFinder is an in-memory test double for domain.SourceFinder.
// Find returns every file under dir matching a pattern, in pattern then lexical order.
type MockSourceFinder struct {
	Files   map[string][]byte
	FindErr error
	ReadErr error
}

// Find matches file base names against patterns.
func (m *MockSourceFinder) Find(dir string, patterns []string) ([]string, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	names := make([]string, 0, len(m.Files))
	for path := range m.Files {
		if dir == "" || dir == "." || strings.HasPrefix(path, dir) {
			names = append(names, path)
		}
	}
	sort.Strings(names)

	seen := make(map[string]bool)
	var out []string
	for _, pattern := range patterns {
		for _, path := range names {
			if seen[path] {
				continue
			}
			if ok, _ := filepath.Match(pattern, filepath.Base(path)); ok {
				seen[path] = true
				out = append(out, path)
			}
		}
	}
	return out, nil
}

// Read returns the stored content.
func (m *MockSourceFinder) Read(path string) ([]byte, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	content, ok := m.Files[path]
	if !ok {
		return nil, fmt.Errorf("read %s: file does not exist", path)
	}
	return content, nil
}

// MockExtractor is a test double for domain.SourceExtractor.
// It supports files with Ext and returns the literals or error configured per path.
type MockExtractor struct {
	Literals map[string][]domain.Literal
	Errs     map[string]error
	Ext      string
}

// Supports reports whether path has the configured extension.
func (m *MockExtractor) Supports(path string) bool {
	return filepath.Ext(path) == m.Ext
}

// Extract returns the configured literals.
func (m *MockExtractor) Extract(path string, _ []byte) ([]domain.Literal, error) {
	if err := m.Errs[path]; err != nil {
		return nil, err
	}
	return m.Literals[path], nil
}

// MockCandidateStore is an in-memory test double for domain.CandidateStore.
type MockCandidateStore struct {
	Files   map[string]*domain.CandidateFile
	SaveErr error
}

// NewMockCandidateStore creates an empty MockCandidateStore.
func NewMockCandidateStore() *MockCandidateStore {
	return &MockCandidateStore{Files: make(map[string]*domain.CandidateFile)}
}

// LoadCandidates returns the stored file or ErrCandidatesNotFound.
func (m *MockCandidateStore) LoadCandidates(path string) (*domain.CandidateFile, error) {
	f, ok := m.Files[path]
	if !ok {
		return nil, domain.ErrCandidatesNotFound
	}
	return f, nil
}

// SaveCandidates stores the file.
func (m *MockCandidateStore) SaveCandidates(path string, file *domain.CandidateFile) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Files[path] = file
	return nil
}

// MockIssueMapStore is an in-memory test double for domain.IssueMapStore.
type MockIssueMapStore struct {
	Maps    map[string]domain.IssueMap
	LoadErr error
	SaveErr error
	Saves   int
}

// NewMockIssueMapStore creates an empty MockIssueMapStore.
func NewMockIssueMapStore() *MockIssueMapStore {
	return &MockIssueMapStore{Maps: make(map[string]domain.IssueMap)}
}

// LoadIssueMap returns a copy of the stored map, or an empty map.
func (m *MockIssueMapStore) LoadIssueMap(path string) (domain.IssueMap, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	out := domain.IssueMap{}
	for k, v := range m.Maps[path] {
		out[k] = v
	}
	return out, nil
}

// SaveIssueMap stores a copy of the map.
func (m *MockIssueMapStore) SaveIssueMap(path string, im domain.IssueMap) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saves++
	saved := domain.IssueMap{}
	for k, v := range im {
		saved[k] = v
	}
	m.Maps[path] = saved
	return nil
}

// MockExportStore is an in-memory test double for domain.ExportStore.
type MockExportStore struct {
	Records map[string][]domain.ExportRecord
	SaveErr error
	Saves   int
}

// NewMockExportStore creates an empty MockExportStore.
func NewMockExportStore() *MockExportStore {
	return &MockExportStore{Records: make(map[string][]domain.ExportRecord)}
}

// LoadExport returns a copy of the stored records or ErrExportNotFound.
func (m *MockExportStore) LoadExport(path string) ([]domain.ExportRecord, error) {
	recs, ok := m.Records[path]
	if !ok {
		return nil, domain.ErrExportNotFound
	}
	out := make([]domain.ExportRecord, len(recs))
	copy(out, recs)
	return out, nil
}

// SaveExport stores a copy of the records.
func (m *MockExportStore) SaveExport(path string, records []domain.ExportRecord) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saves++
	saved := make([]domain.ExportRecord, len(records))
	copy(saved, records)
	m.Records[path] = saved
	return nil
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config  *domain.Config
	LoadErr error
}

// Load returns the configured config, or the default config.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Config == nil {
		return domain.NewDefaultConfig(), nil
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitRepoErr      error
	InitGlobalErr    error
	RepoInfo         domain.ConfigInfo
	GlobalInfo       domain.ConfigInfo
	InitRepoCalled   bool
	InitGlobalCalled bool
}

// GetRepoConfigInfo returns the configured info.
func (m *MockConfigManager) GetRepoConfigInfo() domain.ConfigInfo {
	return m.RepoInfo
}

// GetGlobalConfigInfo returns the configured info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalInfo
}

// InitRepoConfig records the call.
func (m *MockConfigManager) InitRepoConfig(_ *domain.Config) error {
	m.InitRepoCalled = true
	return m.InitRepoErr
}

// InitGlobalConfig records the call.
func (m *MockConfigManager) InitGlobalConfig(_ *domain.Config) error {
	m.InitGlobalCalled = true
	return m.InitGlobalErr
}

// MockRepositoryResolver is a test double for domain.RepositoryResolver.
type MockRepositoryResolver struct {
	Err  error
	Repo string
}

// Repository returns the configured slug.
func (m *MockRepositoryResolver) Repository() (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Repo, nil
}

// MockPacer is a test double for domain.Pacer that never blocks.
type MockPacer struct {
	Err   error
	Waits int
}

// Wait counts the call.
func (m *MockPacer) Wait(_ context.Context) error {
	m.Waits++
	return m.Err
}

// LogEntry is one recorded log call.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
}

// MockLogger records log calls.
type MockLogger struct {
	Entries []LogEntry
}

// Debug records a debug entry.
func (m *MockLogger) Debug(category, msg string) { m.add("DEBUG", category, msg) }

// Info records an info entry.
func (m *MockLogger) Info(category, msg string) { m.add("INFO", category, msg) }

// Warn records a warn entry.
func (m *MockLogger) Warn(category, msg string) { m.add("WARN", category, msg) }

// Error records an error entry.
func (m *MockLogger) Error(category, msg string) { m.add("ERROR", category, msg) }

func (m *MockLogger) add(level, category, msg string) {
	m.Entries = append(m.Entries, LogEntry{Level: level, Category: category, Msg: msg})
}

// Messages returns the messages logged at level.
func (m *MockLogger) Messages(level string) []string {
	var out []string
	for _, e := range m.Entries {
		if e.Level == level {
			out = append(out, e.Msg)
		}
	}
	return out
}

// Compile-time interface checks.
var (
	_ domain.Clock              = (*MockClock)(nil)
	_ domain.CommandExecutor    = (*MockExecutor)(nil)
	_ domain.TicketTracker      = (*MockTicketTracker)(nil)
	_ domain.SourceFinder       = (*MockSourceFinder)(nil)
	_ domain.SourceExtractor    = (*MockExtractor)(nil)
	_ domain.CandidateStore     = (*MockCandidateStore)(nil)
	_ domain.IssueMapStore      = (*MockIssueMapStore)(nil)
	_ domain.ExportStore        = (*MockExportStore)(nil)
	_ domain.ConfigLoader       = (*MockConfigLoader)(nil)
	_ domain.ConfigManager      = (*MockConfigManager)(nil)
	_ domain.RepositoryResolver = (*MockRepositoryResolver)(nil)
	_ domain.Pacer              = (*MockPacer)(nil)
	_ domain.Logger             = (*MockLogger)(nil)
)
