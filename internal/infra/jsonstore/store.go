// Package jsonstore persists the run artifacts (candidates, issue map, export)
// as indented JSON files. Reads tolerate comments and trailing commas.
package jsonstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/runoshun/ticketsync/internal/domain"
	"github.com/tidwall/jsonc"
)

// Store implements the artifact store ports on the local filesystem.
// Each file is guarded by a sibling ".lock" file.
type Store struct{}

// New creates a new Store.
func New() *Store {
	return &Store{}
}

// Ensure Store implements the store ports.
var (
	_ domain.CandidateStore = (*Store)(nil)
	_ domain.IssueMapStore  = (*Store)(nil)
	_ domain.ExportStore    = (*Store)(nil)
)

// LoadCandidates reads a candidates file.
func (s *Store) LoadCandidates(path string) (*domain.CandidateFile, error) {
	var file domain.CandidateFile
	if err := readFile(path, &file); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrCandidatesNotFound
		}
		return nil, err
	}
	if file.Candidates == nil {
		file.Candidates = []domain.CanonicalTicket{}
	}
	for i := range file.Candidates {
		if file.Candidates[i].Labels == nil {
			file.Candidates[i].Labels = []string{}
		}
	}
	return &file, nil
}

// SaveCandidates writes a candidates file.
func (s *Store) SaveCandidates(path string, file *domain.CandidateFile) error {
	out := *file
	if out.Candidates == nil {
		out.Candidates = []domain.CanonicalTicket{}
	}
	if out.Errors == nil {
		out.Errors = []domain.ExtractionError{}
	}
	return writeFile(path, &out)
}

// LoadIssueMap reads the issue map. A missing file yields an empty map.
func (s *Store) LoadIssueMap(path string) (domain.IssueMap, error) {
	m := domain.IssueMap{}
	if err := readFile(path, &m); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.IssueMap{}, nil
		}
		return nil, err
	}
	return m, nil
}

// SaveIssueMap writes the issue map.
func (s *Store) SaveIssueMap(path string, m domain.IssueMap) error {
	if m == nil {
		m = domain.IssueMap{}
	}
	return writeFile(path, m)
}

// LoadExport reads an export file.
func (s *Store) LoadExport(path string) ([]domain.ExportRecord, error) {
	var records []domain.ExportRecord
	if err := readFile(path, &records); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrExportNotFound
		}
		return nil, err
	}
	if records == nil {
		records = []domain.ExportRecord{}
	}
	return records, nil
}

// SaveExport writes an export file.
func (s *Store) SaveExport(path string, records []domain.ExportRecord) error {
	if records == nil {
		records = []domain.ExportRecord{}
	}
	return writeFile(path, records)
}

// readFile decodes path into v under a shared lock.
func readFile(path string, v any) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	lock, err := acquireLock(path, syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer releaseLock(lock)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := json.Unmarshal(jsonc.ToJSON(content), v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// writeFile encodes v with two-space indentation under an exclusive lock.
// Non-ASCII and HTML characters are written verbatim.
func writeFile(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	lock, err := acquireLock(path, syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer releaseLock(lock)

	// Write to temp file first, then rename for atomicity
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

func acquireLock(path string, lockType int) (*os.File, error) {
	lockPath := path + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}
