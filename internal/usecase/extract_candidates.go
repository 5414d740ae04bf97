package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/runoshun/ticketsync/internal/domain"
)

// ExtractCandidatesInput contains the parameters for extracting candidates.
// Empty fields fall back to the configuration.
type ExtractCandidatesInput struct {
	Dir      string   // Directory searched for definition sources
	Output   string   // Candidates file path
	Patterns []string // File name patterns
}

// ExtractCandidatesOutput contains the result of extraction.
// Fields are ordered to minimize memory padding.
type ExtractCandidatesOutput struct {
	File       *domain.CandidateFile // Persisted candidates
	Path       string                // Where the candidates were written
	Sources    []string              // Sources processed, in order
	Records    int                   // Records found in all literals
	Duplicates int                   // Records dropped because their title was already seen
	Untitled   int                   // Records dropped for having no title
}

// ExtractCandidates scans definition sources and writes the canonical candidate set.
type ExtractCandidates struct {
	finder       domain.SourceFinder
	extractor    domain.SourceExtractor
	store        domain.CandidateStore
	configLoader domain.ConfigLoader
	logger       domain.Logger
	root         string
}

// NewExtractCandidates creates a new ExtractCandidates use case.
func NewExtractCandidates(
	finder domain.SourceFinder,
	extractor domain.SourceExtractor,
	store domain.CandidateStore,
	configLoader domain.ConfigLoader,
	logger domain.Logger,
	root string,
) *ExtractCandidates {
	return &ExtractCandidates{
		finder:       finder,
		extractor:    extractor,
		store:        store,
		configLoader: configLoader,
		logger:       orNop(logger),
		root:         root,
	}
}

// Execute finds sources, extracts their literals, normalizes the records and
// saves the deduplicated candidates. A source that cannot be parsed is recorded
// in the file's errors and does not stop the run.
func (uc *ExtractCandidates) Execute(ctx context.Context, in ExtractCandidatesInput) (*ExtractCandidatesOutput, error) {
	cfg, err := loadConfig(uc.configLoader)
	if err != nil {
		return nil, err
	}

	dir := cfg.ResolvePath(uc.root, firstNonEmpty(in.Dir, cfg.Sources.Dir))
	patterns := in.Patterns
	if len(patterns) == 0 {
		patterns = cfg.Sources.Patterns
	}

	files, err := uc.finder.Find(dir, patterns)
	if err != nil {
		return nil, fmt.Errorf("find sources: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", domain.ErrNoSources, dir)
	}

	out := &ExtractCandidatesOutput{
		Path:    cfg.ResolvePath(uc.root, firstNonEmpty(in.Output, cfg.Files.Candidates)),
		Sources: make([]string, 0, len(files)),
	}
	set := domain.NewCandidateSet()
	errs := make([]domain.ExtractionError, 0)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		source := uc.displayPath(path)
		out.Sources = append(out.Sources, source)

		literals, err := uc.extract(path)
		if err != nil {
			uc.logger.Warn("extract", fmt.Sprintf("%s: %v", source, err))
			errs = append(errs, domain.ExtractionError{Source: source, Error: errorText(err)})
			continue
		}

		for _, lit := range literals {
			records := domain.RecordsOf(lit.Value)
			if len(records) == 0 {
				uc.logger.Debug("extract", fmt.Sprintf("%s:%d: skipped %s literal", source, lit.Line, domain.ClassifyLiteral(lit.Value)))
				continue
			}
			for _, rec := range records {
				out.Records++
				t := domain.NormalizeRecord(rec)
				switch {
				case t.Title == "":
					out.Untitled++
				case !set.Add(t):
					out.Duplicates++
					uc.logger.Debug("extract", fmt.Sprintf("%s:%d: duplicate title %q", source, lit.Line, t.Title))
				}
			}
		}
	}

	out.File = &domain.CandidateFile{
		Workspace:       uc.root,
		CandidatesCount: set.Len(),
		Candidates:      set.Tickets(),
		Errors:          errs,
	}
	if err := uc.store.SaveCandidates(out.Path, out.File); err != nil {
		return nil, fmt.Errorf("save candidates: %w", err)
	}

	uc.logger.Info("extract", fmt.Sprintf("%d candidates from %d sources (%d errors)", set.Len(), len(files), len(errs)))
	return out, nil
}

func (uc *ExtractCandidates) extract(path string) ([]domain.Literal, error) {
	content, err := uc.finder.Read(path)
	if err != nil {
		return nil, err
	}
	return uc.extractor.Extract(path, content)
}

// displayPath returns path relative to the workspace root when possible.
func (uc *ExtractCandidates) displayPath(path string) string {
	if uc.root == "" {
		return path
	}
	rel, err := filepath.Rel(uc.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// errorText describes a recoverable source error. Parse errors carry their own location.
func errorText(err error) string {
	var perr *domain.ParseError
	if errors.As(err, &perr) {
		if perr.Line > 0 {
			return fmt.Sprintf("line %d:%d: %s", perr.Line, perr.Column, perr.Message)
		}
		return perr.Message
	}
	return err.Error()
}
