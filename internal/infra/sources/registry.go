package sources

import "github.com/runoshun/ticketsync/internal/domain"

// Ensure Registry implements domain.SourceExtractor interface.
var _ domain.SourceExtractor = (*Registry)(nil)

// Registry dispatches each source to the first registered extractor that supports it.
type Registry struct {
	extractors []domain.SourceExtractor
}

// NewRegistry creates a registry over the given extractors, tried in order.
func NewRegistry(extractors ...domain.SourceExtractor) *Registry {
	return &Registry{extractors: extractors}
}

// Supports reports whether any registered extractor supports path.
func (r *Registry) Supports(path string) bool {
	return r.lookup(path) != nil
}

// Extract delegates to the extractor that supports path.
// An unsupported file yields a *domain.ParseError wrapping ErrUnsupportedSource.
func (r *Registry) Extract(path string, content []byte) ([]domain.Literal, error) {
	e := r.lookup(path)
	if e == nil {
		return nil, &domain.ParseError{
			Err:     domain.ErrUnsupportedSource,
			Source:  path,
			Message: domain.ErrUnsupportedSource.Error(),
		}
	}
	return e.Extract(path, content)
}

func (r *Registry) lookup(path string) domain.SourceExtractor {
	for _, e := range r.extractors {
		if e.Supports(path) {
			return e
		}
	}
	return nil
}
