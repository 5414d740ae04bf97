// Package usecase contains the application use cases.
package usecase

import (
	"fmt"

	"github.com/runoshun/ticketsync/internal/domain"
)

// loadConfig loads configuration, falling back to defaults when no loader is set.
func loadConfig(loader domain.ConfigLoader) (*domain.Config, error) {
	if loader == nil {
		return domain.NewDefaultConfig(), nil
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// resolveRepository picks the repository slug from the explicit override,
// then the config, then the workspace's remote.
func resolveRepository(override string, cfg *domain.Config, resolver domain.RepositoryResolver) (string, error) {
	ref := override
	if ref == "" && cfg != nil {
		ref = cfg.Remote.Repository
	}
	if ref != "" {
		return domain.ParseRepository(ref)
	}
	if resolver == nil {
		return "", domain.ErrNoRepository
	}
	return resolver.Repository()
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// nopLogger discards log entries.
type nopLogger struct{}

func (nopLogger) Debug(_, _ string) {}
func (nopLogger) Info(_, _ string) {}
func (nopLogger) Warn(_, _ string) {}
func (nopLogger) Error(_, _ string) {}

func orNop(l domain.Logger) domain.Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}
