// Package app provides the dependency injection container for the application.
package app

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/time/rate"

	"github.com/runoshun/ticketsync/internal/domain"
	"github.com/runoshun/ticketsync/internal/infra/config"
	"github.com/runoshun/ticketsync/internal/infra/executor"
	"github.com/runoshun/ticketsync/internal/infra/ghcli"
	"github.com/runoshun/ticketsync/internal/infra/git"
	"github.com/runoshun/ticketsync/internal/infra/jsonstore"
	"github.com/runoshun/ticketsync/internal/infra/logging"
	"github.com/runoshun/ticketsync/internal/infra/pyliteral"
	"github.com/runoshun/ticketsync/internal/infra/sources"
	"github.com/runoshun/ticketsync/internal/infra/yamlsource"
	"github.com/runoshun/ticketsync/internal/usecase"
)

// Config holds the application paths.
type Config struct {
	Root   string // Workspace root (git working tree root, or the start directory)
	AppDir string // Path to the .ticketsync directory
}

// newConfig derives the paths for a workspace root.
func newConfig(root string) Config {
	return Config{
		Root:   root,
		AppDir: domain.WorkspaceDir(root),
	}
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tracker       domain.TicketTracker
	Finder        domain.SourceFinder
	Extractor     domain.SourceExtractor
	Candidates    domain.CandidateStore
	IssueMaps     domain.IssueMapStore
	Exports       domain.ExportStore
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	Resolver      domain.RepositoryResolver
	Pacer         domain.Pacer
	Clock         domain.Clock
	Log           domain.Logger

	// Pointer fields
	Logger   *slog.Logger
	LogLevel *slog.LevelVar

	// Configuration
	Config Config
}

// New creates a new Container for the workspace containing dir.
// The workspace root is the git working tree root when dir is inside a
// repository; otherwise dir itself.
func New(dir string) (*Container, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	root := absDir
	gitClient, err := git.NewClient(absDir)
	switch {
	case err == nil:
		if r := gitClient.RepoRoot(); r != "" {
			root = r
		}
	case errors.Is(err, domain.ErrNotGitRepository):
		// The repository must then come from config or --repo.
	default:
		return nil, err
	}

	cfg := newConfig(root)
	configLoader := config.NewLoader(cfg.AppDir)
	appConfig, loadErr := configLoader.Load()
	if loadErr != nil {
		// Usecases report the load error; wiring falls back to defaults.
		appConfig = domain.NewDefaultConfig()
	}

	var resolver domain.RepositoryResolver
	if gitClient != nil {
		resolver = gitClient.WithRemote(appConfig.Remote.Name)
	}

	levelVar := new(slog.LevelVar)
	levelVar.Set(logging.ParseLevel(appConfig.Log.Level))
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: levelVar,
	}))
	fileLog := logging.New(cfg.AppDir, levelVar.Level()).WithMirror(logger)

	tracker := ghcli.NewClient(executor.NewClient(), appConfig.Remote.GH, appConfig.Remote.Limit).WithDir(root)
	store := jsonstore.New()

	return &Container{
		Tracker:       tracker,
		Finder:        sources.NewFinder(),
		Extractor:     sources.NewRegistry(pyliteral.New(), yamlsource.New()),
		Candidates:    store,
		IssueMaps:     store,
		Exports:       store,
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(cfg.AppDir),
		Resolver:      resolver,
		Pacer:         NewPacer(appConfig.Create),
		Clock:         domain.RealClock{},
		Log:           fileLog,
		Logger:        logger,
		LogLevel:      levelVar,
		Config:        cfg,
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
// Ports left nil can be set on the returned container.
func NewWithDeps(cfg Config, tracker domain.TicketTracker, clock domain.Clock, logger *slog.Logger) *Container {
	return &Container{
		Tracker: tracker,
		Clock:   clock,
		Logger:  logger,
		Config:  cfg,
	}
}

// NewPacer returns a limiter spacing remote-mutating calls by cfg.Delay,
// allowing cfg.Burst calls back to back. A non-positive delay disables pacing.
func NewPacer(cfg domain.CreateConfig) *rate.Limiter {
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	if cfg.Delay <= 0 {
		return rate.NewLimiter(rate.Inf, burst)
	}
	return rate.NewLimiter(rate.Every(cfg.Delay), burst)
}

// SetVerbose lowers the console log level to debug.
func (c *Container) SetVerbose() {
	if c.LogLevel != nil {
		c.LogLevel.Set(slog.LevelDebug)
	}
}

// UseCase factory methods

// ExtractCandidatesUseCase returns a new ExtractCandidates use case.
func (c *Container) ExtractCandidatesUseCase() *usecase.ExtractCandidates {
	return usecase.NewExtractCandidates(c.Finder, c.Extractor, c.Candidates, c.ConfigLoader, c.Log, c.Config.Root)
}

// ReconcileTicketsUseCase returns a new ReconcileTickets use case.
func (c *Container) ReconcileTicketsUseCase() *usecase.ReconcileTickets {
	return usecase.NewReconcileTickets(c.Tracker, c.Candidates, c.IssueMaps, c.Exports, c.ConfigLoader, c.Resolver, c.Log, c.Config.Root)
}

// CreateTicketsUseCase returns a new CreateTickets use case.
func (c *Container) CreateTicketsUseCase() *usecase.CreateTickets {
	return usecase.NewCreateTickets(c.Tracker, c.Exports, c.IssueMaps, c.ConfigLoader, c.Resolver, c.Pacer, c.Clock, c.Log, c.Config.Root)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// ShowConfigTemplateUseCase returns a new ShowConfigTemplate use case.
func (c *Container) ShowConfigTemplateUseCase() *usecase.ShowConfigTemplate {
	return usecase.NewShowConfigTemplate()
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}
