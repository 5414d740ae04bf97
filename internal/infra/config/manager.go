package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/runoshun/ticketsync/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager manages configuration files.
type Manager struct {
	appDir        string // Path to the workspace .ticketsync directory
	globalConfDir string // Path to global config directory (e.g., ~/.config/ticketsync)
}

// NewManager creates a new Manager.
func NewManager(appDir string) *Manager {
	return &Manager{
		appDir:        appDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(appDir, globalConfDir string) *Manager {
	return &Manager{
		appDir:        appDir,
		globalConfDir: globalConfDir,
	}
}

// GetRepoConfigInfo returns information about the workspace config file.
func (m *Manager) GetRepoConfigInfo() domain.ConfigInfo {
	if m.appDir == "" {
		return domain.ConfigInfo{}
	}
	return m.getConfigInfo(filepath.Join(m.appDir, domain.ConfigFileName))
}

// GetGlobalConfigInfo returns information about the global config file.
func (m *Manager) GetGlobalConfigInfo() domain.ConfigInfo {
	if m.globalConfDir == "" {
		return domain.ConfigInfo{}
	}
	return m.getConfigInfo(filepath.Join(m.globalConfDir, domain.ConfigFileName))
}

// getConfigInfo reads a config file and returns its info.
func (m *Manager) getConfigInfo(path string) domain.ConfigInfo {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{
			Path:   path,
			Exists: false,
		}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitRepoConfig creates the workspace config file from the template.
func (m *Manager) InitRepoConfig(cfg *domain.Config) error {
	if m.appDir == "" {
		return errors.New("workspace directory not available")
	}
	if err := os.MkdirAll(m.appDir, 0o750); err != nil {
		return err
	}
	return m.initConfig(filepath.Join(m.appDir, domain.ConfigFileName), cfg)
}

// InitGlobalConfig creates the global config file from the template.
func (m *Manager) InitGlobalConfig(cfg *domain.Config) error {
	if m.globalConfDir == "" {
		return errors.New("global config directory not available")
	}
	if err := os.MkdirAll(m.globalConfDir, 0o700); err != nil {
		return err
	}
	return m.initConfig(filepath.Join(m.globalConfDir, domain.ConfigFileName), cfg)
}

// initConfig writes a rendered template unless the file already exists.
func (m *Manager) initConfig(path string, cfg *domain.Config) error {
	if _, err := os.Stat(path); err == nil {
		return domain.ErrConfigExists
	}
	content := domain.RenderConfigTemplate(cfg)
	return os.WriteFile(path, []byte(content), 0o600)
}
