package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/ticketsync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GetRepoConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		appDir := t.TempDir()
		configContent := "[log]\nlevel = \"debug\""
		writeConfig(t, appDir, configContent)

		manager := NewManagerWithGlobalDir(appDir, "")
		info := manager.GetRepoConfigInfo()

		assert.Equal(t, filepath.Join(appDir, domain.ConfigFileName), info.Path)
		assert.Equal(t, configContent, info.Content)
		assert.True(t, info.Exists)
	})

	t.Run("returns info when file does not exist", func(t *testing.T) {
		appDir := t.TempDir()

		manager := NewManagerWithGlobalDir(appDir, "")
		info := manager.GetRepoConfigInfo()

		assert.Equal(t, filepath.Join(appDir, domain.ConfigFileName), info.Path)
		assert.Empty(t, info.Content)
		assert.False(t, info.Exists)
	})
}

func TestManager_GetGlobalConfigInfo(t *testing.T) {
	t.Run("returns empty info without global dir", func(t *testing.T) {
		manager := NewManagerWithGlobalDir(t.TempDir(), "")
		info := manager.GetGlobalConfigInfo()

		assert.Empty(t, info.Path)
		assert.False(t, info.Exists)
	})

	t.Run("returns info when file exists", func(t *testing.T) {
		globalDir := t.TempDir()
		writeConfig(t, globalDir, "[remote]\ngh = \"gh\"")

		manager := NewManagerWithGlobalDir("", globalDir)
		info := manager.GetGlobalConfigInfo()

		assert.True(t, info.Exists)
		assert.Contains(t, info.Content, "[remote]")
	})
}

func TestManager_InitRepoConfig(t *testing.T) {
	t.Run("creates the workspace directory and template", func(t *testing.T) {
		appDir := filepath.Join(t.TempDir(), domain.AppDirName)

		cfg := domain.NewDefaultConfig()
		cfg.Remote.Repository = "acme/widgets"
		manager := NewManagerWithGlobalDir(appDir, "")
		require.NoError(t, manager.InitRepoConfig(cfg))

		content, err := os.ReadFile(filepath.Join(appDir, domain.ConfigFileName))
		require.NoError(t, err)
		assert.Contains(t, string(content), `repository = "acme/widgets"`)

		// Rendered template must be valid TOML that loads back to the same values
		var raw map[string]any
		require.NoError(t, toml.Unmarshal(content, &raw))

		loaded, err := NewLoaderWithGlobalDir(appDir, "").Load()
		require.NoError(t, err)
		assert.Empty(t, loaded.Warnings)
		assert.Equal(t, cfg.Remote, loaded.Remote)
		assert.Equal(t, cfg.Sources, loaded.Sources)
		assert.Equal(t, cfg.Create, loaded.Create)
		assert.Equal(t, cfg.Reconcile, loaded.Reconcile)
	})

	t.Run("returns error when file exists", func(t *testing.T) {
		appDir := t.TempDir()
		writeConfig(t, appDir, "existing")

		manager := NewManagerWithGlobalDir(appDir, "")
		err := manager.InitRepoConfig(domain.NewDefaultConfig())
		assert.ErrorIs(t, err, domain.ErrConfigExists)
	})
}

func TestManager_InitGlobalConfig(t *testing.T) {
	t.Run("creates global config", func(t *testing.T) {
		globalDir := filepath.Join(t.TempDir(), domain.GlobalDirName)

		manager := NewManagerWithGlobalDir("", globalDir)
		require.NoError(t, manager.InitGlobalConfig(domain.NewDefaultConfig()))

		info := manager.GetGlobalConfigInfo()
		assert.True(t, info.Exists)
		assert.Contains(t, info.Content, "[create]")
	})

	t.Run("fails without global dir", func(t *testing.T) {
		manager := NewManagerWithGlobalDir("", "")
		err := manager.InitGlobalConfig(domain.NewDefaultConfig())
		assert.Error(t, err)
	})
}
