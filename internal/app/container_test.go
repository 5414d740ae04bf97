package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/runoshun/ticketsync/internal/domain"
)

func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func TestNew_GitRepository(t *testing.T) {
	dir := tempDir(t)
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:acme/widgets.git"},
	})
	require.NoError(t, err)

	sub := filepath.Join(dir, "scripts")
	require.NoError(t, mkdir(sub))

	c, err := New(sub)
	require.NoError(t, err)
	assert.Equal(t, dir, c.Config.Root)
	assert.Equal(t, filepath.Join(dir, domain.AppDirName), c.Config.AppDir)

	require.NotNil(t, c.Resolver)
	slug, err := c.Resolver.Repository()
	require.NoError(t, err)
	assert.Equal(t, "acme/widgets", slug)

	assert.NotNil(t, c.ExtractCandidatesUseCase())
	assert.NotNil(t, c.ReconcileTicketsUseCase())
	assert.NotNil(t, c.CreateTicketsUseCase())
	assert.NotNil(t, c.ShowConfigUseCase())
	assert.NotNil(t, c.InitConfigUseCase())
}

func TestNew_ConfiguredRemoteName(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := tempDir(t)
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	for name, url := range map[string]string{
		"origin":   "git@github.com:me/widgets.git",
		"upstream": "https://github.com/acme/widgets.git",
	} {
		_, err = repo.CreateRemote(&gitconfig.RemoteConfig{Name: name, URLs: []string{url}})
		require.NoError(t, err)
	}
	appDir := filepath.Join(dir, domain.AppDirName)
	require.NoError(t, mkdir(appDir))
	require.NoError(t, os.WriteFile(filepath.Join(appDir, domain.ConfigFileName),
		[]byte("[remote]\nname = \"upstream\"\n"), 0o644))

	c, err := New(dir)
	require.NoError(t, err)
	require.NotNil(t, c.Resolver)
	slug, err := c.Resolver.Repository()
	require.NoError(t, err)
	assert.Equal(t, "acme/widgets", slug)
}

func TestNew_PlainDirectory(t *testing.T) {
	dir := tempDir(t)

	c, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, c.Config.Root)
	assert.Nil(t, c.Resolver)
}

func TestNewPacer(t *testing.T) {
	p := NewPacer(domain.CreateConfig{Delay: 2 * time.Second, Burst: 3})
	assert.Equal(t, rate.Every(2*time.Second), p.Limit())
	assert.Equal(t, 3, p.Burst())

	p = NewPacer(domain.CreateConfig{})
	assert.Equal(t, rate.Inf, p.Limit())
	assert.Equal(t, 1, p.Burst())
}

func TestContainer_SetVerbose(t *testing.T) {
	c, err := New(tempDir(t))
	require.NoError(t, err)

	c.SetVerbose()
	assert.Equal(t, "DEBUG", c.LogLevel.Level().String())
}

func mkdir(path string) error {
	return os.MkdirAll(path, 0o755)
}
