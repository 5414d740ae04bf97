// Package git resolves repository identity with go-git.
package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"

	"github.com/runoshun/ticketsync/internal/domain"
)

// Ensure Client implements domain.RepositoryResolver interface.
var _ domain.RepositoryResolver = (*Client)(nil)

// DefaultRemote is the remote used to derive the repository slug.
const DefaultRemote = domain.DefaultRemoteName

// Client provides read-only repository information.
type Client struct {
	repo     *git.Repository
	repoRoot string // Working tree root (empty for bare repositories)
	remote   string
}

// NewClient opens the repository containing dir, searching parent directories.
// It returns domain.ErrNotGitRepository when dir is not inside a repository.
func NewClient(dir string) (*Client, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, domain.ErrNotGitRepository
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}

	c := &Client{repo: repo, remote: DefaultRemote}
	wt, err := repo.Worktree()
	switch {
	case err == nil:
		c.repoRoot = wt.Filesystem.Root()
	case errors.Is(err, git.ErrIsBareRepository):
	default:
		return nil, fmt.Errorf("open worktree: %w", err)
	}
	return c, nil
}

// WithRemote returns a copy of the client that reads the named remote.
func (c *Client) WithRemote(name string) *Client {
	cp := *c
	if name != "" {
		cp.remote = name
	}
	return &cp
}

// RepoRoot returns the working tree root directory.
func (c *Client) RepoRoot() string {
	return c.repoRoot
}

// RemoteURL returns the first URL of the configured remote.
func (c *Client) RemoteURL() (string, error) {
	remote, err := c.repo.Remote(c.remote)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return "", fmt.Errorf("%w: remote %q not found", domain.ErrNoRepository, c.remote)
		}
		return "", fmt.Errorf("read remote %q: %w", c.remote, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("%w: remote %q has no URL", domain.ErrNoRepository, c.remote)
	}
	return urls[0], nil
}

// Repository returns the owner/repo slug of the configured remote.
func (c *Client) Repository() (string, error) {
	url, err := c.RemoteURL()
	if err != nil {
		return "", err
	}
	return domain.ParseRepository(url)
}
