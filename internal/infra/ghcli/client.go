// Package ghcli implements domain.TicketTracker on top of the gh CLI.
// Parent links require the gh-sub-issue extension.
package ghcli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/runoshun/ticketsync/internal/domain"
)

// Ensure Client implements domain.TicketTracker interface.
var _ domain.TicketTracker = (*Client)(nil)

// issueURLPattern extracts the issue number from the URL printed by "gh issue create".
var issueURLPattern = regexp.MustCompile(`https?://\S+/issues/(\d+)`)

// Client runs gh commands through a CommandExecutor.
// Fields are ordered to minimize memory padding.
type Client struct {
	exec  domain.CommandExecutor
	gh    string
	dir   string
	limit int
}

// NewClient creates a new gh client.
// gh is the executable name or path; limit caps the snapshot size.
func NewClient(exec domain.CommandExecutor, gh string, limit int) *Client {
	if gh == "" {
		gh = domain.DefaultGH
	}
	if limit <= 0 {
		limit = domain.DefaultRemoteLimit
	}
	return &Client{
		exec:  exec,
		gh:    gh,
		limit: limit,
	}
}

// WithDir runs gh commands from dir.
func (c *Client) WithDir(dir string) *Client {
	c.dir = dir
	return c
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	return c.exec.Output(ctx, domain.NewCommand(c.gh, args, c.dir))
}

// issueJSON is one element of "gh issue list --json number,title,body".
type issueJSON struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Number int    `json:"number"`
}

// ListTickets returns every issue in the repository, open and closed.
// It asks gh for one issue more than the limit; getting it back means the
// repository holds more issues than the snapshot can cover.
func (c *Client) ListTickets(ctx context.Context, repo string) ([]domain.RemoteTicket, error) {
	out, err := c.run(ctx,
		"issue", "list",
		"--repo", repo,
		"--state", "all",
		"--json", "number,title,body",
		"--limit", strconv.Itoa(c.limit+1),
	)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}

	var issues []issueJSON
	if err := json.Unmarshal(out, &issues); err != nil {
		return nil, fmt.Errorf("%w: issue list: %v", domain.ErrUnexpectedOutput, err)
	}
	if len(issues) > c.limit {
		return nil, fmt.Errorf("%w at %d issues; raise [remote] limit", domain.ErrSnapshotTruncated, c.limit)
	}

	tickets := make([]domain.RemoteTicket, 0, len(issues))
	for _, is := range issues {
		tickets = append(tickets, domain.RemoteTicket{
			Number: is.Number,
			Title:  is.Title,
			Body:   is.Body,
		})
	}
	return tickets, nil
}

// parentEntry is the shape printed by "gh sub-issue list --relation parent --json parent".
type parentEntry struct {
	Parent *struct {
		Number int `json:"number"`
	} `json:"parent"`
}

// GetParent returns the parent issue number, or nil when the issue has no parent.
func (c *Client) GetParent(ctx context.Context, repo string, number int) (*int, error) {
	out, err := c.run(ctx,
		"sub-issue", "list", strconv.Itoa(number),
		"--relation", "parent",
		"-R", repo,
		"--json", "parent",
	)
	if err != nil {
		return nil, fmt.Errorf("get parent of #%d: %w", number, err)
	}
	return parseParent(out)
}

// parseParent accepts either a list of entries or a single entry.
func parseParent(out []byte) (*int, error) {
	out = bytes.TrimSpace(out)
	if len(out) == 0 || string(out) == "null" {
		return nil, nil
	}

	var entries []parentEntry
	if out[0] == '[' {
		if err := json.Unmarshal(out, &entries); err != nil {
			return nil, fmt.Errorf("%w: sub-issue list: %v", domain.ErrUnexpectedOutput, err)
		}
	} else {
		var entry parentEntry
		if err := json.Unmarshal(out, &entry); err != nil {
			return nil, fmt.Errorf("%w: sub-issue list: %v", domain.ErrUnexpectedOutput, err)
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 || entries[0].Parent == nil || entries[0].Parent.Number <= 0 {
		return nil, nil
	}
	n := entries[0].Parent.Number
	return &n, nil
}

// CreateTicket creates an issue and returns its URL and number.
func (c *Client) CreateTicket(ctx context.Context, repo string, t domain.NewTicket) (*domain.CreatedTicket, error) {
	args := []string{
		"issue", "create",
		"--title", t.Title,
		"--body", t.Body,
		"--repo", repo,
	}
	for _, label := range t.Labels {
		args = append(args, "--label", label)
	}

	out, err := c.run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("create issue %q: %w", t.Title, err)
	}

	m := issueURLPattern.FindStringSubmatch(string(out))
	if m == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrTicketNumberMissing, strings.TrimSpace(string(out)))
	}
	number, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrTicketNumberMissing, m[1])
	}
	return &domain.CreatedTicket{
		URL:    m[0],
		Number: number,
	}, nil
}

// Comment adds a comment to an issue.
func (c *Client) Comment(ctx context.Context, repo string, number int, body string) error {
	if _, err := c.run(ctx,
		"issue", "comment", strconv.Itoa(number),
		"--body", body,
		"--repo", repo,
	); err != nil {
		return fmt.Errorf("comment on #%d: %w", number, err)
	}
	return nil
}

// EditBody replaces an issue's body.
func (c *Client) EditBody(ctx context.Context, repo string, number int, body string) error {
	if _, err := c.run(ctx,
		"issue", "edit", strconv.Itoa(number),
		"--body", body,
		"--repo", repo,
	); err != nil {
		return fmt.Errorf("edit #%d: %w", number, err)
	}
	return nil
}

// LinkParent adds child as a sub-issue of parent.
func (c *Client) LinkParent(ctx context.Context, repo string, parent, child int) error {
	if _, err := c.run(ctx,
		"sub-issue", "add",
		strconv.Itoa(parent), strconv.Itoa(child),
		"-R", repo,
	); err != nil {
		return fmt.Errorf("link #%d to parent #%d: %w", child, parent, err)
	}
	return nil
}
