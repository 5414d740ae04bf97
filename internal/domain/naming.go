package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// repoURLPattern matches the owner/repo tail of https, ssh and scp-style remote URLs.
var repoURLPattern = regexp.MustCompile(`[:/]([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+?)(?:\.git)?/?$`)

// repoSlugPattern matches a bare owner/repo slug.
var repoSlugPattern = regexp.MustCompile(`^([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+)$`)

// ParseRepository normalizes a repository reference to owner/repo.
// It accepts a bare slug or a remote URL
// (https://github.com/o/r.git, git@github.com:o/r.git, ssh://git@github.com/o/r).
func ParseRepository(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrNoRepository
	}
	if m := repoSlugPattern.FindStringSubmatch(ref); m != nil {
		return m[1] + "/" + strings.TrimSuffix(m[2], ".git"), nil
	}
	if m := repoURLPattern.FindStringSubmatch(ref); m != nil {
		return m[1] + "/" + m[2], nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRepository, ref)
}

// ParentLinkComment is the comment posted when a sub-ticket link cannot be made.
func ParentLinkComment(parent int) string {
	return fmt.Sprintf("**Parent Issue:** #%d\n\nThis issue is a subtask of #%d.", parent, parent)
}
