package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestParseRepository(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr error
	}{
		// Slugs
		{"slug", "acme/widgets", "acme/widgets", nil},
		{"slug with dots", "acme.io/widgets.go", "acme.io/widgets.go", nil},
		{"slug with .git", "acme/widgets.git", "acme/widgets", nil},
		{"surrounding space", "  acme/widgets\n", "acme/widgets", nil},

		// Remote URLs
		{"https", "https://github.com/acme/widgets", "acme/widgets", nil},
		{"https .git", "https://github.com/acme/widgets.git", "acme/widgets", nil},
		{"https trailing slash", "https://github.com/acme/widgets/", "acme/widgets", nil},
		{"scp", "git@github.com:acme/widgets.git", "acme/widgets", nil},
		{"ssh", "ssh://git@github.com/acme/widgets", "acme/widgets", nil},
		{"enterprise host", "https://git.example.com/team/widgets.git", "team/widgets", nil},

		// Invalid
		{"empty", "", "", ErrNoRepository},
		{"single name", "widgets", "", ErrInvalidRepository},
		{"spaces", "acme / widgets", "", ErrInvalidRepository},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRepository(tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseRepository(%q) error = %v, want %v", tt.ref, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRepository(%q) error = %v", tt.ref, err)
			}
			if got != tt.want {
				t.Errorf("ParseRepository(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestParentLinkComment(t *testing.T) {
	got := ParentLinkComment(42)
	if !strings.HasPrefix(got, "**Parent Issue:** #42") {
		t.Errorf("ParentLinkComment(42) = %q", got)
	}
}
