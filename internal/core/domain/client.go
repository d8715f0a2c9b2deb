package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

const (
	ScopeAll           = "all"
	ScopeClustersRead  = "clusters:read"
	ScopeClustersWrite = "clusters:write"
)

var knownScopes = []string{ScopeAll, ScopeClustersRead, ScopeClustersWrite}

// Client is a machine credential using the client_credentials grant.
type Client struct {
	ID        string
	Secret    string // bcrypt hashed
	Label     string
	Scopes    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewClient(label string, hashedSecret string, scopes []string) *Client {
	if len(scopes) == 0 {
		scopes = []string{ScopeAll}
	}
	now := time.Now().UTC()
	return &Client{
		ID:        uuid.New().String(),
		Secret:    hashedSecret,
		Label:     label,
		Scopes:    scopes,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func ValidateScopes(scopes []string) error {
	for _, s := range scopes {
		if !slices.Contains(knownScopes, s) {
			return NewValidationError("unknown scope %q", s)
		}
	}
	return nil
}

// HasScope reports whether granted covers required. "all" covers everything
// and write access implies read access.
func HasScope(granted []string, required string) bool {
	for _, s := range granted {
		switch {
		case s == ScopeAll, s == required:
			return true
		case s == ScopeClustersWrite && required == ScopeClustersRead:
			return true
		}
	}
	return false
}
