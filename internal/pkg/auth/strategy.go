package auth

import "time"

// Strategy issues and verifies viewer bearer tokens.
type Strategy interface {
	IssueToken(viewerID string) (string, error)
	ParseToken(token string) (string, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
