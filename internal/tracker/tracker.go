// Package tracker provides read-only access to issue metadata.
//
// Metadata is advisory: it only influences branch naming and the plan/exec
// phase decision. Every caller must tolerate fetch failures and degrade to
// defaults rather than aborting a task start.
package tracker

import "context"

// Issue is the subset of issue metadata cw consumes.
type Issue struct {
	Number int
	Title  string
	Labels []string
}

// Provider fetches issue metadata by identifier.
type Provider interface {
	Issue(ctx context.Context, number int) (*Issue, error)
}
