// Package autoreview runs automated reviewers over structural text content
// and aggregates their feedback into a verdict.
package autoreview

import (
	"context"
	"fmt"
)

// Info describes a reviewer.
type Info struct {
	Name        string
	Description string
}

// Validate ensures the reviewer can be registered.
func (i Info) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("autoreview: reviewer name is required")
	}
	return nil
}

// Reviewer inspects the content of a run and records feedback in rc.
// Finding nothing is not an error; an error means the reviewer itself could
// not do its job. Implementations must tolerate other reviewers writing to rc
// concurrently and must not keep rc after Review returns.
type Reviewer interface {
	Info() Info
	Review(ctx context.Context, job Job, rc *ReviewContext) error
}

// ReviewerFunc adapts a function to Reviewer.
type ReviewerFunc struct {
	Meta Info
	Fn   func(ctx context.Context, job Job, rc *ReviewContext) error
}

func (f ReviewerFunc) Info() Info { return f.Meta }

func (f ReviewerFunc) Review(ctx context.Context, job Job, rc *ReviewContext) error {
	return f.Fn(ctx, job, rc)
}
