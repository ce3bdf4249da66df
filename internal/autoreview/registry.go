package autoreview

import (
	"fmt"
	"sync"
)

// Registry holds the reviewers an orchestrator runs, in registration order.
type Registry struct {
	mu        sync.RWMutex
	reviewers []Reviewer
	order     []string
	names     map[string]bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: map[string]bool{}}
}

// Register adds a reviewer. Names must be unique.
func (r *Registry) Register(rv Reviewer) error {
	if rv == nil {
		return fmt.Errorf("autoreview: reviewer is required")
	}
	info := rv.Info()
	if err := info.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.names[info.Name] {
		return fmt.Errorf("autoreview: reviewer %s already registered", info.Name)
	}
	r.names[info.Name] = true
	r.reviewers = append(r.reviewers, rv)
	r.order = append(r.order, info.Name)
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(rv Reviewer) {
	if err := r.Register(rv); err != nil {
		panic(err)
	}
}

// Reviewers returns a snapshot of the registered reviewers.
func (r *Registry) Reviewers() []Reviewer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Reviewer, len(r.reviewers))
	copy(out, r.reviewers)
	return out
}

// Names returns reviewer names in registration order, as recorded when
// each reviewer was registered.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// snapshot returns the reviewers and their registered names together.
func (r *Registry) snapshot() ([]Reviewer, []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reviewers := make([]Reviewer, len(r.reviewers))
	copy(reviewers, r.reviewers)
	names := make([]string, len(r.order))
	copy(names, r.order)
	return reviewers, names
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.reviewers)
}
