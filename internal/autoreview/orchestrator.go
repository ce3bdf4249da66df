package autoreview

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sprite-ai/ctrev/internal/model"
)

// RunState is the lifecycle position of one orchestration run.
type RunState int

const (
	RunCreated RunState = iota
	RunRunning
	RunAggregating
	RunSubmitted
	RunSkipped
	RunAborted
)

func (s RunState) String() string {
	switch s {
	case RunCreated:
		return "created"
	case RunRunning:
		return "running"
	case RunAggregating:
		return "aggregating"
	case RunSubmitted:
		return "submitted"
	case RunSkipped:
		return "skipped"
	case RunAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Logger is the sink the orchestrator reports to. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

// Options tunes an Orchestrator.
type Options struct {
	// Concurrency bounds how many reviewers run at once. Values <= 1 run
	// reviewers sequentially in registration order.
	Concurrency int
	Logger      Logger
}

// ReviewerFailure records a reviewer that returned an error or panicked.
type ReviewerFailure struct {
	Reviewer string
	Err      error
}

// Run reports what happened during one Execute call.
type Run struct {
	JobID    string
	State    RunState
	TaskID   string
	Feedback model.Feedback
	Failures []ReviewerFailure
	// Err is the task creation or submission failure that ended the run.
	Err error
}

// Orchestrator runs every registered reviewer against a piece of content and
// submits the aggregated feedback to the task coordinator.
type Orchestrator struct {
	registry    *Registry
	coordinator TaskCoordinator
	opts        Options
	logger      Logger
}

func NewOrchestrator(registry *Registry, coordinator TaskCoordinator, opts Options) *Orchestrator {
	if registry == nil {
		registry = NewRegistry()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Orchestrator{registry: registry, coordinator: coordinator, opts: opts, logger: logger}
}

// Registry returns the reviewers this orchestrator runs.
func (o *Orchestrator) Registry() *Registry { return o.registry }

// Execute performs one auto-review run. Failures are logged and reported in
// the returned Run, never returned to the caller.
func (o *Orchestrator) Execute(ctx context.Context, job Job, content ContentDetails) *Run {
	run := &Run{JobID: job.ID, State: RunCreated}

	reviewers, names := o.registry.snapshot()
	if len(reviewers) == 0 {
		o.logger.Printf("autoreview: job=%s no reviewers registered, skipping", job.ID)
		run.State = RunSkipped
		return run
	}
	if o.coordinator == nil {
		run.State = RunAborted
		run.Err = fmt.Errorf("autoreview: no task coordinator")
		o.logger.Printf("autoreview: job=%s aborted: %v", job.ID, run.Err)
		return run
	}

	task, err := o.coordinator.CreateTask(ctx, job.ID, AllocationAutomatic)
	if err != nil {
		run.State = RunAborted
		run.Err = fmt.Errorf("creating task: %w", err)
		o.logger.Printf("autoreview: job=%s aborted: %v", job.ID, run.Err)
		return run
	}
	run.TaskID = task.ID

	rc := NewReviewContext(job, task, content)
	run.State = RunRunning
	o.logger.Printf("autoreview: job=%s task=%s running %d reviewer(s)", job.ID, task.ID, len(reviewers))
	run.Failures = o.runReviewers(ctx, job, rc, reviewers, names)

	run.State = RunAggregating
	run.Feedback = rc.BuildFeedback()

	if err := o.coordinator.SubmitFeedback(ctx, job.ID, task.ID, AllocationAutomatic, run.Feedback); err != nil {
		run.State = RunAborted
		run.Err = fmt.Errorf("submitting feedback: %w", err)
		o.logger.Printf("autoreview: job=%s task=%s aborted: %v", job.ID, task.ID, run.Err)
		return run
	}
	run.State = RunSubmitted
	o.logger.Printf("autoreview: job=%s task=%s submitted verdict=%s entries=%d",
		job.ID, task.ID, run.Feedback.Verdict, len(run.Feedback.Entries))
	return run
}

func (o *Orchestrator) runReviewers(ctx context.Context, job Job, rc *ReviewContext, reviewers []Reviewer, names []string) []ReviewerFailure {
	var (
		mu       sync.Mutex
		failures []ReviewerFailure
	)
	// Names are the ones recorded at registration; Info is not called
	// during a run.
	record := func(i int) {
		rv, name := reviewers[i], names[i]
		if err := invoke(ctx, rv, job, rc); err != nil {
			o.logger.Printf("autoreview: job=%s reviewer=%s failed: %v", job.ID, name, err)
			mu.Lock()
			failures = append(failures, ReviewerFailure{Reviewer: name, Err: err})
			mu.Unlock()
			return
		}
		rc.MarkReviewerCompleted(name)
	}

	if o.opts.Concurrency <= 1 {
		for i := range reviewers {
			record(i)
		}
		return failures
	}

	// Reviewer errors are captured by record, so the group never cancels.
	var g errgroup.Group
	g.SetLimit(o.opts.Concurrency)
	for i := range reviewers {
		g.Go(func() error {
			record(i)
			return nil
		})
	}
	_ = g.Wait()
	return failures
}

// invoke calls one reviewer, converting a panic into an error.
func invoke(ctx context.Context, rv Reviewer, job Job, rc *ReviewContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return rv.Review(ctx, job, rc)
}
