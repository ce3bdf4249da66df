package autoreview

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sprite-ai/ctrev/internal/model"
	"github.com/sprite-ai/ctrev/internal/structtext"
)

// DefaultApprovedSummary is the summary of a run that recorded nothing.
const DefaultApprovedSummary = "Auto-review completed with no issues found"

// ReviewContext collects feedback for one run. It is safe for concurrent use
// by reviewers; entries from one reviewer keep their submission order.
type ReviewContext struct {
	job     Job
	task    TaskHandle
	content ContentDetails

	mu        sync.Mutex
	entries   []model.FeedbackEntry
	completed map[string]bool

	flatOnce sync.Once
	flat     structtext.Flattened
	flatErr  error
}

func NewReviewContext(job Job, task TaskHandle, content ContentDetails) *ReviewContext {
	return &ReviewContext{
		job:       job,
		task:      task,
		content:   content,
		completed: make(map[string]bool),
	}
}

func (rc *ReviewContext) Job() Job         { return rc.job }
func (rc *ReviewContext) Task() TaskHandle { return rc.task }

// Content returns the tree under review. A provider that fails or panics
// yields ErrContentUnavailable.
func (rc *ReviewContext) Content() (n structtext.Node, err error) {
	if rc.content == nil {
		return nil, ErrContentUnavailable
	}
	defer func() {
		if r := recover(); r != nil {
			n, err = nil, fmt.Errorf("%w: %v", ErrContentUnavailable, r)
		}
	}()
	n, err = rc.content.Content()
	if err == nil && n == nil {
		err = ErrContentUnavailable
	}
	return n, err
}

// Flattened returns the flattened content, computed once per run.
func (rc *ReviewContext) Flattened() (structtext.Flattened, error) {
	rc.flatOnce.Do(func() {
		n, err := rc.Content()
		if err != nil {
			rc.flatErr = err
			return
		}
		rc.flat = structtext.Flatten(n)
	})
	return rc.flat, rc.flatErr
}

func (rc *ReviewContext) AddFeedbackEntry(e model.FeedbackEntry) {
	rc.mu.Lock()
	rc.entries = append(rc.entries, e)
	rc.mu.Unlock()
}

// AddFeedbackEntries appends entries atomically, keeping their order.
func (rc *ReviewContext) AddFeedbackEntries(es ...model.FeedbackEntry) {
	rc.mu.Lock()
	rc.entries = append(rc.entries, es...)
	rc.mu.Unlock()
}

func (rc *ReviewContext) MarkReviewerCompleted(name string) {
	rc.mu.Lock()
	rc.completed[name] = true
	rc.mu.Unlock()
}

func (rc *ReviewContext) IsReviewerCompleted(name string) bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.completed[name]
}

// CompletedReviewers returns the names marked completed, sorted.
func (rc *ReviewContext) CompletedReviewers() []string {
	rc.mu.Lock()
	names := make([]string, 0, len(rc.completed))
	for n := range rc.completed {
		names = append(names, n)
	}
	rc.mu.Unlock()
	sort.Strings(names)
	return names
}

// FeedbackEntries returns a snapshot of the recorded entries.
func (rc *ReviewContext) FeedbackEntries() []model.FeedbackEntry {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	out := make([]model.FeedbackEntry, len(rc.entries))
	copy(out, rc.entries)
	return out
}

// FeedbackFrom returns the entries recorded by the named automatic reviewer.
func (rc *ReviewContext) FeedbackFrom(name string) []model.FeedbackEntry {
	var out []model.FeedbackEntry
	for _, e := range rc.FeedbackEntries() {
		if e.Source.Automatic && e.Source.Name == name {
			out = append(out, e)
		}
	}
	return out
}

func (rc *ReviewContext) HasFeedbackFrom(name string) bool {
	return len(rc.FeedbackFrom(name)) > 0
}

// IsApproved reports whether no critical or major entry was recorded.
func (rc *ReviewContext) IsApproved() bool {
	return approved(rc.FeedbackEntries())
}

func approved(entries []model.FeedbackEntry) bool {
	for _, e := range entries {
		if e.Severity == model.SeverityCritical || e.Severity == model.SeverityMajor {
			return false
		}
	}
	return true
}

// BuildFeedback aggregates the recorded entries.
func (rc *ReviewContext) BuildFeedback() model.Feedback {
	return Aggregate(rc.FeedbackEntries())
}

// Aggregate computes the feedback for a set of entries. Any critical entry
// rejects; otherwise any major entry asks for revision; otherwise it
// approves. No entries at all yields DefaultApprovedSummary.
func Aggregate(entries []model.FeedbackEntry) model.Feedback {
	if len(entries) == 0 {
		return model.Feedback{Verdict: model.VerdictApproved, Entries: entries, Summary: DefaultApprovedSummary}
	}

	fb := model.Feedback{Entries: entries}
	counts := fb.CountBySeverity()
	switch {
	case approved(entries):
		fb.Verdict = model.VerdictApproved
	case counts[model.SeverityCritical] > 0:
		fb.Verdict = model.VerdictRejected
	default:
		fb.Verdict = model.VerdictNeedsRevision
	}
	fb.Summary = summarize(len(entries), counts)
	return fb
}

func summarize(total int, counts map[model.Severity]int) string {
	var parts []string
	for _, sev := range model.Severities() {
		if c := counts[sev]; c > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c, strings.ToLower(sev.String())))
		}
	}
	return fmt.Sprintf("Auto-review found %d issue(s): %s", total, strings.Join(parts, ", "))
}
