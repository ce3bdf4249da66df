package tui

import (
	"fmt"
	"strings"

	"github.com/sprite-ai/ctrev/internal/autoreview"
	"github.com/sprite-ai/ctrev/internal/model"
)

// Decision is the operator's call on one feedback entry.
type Decision int

const (
	DecisionPending Decision = iota
	DecisionAccepted
	DecisionDismissed
)

func (d Decision) String() string {
	switch d {
	case DecisionAccepted:
		return "accepted"
	case DecisionDismissed:
		return "dismissed"
	default:
		return "pending"
	}
}

// Result holds the outcome of an interactive browsing session.
type Result struct {
	Decisions map[int]Decision
	Entries   []model.FeedbackEntry
}

// Kept returns every entry that was not dismissed.
func (r *Result) Kept() []model.FeedbackEntry {
	var kept []model.FeedbackEntry
	for i, e := range r.Entries {
		if r.Decisions[i] != DecisionDismissed {
			kept = append(kept, e)
		}
	}
	return kept
}

// Dismissed returns the entries the operator dismissed.
func (r *Result) Dismissed() []model.FeedbackEntry {
	var out []model.FeedbackEntry
	for i, e := range r.Entries {
		if r.Decisions[i] == DecisionDismissed {
			out = append(out, e)
		}
	}
	return out
}

// Pending returns entries with no decision.
func (r *Result) Pending() []model.FeedbackEntry {
	var out []model.FeedbackEntry
	for i, e := range r.Entries {
		if r.Decisions[i] == DecisionPending {
			out = append(out, e)
		}
	}
	return out
}

// Feedback re-aggregates the kept entries.
func (r *Result) Feedback() model.Feedback {
	return autoreview.Aggregate(r.Kept())
}

// Notes renders the decisions as a plain text note for the author.
func (r *Result) Notes() string {
	if len(r.Entries) == 0 {
		return ""
	}
	var b strings.Builder
	fb := r.Feedback()
	fmt.Fprintf(&b, "Verdict after review: %s\n", fb.Verdict)
	fmt.Fprintf(&b, "%s\n", fb.Summary)
	if d := r.Dismissed(); len(d) > 0 {
		fmt.Fprintf(&b, "\nDismissed (%d):\n", len(d))
		for _, e := range d {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}
	return b.String()
}
