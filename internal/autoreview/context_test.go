package autoreview

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/ctrev/internal/model"
	"github.com/sprite-ai/ctrev/internal/structtext"
)

func entry(sev model.Severity, reviewer string) model.FeedbackEntry {
	return model.FeedbackEntry{
		Category: model.CategoryContentQuality,
		Severity: sev,
		Message:  sev.String() + " issue",
		Source:   model.AutoReviewer(reviewer),
	}
}

func newContext(root structtext.Node) *ReviewContext {
	return NewReviewContext(Job{ID: "job-1"}, TaskHandle{ID: "task-1", JobID: "job-1", Allocation: AllocationAutomatic}, StaticContent{Root: root})
}

func TestBuildFeedbackVerdicts(t *testing.T) {
	tests := []struct {
		name    string
		entries []model.FeedbackEntry
		verdict model.Verdict
		summary string
	}{
		{"no entries", nil, model.VerdictApproved, DefaultApprovedSummary},
		{"major and minor", []model.FeedbackEntry{entry(model.SeverityMajor, "a"), entry(model.SeverityMinor, "a")},
			model.VerdictNeedsRevision, "Auto-review found 2 issue(s): 1 major, 1 minor"},
		{"critical", []model.FeedbackEntry{entry(model.SeverityCritical, "a")},
			model.VerdictRejected, "Auto-review found 1 issue(s): 1 critical"},
		{"info only", []model.FeedbackEntry{entry(model.SeverityInfo, "a"), entry(model.SeverityInfo, "b")},
			model.VerdictApproved, "Auto-review found 2 issue(s): 2 info"},
		{"critical beats major", []model.FeedbackEntry{entry(model.SeverityMajor, "a"), entry(model.SeverityCritical, "b"), entry(model.SeverityMajor, "c")},
			model.VerdictRejected, "Auto-review found 3 issue(s): 1 critical, 2 major"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := newContext(nil)
			rc.AddFeedbackEntries(tt.entries...)
			fb := rc.BuildFeedback()
			assert.Equal(t, tt.verdict, fb.Verdict)
			assert.Equal(t, tt.summary, fb.Summary)
			assert.Len(t, fb.Entries, len(tt.entries))
		})
	}
}

func TestIsApprovedIgnoresMinorAndInfo(t *testing.T) {
	rc := newContext(nil)
	rc.AddFeedbackEntry(entry(model.SeverityMinor, "a"))
	rc.AddFeedbackEntry(entry(model.SeverityInfo, "a"))
	assert.True(t, rc.IsApproved())

	rc.AddFeedbackEntry(entry(model.SeverityMajor, "a"))
	assert.False(t, rc.IsApproved())
}

func TestFeedbackFromFiltersAutomaticSource(t *testing.T) {
	rc := newContext(nil)
	rc.AddFeedbackEntry(entry(model.SeverityMinor, "profanity"))
	human := entry(model.SeverityMinor, "profanity")
	human.Source.Automatic = false
	rc.AddFeedbackEntry(human)
	rc.AddFeedbackEntry(entry(model.SeverityMinor, "links"))

	assert.Len(t, rc.FeedbackFrom("profanity"), 1)
	assert.True(t, rc.HasFeedbackFrom("links"))
	assert.False(t, rc.HasFeedbackFrom("formatting"))
}

func TestFeedbackEntriesIsSnapshot(t *testing.T) {
	rc := newContext(nil)
	rc.AddFeedbackEntry(entry(model.SeverityMinor, "a"))
	snap := rc.FeedbackEntries()
	snap[0].Message = "changed"
	rc.AddFeedbackEntry(entry(model.SeverityMinor, "a"))

	assert.Len(t, snap, 1)
	assert.Equal(t, "minor issue", rc.FeedbackEntries()[0].Message)
}

func TestMarkReviewerCompletedIdempotent(t *testing.T) {
	rc := newContext(nil)
	rc.MarkReviewerCompleted("b")
	rc.MarkReviewerCompleted("a")
	rc.MarkReviewerCompleted("b")
	assert.True(t, rc.IsReviewerCompleted("a"))
	assert.False(t, rc.IsReviewerCompleted("c"))
	assert.Equal(t, []string{"a", "b"}, rc.CompletedReviewers())
}

func TestConcurrentWritersLoseNothing(t *testing.T) {
	const reviewers, perReviewer = 16, 250
	rc := newContext(nil)

	var wg sync.WaitGroup
	for r := 0; r < reviewers; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			name := fmt.Sprintf("r%d", r)
			for i := 0; i < perReviewer; i++ {
				e := entry(model.SeverityInfo, name)
				e.Message = fmt.Sprintf("%d", i)
				rc.AddFeedbackEntry(e)
			}
			rc.MarkReviewerCompleted(name)
		}(r)
	}
	wg.Wait()

	all := rc.FeedbackEntries()
	require.Len(t, all, reviewers*perReviewer)
	assert.Len(t, rc.CompletedReviewers(), reviewers)

	// Each reviewer's entries keep their submission order.
	for r := 0; r < reviewers; r++ {
		got := rc.FeedbackFrom(fmt.Sprintf("r%d", r))
		require.Len(t, got, perReviewer)
		for i, e := range got {
			assert.Equal(t, fmt.Sprintf("%d", i), e.Message)
		}
	}
}

type panickyContent struct{}

func (panickyContent) Content() (structtext.Node, error) { panic("store offline") }

func TestContentFailuresAreUnavailable(t *testing.T) {
	rc := NewReviewContext(Job{ID: "j"}, TaskHandle{}, panickyContent{})
	_, err := rc.Content()
	assert.True(t, errors.Is(err, ErrContentUnavailable))

	_, err = rc.Flattened()
	assert.ErrorIs(t, err, ErrContentUnavailable)

	rc = NewReviewContext(Job{ID: "j"}, TaskHandle{}, StaticContent{})
	_, err = rc.Content()
	assert.ErrorIs(t, err, ErrContentUnavailable)
}

func TestEncodedContent(t *testing.T) {
	doc := structtext.Must(structtext.NewDocument(
		structtext.Must(structtext.NewParagraph(structtext.NewText("hello"))),
	))
	enc, err := structtext.EncodeCompressed(doc)
	require.NoError(t, err)

	rc := NewReviewContext(Job{ID: "j"}, TaskHandle{}, EncodedContent(enc))
	flat, err := rc.Flattened()
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, flat.Texts)

	_, err = EncodedContent("not ascii85 ~~").Content()
	assert.ErrorIs(t, err, ErrContentUnavailable)
}
