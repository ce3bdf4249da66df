package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sprite-ai/ctrev/internal/autoreview"
	"github.com/sprite-ai/ctrev/internal/model"
	"github.com/sprite-ai/ctrev/internal/structtext"
)

func testFeedback() (model.Feedback, structtext.Node) {
	root := structtext.Must(structtext.NewDocument(
		structtext.Must(structtext.NewParagraph(structtext.NewText("this is a darn test"))),
		structtext.Must(structtext.NewParagraph(structtext.NewText("TODO finish"))),
	))
	loc, _ := model.NewLocationRange(10, 14, "darn")
	whole := model.WholeContent()
	entries := []model.FeedbackEntry{
		{Category: model.CategoryPolicyViolation, Severity: model.SeverityCritical, Message: "Content contains forbidden term \"darn\"", Location: &loc, Source: model.AutoReviewer("profanity")},
		{Category: model.CategoryFormat, Severity: model.SeverityMinor, Message: "Placeholder \"TODO\" left in content", Suggestion: "Replace it", Source: model.AutoReviewer("formatting")},
		{Category: model.CategoryContentQuality, Severity: model.SeverityMajor, Message: "Too vague", Location: &whole, Source: model.AutoReviewer("quality")},
	}
	return autoreview.Aggregate(entries), root
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		newM, _ := m.Update(msg)
		m = newM.(Model)
	}
	return m
}

func setupModel(t *testing.T) Model {
	t.Helper()
	fb, root := testFeedback()
	m := New(fb, root)
	newM, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return newM.(Model)
}

func TestModelInit(t *testing.T) {
	m := setupModel(t)

	if m.cursor != 0 {
		t.Errorf("expected cursor 0, got %d", m.cursor)
	}
	if len(m.visible) != 3 {
		t.Errorf("expected 3 visible entries, got %d", len(m.visible))
	}
	if m.text == "" || len(m.outline) == 0 {
		t.Error("expected content to be flattened and outlined")
	}
}

func TestNavigation(t *testing.T) {
	m := setupModel(t)

	m = press(t, m, "j", "j", "j")
	if m.cursor != 2 {
		t.Errorf("expected cursor to stop at 2, got %d", m.cursor)
	}
	m = press(t, m, "g")
	if m.cursor != 0 {
		t.Errorf("expected cursor 0 after g, got %d", m.cursor)
	}
	m = press(t, m, "k")
	if m.cursor != 0 {
		t.Errorf("expected cursor 0 at top, got %d", m.cursor)
	}
	m = press(t, m, "G")
	if m.cursor != 2 {
		t.Errorf("expected cursor 2 after G, got %d", m.cursor)
	}
}

func TestDecisionsChangeVerdict(t *testing.T) {
	m := setupModel(t)

	if got := m.Result().Feedback().Verdict; got != model.VerdictRejected {
		t.Fatalf("initial verdict = %s, want rejected", got)
	}

	// Dismiss the critical entry; the cursor advances to the minor one.
	m = press(t, m, "d")
	if m.cursor != 1 {
		t.Errorf("expected cursor to advance, got %d", m.cursor)
	}
	if got := m.Result().Feedback().Verdict; got != model.VerdictNeedsRevision {
		t.Errorf("verdict after dismissing critical = %s, want needs_revision", got)
	}

	m = press(t, m, "a", "x")
	res := m.Result()
	if got := res.Feedback().Verdict; got != model.VerdictApproved {
		t.Errorf("verdict after dismissing major = %s, want approved", got)
	}
	if len(res.Dismissed()) != 2 || len(res.Kept()) != 1 || len(res.Pending()) != 0 {
		t.Errorf("dismissed=%d kept=%d pending=%d", len(res.Dismissed()), len(res.Kept()), len(res.Pending()))
	}
	if !strings.Contains(res.Notes(), "Dismissed (2)") {
		t.Errorf("notes missing dismissed list:\n%s", res.Notes())
	}

	// Undo on the first entry restores it.
	m = press(t, m, "g", "u")
	if got := m.Result().Feedback().Verdict; got != model.VerdictRejected {
		t.Errorf("verdict after undo = %s, want rejected", got)
	}
}

func TestSeverityFilter(t *testing.T) {
	m := setupModel(t)

	tests := []struct {
		min  model.Severity
		want int
	}{
		{model.SeverityMinor, 3},
		{model.SeverityMajor, 2},
		{model.SeverityCritical, 1},
		{model.SeverityInfo, 3},
	}
	for _, tt := range tests {
		m = press(t, m, "f")
		if m.minSeverity != tt.min {
			t.Fatalf("filter = %s, want %s", m.minSeverity, tt.min)
		}
		if len(m.visible) != tt.want {
			t.Errorf("filter %s: %d visible, want %d", tt.min, len(m.visible), tt.want)
		}
	}
}

func TestViewRenders(t *testing.T) {
	m := setupModel(t)

	view := m.View()
	if !strings.Contains(view, "profanity") {
		t.Error("expected view to list the profanity entry")
	}
	if !strings.Contains(view, "Entry 1 of 3") {
		t.Error("expected detail header")
	}
	if !strings.Contains(view, "darn") {
		t.Error("expected excerpt to include the matched term")
	}
}

func TestOutlineToggle(t *testing.T) {
	m := setupModel(t)

	m = press(t, m, "o")
	if !m.showOutline {
		t.Fatal("expected outline pane")
	}
	if !strings.Contains(m.View(), "paragraph") {
		t.Error("expected outline to show node kinds")
	}

	// j scrolls the outline, not the entry list.
	m = press(t, m, "j")
	if m.outlineOffset != 1 || m.cursor != 0 {
		t.Errorf("outlineOffset=%d cursor=%d", m.outlineOffset, m.cursor)
	}

	m = press(t, m, "tab")
	if m.showOutline {
		t.Error("expected detail pane after second toggle")
	}
}

func TestHelpToggle(t *testing.T) {
	m := setupModel(t)

	m = press(t, m, "?")
	if !m.showHelp {
		t.Error("expected help to be shown")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("expected help view to contain shortcuts")
	}
}

func TestEmptyFeedback(t *testing.T) {
	m := New(autoreview.Aggregate(nil), nil)
	newM, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	m = newM.(Model)

	if !strings.Contains(m.View(), "No issues found.") {
		t.Error("expected empty state")
	}
	m = press(t, m, "d", "j")
	if len(m.Result().Decisions) != 0 {
		t.Error("expected no decisions on empty feedback")
	}
}

func TestExcerpt(t *testing.T) {
	text := "abcdefghij"
	loc, _ := model.NewLocationRange(3, 5, "")
	before, mark, after, ok := excerpt(text, &loc)
	if !ok || before != "abc" || mark != "de" || after != "fghij" {
		t.Errorf("excerpt = %q %q %q %v", before, mark, after, ok)
	}

	whole := model.WholeContent()
	if _, _, _, ok := excerpt(text, &whole); ok {
		t.Error("whole-content range should not produce an excerpt")
	}

	far, _ := model.NewLocationRange(50, 60, "")
	if _, mark, _, ok := excerpt(text, &far); !ok || mark != "" {
		t.Errorf("out of range excerpt = %q %v", mark, ok)
	}
}

func TestWrapAndTruncate(t *testing.T) {
	if got := wrap("one two three four", 9); got != "one two\nthree\nfour" {
		t.Errorf("wrap = %q", got)
	}
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Errorf("truncate = %q", got)
	}
}
