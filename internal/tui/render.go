package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sprite-ai/ctrev/internal/model"
)

// excerptRadius is how many bytes of surrounding text the detail pane shows
// around a located entry.
const excerptRadius = 60

func severityIcon(s model.Severity) string {
	switch s {
	case model.SeverityCritical:
		return "!!"
	case model.SeverityMajor:
		return "! "
	case model.SeverityMinor:
		return "* "
	default:
		return "- "
	}
}

func decisionMark(d Decision) string {
	switch d {
	case DecisionAccepted:
		return "✓"
	case DecisionDismissed:
		return "✗"
	default:
		return " "
	}
}

// entryLine formats one row of the entry list, truncated to width.
func entryLine(e model.FeedbackEntry, d Decision, width int) string {
	line := fmt.Sprintf("%s %s %s: %s", decisionMark(d), severityIcon(e.Severity), e.Source.Name, e.Message)
	return truncate(line, width)
}

func truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	r := []rune(s)
	return string(r[:width-1]) + "…"
}

// excerpt returns the text before, inside, and after loc, trimmed to a
// window around it. ok is false when there is nothing to show.
func excerpt(text string, loc *model.ContentLocationRange) (before, mark, after string, ok bool) {
	if loc == nil || loc.IsWholeContent() || text == "" {
		return "", "", "", false
	}
	start, end := clampRune(text, loc.Start), clampRune(text, loc.End)
	if start > end {
		start = end
	}
	from := clampRune(text, start-excerptRadius)
	to := clampRune(text, end+excerptRadius)

	before, mark, after = text[from:start], text[start:end], text[end:to]
	if from > 0 {
		before = "…" + before
	}
	if to < len(text) {
		after += "…"
	}
	return before, mark, after, true
}

// clampRune bounds i to text and moves it back to a rune boundary.
func clampRune(text string, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(text) {
		return len(text)
	}
	for i > 0 && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}

// detail renders the selected entry for the right-hand pane.
func (m Model) detail(width int) string {
	if len(m.visible) == 0 {
		if len(m.feedback.Entries) == 0 {
			return verdictApprovedStyle.Render("No issues found.")
		}
		return labelStyle.Render("No entries at or above " + m.minSeverity.String())
	}

	idx := m.visible[m.cursor]
	e := m.feedback.Entries[idx]

	var b strings.Builder
	b.WriteString(detailHeaderStyle.Render(fmt.Sprintf("Entry %d of %d", idx+1, len(m.feedback.Entries))))
	b.WriteByte('\n')

	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Width(12).Render(label), value)
	}
	field("Severity", SeverityStyle(e.Severity).Render(e.Severity.String()))
	field("Category", e.Category.String())
	field("Reviewer", e.Source.Name)
	field("Decision", m.decisions[idx].String())
	b.WriteByte('\n')
	b.WriteString(wrap(e.Message, width))
	b.WriteByte('\n')

	if e.Suggestion != "" {
		b.WriteByte('\n')
		b.WriteString(suggestionStyle.Render(wrap("Suggestion: "+e.Suggestion, width)))
		b.WriteByte('\n')
	}

	if before, mark, after, ok := excerpt(m.text, e.Location); ok {
		b.WriteByte('\n')
		b.WriteString(labelStyle.Render(fmt.Sprintf("At %d-%d:", e.Location.Start, e.Location.End)))
		b.WriteByte('\n')
		b.WriteString(excerptStyle.Render(oneLine(before)))
		b.WriteString(excerptMarkStyle.Render(oneLine(mark)))
		b.WriteString(excerptStyle.Render(oneLine(after)))
		b.WriteByte('\n')
	} else if e.Location != nil && e.Location.IsWholeContent() {
		b.WriteByte('\n')
		b.WriteString(labelStyle.Render("Applies to the whole content"))
		b.WriteByte('\n')
	}
	return b.String()
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", " ⏎ ")
}

// wrap breaks s into lines of at most width runes on word boundaries.
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(s) {
		if cur.Len() > 0 && utf8.RuneCountInString(cur.String())+1+utf8.RuneCountInString(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return strings.Join(lines, "\n")
}
