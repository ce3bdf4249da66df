package autoreview

import (
	"context"
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/sprite-ai/ctrev/internal/model"
)

// FormattingName is the reviewer name recorded on formatting entries.
const FormattingName = "formatting"

var (
	repeatedPunctPattern = regexp.MustCompile(`[!?]{3,}`)
	placeholderPattern   = regexp.MustCompile(`(?i)\b(TODO|FIXME|TBD|XXX|lorem ipsum)\b`)
)

// minShoutLetters is how many letters a segment needs before all-caps
// counts as shouting.
const minShoutLetters = 12

// FormattingReviewer flags cosmetic problems. It never blocks approval.
type FormattingReviewer struct{}

func NewFormattingReviewer() *FormattingReviewer { return &FormattingReviewer{} }

func (f *FormattingReviewer) Info() Info {
	return Info{Name: FormattingName, Description: "Flags placeholders, shouting, and repeated paragraphs"}
}

func (f *FormattingReviewer) Review(ctx context.Context, job Job, rc *ReviewContext) error {
	flat, err := rc.Flattened()
	if err != nil {
		return nil
	}

	var entries []model.FeedbackEntry
	seen := make(map[[sha256.Size]byte]int)
	offset := 0
	for i, seg := range flat.Texts {
		if err := ctx.Err(); err != nil {
			return err
		}
		entries = append(entries, checkPlaceholders(seg, offset)...)
		entries = append(entries, checkRepeatedPunct(seg, offset)...)
		if isShouting(seg) {
			entries = append(entries, formattingEntry(model.SeverityInfo,
				"Segment is written entirely in capitals", "Use sentence case", seg, offset, 0, len(seg)))
		}

		h := hashSegment(seg)
		if first, ok := seen[h]; ok {
			entries = append(entries, formattingEntry(model.SeverityMinor,
				fmt.Sprintf("Segment %d repeats segment %d", i+1, first+1), "Remove the duplicate", seg, offset, 0, len(seg)))
		} else if strings.TrimSpace(seg) != "" {
			seen[h] = i
		}

		offset += len(seg) + 1
	}

	if len(entries) > 0 {
		rc.AddFeedbackEntries(entries...)
	}
	return nil
}

func checkPlaceholders(seg string, offset int) []model.FeedbackEntry {
	var out []model.FeedbackEntry
	for _, m := range placeholderPattern.FindAllStringIndex(seg, -1) {
		out = append(out, formattingEntry(model.SeverityMinor,
			fmt.Sprintf("Placeholder %q left in content", seg[m[0]:m[1]]), "Replace the placeholder with final text",
			seg, offset, m[0], m[1]))
	}
	return out
}

func checkRepeatedPunct(seg string, offset int) []model.FeedbackEntry {
	var out []model.FeedbackEntry
	for _, m := range repeatedPunctPattern.FindAllStringIndex(seg, -1) {
		out = append(out, formattingEntry(model.SeverityInfo,
			fmt.Sprintf("Repeated punctuation %q", seg[m[0]:m[1]]), "Use a single mark", seg, offset, m[0], m[1]))
	}
	return out
}

func isShouting(seg string) bool {
	letters := 0
	for _, r := range seg {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.IsLower(r) {
			return false
		}
		letters++
	}
	return letters >= minShoutLetters
}

// hashSegment normalizes whitespace and case before hashing.
func hashSegment(seg string) [sha256.Size]byte {
	norm := strings.ToLower(strings.Join(strings.Fields(seg), " "))
	return sha256.Sum256([]byte(norm))
}

func formattingEntry(sev model.Severity, msg, suggestion, seg string, offset, start, end int) model.FeedbackEntry {
	e := model.FeedbackEntry{
		Category:   model.CategoryFormat,
		Severity:   sev,
		Message:    msg,
		Suggestion: suggestion,
		Source:     model.AutoReviewer(FormattingName),
	}
	if loc, err := model.NewLocationRange(offset+start, offset+end, seg[start:end]); err == nil {
		e.Location = &loc
	}
	return e
}
