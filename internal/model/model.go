// Package model defines the review feedback types shared across ctrev.
package model

import (
	"fmt"
	"math"
)

// Severity ranks a single feedback entry. Higher values are more severe.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityMinor
	SeverityMajor
	SeverityCritical
)

// Severities lists every severity from most to least severe.
func Severities() []Severity {
	return []Severity{SeverityCritical, SeverityMajor, SeverityMinor, SeverityInfo}
}

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityMinor:
		return "minor"
	case SeverityMajor:
		return "major"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ParseSeverity is the inverse of Severity.String.
func ParseSeverity(s string) (Severity, error) {
	for _, sev := range Severities() {
		if sev.String() == s {
			return sev, nil
		}
	}
	return 0, fmt.Errorf("unknown severity %q", s)
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Category classifies what kind of problem an entry describes.
type Category int

const (
	CategoryContentQuality Category = iota
	CategoryGrammar
	CategoryFormat
	CategoryPolicyViolation
	CategorySensitiveContent
	CategoryCopyright
	CategoryTechnical
	CategoryOther
)

var categoryNames = []string{
	"content_quality", "grammar", "format", "policy_violation",
	"sensitive_content", "copyright", "technical", "other",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// ParseCategory is the inverse of Category.String.
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Category) UnmarshalText(b []byte) error {
	v, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Verdict is the aggregated outcome of a review pass.
type Verdict int

const (
	VerdictPending Verdict = iota
	VerdictNeedsRevision
	VerdictRejected
	VerdictApproved
)

func (v Verdict) String() string {
	switch v {
	case VerdictPending:
		return "pending"
	case VerdictNeedsRevision:
		return "needs_revision"
	case VerdictRejected:
		return "rejected"
	case VerdictApproved:
		return "approved"
	default:
		return "unknown"
	}
}

func (v Verdict) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *Verdict) UnmarshalText(b []byte) error {
	for _, cand := range []Verdict{VerdictPending, VerdictNeedsRevision, VerdictRejected, VerdictApproved} {
		if cand.String() == string(b) {
			*v = cand
			return nil
		}
	}
	return fmt.Errorf("unknown verdict %q", b)
}

// ContentLocationRange anchors feedback to a character span of the
// flattened content.
type ContentLocationRange struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Context string `json:"context,omitempty"`
}

// NewLocationRange checks 0 <= start <= end.
func NewLocationRange(start, end int, context string) (ContentLocationRange, error) {
	if start < 0 || end < start {
		return ContentLocationRange{}, fmt.Errorf("invalid location range [%d, %d]", start, end)
	}
	return ContentLocationRange{Start: start, End: end, Context: context}, nil
}

// WholeContent is the range covering everything.
func WholeContent() ContentLocationRange {
	return ContentLocationRange{Start: 0, End: math.MaxInt}
}

// IsWholeContent reports whether r is the WholeContent sentinel.
func (r ContentLocationRange) IsWholeContent() bool {
	return r.Start == 0 && r.End == math.MaxInt
}

// ReviewerSource says who produced an entry.
type ReviewerSource struct {
	Automatic bool   `json:"automatic"`
	Name      string `json:"name"`
}

// AutoReviewer returns the source for an automated reviewer.
func AutoReviewer(name string) ReviewerSource {
	return ReviewerSource{Automatic: true, Name: name}
}

// FeedbackEntry is a single issue raised by a reviewer.
type FeedbackEntry struct {
	Category   Category              `json:"category"`
	Severity   Severity              `json:"severity"`
	Message    string                `json:"message"`
	Location   *ContentLocationRange `json:"location,omitempty"`
	Suggestion string                `json:"suggestion,omitempty"`
	Source     ReviewerSource        `json:"source"`
}

func (e FeedbackEntry) String() string {
	return fmt.Sprintf("[%s/%s] %s: %s", e.Severity, e.Category, e.Source.Name, e.Message)
}

// Feedback is the aggregated result of a review pass.
type Feedback struct {
	Verdict Verdict         `json:"verdict"`
	Entries []FeedbackEntry `json:"entries"`
	Summary string          `json:"summary,omitempty"`
}

// CountBySeverity tallies entries per severity.
func (f Feedback) CountBySeverity() map[Severity]int {
	m := make(map[Severity]int)
	for _, e := range f.Entries {
		m[e.Severity]++
	}
	return m
}
