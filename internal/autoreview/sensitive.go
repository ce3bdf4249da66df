package autoreview

import (
	"context"
	"fmt"
	"regexp"

	"github.com/sprite-ai/ctrev/internal/model"
)

// SensitiveName is the reviewer name recorded on sensitive-content entries.
const SensitiveName = "sensitive"

// Credential patterns grouped by what they leak.
var sensitivePatterns = []struct {
	category string
	patterns []*regexp.Regexp
	severity model.Severity
}{
	{
		category: "private key",
		patterns: compilePatterns(
			`-----BEGIN (?:RSA |EC |OPENSSH |DSA |PGP )?PRIVATE KEY(?: BLOCK)?-----`,
		),
		severity: model.SeverityCritical,
	},
	{
		category: "cloud access key",
		patterns: compilePatterns(
			`\b(?:AKIA|ASIA)[0-9A-Z]{16}\b`,
			`\bAIza[0-9A-Za-z_\-]{35}\b`,
			`\bgh[pousr]_[0-9A-Za-z]{36}\b`,
			`\bxox[abpr]-[0-9A-Za-z\-]{10,}\b`,
		),
		severity: model.SeverityCritical,
	},
	{
		category: "credential",
		patterns: compilePatterns(
			`(?i)\b(?:api.?key|secret|password|passwd|token)\s*[:=]\s*\S{6,}`,
			`(?i)\bbearer\s+[0-9A-Za-z\-._~+/]{20,}=*`,
		),
		severity: model.SeverityMajor,
	},
	{
		category: "connection string",
		patterns: compilePatterns(
			`(?i)\b[a-z][a-z0-9+.\-]*://[^\s:/@]+:[^\s@/]+@[^\s/]+`,
		),
		severity: model.SeverityMajor,
	},
}

func compilePatterns(patterns ...string) []*regexp.Regexp {
	var compiled []*regexp.Regexp
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// SensitiveReviewer flags credentials and keys pasted into content. Each
// pattern group reports at most once per segment.
type SensitiveReviewer struct{}

func NewSensitiveReviewer() *SensitiveReviewer { return &SensitiveReviewer{} }

func (s *SensitiveReviewer) Info() Info {
	return Info{Name: SensitiveName, Description: "Flags credentials, private keys, and access tokens"}
}

func (s *SensitiveReviewer) Review(ctx context.Context, job Job, rc *ReviewContext) error {
	flat, err := rc.Flattened()
	if err != nil {
		return nil
	}

	var entries []model.FeedbackEntry
	seen := make(map[string]bool)
	offset := 0
	for _, seg := range flat.Texts {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, sp := range sensitivePatterns {
			for _, re := range sp.patterns {
				m := re.FindStringIndex(seg)
				if m == nil {
					continue
				}
				key := sp.category + "\x00" + seg[m[0]:m[1]]
				if !seen[key] {
					seen[key] = true
					entries = append(entries, sensitiveEntry(sp.category, sp.severity, seg, offset, m[0], m[1]))
				}
				break // one entry per group per segment
			}
		}
		offset += len(seg) + 1
	}

	if len(entries) > 0 {
		rc.AddFeedbackEntries(entries...)
	}
	return nil
}

func sensitiveEntry(category string, sev model.Severity, seg string, offset, start, end int) model.FeedbackEntry {
	e := model.FeedbackEntry{
		Category:   model.CategorySensitiveContent,
		Severity:   sev,
		Message:    fmt.Sprintf("Content appears to contain a %s", category),
		Suggestion: "Remove it and rotate the exposed secret",
		Source:     model.AutoReviewer(SensitiveName),
	}
	// No context: the match is the secret.
	if loc, err := model.NewLocationRange(offset+start, offset+end, ""); err == nil {
		e.Location = &loc
	}
	return e
}
