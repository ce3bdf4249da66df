package autoreview

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/sprite-ai/ctrev/internal/model"
)

// ProfanityName is the reviewer name recorded on profanity entries.
const ProfanityName = "profanity"

// ProfanityConfig configures a ProfanityReviewer.
type ProfanityConfig struct {
	Terms    []string
	Severity model.Severity
	Category model.Category
}

// DefaultProfanityConfig returns an empty deny list that rejects on match.
func DefaultProfanityConfig() ProfanityConfig {
	return ProfanityConfig{
		Severity: model.SeverityCritical,
		Category: model.CategoryPolicyViolation,
	}
}

// ProfanityReviewer rejects content containing a deny-listed term.
type ProfanityReviewer struct {
	cfg ProfanityConfig
}

func NewProfanityReviewer(cfg ProfanityConfig) *ProfanityReviewer {
	terms := make([]string, 0, len(cfg.Terms))
	for _, t := range cfg.Terms {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	cfg.Terms = terms
	return &ProfanityReviewer{cfg: cfg}
}

func (p *ProfanityReviewer) Info() Info {
	return Info{Name: ProfanityName, Description: "Rejects content containing deny-listed terms"}
}

// Review records one entry for the first deny-listed term found in the
// flattened text. Unavailable content is treated as absent.
func (p *ProfanityReviewer) Review(ctx context.Context, job Job, rc *ReviewContext) error {
	if len(p.cfg.Terms) == 0 {
		return nil
	}
	flat, err := rc.Flattened()
	if err != nil {
		return nil
	}

	// cases.Caser is stateful and not safe for concurrent use.
	fold := cases.Fold()
	text := fold.String(flat.Text())
	for _, term := range p.cfg.Terms {
		if err := ctx.Err(); err != nil {
			return err
		}
		idx := strings.Index(text, fold.String(term))
		if idx < 0 {
			continue
		}
		entry := model.FeedbackEntry{
			Category:   p.cfg.Category,
			Severity:   p.cfg.Severity,
			Message:    fmt.Sprintf("Content contains forbidden term %q", term),
			Suggestion: "Remove or rephrase the forbidden term",
			Source:     model.AutoReviewer(ProfanityName),
		}
		if loc, err := model.NewLocationRange(idx, idx+len(fold.String(term)), term); err == nil {
			entry.Location = &loc
		}
		rc.AddFeedbackEntry(entry)
		return nil
	}
	return nil
}
