package autoreview

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/sprite-ai/ctrev/internal/model"
)

// LinkSafetyName is the reviewer name recorded on link safety entries.
const LinkSafetyName = "link_safety"

var bareURLPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

// LinkSafetyConfig configures a LinkSafetyReviewer.
type LinkSafetyConfig struct {
	AllowedHosts []string
	Severity     model.Severity
	// ScanText also checks bare http(s) URLs in the text segments.
	ScanText bool
}

func DefaultLinkSafetyConfig() LinkSafetyConfig {
	return LinkSafetyConfig{Severity: model.SeverityCritical, ScanText: true}
}

// LinkSafetyReviewer rejects content linking to hosts outside an allow list.
type LinkSafetyReviewer struct {
	cfg     LinkSafetyConfig
	allowed []string
}

func NewLinkSafetyReviewer(cfg LinkSafetyConfig) *LinkSafetyReviewer {
	var allowed []string
	for _, h := range cfg.AllowedHosts {
		h = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(h)), ".")
		if h != "" {
			allowed = append(allowed, h)
		}
	}
	return &LinkSafetyReviewer{cfg: cfg, allowed: allowed}
}

func (l *LinkSafetyReviewer) Info() Info {
	return Info{Name: LinkSafetyName, Description: "Rejects links to hosts outside the allow list"}
}

// Allowed reports whether host equals an allowed suffix or is a subdomain
// of one.
func (l *LinkSafetyReviewer) Allowed(host string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	for _, suffix := range l.allowed {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}

// Review records an entry for the first disallowed host and stops.
// Malformed hrefs are skipped.
func (l *LinkSafetyReviewer) Review(ctx context.Context, job Job, rc *ReviewContext) error {
	flat, err := rc.Flattened()
	if err != nil {
		return nil
	}

	candidates := flat.Links
	if l.cfg.ScanText {
		candidates = append(append([]string(nil), candidates...), bareURLs(flat.Texts)...)
	}
	for _, href := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		host, ok := hostOf(href)
		if !ok || l.Allowed(host) {
			continue
		}
		rc.AddFeedbackEntry(model.FeedbackEntry{
			Category:   model.CategoryPolicyViolation,
			Severity:   l.cfg.Severity,
			Message:    fmt.Sprintf("Link to disallowed host %s", host),
			Suggestion: "Link only to approved domains",
			Source:     model.AutoReviewer(LinkSafetyName),
		})
		return nil
	}
	return nil
}

// hostOf returns the host of an absolute URL. Relative and malformed
// references report false.
func hostOf(href string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	host := u.Hostname()
	if host == "" {
		return "", false
	}
	return host, true
}

func bareURLs(texts []string) []string {
	var out []string
	for _, t := range texts {
		for _, m := range bareURLPattern.FindAllString(t, -1) {
			out = append(out, strings.TrimRight(m, ".,;:!?)]}"))
		}
	}
	return out
}
