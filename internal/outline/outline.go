// Package outline renders a structural text tree as an indented terminal
// outline, with code blocks syntax highlighted.
package outline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/ctrev/internal/structtext"
)

var (
	colorKind    = lipgloss.Color("#bd93f9")
	colorAttr    = lipgloss.Color("#6272a4")
	colorContent = lipgloss.Color("#f8f8f2")
	colorGuide   = lipgloss.Color("#44475a")

	kindStyle    = lipgloss.NewStyle().Foreground(colorKind).Bold(true)
	attrStyle    = lipgloss.NewStyle().Foreground(colorAttr)
	contentStyle = lipgloss.NewStyle().Foreground(colorContent)
	guideStyle   = lipgloss.NewStyle().Foreground(colorGuide)
)

// Options controls rendering.
type Options struct {
	// Color enables lipgloss styling and code highlighting.
	Color bool
	// MaxContent truncates long content; 0 means no limit.
	MaxContent int
}

// Render returns the outline of root, one node per line.
func Render(root structtext.Node, opts Options) string {
	if root == nil {
		return ""
	}
	r := renderer{opts: opts}
	structtext.Walk(root, func(n structtext.Node, depth int) bool {
		r.node(n, depth)
		return true
	})
	return r.b.String()
}

type renderer struct {
	opts Options
	b    strings.Builder
}

func (r *renderer) style(s lipgloss.Style, text string) string {
	if !r.opts.Color || text == "" {
		return text
	}
	return s.Render(text)
}

func (r *renderer) node(n structtext.Node, depth int) {
	indent := r.style(guideStyle, strings.Repeat("│ ", depth))
	r.b.WriteString(indent)
	r.b.WriteString(r.style(kindStyle, string(n.Kind())))
	if attrs := attributes(n); attrs != "" {
		r.b.WriteString(" " + r.style(attrStyle, attrs))
	}

	if cb, ok := n.(*structtext.CodeBlock); ok {
		r.b.WriteString("\n")
		r.code(cb, indent+r.style(guideStyle, "│ "))
		return
	}
	if c := n.Content(); c != "" {
		r.b.WriteString(" " + r.style(contentStyle, fmt.Sprintf("%q", r.truncate(c))))
	}
	r.b.WriteString("\n")
}

func (r *renderer) code(cb *structtext.CodeBlock, indent string) {
	var lines []Line
	if r.opts.Color {
		lines = HighlightCode(cb.Language(), cb.Content())
	} else {
		lines = plainLines(strings.Split(cb.Content(), "\n"))
	}
	for _, l := range lines {
		r.b.WriteString(indent)
		for _, t := range l.Tokens {
			if r.opts.Color && t.Color != "" {
				r.b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color)).Render(t.Text))
			} else {
				r.b.WriteString(t.Text)
			}
		}
		r.b.WriteString("\n")
	}
}

func (r *renderer) truncate(s string) string {
	if r.opts.MaxContent <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= r.opts.MaxContent {
		return s
	}
	return string(runes[:r.opts.MaxContent]) + "…"
}

// attributes formats the kind-specific attributes of n.
func attributes(n structtext.Node) string {
	var parts []string
	add := func(k string, v any) { parts = append(parts, fmt.Sprintf("%s=%v", k, v)) }

	switch v := n.(type) {
	case *structtext.Heading:
		add("level", v.Level())
	case *structtext.List:
		add("ordered", v.Ordered())
	case *structtext.ListItem:
		if checked, ok := v.Checked(); ok {
			add("checked", checked)
		}
	case *structtext.CodeBlock:
		if v.Language() != "" {
			add("language", v.Language())
		}
	case *structtext.Highlight:
		if v.Color() != "" {
			add("color", v.Color())
		}
	case *structtext.Text:
		if v.Color() != "" {
			add("color", v.Color())
		}
	case *structtext.Link:
		add("href", v.Href())
		if v.Title() != "" {
			add("title", fmt.Sprintf("%q", v.Title()))
		}
	case *structtext.Image:
		add("src", v.Src())
		if v.Alt() != "" {
			add("alt", fmt.Sprintf("%q", v.Alt()))
		}
	case *structtext.TableCell:
		if v.Header() {
			add("header", true)
		}
	case *structtext.Math:
		if v.Display() {
			add("display", true)
		}
	case *structtext.Mention:
		add("user", v.UserID())
	}
	return strings.Join(parts, " ")
}
