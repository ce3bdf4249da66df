package structtext

import "strings"

// Flattened is the scannable form of a tree: one string per block-level
// segment and every link target in document order.
type Flattened struct {
	Texts []string `json:"texts"`
	Links []string `json:"links"`
}

// Text joins the segments with newlines.
func (f Flattened) Text() string {
	return strings.Join(f.Texts, "\n")
}

// Flatten reduces root to block segments and link targets. Inline formatting
// marks add no separators, so a word split across marks stays one token.
// Empty segments are dropped.
func Flatten(root Node) Flattened {
	var fl flattener
	if root != nil {
		fl.visit(root)
	}
	return fl.out
}

type flattener struct {
	out Flattened
}

func (fl *flattener) emit(s string) {
	if s != "" {
		fl.out.Texts = append(fl.out.Texts, s)
	}
}

func (fl *flattener) visit(n Node) {
	switch n.Kind() {
	case KindDocument, KindList:
		for _, c := range n.Children() {
			fl.visit(c)
		}
	case KindParagraph, KindHeading, KindListItem, KindTableCell, KindBlockquote:
		fl.emit(fl.segment(n))
	case KindTable:
		for _, row := range n.Children() {
			for _, cell := range row.Children() {
				fl.visit(cell)
			}
		}
	default:
		var b strings.Builder
		fl.collectInline(n, &b)
		fl.emit(b.String())
	}
}

// segment builds one block's text. A block without children contributes its
// own content verbatim.
func (fl *flattener) segment(n Node) string {
	kids := n.Children()
	if len(kids) == 0 {
		return n.Content()
	}
	var b strings.Builder
	for _, c := range kids {
		fl.collectInline(c, &b)
	}
	return b.String()
}

func (fl *flattener) collectInline(n Node, b *strings.Builder) {
	switch v := n.(type) {
	case *Text, *InlineCode:
		b.WriteString(v.Content())
	case *Mention:
		if c := v.Content(); c != "" {
			b.WriteString(c)
		}
	case *Link:
		fl.out.Links = append(fl.out.Links, v.href)
		if len(v.children) > 0 {
			for _, c := range v.children {
				fl.collectInline(c, b)
			}
		} else {
			b.WriteString(v.title)
		}
	case *Image:
	default:
		// Bold, Italic, Underline, Strikethrough and Highlight land here too:
		// they are transparent.
		for _, c := range n.Children() {
			fl.collectInline(c, b)
		}
	}
}
