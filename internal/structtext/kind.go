// Package structtext models rich-text documents as typed trees and provides
// the validation and flattening passes that content reviewers build on.
//
// Nodes are immutable values. Every constructor checks its immediate
// children against the parent kind's rules, so an illegal nesting anywhere in
// a tree is reported when the offending parent is built.
package structtext

// Kind identifies a node variant. The string value is the stable type tag
// used by the JSON codec.
type Kind string

const (
	KindDocument       Kind = "document"
	KindParagraph      Kind = "paragraph"
	KindHeading        Kind = "heading"
	KindList           Kind = "list"
	KindListItem       Kind = "list_item"
	KindBlockquote     Kind = "blockquote"
	KindCodeBlock      Kind = "code_block"
	KindInlineCode     Kind = "inline_code"
	KindBold           Kind = "bold"
	KindItalic         Kind = "italic"
	KindStrikethrough  Kind = "strikethrough"
	KindUnderline      Kind = "underline"
	KindHighlight      Kind = "highlight"
	KindText           Kind = "text"
	KindLink           Kind = "link"
	KindImage          Kind = "image"
	KindTable          Kind = "table"
	KindTableRow       Kind = "table_row"
	KindTableCell      Kind = "table_cell"
	KindHorizontalRule Kind = "horizontal_rule"
	KindMath           Kind = "math"
	KindMention        Kind = "mention"
)

// AllKinds returns every node kind in declaration order.
func AllKinds() []Kind {
	return []Kind{
		KindDocument, KindParagraph, KindHeading, KindList, KindListItem,
		KindBlockquote, KindCodeBlock, KindInlineCode, KindBold, KindItalic,
		KindStrikethrough, KindUnderline, KindHighlight, KindText, KindLink,
		KindImage, KindTable, KindTableRow, KindTableCell, KindHorizontalRule,
		KindMath, KindMention,
	}
}

func (k Kind) String() string { return string(k) }

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	_, ok := childRules[k]
	return ok
}

// IsLeaf reports whether nodes of kind k may never have children.
func (k Kind) IsLeaf() bool {
	r, ok := childRules[k]
	return ok && r.allow != nil && len(r.allow) == 0
}
