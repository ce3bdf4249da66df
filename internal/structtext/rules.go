package structtext

type kindSet map[Kind]bool

func setOf(kinds ...Kind) kindSet {
	s := make(kindSet, len(kinds))
	for _, k := range kinds {
		s[k] = true
	}
	return s
}

func (s kindSet) union(other kindSet) kindSet {
	out := make(kindSet, len(s)+len(other))
	for k := range s {
		out[k] = true
	}
	for k := range other {
		out[k] = true
	}
	return out
}

// childRule describes which immediate children a kind accepts. A non-nil
// allow set is exhaustive (an empty one makes the kind a leaf); otherwise
// every kind outside deny is accepted.
type childRule struct {
	allow kindSet
	deny  kindSet
}

func (r childRule) permits(child Kind) bool {
	if r.allow != nil {
		return r.allow[child]
	}
	return !r.deny[child]
}

var (
	blockKinds = setOf(
		KindDocument, KindParagraph, KindHeading, KindList, KindListItem,
		KindBlockquote, KindCodeBlock, KindTable, KindTableRow, KindTableCell,
		KindHorizontalRule,
	)
	leaf = childRule{allow: kindSet{}}
)

var childRules = map[Kind]childRule{
	KindDocument:  {deny: setOf(KindDocument, KindListItem, KindTableRow, KindTableCell)},
	KindParagraph: {deny: blockKinds},
	KindHeading: {deny: setOf(
		KindDocument, KindParagraph, KindHeading, KindList, KindListItem,
		KindTable, KindTableRow, KindTableCell, KindBlockquote, KindCodeBlock,
		KindHorizontalRule,
	)},
	KindList:       {allow: setOf(KindListItem)},
	KindListItem:   {deny: setOf(KindDocument, KindHeading, KindListItem, KindTableRow, KindTableCell)},
	KindBlockquote: {deny: setOf(KindDocument, KindListItem, KindTableRow, KindTableCell)},

	KindBold:          {deny: blockKinds},
	KindItalic:        {deny: blockKinds},
	KindStrikethrough: {deny: blockKinds},
	KindUnderline:     {deny: blockKinds},
	KindHighlight: {deny: setOf(
		KindTable, KindDocument, KindParagraph, KindList, KindCodeBlock, KindBlockquote,
	)},
	KindLink: {deny: blockKinds.union(setOf(KindLink))},

	KindTable:    {allow: setOf(KindTableRow)},
	KindTableRow: {allow: setOf(KindTableCell)},
	KindTableCell: {deny: setOf(
		KindDocument, KindHeading, KindListItem, KindTable, KindTableRow, KindTableCell,
	)},

	KindText:           leaf,
	KindInlineCode:     leaf,
	KindCodeBlock:      leaf,
	KindMath:           leaf,
	KindMention:        leaf,
	KindImage:          leaf,
	KindHorizontalRule: leaf,
}

// Permits reports whether a node of kind parent may directly contain a node
// of kind child.
func Permits(parent, child Kind) bool {
	r, ok := childRules[parent]
	if !ok {
		return false
	}
	return r.permits(child)
}

// checkChildren applies the parent's rule to each child in order and reports
// the first violation.
func checkChildren(parent Kind, children []Node) error {
	r := childRules[parent]
	for i, c := range children {
		if c == nil {
			return &StructuralValidationError{Parent: parent, Index: i}
		}
		if !r.permits(c.Kind()) {
			return &StructuralValidationError{Parent: parent, Index: i, Child: c.Kind()}
		}
	}
	return nil
}
