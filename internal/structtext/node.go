package structtext

// Node is a structural text node. The set of implementations is closed: only
// the types in this package satisfy it.
type Node interface {
	Kind() Kind
	// Content is the node's own text. It is empty for pure containers.
	Content() string
	// Children returns the node's children in document order. The slice is
	// shared with the node and must not be modified.
	Children() []Node

	node()
}

type base struct {
	content  string
	children []Node
}

func (b *base) Content() string  { return b.content }
func (b *base) Children() []Node { return b.children }
func (*base) node()              {}

func cloneChildren(children []Node) []Node {
	if len(children) == 0 {
		return nil
	}
	out := make([]Node, len(children))
	copy(out, children)
	return out
}

func newBase(k Kind, content string, children []Node) (base, error) {
	if err := checkChildren(k, children); err != nil {
		return base{}, err
	}
	return base{content: content, children: cloneChildren(children)}, nil
}

// Must panics if err is non-nil and returns n otherwise. It is meant for
// literal trees in fixtures and tests.
func Must[T Node](n T, err error) T {
	if err != nil {
		panic(err)
	}
	return n
}

type Document struct{ base }

func NewDocument(children ...Node) (*Document, error) {
	b, err := newBase(KindDocument, "", children)
	if err != nil {
		return nil, err
	}
	return &Document{b}, nil
}

func (*Document) Kind() Kind { return KindDocument }

type Paragraph struct{ base }

func NewParagraph(children ...Node) (*Paragraph, error) {
	b, err := newBase(KindParagraph, "", children)
	if err != nil {
		return nil, err
	}
	return &Paragraph{b}, nil
}

func (*Paragraph) Kind() Kind { return KindParagraph }

// Heading is a section title of level 1 through 6.
type Heading struct {
	base
	level int
}

func NewHeading(level int, children ...Node) (*Heading, error) {
	if level < 1 || level > 6 {
		return nil, &InvalidAttributeError{Kind: KindHeading, Attribute: "level", Value: level}
	}
	b, err := newBase(KindHeading, "", children)
	if err != nil {
		return nil, err
	}
	return &Heading{base: b, level: level}, nil
}

func (*Heading) Kind() Kind   { return KindHeading }
func (h *Heading) Level() int { return h.level }

type List struct {
	base
	ordered bool
}

// NewList builds a list. Every item must be a ListItem.
func NewList(ordered bool, items ...Node) (*List, error) {
	b, err := newBase(KindList, "", items)
	if err != nil {
		return nil, err
	}
	return &List{base: b, ordered: ordered}, nil
}

func (*List) Kind() Kind      { return KindList }
func (l *List) Ordered() bool { return l.ordered }

type ListItem struct {
	base
	checked *bool
}

func NewListItem(children ...Node) (*ListItem, error) {
	b, err := newBase(KindListItem, "", children)
	if err != nil {
		return nil, err
	}
	return &ListItem{base: b}, nil
}

// NewTaskItem builds a checklist item.
func NewTaskItem(checked bool, children ...Node) (*ListItem, error) {
	li, err := NewListItem(children...)
	if err != nil {
		return nil, err
	}
	li.checked = &checked
	return li, nil
}

func (*ListItem) Kind() Kind { return KindListItem }

// Checked reports the checkbox state and whether the item has a checkbox.
func (li *ListItem) Checked() (checked, ok bool) {
	if li.checked == nil {
		return false, false
	}
	return *li.checked, true
}

type Blockquote struct{ base }

func NewBlockquote(children ...Node) (*Blockquote, error) {
	b, err := newBase(KindBlockquote, "", children)
	if err != nil {
		return nil, err
	}
	return &Blockquote{b}, nil
}

func (*Blockquote) Kind() Kind { return KindBlockquote }

type CodeBlock struct {
	base
	language string
}

func NewCodeBlock(language, code string) *CodeBlock {
	return &CodeBlock{base: base{content: code}, language: language}
}

func (*CodeBlock) Kind() Kind         { return KindCodeBlock }
func (c *CodeBlock) Language() string { return c.language }

type InlineCode struct{ base }

func NewInlineCode(code string) *InlineCode {
	return &InlineCode{base{content: code}}
}

func (*InlineCode) Kind() Kind { return KindInlineCode }

type Bold struct{ base }

func NewBold(children ...Node) (*Bold, error) {
	b, err := newBase(KindBold, "", children)
	if err != nil {
		return nil, err
	}
	return &Bold{b}, nil
}

func (*Bold) Kind() Kind { return KindBold }

type Italic struct{ base }

func NewItalic(children ...Node) (*Italic, error) {
	b, err := newBase(KindItalic, "", children)
	if err != nil {
		return nil, err
	}
	return &Italic{b}, nil
}

func (*Italic) Kind() Kind { return KindItalic }

type Strikethrough struct{ base }

func NewStrikethrough(children ...Node) (*Strikethrough, error) {
	b, err := newBase(KindStrikethrough, "", children)
	if err != nil {
		return nil, err
	}
	return &Strikethrough{b}, nil
}

func (*Strikethrough) Kind() Kind { return KindStrikethrough }

type Underline struct{ base }

func NewUnderline(children ...Node) (*Underline, error) {
	b, err := newBase(KindUnderline, "", children)
	if err != nil {
		return nil, err
	}
	return &Underline{b}, nil
}

func (*Underline) Kind() Kind { return KindUnderline }

// Highlight marks text with a background color. An empty color means the
// renderer's default.
type Highlight struct {
	base
	color Color
}

func NewHighlight(color string, children ...Node) (*Highlight, error) {
	c, err := ParseHighlightColor(color)
	if err != nil {
		return nil, err
	}
	b, err := newBase(KindHighlight, "", children)
	if err != nil {
		return nil, err
	}
	return &Highlight{base: b, color: c}, nil
}

func (*Highlight) Kind() Kind     { return KindHighlight }
func (h *Highlight) Color() Color { return h.color }

type Text struct {
	base
	color Color
}

func NewText(s string) *Text {
	return &Text{base: base{content: s}}
}

// NewColoredText builds a text run with a palette color.
func NewColoredText(s, color string) (*Text, error) {
	c, err := ParseColor(color)
	if err != nil {
		return nil, err
	}
	return &Text{base: base{content: s}, color: c}, nil
}

func (*Text) Kind() Kind     { return KindText }
func (t *Text) Color() Color { return t.color }

type Link struct {
	base
	href  string
	title string
}

func NewLink(href, title string, children ...Node) (*Link, error) {
	b, err := newBase(KindLink, "", children)
	if err != nil {
		return nil, err
	}
	return &Link{base: b, href: href, title: title}, nil
}

func (*Link) Kind() Kind      { return KindLink }
func (l *Link) Href() string  { return l.href }
func (l *Link) Title() string { return l.title }

type Image struct {
	base
	src string
	alt string
}

func NewImage(src, alt string) *Image {
	return &Image{src: src, alt: alt}
}

func (*Image) Kind() Kind    { return KindImage }
func (i *Image) Src() string { return i.src }
func (i *Image) Alt() string { return i.alt }

type Table struct{ base }

// NewTable builds a table. Every row must be a TableRow.
func NewTable(rows ...Node) (*Table, error) {
	b, err := newBase(KindTable, "", rows)
	if err != nil {
		return nil, err
	}
	return &Table{b}, nil
}

func (*Table) Kind() Kind { return KindTable }

type TableRow struct{ base }

// NewTableRow builds a row. Every cell must be a TableCell.
func NewTableRow(cells ...Node) (*TableRow, error) {
	b, err := newBase(KindTableRow, "", cells)
	if err != nil {
		return nil, err
	}
	return &TableRow{b}, nil
}

func (*TableRow) Kind() Kind { return KindTableRow }

type TableCell struct {
	base
	header bool
}

func NewTableCell(header bool, children ...Node) (*TableCell, error) {
	b, err := newBase(KindTableCell, "", children)
	if err != nil {
		return nil, err
	}
	return &TableCell{base: b, header: header}, nil
}

func (*TableCell) Kind() Kind     { return KindTableCell }
func (c *TableCell) Header() bool { return c.header }

type HorizontalRule struct{ base }

func NewHorizontalRule() *HorizontalRule { return &HorizontalRule{} }

func (*HorizontalRule) Kind() Kind { return KindHorizontalRule }

// Math holds a TeX expression, inline or as a display block.
type Math struct {
	base
	display bool
}

func NewMath(expr string, display bool) *Math {
	return &Math{base: base{content: expr}, display: display}
}

func (*Math) Kind() Kind      { return KindMath }
func (m *Math) Display() bool { return m.display }

// Mention references a user. The content is the display label.
type Mention struct {
	base
	userID string
}

func NewMention(userID, label string) *Mention {
	return &Mention{base: base{content: label}, userID: userID}
}

func (*Mention) Kind() Kind       { return KindMention }
func (m *Mention) UserID() string { return m.userID }

// WithChildren returns a copy of n with its children replaced. n is not
// modified; the new children are checked against n's kind.
func WithChildren(n Node, children ...Node) (Node, error) {
	if err := checkChildren(n.Kind(), children); err != nil {
		return nil, err
	}
	kids := cloneChildren(children)
	switch v := n.(type) {
	case *Document:
		c := *v
		c.children = kids
		return &c, nil
	case *Paragraph:
		c := *v
		c.children = kids
		return &c, nil
	case *Heading:
		c := *v
		c.children = kids
		return &c, nil
	case *List:
		c := *v
		c.children = kids
		return &c, nil
	case *ListItem:
		c := *v
		c.children = kids
		return &c, nil
	case *Blockquote:
		c := *v
		c.children = kids
		return &c, nil
	case *Bold:
		c := *v
		c.children = kids
		return &c, nil
	case *Italic:
		c := *v
		c.children = kids
		return &c, nil
	case *Strikethrough:
		c := *v
		c.children = kids
		return &c, nil
	case *Underline:
		c := *v
		c.children = kids
		return &c, nil
	case *Highlight:
		c := *v
		c.children = kids
		return &c, nil
	case *Link:
		c := *v
		c.children = kids
		return &c, nil
	case *Table:
		c := *v
		c.children = kids
		return &c, nil
	case *TableRow:
		c := *v
		c.children = kids
		return &c, nil
	case *TableCell:
		c := *v
		c.children = kids
		return &c, nil
	default:
		// Leaves only accept an empty child list, which checkChildren allowed.
		return n, nil
	}
}

// Walk visits n and its descendants in pre-order, passing each node's depth
// (n is depth 0). Returning false from fn skips that node's children.
func Walk(n Node, fn func(n Node, depth int) bool) {
	if n == nil {
		return
	}
	type frame struct {
		node  Node
		depth int
	}
	stack := []frame{{n, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(f.node, f.depth) {
			continue
		}
		kids := f.node.Children()
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{kids[i], f.depth + 1})
		}
	}
}
