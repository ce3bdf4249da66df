package structtext

import (
	"bytes"
	"compress/gzip"
	"encoding/ascii85"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// wireNode is the JSON shape of a node. Type carries the kind tag; the
// attribute fields are only set for the kinds that have them.
type wireNode struct {
	Type     string     `json:"type"`
	Content  string     `json:"content,omitempty"`
	Children []wireNode `json:"children,omitempty"`

	Level    int    `json:"level,omitempty"`
	Ordered  bool   `json:"ordered,omitempty"`
	Checked  *bool  `json:"checked,omitempty"`
	Language string `json:"language,omitempty"`
	Color    string `json:"color,omitempty"`
	Href     string `json:"href,omitempty"`
	Title    string `json:"title,omitempty"`
	Src      string `json:"src,omitempty"`
	Alt      string `json:"alt,omitempty"`
	Header   bool   `json:"header,omitempty"`
	Display  bool   `json:"display,omitempty"`
	UserID   string `json:"user_id,omitempty"`
}

func toWire(n Node) wireNode {
	w := wireNode{Type: string(n.Kind()), Content: n.Content()}
	for _, c := range n.Children() {
		w.Children = append(w.Children, toWire(c))
	}
	switch v := n.(type) {
	case *Heading:
		w.Level = v.level
	case *List:
		w.Ordered = v.ordered
	case *ListItem:
		w.Checked = v.checked
	case *CodeBlock:
		w.Language = v.language
	case *Highlight:
		w.Color = string(v.color)
	case *Text:
		w.Color = string(v.color)
	case *Link:
		w.Href, w.Title = v.href, v.title
	case *Image:
		w.Src, w.Alt = v.src, v.alt
	case *TableCell:
		w.Header = v.header
	case *Math:
		w.Display = v.display
	case *Mention:
		w.UserID = v.userID
	}
	return w
}

func fromWire(w wireNode) (Node, error) {
	kind := Kind(w.Type)
	if !kind.Valid() {
		return nil, fmt.Errorf("structtext: unknown node type %q", w.Type)
	}
	children := make([]Node, 0, len(w.Children))
	for i, cw := range w.Children {
		c, err := fromWire(cw)
		if err != nil {
			return nil, fmt.Errorf("%s child %d: %w", kind, i, err)
		}
		children = append(children, c)
	}

	b, err := newBase(kind, w.Content, children)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindDocument:
		return &Document{b}, nil
	case KindParagraph:
		return &Paragraph{b}, nil
	case KindHeading:
		if w.Level < 1 || w.Level > 6 {
			return nil, &InvalidAttributeError{Kind: kind, Attribute: "level", Value: w.Level}
		}
		return &Heading{base: b, level: w.Level}, nil
	case KindList:
		return &List{base: b, ordered: w.Ordered}, nil
	case KindListItem:
		return &ListItem{base: b, checked: w.Checked}, nil
	case KindBlockquote:
		return &Blockquote{b}, nil
	case KindCodeBlock:
		return &CodeBlock{base: b, language: w.Language}, nil
	case KindInlineCode:
		return &InlineCode{b}, nil
	case KindBold:
		return &Bold{b}, nil
	case KindItalic:
		return &Italic{b}, nil
	case KindStrikethrough:
		return &Strikethrough{b}, nil
	case KindUnderline:
		return &Underline{b}, nil
	case KindHighlight:
		c, err := ParseHighlightColor(w.Color)
		if err != nil {
			return nil, err
		}
		return &Highlight{base: b, color: c}, nil
	case KindText:
		var c Color
		if w.Color != "" {
			if c, err = ParseColor(w.Color); err != nil {
				return nil, err
			}
		}
		return &Text{base: b, color: c}, nil
	case KindLink:
		return &Link{base: b, href: w.Href, title: w.Title}, nil
	case KindImage:
		return &Image{base: b, src: w.Src, alt: w.Alt}, nil
	case KindTable:
		return &Table{b}, nil
	case KindTableRow:
		return &TableRow{b}, nil
	case KindTableCell:
		return &TableCell{base: b, header: w.Header}, nil
	case KindHorizontalRule:
		return &HorizontalRule{b}, nil
	case KindMath:
		return &Math{base: b, display: w.Display}, nil
	case KindMention:
		return &Mention{base: b, userID: w.UserID}, nil
	}
	return nil, fmt.Errorf("structtext: unhandled node type %q", w.Type)
}

// Encode marshals a tree to JSON.
func Encode(n Node) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("structtext: encode nil node")
	}
	return json.Marshal(toWire(n))
}

// Decode parses JSON produced by Encode. The tree is rebuilt through the
// same checks as the constructors, so a structurally invalid document fails
// with a *StructuralValidationError.
func Decode(data []byte) (Node, error) {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("structtext: decode: %w", err)
	}
	return fromWire(w)
}

// MaxDecodedSize bounds the JSON DecodeCompressed will inflate.
const MaxDecodedSize = 16 << 20

// ErrDecodedTooLarge is returned when compressed input inflates past
// MaxDecodedSize.
var ErrDecodedTooLarge = fmt.Errorf("structtext: decoded content exceeds %d bytes", MaxDecodedSize)

// EncodeCompressed renders a tree as JSON, gzipped and ASCII85 encoded.
func EncodeCompressed(n Node) (string, error) {
	raw, err := Encode(n)
	if err != nil {
		return "", err
	}
	var zbuf bytes.Buffer
	zw := gzip.NewWriter(&zbuf)
	if _, err := zw.Write(raw); err != nil {
		return "", fmt.Errorf("structtext: gzip: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("structtext: gzip: %w", err)
	}
	out := make([]byte, ascii85.MaxEncodedLen(zbuf.Len()))
	n85 := ascii85.Encode(out, zbuf.Bytes())
	return string(out[:n85]), nil
}

// DecodeCompressed reverses EncodeCompressed. Surrounding whitespace is
// ignored. Input that inflates past MaxDecodedSize fails with
// ErrDecodedTooLarge before it is parsed.
func DecodeCompressed(s string) (Node, error) {
	dec := ascii85.NewDecoder(strings.NewReader(strings.TrimSpace(s)))
	zr, err := gzip.NewReader(dec)
	if err != nil {
		return nil, fmt.Errorf("structtext: gunzip: %w", err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(io.LimitReader(zr, MaxDecodedSize+1))
	if err != nil {
		return nil, fmt.Errorf("structtext: gunzip: %w", err)
	}
	if len(raw) > MaxDecodedSize {
		return nil, ErrDecodedTooLarge
	}
	return Decode(raw)
}
