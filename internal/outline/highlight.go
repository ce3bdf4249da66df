package outline

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Line is one line of a code block split into colored tokens.
type Line struct {
	Tokens []Token
}

// Token is a run of text sharing one color.
type Token struct {
	Text  string
	Color string // hex color, empty for default
}

// Plain returns the line without colors.
func (l Line) Plain() string {
	var b strings.Builder
	for _, t := range l.Tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// HighlightCode tokenizes code written in language. Unknown languages come
// back as single-token plain lines. The result has one Line per input line.
func HighlightCode(language, code string) []Line {
	lines := strings.Split(code, "\n")
	lexer := lexerFor(language)
	if lexer == nil {
		return plainLines(lines)
	}
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return plainLines(lines)
	}

	style := styles.Get("dracula")
	if style == nil {
		style = styles.Fallback
	}

	out := make([]Line, 0, len(lines))
	var cur Line
	for _, tok := range iterator.Tokens() {
		for i, part := range strings.Split(tok.Value, "\n") {
			if i > 0 {
				out = append(out, cur)
				cur = Line{}
			}
			if part != "" {
				cur.Tokens = append(cur.Tokens, Token{Text: part, Color: tokenColor(style, tok.Type)})
			}
		}
	}
	out = append(out, cur)

	// Lexers may append a trailing newline token.
	if len(out) > len(lines) {
		out = out[:len(lines)]
	}
	for len(out) < len(lines) {
		out = append(out, Line{})
	}
	return out
}

func plainLines(lines []string) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = Line{Tokens: []Token{{Text: l}}}
	}
	return out
}

func lexerFor(language string) chroma.Lexer {
	language = strings.TrimSpace(language)
	if language == "" {
		return nil
	}
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Match("file." + language)
	}
	if lexer == nil {
		return nil
	}
	return chroma.Coalesce(lexer)
}

func tokenColor(style *chroma.Style, tt chroma.TokenType) string {
	entry := style.Get(tt)
	if entry.Colour.IsSet() {
		return entry.Colour.String()
	}
	return ""
}
