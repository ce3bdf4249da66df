package structtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlattenJoinsAcrossFormattingMarks(t *testing.T) {
	doc := Must(NewDocument(
		Must(NewParagraph(Must(NewBold(NewText("im"))), NewText("portant"))),
	))
	got := Flatten(doc)
	assert.Equal(t, []string{"important"}, got.Texts)
	assert.Empty(t, got.Links)
}

func TestFlattenNestedMarks(t *testing.T) {
	para := Must(NewParagraph(
		NewText("un"),
		Must(NewItalic(Must(NewUnderline(NewText("be"))))),
		Must(NewHighlight("pink", Must(NewStrikethrough(NewText("liev"))))),
		NewText("able "),
		NewInlineCode("code"),
	))
	assert.Equal(t, []string{"unbelievable code"}, Flatten(Must(NewDocument(para))).Texts)
}

func TestFlattenTableYieldsOneSegmentPerCell(t *testing.T) {
	row := func(a, b string) Node {
		return Must(NewTableRow(
			Must(NewTableCell(false, NewText(a))),
			Must(NewTableCell(false, NewText(b))),
		))
	}
	doc := Must(NewDocument(Must(NewTable(row("a1", "b1"), row("a2", "b2")))))
	assert.Equal(t, []string{"a1", "b1", "a2", "b2"}, Flatten(doc).Texts)
}

func TestFlattenListItemsAreSegments(t *testing.T) {
	doc := Must(NewDocument(
		Must(NewHeading(1, NewText("Title"))),
		Must(NewList(true,
			Must(NewListItem(NewText("one"))),
			Must(NewListItem(NewText("two"))),
		)),
		Must(NewBlockquote(NewText("quoted"))),
	))
	assert.Equal(t, []string{"Title", "one", "two", "quoted"}, Flatten(doc).Texts)
}

func TestFlattenLinks(t *testing.T) {
	doc := Must(NewDocument(
		Must(NewParagraph(
			NewText("see "),
			Must(NewLink("https://a.example/1", "ignored title", NewText("here"))),
			NewText(" and "),
			Must(NewLink("https://b.example/2", "titled")),
			NewText(" or "),
			Must(NewLink("https://a.example/1", "")),
		)),
	))
	got := Flatten(doc)
	assert.Equal(t, []string{"see here and titled or "}, got.Texts)
	assert.Equal(t, []string{"https://a.example/1", "https://b.example/2", "https://a.example/1"}, got.Links)
}

func TestFlattenRecordsEmptyHref(t *testing.T) {
	doc := Must(NewDocument(Must(NewParagraph(
		Must(NewLink("", "", NewText("nowhere"))),
		Must(NewLink("https://a.example", "", NewText(" there"))),
	))))
	got := Flatten(doc)
	assert.Equal(t, []string{"nowhere there"}, got.Texts)
	assert.Equal(t, []string{"", "https://a.example"}, got.Links)
}

func TestFlattenDropsImagesAndEmptySegments(t *testing.T) {
	doc := Must(NewDocument(
		Must(NewParagraph(NewImage("cat.png", "a cat"))),
		Must(NewParagraph()),
		NewHorizontalRule(),
		Must(NewParagraph(NewText("after"))),
	))
	assert.Equal(t, []string{"after"}, Flatten(doc).Texts)
}

func TestFlattenBlockWithoutChildrenUsesOwnContent(t *testing.T) {
	p := &Paragraph{base{content: "raw paragraph"}}
	doc := Must(NewDocument(p))
	assert.Equal(t, []string{"raw paragraph"}, Flatten(doc).Texts)
}

func TestFlattenMentionsAndFallback(t *testing.T) {
	doc := Must(NewDocument(
		Must(NewParagraph(NewText("hi "), NewMention("u1", "@ann"), NewMention("u2", ""))),
		NewText("loose text"),
	))
	assert.Equal(t, []string{"hi @ann", "loose text"}, Flatten(doc).Texts)
}

func TestFlattenText(t *testing.T) {
	f := Flattened{Texts: []string{"a", "b"}}
	assert.Equal(t, "a\nb", f.Text())
	assert.Equal(t, Flattened{}, Flatten(nil))
}
