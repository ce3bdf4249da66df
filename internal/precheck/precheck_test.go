package precheck

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/ctrev/internal/structtext"
)

func doc(t *testing.T, texts ...string) structtext.Node {
	t.Helper()
	var blocks []structtext.Node
	for _, s := range texts {
		blocks = append(blocks, structtext.Must(structtext.NewParagraph(structtext.NewText(s))))
	}
	return structtext.Must(structtext.NewDocument(blocks...))
}

func quoted(depth int) structtext.Node {
	var n structtext.Node = structtext.Must(structtext.NewParagraph(structtext.NewText("deep")))
	for i := 0; i < depth; i++ {
		n = structtext.Must(structtext.NewBlockquote(n))
	}
	return structtext.Must(structtext.NewDocument(n))
}

func TestCheckRejectionCodes(t *testing.T) {
	opts := structtext.ValidatorOptions{
		MinTotalTextLength:  3,
		MaxTotalTextLength:  20,
		MaxDepth:            4,
		MaxTextNodeLength:   12,
		RequireDocumentRoot: true,
	}
	c := New(opts)

	tests := []struct {
		name string
		root structtext.Node
		code Code
		want error
	}{
		{"nil root", nil, CodeEmpty, structtext.ErrEmpty},
		{"empty document", structtext.Must(structtext.NewDocument()), CodeEmpty, structtext.ErrEmpty},
		{"paragraph root", structtext.Must(structtext.NewParagraph(structtext.NewText("hello"))), CodeRootInvalid, structtext.ErrRootNotDocument},
		{"too deep", quoted(5), CodeTooDeep, structtext.ErrTooDeep},
		{"node too long", doc(t, "a very long sentence"), CodeNodeTooLong, structtext.ErrNodeTooLong},
		{"too short", doc(t, "hi"), CodeTooShort, structtext.ErrTooShort},
		{"too long", doc(t, "0123456789", "0123456789", "x"), CodeTooLong, structtext.ErrTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Check(tt.root)
			var r *Rejection
			require.ErrorAs(t, err, &r)
			assert.Equal(t, tt.code, r.Code)
			assert.NotEmpty(t, r.Message)
			assert.True(t, errors.Is(err, tt.want), "rejection should unwrap to %v", tt.want)
		})
	}
}

func TestRejectionMessagesDiffer(t *testing.T) {
	c := New(structtext.ValidatorOptions{MinTotalTextLength: 10, MaxTotalTextLength: 12, MaxDepth: 40, RequireDocumentRoot: true})

	_, short := c.Check(doc(t, "abc"))
	_, long := c.Check(doc(t, "abcdefghijklmnop"))
	require.Error(t, short)
	require.Error(t, long)
	assert.NotEqual(t, short.(*Rejection).Message, long.(*Rejection).Message)
	assert.True(t, strings.Contains(long.(*Rejection).Message, "12"))
}

func TestCheckPasses(t *testing.T) {
	c := New(structtext.DefaultValidatorOptions())
	res, err := c.Check(doc(t, "hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, res.Report.TotalTextLength)
}

func TestCheckJSON(t *testing.T) {
	c := New(structtext.DefaultValidatorOptions())

	data, err := structtext.Encode(doc(t, "hello"))
	require.NoError(t, err)
	root, res, err := c.CheckJSON(data)
	require.NoError(t, err)
	assert.Equal(t, structtext.KindDocument, root.Kind())
	assert.Equal(t, 5, res.Report.TotalTextLength)

	_, _, err = c.CheckJSON([]byte(`{"type":"list","children":[{"type":"paragraph"}]}`))
	var r *Rejection
	require.ErrorAs(t, err, &r)
	assert.Equal(t, CodeMalformed, r.Code)
	var se *structtext.StructuralValidationError
	assert.ErrorAs(t, err, &se)

	_, _, err = c.CheckJSON([]byte(`not json`))
	require.ErrorAs(t, err, &r)
	assert.Equal(t, CodeMalformed, r.Code)
}
