package structtext

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func helloDoc() Node {
	return Must(NewDocument(Must(NewParagraph(NewText("hello")))))
}

// nested wraps a text node in depth-1 blockquotes under a document, giving a
// tree whose deepest node sits at the requested depth.
func nested(depth int, text string) Node {
	var n Node = NewText(text)
	for i := 0; i < depth-1; i++ {
		n = Must(NewBlockquote(n))
	}
	return Must(NewDocument(n))
}

func TestValidateDefaults(t *testing.T) {
	v := NewValidator(DefaultValidatorOptions())
	rep, err := v.Validate(helloDoc())
	require.NoError(t, err)
	assert.Equal(t, 5, rep.TotalTextLength)
	assert.Equal(t, 2, rep.MaxDepth)
	assert.Equal(t, 3, rep.Nodes)
}

func TestValidateEmpty(t *testing.T) {
	v := NewValidator(DefaultValidatorOptions())

	_, err := v.Validate(nil)
	require.ErrorIs(t, err, ErrEmpty)
	assert.Contains(t, err.Error(), "root is null")

	_, err = v.Validate(Must(NewDocument()))
	require.ErrorIs(t, err, ErrEmpty)
	assert.Contains(t, err.Error(), "content is empty")
}

func TestValidateRootNotDocument(t *testing.T) {
	v := NewValidator(DefaultValidatorOptions())
	_, err := v.Validate(Must(NewParagraph(NewText("x"))))
	require.ErrorIs(t, err, ErrRootNotDocument)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, CodeRootNotDocument, ve.Code)
	assert.Equal(t, KindParagraph, ve.Kind)

	opts := DefaultValidatorOptions()
	opts.RequireDocumentRoot = false
	_, err = NewValidator(opts).Validate(Must(NewParagraph(NewText("x"))))
	assert.NoError(t, err)
}

func TestValidateTooDeepReportsFirstExceedingDepth(t *testing.T) {
	opts := DefaultValidatorOptions()
	opts.MaxDepth = 3
	v := NewValidator(opts)

	_, err := v.Validate(nested(3, "ok"))
	require.NoError(t, err)

	_, err = v.Validate(nested(10, "deep"))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, CodeTooDeep, ve.Code)
	assert.Equal(t, 4, ve.Depth)
	assert.Equal(t, 3, ve.Limit)
}

func TestValidateDepthWinsOverTotalLength(t *testing.T) {
	opts := DefaultValidatorOptions()
	opts.MaxDepth = 2
	opts.MaxTotalTextLength = 3
	_, err := NewValidator(opts).Validate(nested(5, "far too long"))
	assert.ErrorIs(t, err, ErrTooDeep)
	assert.False(t, errors.Is(err, ErrTooLong))
}

func TestValidateHandlesDeepTreesWithoutRecursion(t *testing.T) {
	opts := DefaultValidatorOptions()
	opts.MaxDepth = 100000
	rep, err := NewValidator(opts).Validate(nested(50000, "x"))
	require.NoError(t, err)
	assert.Equal(t, 50000, rep.MaxDepth)
}

func TestValidateNodeTooLong(t *testing.T) {
	opts := DefaultValidatorOptions()
	opts.MaxTextNodeLength = 4
	_, err := NewValidator(opts).Validate(helloDoc())

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, CodeNodeTooLong, ve.Code)
	assert.Equal(t, 5, ve.Length)
}

func TestValidateTotalBounds(t *testing.T) {
	opts := DefaultValidatorOptions()
	opts.MinTotalTextLength = 6
	_, err := NewValidator(opts).Validate(helloDoc())
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, CodeTooShort, ve.Code)
	assert.Equal(t, 5, ve.Total)
	assert.Equal(t, 6, ve.Limit)

	opts = DefaultValidatorOptions()
	opts.MaxTotalTextLength = 10
	doc := Must(NewDocument(
		Must(NewParagraph(NewText(strings.Repeat("a", 6)))),
		Must(NewParagraph(NewText(strings.Repeat("b", 6)))),
	))
	_, err = NewValidator(opts).Validate(doc)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, CodeTooLong, ve.Code)
	assert.Equal(t, 12, ve.Total)
}

func TestValidateCountsCharactersNotBytes(t *testing.T) {
	doc := Must(NewDocument(Must(NewParagraph(NewText("héllo")))))
	rep, err := NewValidator(DefaultValidatorOptions()).Validate(doc)
	require.NoError(t, err)
	assert.Equal(t, 5, rep.TotalTextLength)
}

func TestValidationErrorIsDistinct(t *testing.T) {
	all := []error{ErrEmpty, ErrRootNotDocument, ErrTooDeep, ErrNodeTooLong, ErrTooShort, ErrTooLong}
	for code, sentinel := range sentinelByCode {
		err := &ValidationError{Code: code}
		for _, other := range all {
			assert.Equal(t, other == sentinel, errors.Is(err, other), "%s vs %v", code, other)
		}
	}
}
