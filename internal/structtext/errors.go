package structtext

import (
	"errors"
	"fmt"
)

// StructuralValidationError reports a child whose kind the parent does not
// accept. Child is empty when the offending child was nil.
type StructuralValidationError struct {
	Parent Kind
	Index  int
	Child  Kind
}

func (e *StructuralValidationError) Error() string {
	if e.Child == "" {
		return fmt.Sprintf("structtext: %s child %d is nil", e.Parent, e.Index)
	}
	return fmt.Sprintf("structtext: %s may not contain %s (child %d)", e.Parent, e.Child, e.Index)
}

// InvalidColorError reports a color value outside the accepted palette.
type InvalidColorError struct {
	Value string
}

func (e *InvalidColorError) Error() string {
	return fmt.Sprintf("structtext: invalid color %q", e.Value)
}

// InvalidAttributeError reports an out-of-range attribute other than color.
type InvalidAttributeError struct {
	Kind      Kind
	Attribute string
	Value     any
}

func (e *InvalidAttributeError) Error() string {
	return fmt.Sprintf("structtext: invalid %s %s %v", e.Kind, e.Attribute, e.Value)
}

// ValidationCode distinguishes the document-level validation failures.
type ValidationCode string

const (
	CodeEmpty           ValidationCode = "empty"
	CodeRootNotDocument ValidationCode = "root_not_document"
	CodeTooDeep         ValidationCode = "too_deep"
	CodeNodeTooLong     ValidationCode = "node_too_long"
	CodeTooShort        ValidationCode = "too_short"
	CodeTooLong         ValidationCode = "too_long"
)

// Sentinels for errors.Is matching against a *ValidationError.
var (
	ErrEmpty           = errors.New("structtext: empty")
	ErrRootNotDocument = errors.New("structtext: root is not a document")
	ErrTooDeep         = errors.New("structtext: too deep")
	ErrNodeTooLong     = errors.New("structtext: node too long")
	ErrTooShort        = errors.New("structtext: too short")
	ErrTooLong         = errors.New("structtext: too long")
)

var sentinelByCode = map[ValidationCode]error{
	CodeEmpty:           ErrEmpty,
	CodeRootNotDocument: ErrRootNotDocument,
	CodeTooDeep:         ErrTooDeep,
	CodeNodeTooLong:     ErrNodeTooLong,
	CodeTooShort:        ErrTooShort,
	CodeTooLong:         ErrTooLong,
}

// ValidationError is returned by Validator.Validate. Only the fields relevant
// to Code are set.
type ValidationError struct {
	Code   ValidationCode
	Reason string // CodeEmpty
	Kind   Kind   // CodeRootNotDocument
	Depth  int    // CodeTooDeep
	Length int    // CodeNodeTooLong
	Total  int    // CodeTooShort, CodeTooLong
	Limit  int
}

func (e *ValidationError) Error() string {
	switch e.Code {
	case CodeEmpty:
		return "structtext: " + e.Reason
	case CodeRootNotDocument:
		return fmt.Sprintf("structtext: root is %s, want document", e.Kind)
	case CodeTooDeep:
		return fmt.Sprintf("structtext: depth %d exceeds maximum %d", e.Depth, e.Limit)
	case CodeNodeTooLong:
		return fmt.Sprintf("structtext: text node length %d exceeds maximum %d", e.Length, e.Limit)
	case CodeTooShort:
		return fmt.Sprintf("structtext: total text length %d below minimum %d", e.Total, e.Limit)
	case CodeTooLong:
		return fmt.Sprintf("structtext: total text length %d exceeds maximum %d", e.Total, e.Limit)
	default:
		return "structtext: validation failed"
	}
}

// Is lets errors.Is(err, ErrTooDeep) and friends match by code.
func (e *ValidationError) Is(target error) bool {
	return sentinelByCode[e.Code] == target
}
