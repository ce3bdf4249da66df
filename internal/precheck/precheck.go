// Package precheck gates content before publication, turning structural and
// size validation failures into stable rejection codes with user guidance.
package precheck

import (
	"errors"
	"fmt"

	"github.com/sprite-ai/ctrev/internal/structtext"
)

// Code is a stable, user-facing rejection code.
type Code string

const (
	CodeEmpty       Code = "CONTENT_EMPTY"
	CodeRootInvalid Code = "CONTENT_ROOT_INVALID"
	CodeTooDeep     Code = "CONTENT_TOO_DEEP"
	CodeNodeTooLong Code = "CONTENT_NODE_TOO_LONG"
	CodeTooShort    Code = "CONTENT_TOO_SHORT"
	CodeTooLong     Code = "CONTENT_TOO_LONG"
	CodeMalformed   Code = "CONTENT_MALFORMED"
)

// Rejection explains why content cannot be published.
type Rejection struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Err     error  `json:"-"`
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Code, r.Message)
}

func (r *Rejection) Unwrap() error { return r.Err }

// Result is a passing check.
type Result struct {
	Report structtext.Report `json:"report"`
}

// Checker validates content before it is accepted.
type Checker struct {
	validator *structtext.Validator
}

func New(opts structtext.ValidatorOptions) *Checker {
	return &Checker{validator: structtext.NewValidator(opts)}
}

// Options returns the validator limits in force.
func (c *Checker) Options() structtext.ValidatorOptions { return c.validator.Options() }

// Check validates a tree. The error, if any, is a *Rejection.
func (c *Checker) Check(root structtext.Node) (Result, error) {
	report, err := c.validator.Validate(root)
	if err != nil {
		return Result{}, c.reject(err)
	}
	return Result{Report: report}, nil
}

// CheckJSON decodes and validates an encoded tree. Undecodable or
// structurally invalid input is rejected as malformed.
func (c *Checker) CheckJSON(data []byte) (structtext.Node, Result, error) {
	root, err := structtext.Decode(data)
	if err != nil {
		return nil, Result{}, &Rejection{
			Code:    CodeMalformed,
			Message: "The content could not be read. Re-save it in the editor and try again.",
			Detail:  err.Error(),
			Err:     err,
		}
	}
	res, err := c.Check(root)
	return root, res, err
}

func (c *Checker) reject(err error) *Rejection {
	opts := c.validator.Options()
	r := &Rejection{Detail: err.Error(), Err: err}
	var ve *structtext.ValidationError
	if errors.As(err, &ve) {
		switch ve.Code {
		case structtext.CodeEmpty:
			r.Code, r.Message = CodeEmpty, "Add some content before submitting."
		case structtext.CodeRootNotDocument:
			r.Code, r.Message = CodeRootInvalid, "The content must be a complete document."
		case structtext.CodeTooDeep:
			r.Code = CodeTooDeep
			r.Message = fmt.Sprintf("The content is nested too deeply. Flatten lists and quotes to at most %d levels.", opts.MaxDepth)
		case structtext.CodeNodeTooLong:
			r.Code = CodeNodeTooLong
			r.Message = fmt.Sprintf("A single block of text is too long. Split it into pieces of at most %d characters.", ve.Limit)
		case structtext.CodeTooShort:
			r.Code = CodeTooShort
			r.Message = fmt.Sprintf("The content is too short. Write at least %d characters.", ve.Limit)
		case structtext.CodeTooLong:
			r.Code = CodeTooLong
			r.Message = fmt.Sprintf("The content is too long. Shorten it to %d characters or fewer (currently %d).", ve.Limit, ve.Total)
		}
	}
	if r.Code == "" {
		r.Code, r.Message = CodeMalformed, "The content could not be validated."
	}
	return r
}
