package structtext

import (
	"math"
	"unicode/utf8"
)

// ValidatorOptions bounds the size and shape of a document. Use
// DefaultValidatorOptions and override fields as needed.
type ValidatorOptions struct {
	MinTotalTextLength int
	MaxTotalTextLength int
	MaxDepth           int
	// MaxTextNodeLength bounds a single node's content. Zero or less means
	// unbounded.
	MaxTextNodeLength   int
	RequireDocumentRoot bool
}

// DefaultValidatorOptions returns the stock limits.
func DefaultValidatorOptions() ValidatorOptions {
	return ValidatorOptions{
		MinTotalTextLength:  0,
		MaxTotalTextLength:  100000,
		MaxDepth:            40,
		MaxTextNodeLength:   0,
		RequireDocumentRoot: true,
	}
}

// Validator enforces document-wide size and shape policy. It is stateless
// and safe for concurrent use.
type Validator struct {
	opts ValidatorOptions
}

func NewValidator(opts ValidatorOptions) *Validator {
	return &Validator{opts: opts}
}

// Options returns the validator's limits.
func (v *Validator) Options() ValidatorOptions { return v.opts }

// Report summarizes a successful validation.
type Report struct {
	TotalTextLength int `json:"total_text_length"`
	MaxDepth        int `json:"max_depth"`
	Nodes           int `json:"nodes"`
}

// Validate checks root against the configured limits. Depth and per-node
// length violations fail on the first node that breaks them; the total
// length bounds are only checked once the whole tree has been visited.
func (v *Validator) Validate(root Node) (Report, error) {
	var rep Report
	if root == nil {
		return rep, &ValidationError{Code: CodeEmpty, Reason: "root is null"}
	}
	if len(root.Children()) == 0 && root.Content() == "" {
		return rep, &ValidationError{Code: CodeEmpty, Reason: "content is empty"}
	}
	if v.opts.RequireDocumentRoot && root.Kind() != KindDocument {
		return rep, &ValidationError{Code: CodeRootNotDocument, Kind: root.Kind()}
	}

	nodeLimit := v.opts.MaxTextNodeLength
	if nodeLimit <= 0 {
		nodeLimit = math.MaxInt
	}

	type frame struct {
		node  Node
		depth int
	}
	stack := []frame{{root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		rep.Nodes++

		if f.depth > v.opts.MaxDepth {
			return rep, &ValidationError{Code: CodeTooDeep, Depth: f.depth, Limit: v.opts.MaxDepth}
		}
		if f.depth > rep.MaxDepth {
			rep.MaxDepth = f.depth
		}

		if c := f.node.Content(); c != "" {
			n := utf8.RuneCountInString(c)
			if n > nodeLimit {
				return rep, &ValidationError{Code: CodeNodeTooLong, Length: n, Limit: v.opts.MaxTextNodeLength}
			}
			rep.TotalTextLength += n
		}

		for _, c := range f.node.Children() {
			if c != nil {
				stack = append(stack, frame{c, f.depth + 1})
			}
		}
	}

	if rep.TotalTextLength < v.opts.MinTotalTextLength {
		return rep, &ValidationError{Code: CodeTooShort, Total: rep.TotalTextLength, Limit: v.opts.MinTotalTextLength}
	}
	if rep.TotalTextLength > v.opts.MaxTotalTextLength {
		return rep, &ValidationError{Code: CodeTooLong, Total: rep.TotalTextLength, Limit: v.opts.MaxTotalTextLength}
	}
	return rep, nil
}
