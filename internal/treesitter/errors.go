package treesitter

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for empty or non-text file contents.
	ErrInvalidInput = errors.New("invalid input: file must be non-empty text")
	// ErrInvalidRange is returned when lineStart < 1 or lineEnd < lineStart.
	ErrInvalidRange = errors.New("invalid line range")
	// ErrFileTooLarge is returned when the file exceeds the parser's size limit.
	ErrFileTooLarge = errors.New("file too large")
	// ErrSyntax is wrapped by every *SyntaxError.
	ErrSyntax = errors.New("syntax error")
)

// SyntaxError locates the first error the grammar could not recover from
// cleanly. Missing holds the expected token when tree-sitter inserted one;
// Rejected holds the node type when the grammar accepted a construct the
// language itself does not.
type SyntaxError struct {
	Line     int // 1-indexed
	Column   int // 1-indexed
	Missing  string
	Rejected string
}

func (e *SyntaxError) Error() string {
	if e.Rejected != "" {
		return fmt.Sprintf("syntax error: unsupported %s at line %d, column %d", e.Rejected, e.Line, e.Column)
	}
	if e.Missing != "" {
		return fmt.Sprintf("syntax error: missing %q at line %d, column %d", e.Missing, e.Line, e.Column)
	}
	return fmt.Sprintf("syntax error: invalid syntax at line %d, column %d", e.Line, e.Column)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}
