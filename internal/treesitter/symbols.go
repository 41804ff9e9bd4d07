// Package treesitter provides tree-sitter based adapters that locate the
// syntactic construct enclosing a line range. Each language adapter satisfies
// Adapter so callers can pick one per file and treat them uniformly.
package treesitter

import "fmt"

// ContextType classifies an enclosing context.
type ContextType string

const (
	TypeFunction      ContextType = "function"
	TypeClass         ContextType = "class"
	TypeAsyncFunction ContextType = "async_function"
	TypeUnknown       ContextType = "unknown"
)

// AnonymousName is reported for nodes that carry no name.
const AnonymousName = "anonymous"

// EnclosingContext is the node span found around a requested line range.
type EnclosingContext struct {
	StartLine int         `json:"startLine"` // 1-indexed
	EndLine   int         `json:"endLine"`   // 1-indexed, inclusive
	Type      ContextType `json:"type"`
	Name      string      `json:"name"`
}

func (c EnclosingContext) String() string {
	return fmt.Sprintf("%s %s (lines %d-%d)", c.Type, c.Name, c.StartLine, c.EndLine)
}

// ValidationResult reports whether a file parsed cleanly.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error"`
}

// Adapter is the capability every language adapter exposes to the caller.
// Neither method returns an error: failures collapse into a nil context or
// an invalid ValidationResult.
type Adapter interface {
	FindEnclosingContext(file string, lineStart, lineEnd int) *EnclosingContext
	DryRun(file string) ValidationResult
}

// Node is a typed syntax node built once per parse. A node whose StartLine
// or EndLine is zero carries no location and is never searched.
type Node struct {
	Type      string // grammar tag, e.g. "function_definition"
	Name      string
	StartLine int // 1-indexed
	EndLine   int // 1-indexed
	Children  []*Node
}

// Located reports whether the node has a usable line span.
func (n *Node) Located() bool {
	return n.StartLine > 0 && n.EndLine > 0
}

// Contains reports whether the node span covers [lineStart, lineEnd].
func (n *Node) Contains(lineStart, lineEnd int) bool {
	return n.StartLine <= lineStart && n.EndLine >= lineEnd
}

// Tree is a parsed file. The file root has no span of its own; Body holds
// its top-level nodes in source order.
type Tree struct {
	Language string
	Body     []*Node
}
