package treesitter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// NewPythonParser returns the adapter for Python source.
//
// The tree it searches follows the shape of Python's own ast module:
// definitions start at the def/class line with decorators listed after the
// body, wrapper nodes such as block and argument_list are flattened, and the
// nodes ast leaves without a location (arguments, comprehension clauses,
// with items, match cases) are kept span-less.
func NewPythonParser(opts ...Option) *Parser {
	return newParser(pythonGrammar, opts...)
}

var pythonGrammar = &grammar{
	name:     "python",
	language: python.GetLanguage,
	kinds: map[string]ContextType{
		"function_definition":       TypeFunction,
		"async_function_definition": TypeAsyncFunction,
		"class_definition":          TypeClass,
	},
	inline: map[string]bool{
		"block":                    true,
		"decorator":                true,
		"argument_list":            true,
		"parenthesized_expression": true,
		"with_clause":              true,
	},
	unlocated: map[string]bool{
		"parameters":        true,
		"lambda_parameters": true,
		"for_in_clause":     true,
		"if_clause":         true,
		"with_item":         true,
		"case_clause":       true,
	},
	skip: map[string]bool{
		"comment":           true,
		"line_continuation": true,
	},
	// Python 2 statements the grammar still parses.
	reject: map[string]bool{
		"print_statement": true,
		"exec_statement":  true,
	},
	convert: convertPython,
	tag:     tagPython,
	nameOf:  namePython,
}

// convertPython folds decorated_definition into its definition, moving the
// decorators after the body.
func convertPython(b *builder, n *sitter.Node) ([]*Node, bool) {
	if n.Type() != "decorated_definition" {
		return nil, false
	}
	def := n.ChildByFieldName("definition")
	if def == nil {
		return nil, false
	}
	out := b.node(def)
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		if c := n.NamedChild(i); c.Type() == "decorator" {
			out.Children = append(out.Children, b.nodes(c)...)
		}
	}
	return []*Node{out}, true
}

func tagPython(n *sitter.Node) string {
	if n.Type() == "function_definition" && n.ChildCount() > 0 && n.Child(0).Type() == "async" {
		return "async_function_definition"
	}
	return n.Type()
}

func namePython(n *sitter.Node, src []byte) string {
	switch n.Type() {
	case "function_definition", "class_definition":
		return fieldContent(n, "name", src)
	case "except_clause":
		return exceptAlias(n, src)
	}
	return ""
}

// exceptAlias returns the name bound by "except E as name". Older grammars
// emit the "as" keyword followed by an identifier; newer ones wrap both in
// an as_pattern.
func exceptAlias(n *sitter.Node, src []byte) string {
	seenAs := false
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(i)
		switch {
		case c.Type() == "as":
			seenAs = true
		case seenAs && c.Type() == "identifier":
			return content(c, src)
		case c.Type() == "as_pattern":
			if alias := c.ChildByFieldName("alias"); alias != nil {
				return strings.TrimSpace(content(alias, src))
			}
		}
	}
	return ""
}
