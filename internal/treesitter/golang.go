package treesitter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// NewGoParser returns the adapter for Go source. Functions, methods and
// function literals report as functions; struct and interface type specs
// report as classes. Methods are named Receiver.Method.
func NewGoParser(opts ...Option) *Parser {
	return newParser(goGrammar, opts...)
}

var goGrammar = &grammar{
	name:     "go",
	language: golang.GetLanguage,
	kinds: map[string]ContextType{
		"function_declaration": TypeFunction,
		"method_declaration":   TypeFunction,
		"func_literal":         TypeFunction,
		"type_spec":            TypeClass,
	},
	inline: map[string]bool{
		"type_declaration":         true,
		"block":                    true,
		"statement_list":           true,
		"argument_list":            true,
		"parenthesized_expression": true,
	},
	skip: map[string]bool{
		"comment": true,
	},
	tag:    tagGo,
	nameOf: nameGo,
}

// tagGo keeps type_spec only for struct and interface types.
func tagGo(n *sitter.Node) string {
	if n.Type() != "type_spec" {
		return n.Type()
	}
	if t := n.ChildByFieldName("type"); t != nil {
		switch t.Type() {
		case "struct_type", "interface_type":
			return n.Type()
		}
	}
	return "named_type"
}

func nameGo(n *sitter.Node, src []byte) string {
	switch n.Type() {
	case "function_declaration", "type_spec", "type_alias":
		return fieldContent(n, "name", src)
	case "method_declaration":
		name := fieldContent(n, "name", src)
		if recv := n.ChildByFieldName("receiver"); recv != nil {
			if t := receiverType(recv, src); t != "" {
				return t + "." + name
			}
		}
		return name
	}
	return ""
}

// receiverType returns the bare receiver type name: "*Server[T]" -> "Server".
func receiverType(receiver *sitter.Node, src []byte) string {
	count := int(receiver.NamedChildCount())
	for i := 0; i < count; i++ {
		child := receiver.NamedChild(i)
		if child.Type() != "parameter_declaration" {
			continue
		}
		typ := fieldContent(child, "type", src)
		typ = strings.TrimLeft(typ, "*")
		if idx := strings.IndexByte(typ, '['); idx >= 0 {
			typ = typ[:idx]
		}
		return strings.TrimSpace(typ)
	}
	return ""
}
