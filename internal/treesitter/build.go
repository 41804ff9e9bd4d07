package treesitter

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// grammar describes how one tree-sitter language maps onto Node.
type grammar struct {
	name     string
	language func() *sitter.Language

	// kinds maps grammar tags to the reported context type.
	kinds map[string]ContextType
	// inline lists wrapper nodes whose children are lifted into the parent.
	inline map[string]bool
	// unlocated lists nodes kept without a span; the search never enters them.
	unlocated map[string]bool
	// skip lists nodes dropped from the tree entirely.
	skip map[string]bool
	// reject lists nodes the grammar parses but the language does not
	// accept; a tree holding one is a syntax error.
	reject map[string]bool

	// convert overrides construction for a node. It returns false to fall
	// back to the default rules.
	convert func(b *builder, n *sitter.Node) ([]*Node, bool)
	// tag rewrites the grammar tag of a node, e.g. to mark async functions.
	tag func(n *sitter.Node) string
	// nameOf extracts a node's name, "" when it has none.
	nameOf func(n *sitter.Node, src []byte) string
}

func (g *grammar) classify(n *Node) ContextType {
	if t, ok := g.kinds[n.Type]; ok {
		return t
	}
	return TypeUnknown
}

// builder converts a tree-sitter tree into Nodes.
type builder struct {
	g   *grammar
	src []byte
}

// nodes converts n into zero or more Nodes: skipped nodes vanish and
// inlined wrappers are replaced by their children.
func (b *builder) nodes(n *sitter.Node) []*Node {
	if n == nil || !n.IsNamed() || b.g.skip[n.Type()] {
		return nil
	}
	if b.g.convert != nil {
		if out, ok := b.g.convert(b, n); ok {
			return out
		}
	}
	if b.g.inline[n.Type()] {
		return b.children(n)
	}
	return []*Node{b.node(n)}
}

// node converts n itself, ignoring inline and convert rules.
func (b *builder) node(n *sitter.Node) *Node {
	out := &Node{Type: n.Type(), Children: b.children(n)}
	if b.g.tag != nil {
		out.Type = b.g.tag(n)
	}
	if !b.g.unlocated[n.Type()] {
		out.StartLine = line(n)
		out.EndLine = b.endLine(n)
	}
	if b.g.nameOf != nil {
		out.Name = b.g.nameOf(n, b.src)
	}
	return out
}

// endLine is the last line of n's final child that survives into the tree,
// so trailing comments tree-sitter attaches to a block do not stretch the
// span of the definition holding it.
func (b *builder) endLine(n *sitter.Node) int {
	for i := int(n.ChildCount()) - 1; i >= 0; i-- {
		c := n.Child(i)
		if c.IsNamed() && b.g.skip[c.Type()] {
			continue
		}
		if c.ChildCount() == 0 {
			return endLine(c)
		}
		return b.endLine(c)
	}
	return endLine(n)
}

func (b *builder) children(n *sitter.Node) []*Node {
	var out []*Node
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		out = append(out, b.nodes(n.NamedChild(i))...)
	}
	return out
}

// syntaxError locates the first ERROR or MISSING node under root.
func syntaxError(root *sitter.Node) *SyntaxError {
	n := firstError(root)
	if n == nil {
		n = root
	}
	pt := n.StartPoint()
	se := &SyntaxError{Line: int(pt.Row) + 1, Column: int(pt.Column) + 1}
	if n.IsMissing() {
		se.Missing = n.Type()
	}
	return se
}

// rejected locates the first node of a type the grammar rejects, nil when
// the tree holds none.
func (g *grammar) rejected(root *sitter.Node) *SyntaxError {
	if len(g.reject) == 0 {
		return nil
	}
	n := firstOf(root, g.reject)
	if n == nil {
		return nil
	}
	pt := n.StartPoint()
	return &SyntaxError{Line: int(pt.Row) + 1, Column: int(pt.Column) + 1, Rejected: n.Type()}
}

func firstOf(n *sitter.Node, types map[string]bool) *sitter.Node {
	if types[n.Type()] {
		return n
	}
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		if found := firstOf(n.NamedChild(i), types); found != nil {
			return found
		}
	}
	return nil
}

func firstError(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		if found := firstError(n.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

// helpers

func content(node *sitter.Node, src []byte) string {
	return node.Content(src)
}

func fieldContent(node *sitter.Node, field string, src []byte) string {
	if c := node.ChildByFieldName(field); c != nil {
		return content(c, src)
	}
	return ""
}

func line(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1 // 1-indexed
}

// endLine is the 1-indexed last line holding part of node. A node that ends
// at column 0 of a later row stops on the row before.
func endLine(node *sitter.Node) int {
	start, end := node.StartPoint(), node.EndPoint()
	if end.Column == 0 && end.Row > start.Row {
		return int(end.Row)
	}
	return int(end.Row) + 1
}
