package treesitter

// Classifier maps a node to the context type reported for it.
type Classifier func(*Node) ContextType

// FindContext searches nodes depth-first, in order, and returns the first
// located node whose span covers [lineStart, lineEnd]. A containing node is
// reported immediately and its descendants are not examined, so the result
// is the outermost match along the traversal, not the tightest. A node
// without a location ends the search of its subtree.
func FindContext(nodes []*Node, lineStart, lineEnd int, classify Classifier) *EnclosingContext {
	for _, n := range nodes {
		if found := findContext(n, lineStart, lineEnd, classify); found != nil {
			return found
		}
	}
	return nil
}

func findContext(n *Node, lineStart, lineEnd int, classify Classifier) *EnclosingContext {
	if !n.Located() {
		return nil
	}
	if n.Contains(lineStart, lineEnd) {
		return newContext(n, classify)
	}
	return FindContext(n.Children, lineStart, lineEnd, classify)
}

// FindInnermost walks the whole tree and returns the tightest function,
// class or async function covering [lineStart, lineEnd]. Ties keep the
// first node found. When no such definition covers the range it falls back
// to FindContext.
func FindInnermost(nodes []*Node, lineStart, lineEnd int, classify Classifier) *EnclosingContext {
	var best *Node
	var walk func([]*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			if !n.Located() {
				continue
			}
			if n.Contains(lineStart, lineEnd) && typeOf(n, classify) != TypeUnknown {
				if best == nil || n.EndLine-n.StartLine < best.EndLine-best.StartLine {
					best = n
				}
			}
			walk(n.Children)
		}
	}
	walk(nodes)

	if best == nil {
		return FindContext(nodes, lineStart, lineEnd, classify)
	}
	return newContext(best, classify)
}

func newContext(n *Node, classify Classifier) *EnclosingContext {
	name := n.Name
	if name == "" {
		name = AnonymousName
	}
	return &EnclosingContext{
		StartLine: n.StartLine,
		EndLine:   n.EndLine,
		Type:      typeOf(n, classify),
		Name:      name,
	}
}

func typeOf(n *Node, classify Classifier) ContextType {
	if classify == nil {
		return TypeUnknown
	}
	return classify(n)
}
