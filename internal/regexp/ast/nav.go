package ast

// Link sets parent pointers for every node below root. The parser calls it
// once after building a tree.
func Link(root Node) {
	for _, c := range root.Children() {
		c.base().parent = root
		Link(c)
	}
}

// Walk visits n and its descendants in pre-order. Children of a node are
// skipped when fn returns false for it.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// Root returns the top-most ancestor of n.
func Root(n Node) Node {
	for n.Parent() != nil {
		n = n.Parent()
	}
	return n
}

// IsAncestor reports whether ancestor encloses n. With strict set, a node is
// not its own ancestor.
func IsAncestor(ancestor, n Node, strict bool) bool {
	if ancestor == nil || n == nil {
		return false
	}
	if strict {
		n = n.Parent()
	}
	for ; n != nil; n = n.Parent() {
		if n == ancestor {
			return true
		}
	}
	return false
}

// PrevSibling returns the node before n under the same parent, or nil.
func PrevSibling(n Node) Node {
	siblings, i := position(n)
	if i <= 0 {
		return nil
	}
	return siblings[i-1]
}

// NextSibling returns the node after n under the same parent, or nil.
func NextSibling(n Node) Node {
	siblings, i := position(n)
	if i < 0 || i+1 >= len(siblings) {
		return nil
	}
	return siblings[i+1]
}

func position(n Node) ([]Node, int) {
	p := n.Parent()
	if p == nil {
		return nil, -1
	}
	siblings := p.Children()
	for i, s := range siblings {
		if s == n {
			return siblings, i
		}
	}
	return nil, -1
}

// CapturingGroups lists the capturing groups under root in the order their
// opening parentheses appear, which is their numbering order.
func CapturingGroups(root Node) []*Group {
	var groups []*Group
	Walk(root, func(n Node) bool {
		if g, ok := n.(*Group); ok && g.IsCapturing() {
			groups = append(groups, g)
		}
		return true
	})
	return groups
}

// ResolveBackref returns the group a numeric back reference points to, or
// nil.
func ResolveBackref(b *Backref) *Group {
	groups := CapturingGroups(Root(b))
	if b.Index < 1 || b.Index > len(groups) {
		return nil
	}
	return groups[b.Index-1]
}

// ResolveNamedGroupRef returns the first group declaring the referenced
// name, or nil.
func ResolveNamedGroupRef(r *NamedGroupRef) *Group {
	return FindNamedGroup(Root(r), r.Name)
}

// FindNamedGroup returns the first group under root declaring name.
func FindNamedGroup(root Node, name string) *Group {
	if name == "" {
		return nil
	}
	var found *Group
	Walk(root, func(n Node) bool {
		if found != nil {
			return false
		}
		if g, ok := n.(*Group); ok && g.IsAnyNamed() && g.Name == name {
			found = g
			return false
		}
		return true
	})
	return found
}
