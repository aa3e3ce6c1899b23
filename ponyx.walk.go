package ponyx

// Visitor is called for each node. Returning false skips the children.
type Visitor func(n Node) bool

// Walk visits n and its descendants depth-first in source order
func Walk(n Node, visit Visitor) {
	if n == nil || !visit(n) {
		return
	}
	for _, child := range Children(n) {
		Walk(child, visit)
	}
}

// Inspect walks every top-level node of root
func Inspect(root *RootNode, visit Visitor) {
	if root == nil {
		return
	}
	for _, n := range root.Children {
		Walk(n, visit)
	}
}

// Children returns the direct children of n, across all branches of a block
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Tag:
		return n.Children
	case *IfBlock:
		var out []Node
		for _, b := range n.Branches {
			out = append(out, b.Children...)
		}
		return out
	case *ForBlock:
		out := append([]Node(nil), n.Children...)
		return append(out, n.Empty...)
	case *AwaitBlock:
		var out []Node
		for _, b := range n.Branches {
			out = append(out, b.Children...)
		}
		return out
	case *KeyBlock:
		return n.Children
	}
	return nil
}

// CountNodes returns the number of nodes under root
func CountNodes(root *RootNode) int {
	count := 0
	Inspect(root, func(Node) bool {
		count++
		return true
	})
	return count
}

// ExprVisitor is called for each expression. Returning false skips the
// sub-expressions.
type ExprVisitor func(e Expr) bool

// WalkExpr visits e and its sub-expressions depth-first. Placeholders are
// skipped.
func WalkExpr(e Expr, visit ExprVisitor) {
	if e == nil || !visit(e) {
		return
	}
	for _, sub := range SubExprs(e) {
		WalkExpr(sub, visit)
	}
}

// SubExprs returns the direct sub-expressions of e that are present
func SubExprs(e Expr) []Expr {
	switch e := e.(type) {
	case *UnaryOp:
		return []Expr{e.Operand}
	case *Array:
		return e.Items
	case *Tuple:
		return e.Items
	case *Parenthesised:
		return []Expr{e.Inner}
	case *Map:
		var out []Expr
		for _, f := range e.Fields {
			out = append(out, f.Key)
			if f.Value != nil {
				if v, ok := f.Value.Get(); ok {
					out = append(out, v)
				}
			}
		}
		return out
	case *MemberAccess:
		out := []Expr{e.Receiver}
		if m, ok := e.Member.Get(); ok {
			out = append(out, m)
		}
		return out
	case *Indexing:
		out := []Expr{e.Receiver}
		if i, ok := e.Index.Get(); ok {
			out = append(out, i)
		}
		return out
	case *BinaryOp:
		out := []Expr{e.Left}
		if r, ok := e.Right.Get(); ok {
			out = append(out, r)
		}
		return out
	case *Application:
		return []Expr{e.Func, e.Arg}
	}
	return nil
}

// AttributeExprs returns the present attribute values of every tag under root
func AttributeExprs(root *RootNode) []SoloExpr {
	var out []SoloExpr
	Inspect(root, func(n Node) bool {
		if t, ok := n.(*Tag); ok {
			for _, a := range t.Attributes {
				if a.Value == nil {
					continue
				}
				if v, ok := a.Value.Get(); ok {
					out = append(out, v)
				}
			}
		}
		return true
	})
	return out
}
