package widget

// Walk rebuilds tree depth-first. visit is called on every node before its
// children (pre-order) and may return a replacement; the children of the
// returned node are then walked and re-attached when it is a Container.
// Nil nodes are preserved as nil.
func Walk(tree Widget, visit func(Widget) Widget) Widget {
	if tree == nil {
		return nil
	}
	node := tree
	if visit != nil {
		if replaced := visit(node); replaced != nil {
			node = replaced
		}
	}

	container, ok := node.(Container)
	if !ok {
		return node
	}
	children := node.Children()
	if len(children) == 0 {
		return node
	}
	walked := make([]Widget, len(children))
	for idx, child := range children {
		walked[idx] = Walk(child, visit)
	}
	return container.WithChildren(walked)
}

// Inspect visits every node pre-order without rebuilding the tree. Returning
// false from fn skips the node's children.
func Inspect(tree Widget, fn func(Widget) bool) {
	if tree == nil || fn == nil {
		return
	}
	if !fn(tree) {
		return
	}
	for _, child := range tree.Children() {
		Inspect(child, fn)
	}
}

// Fields returns every Field in the tree, in traversal order.
func Fields(tree Widget) []Field {
	var out []Field
	Inspect(tree, func(w Widget) bool {
		if field, ok := w.(Field); ok {
			out = append(out, field)
		}
		return true
	})
	return out
}

// Find returns the first field named name.
func Find(tree Widget, name string) (Field, bool) {
	var found Field
	Inspect(tree, func(w Widget) bool {
		if found != nil {
			return false
		}
		if field, ok := w.(Field); ok && field.FieldName() == name {
			found = field
			return false
		}
		return true
	})
	return found, found != nil
}
