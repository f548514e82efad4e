package doc

import "slices"

// Item is the interface satisfied by every document tree node: groups, text
// items, pictures, tables, key-value items and forms. The set of
// implementations is closed; user code works with the concrete item types and
// the Document API, never with new Item implementations.
type Item interface {
	// GetRef returns the reference to the item's current collection slot.
	GetRef() Ref

	node() *NodeItem
}

// NodeItem holds the tree bookkeeping shared by every item: the item's own
// collection slot, its parent link, the ordered child references (document
// reading order among siblings) and the content layer.
type NodeItem struct {
	// SelfRef always reflects the item's current slot in its owning flat
	// collection.
	SelfRef Ref
	// Parent is the reference of the containing node. It is zero only for
	// the body root.
	Parent Ref
	// Children lists the item's direct children in reading order.
	Children []Ref
	// ContentLayer classifies the node for traversal filtering. An empty
	// value is treated as LayerBody.
	ContentLayer ContentLayer
}

func (n *NodeItem) node() *NodeItem { return n }

// GetRef returns the item's self reference.
func (n *NodeItem) GetRef() Ref { return n.SelfRef }

func (n *NodeItem) layer() ContentLayer {
	if n.ContentLayer == "" {
		return LayerBody
	}
	return n.ContentLayer
}

// The tree primitives below walk downward from a node along a stack of
// child indices. Parent links only point one level up, so the canonical walk
// is always performed top-down from the body using an already-known stack.

// parentRefAt returns the parent reference of the node addressed by stack,
// relative to n. An empty stack addresses n itself.
func (n *NodeItem) parentRefAt(d *Document, stack []int) (Ref, bool) {
	if len(stack) == 0 {
		return n.Parent, !n.Parent.IsZero()
	}
	if stack[0] < len(n.Children) {
		child, err := n.Children[stack[0]].Resolve(d)
		if err != nil {
			return Ref{}, false
		}
		return child.node().parentRefAt(d, stack[1:])
	}
	return Ref{}, false
}

// addChildAt appends newRef to the children of the node addressed by stack
// and points the new item's parent link back at that node.
func (n *NodeItem) addChildAt(d *Document, stack []int, newRef Ref) bool {
	if len(stack) == 0 {
		newItem, err := newRef.Resolve(d)
		if err != nil {
			return false
		}
		newItem.node().Parent = n.SelfRef
		n.Children = append(n.Children, newRef)
		return true
	}
	if stack[0] < len(n.Children) {
		child, err := n.Children[stack[0]].Resolve(d)
		if err != nil {
			return false
		}
		return child.node().addChildAt(d, stack[1:], newRef)
	}
	return false
}

// addSiblingAt splices newRef into the children of the parent of the node
// addressed by stack, immediately before (after=false) or after (after=true)
// that node.
func (n *NodeItem) addSiblingAt(d *Document, stack []int, newRef Ref, after bool) bool {
	switch {
	case len(stack) == 1 && !after && stack[0] <= len(n.Children):
		newItem, err := newRef.Resolve(d)
		if err != nil {
			return false
		}
		newItem.node().Parent = n.SelfRef
		n.Children = slices.Insert(n.Children, stack[0], newRef)
		return true
	case len(stack) == 1 && after && stack[0] < len(n.Children):
		newItem, err := newRef.Resolve(d)
		if err != nil {
			return false
		}
		newItem.node().Parent = n.SelfRef
		n.Children = slices.Insert(n.Children, stack[0]+1, newRef)
		return true
	case len(stack) > 1 && stack[0] < len(n.Children):
		child, err := n.Children[stack[0]].Resolve(d)
		if err != nil {
			return false
		}
		return child.node().addSiblingAt(d, stack[1:], newRef, after)
	}
	return false
}

// deleteChildAt removes the child reference addressed by stack from its
// parent's children list. The referenced collection entries are untouched.
func (n *NodeItem) deleteChildAt(d *Document, stack []int) bool {
	if len(stack) == 1 && stack[0] < len(n.Children) {
		n.Children = slices.Delete(n.Children, stack[0], stack[0]+1)
		return true
	}
	if len(stack) > 1 && stack[0] < len(n.Children) {
		child, err := n.Children[stack[0]].Resolve(d)
		if err != nil {
			return false
		}
		return child.node().deleteChildAt(d, stack[1:])
	}
	return false
}

func indexOfRef(refs []Ref, target Ref) int {
	return slices.Index(refs, target)
}
