package doc

import (
	"iter"
	"slices"
)

// IterateOption configures a traversal started by [Document.IterateItems].
type IterateOption func(*iterateOptions)

type iterateOptions struct {
	root             Item
	withGroups       bool
	traversePictures bool
	pageNo           int
	layers           map[ContentLayer]bool
}

// WithRoot starts the traversal at the given node instead of the body.
func WithRoot(root Item) IterateOption {
	return func(o *iterateOptions) { o.root = root }
}

// WithGroups includes group items in the emitted sequence.
func WithGroups() IterateOption {
	return func(o *iterateOptions) { o.withGroups = true }
}

// TraversePictures descends into picture subtrees beyond their captions.
func TraversePictures() IterateOption {
	return func(o *iterateOptions) { o.traversePictures = true }
}

// OnPage limits emission to content items with at least one provenance entry
// on the given page.
func OnPage(pageNo int) IterateOption {
	return func(o *iterateOptions) { o.pageNo = pageNo }
}

// WithContentLayers replaces the default emission layer set (body only).
func WithContentLayers(layers ...ContentLayer) IterateOption {
	return func(o *iterateOptions) {
		o.layers = make(map[ContentLayer]bool, len(layers))
		for _, l := range layers {
			o.layers[l] = true
		}
	}
}

func applyIterateOptions(d *Document, opts []IterateOption) iterateOptions {
	o := iterateOptions{root: d.Body}
	for _, opt := range opts {
		opt(&o)
	}
	if o.layers == nil {
		o.layers = map[ContentLayer]bool{LayerBody: true}
	}
	return o
}

// IterateItems walks the tree depth first in pre-order and yields each
// emitted item with its depth below the traversal root. The sequence is
// lazy and restartable; the document must not be mutated while iterating.
func (d *Document) IterateItems(opts ...IterateOption) iter.Seq2[Item, int] {
	o := applyIterateOptions(d, opts)
	return func(yield func(Item, int) bool) {
		d.iterateStack(&o, func(it Item, stack []int) bool {
			return yield(it, len(stack))
		})
	}
}

// iterateStack is the traversal core: it additionally exposes each emitted
// item's stack (the child-index path from the traversal root). The stack
// slice is reused between calls; callers who retain it must copy it.
func (d *Document) iterateStack(o *iterateOptions, fn func(Item, []int) bool) bool {
	stack := make([]int, 0, 8)
	var walk func(it Item) bool
	walk = func(it Item) bool {
		_, isGroup := it.(*GroupItem)

		emit := (!isGroup || o.withGroups) && o.layers[it.node().layer()]
		if emit && !isGroup && o.pageNo > 0 {
			emit = false
			for _, prov := range provOf(it) {
				if prov.PageNo == o.pageNo {
					emit = true
					break
				}
			}
		}
		if emit && !fn(it, stack) {
			return false
		}

		// A picture's non-caption children are structurally present but
		// invisible to traversal unless pictures are traversed explicitly.
		var allowed map[Ref]bool
		if pic, isPic := it.(*PictureItem); isPic && !o.traversePictures {
			allowed = make(map[Ref]bool, len(pic.Captions))
			for _, cap := range pic.Captions {
				allowed[cap] = true
			}
		}

		stack = append(stack, 0)
		for i, childRef := range it.node().Children {
			if allowed != nil && !allowed[childRef] {
				continue
			}
			child, err := childRef.Resolve(d)
			if err != nil {
				continue
			}
			stack[len(stack)-1] = i
			if !walk(child) {
				return false
			}
		}
		stack = stack[:len(stack)-1]
		return true
	}
	return walk(o.root)
}

// stackOf computes the child-index path of an item from the body root. The
// second return is false when the item cannot be reached from the root
// (an orphan, or a node whose parent chain is inconsistent).
func (d *Document) stackOf(it Item) ([]int, bool) {
	if it.GetRef() == BodyRef() {
		return []int{}, true
	}

	node := it
	stack := []int{}
	parentRef := node.node().Parent
	if parentRef.IsZero() {
		return nil, false
	}
	for !parentRef.IsZero() {
		parent, err := parentRef.Resolve(d)
		if err != nil {
			return nil, false
		}
		index := indexOfRef(parent.node().Children, node.GetRef())
		if index < 0 {
			return nil, false
		}
		stack = slices.Insert(stack, 0, index)
		node = parent
		parentRef = node.node().Parent
	}
	if node.GetRef() != BodyRef() {
		return nil, false
	}
	return stack, true
}
