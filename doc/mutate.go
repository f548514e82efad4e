package doc

import (
	"fmt"
	"slices"
)

// Structural mutation methods. Every two-step mutation (collection append
// plus tree link) rolls back the append when the link step fails, so a
// returned error leaves the document unchanged.

// AppendChildItem appends an existing detached item as the last child of
// parent (the body when parent is nil). The child must not have children of
// its own.
func (d *Document) AppendChildItem(child Item, parent Item) error {
	if len(child.node().Children) > 0 {
		return fmt.Errorf("cannot append a child that has children: %w", ErrStructure)
	}
	if parent == nil {
		parent = d.Body
	}

	stack, ok := d.stackOf(parent)
	if !ok {
		return fmt.Errorf("parent %s is not reachable from the body: %w", parent.GetRef(), ErrUnreachable)
	}

	ref, err := d.appendItem(child, parent.GetRef())
	if err != nil {
		return err
	}
	if !d.Body.addChildAt(d, stack, ref) {
		d.popItem(child)
		return fmt.Errorf("could not append child %s under %s: %w", ref, parent.GetRef(), ErrStructure)
	}
	return nil
}

// InsertItemAfterSibling inserts a detached item as the next sibling of
// sibling.
func (d *Document) InsertItemAfterSibling(newItem, sibling Item) error {
	_, err := d.insertItemAtRef(newItem, sibling.GetRef(), true)
	return err
}

// InsertItemBeforeSibling inserts a detached item as the previous sibling of
// sibling.
func (d *Document) InsertItemBeforeSibling(newItem, sibling Item) error {
	_, err := d.insertItemAtRef(newItem, sibling.GetRef(), false)
	return err
}

func (d *Document) insertItemAtRef(item Item, ref Ref, after bool) (Ref, error) {
	sibling, err := ref.Resolve(d)
	if err != nil {
		return Ref{}, err
	}
	stack, ok := d.stackOf(sibling)
	if !ok {
		return Ref{}, fmt.Errorf("cannot insert at %s: sibling is not reachable from the body: %w", ref, ErrUnreachable)
	}
	return d.insertItemAtStack(item, stack, after)
}

// insertItemAtStack appends item to its collection and splices it next to
// the node addressed by stack.
func (d *Document) insertItemAtStack(item Item, stack []int, after bool) (Ref, error) {
	parentRef, ok := d.Body.parentRefAt(d, stack)
	if !ok {
		if len(stack) == 0 {
			return Ref{}, fmt.Errorf("cannot insert a sibling of the body root: %w", ErrStructure)
		}
		return Ref{}, fmt.Errorf("could not find a parent at stack %v: %w", stack, ErrUnreachable)
	}

	ref, err := d.appendItem(item, parentRef)
	if err != nil {
		return Ref{}, err
	}
	if !d.Body.addSiblingAt(d, stack, ref, after) {
		d.popItem(item)
		return Ref{}, fmt.Errorf("could not insert item %s under %s: %w", ref, parentRef, ErrStructure)
	}
	return ref, nil
}

// DeleteItems deletes the given items and their entire subtrees, compacting
// the flat collections and renumbering every surviving reference.
func (d *Document) DeleteItems(items ...Item) error {
	refs := make([]Ref, 0, len(items))
	for _, it := range items {
		refs = append(refs, it.GetRef())
	}
	return d.deleteRefs(refs)
}

// ReplaceItem replaces oldItem with the detached newItem, deleting
// oldItem's subtree.
func (d *Document) ReplaceItem(newItem, oldItem Item) error {
	if err := d.InsertItemAfterSibling(newItem, oldItem); err != nil {
		return err
	}
	return d.DeleteItems(oldItem)
}

type deletion struct {
	stack []int
	ref   Ref
}

func encodeStack(stack []int) string {
	return fmt.Sprint(stack)
}

// deleteRefs is the deletion core. It walks the whole tree recording the
// stacks of the requested items and of all their descendants, splices the
// recorded stacks out of the tree deepest-first, compacts the flat
// collections, then rewrites every surviving reference with the resulting
// per-collection index deltas.
func (d *Document) deleteRefs(refs []Ref) error {
	if len(refs) == 0 {
		return nil
	}
	requested := make(map[Ref]bool, len(refs))
	for _, r := range refs {
		if r == BodyRef() {
			return fmt.Errorf("cannot delete the body root: %w", ErrStructure)
		}
		requested[r] = true
	}

	o := iterateOptions{root: d.Body, withGroups: true, traversePictures: true, layers: allLayers()}

	// Pre-order traversal visits stacks in ascending lexicographic order,
	// and visits every node after all of its ancestors, so one pass finds
	// both the requested items and their descendants.
	var victims []deletion
	marked := make(map[string]bool)
	found := make(map[Ref]bool, len(refs))
	d.iterateStack(&o, func(it Item, stack []int) bool {
		ref := it.GetRef()
		hit := requested[ref]
		if hit {
			found[ref] = true
		}
		for i := 1; !hit && i < len(stack); i++ {
			hit = marked[encodeStack(stack[:i])]
		}
		if hit {
			victims = append(victims, deletion{stack: slices.Clone(stack), ref: ref})
			marked[encodeStack(stack)] = true
		}
		return true
	})

	for _, r := range refs {
		if !found[r] {
			return fmt.Errorf("cannot delete %s: not reachable from the body: %w", r, ErrUnreachable)
		}
	}

	// Splice deepest and rightmost first so earlier stacks stay valid.
	for i := len(victims) - 1; i >= 0; i-- {
		d.Body.deleteChildAt(d, victims[i].stack)
	}

	// Compact the flat collections, highest index first.
	perCol := make(map[Collection][]int)
	deleted := make(map[Ref]bool, len(victims))
	for _, v := range victims {
		perCol[v.ref.Collection] = append(perCol[v.ref.Collection], v.ref.Index)
		deleted[v.ref] = true
	}
	lookup := make(deltaLookup, len(perCol))
	for col, idxs := range perCol {
		slices.Sort(idxs)
		idxs = slices.Compact(idxs)
		lookup[col] = idxs
		for i := len(idxs) - 1; i >= 0; i-- {
			d.removeAt(col, idxs[i])
		}
	}

	d.renumberRefs(deleted, lookup)
	return nil
}

func (d *Document) removeAt(col Collection, index int) {
	switch col {
	case ColGroups:
		d.Groups = slices.Delete(d.Groups, index, index+1)
	case ColTexts:
		d.Texts = slices.Delete(d.Texts, index, index+1)
	case ColPictures:
		d.Pictures = slices.Delete(d.Pictures, index, index+1)
	case ColTables:
		d.Tables = slices.Delete(d.Tables, index, index+1)
	case ColKeyValueItems:
		d.KeyValueItems = slices.Delete(d.KeyValueItems, index, index+1)
	case ColFormItems:
		d.FormItems = slices.Delete(d.FormItems, index, index+1)
	}
}

// deltaLookup records, per collection, the sorted indices removed by a
// compaction. Remapping a surviving reference subtracts the number of
// removals at or before its index.
type deltaLookup map[Collection][]int

func (dl deltaLookup) remap(r Ref) Ref {
	idxs, ok := dl[r.Collection]
	if !ok {
		return r
	}
	shift, _ := slices.BinarySearch(idxs, r.Index)
	r.Index -= shift
	return r
}

// updateRefList drops references to deleted items and remaps the rest.
func updateRefList(refs []Ref, deleted map[Ref]bool, dl deltaLookup) []Ref {
	out := refs[:0]
	for _, r := range refs {
		if deleted[r] {
			continue
		}
		out = append(out, dl.remap(r))
	}
	return out
}

// renumberRefs rewrites every reference held anywhere in the document:
// self references, parent links, children lists, caption, cross-reference
// and footnote lists, rich table cell pointers and graph cell backlinks.
func (d *Document) renumberRefs(deleted map[Ref]bool, dl deltaLookup) {
	fixNode := func(n *NodeItem) {
		n.SelfRef = dl.remap(n.SelfRef)
		if !n.Parent.IsZero() {
			n.Parent = dl.remap(n.Parent)
		}
		n.Children = updateRefList(n.Children, deleted, dl)
	}
	fixFloating := func(f *FloatingItem) {
		fixNode(&f.NodeItem)
		f.Captions = updateRefList(f.Captions, deleted, dl)
		f.References = updateRefList(f.References, deleted, dl)
		f.Footnotes = updateRefList(f.Footnotes, deleted, dl)
	}
	fixGraph := func(g *GraphData) {
		for i := range g.Cells {
			ref := g.Cells[i].ItemRef
			if ref.IsZero() {
				continue
			}
			if deleted[ref] {
				g.Cells[i].ItemRef = Ref{}
				continue
			}
			g.Cells[i].ItemRef = dl.remap(ref)
		}
	}

	d.Body.Children = updateRefList(d.Body.Children, deleted, dl)
	for _, g := range d.Groups {
		fixNode(&g.NodeItem)
	}
	for _, t := range d.Texts {
		fixNode(&t.NodeItem)
	}
	for _, p := range d.Pictures {
		fixFloating(&p.FloatingItem)
	}
	for _, t := range d.Tables {
		fixFloating(&t.FloatingItem)
		for _, cell := range t.Data.TableCells {
			if cell.IsRich() && !deleted[cell.Ref] {
				cell.Ref = dl.remap(cell.Ref)
			}
		}
	}
	for _, kv := range d.KeyValueItems {
		fixFloating(&kv.FloatingItem)
		fixGraph(&kv.Graph)
	}
	for _, f := range d.FormItems {
		fixFloating(&f.FloatingItem)
		fixGraph(&f.Graph)
	}
}

// siblingRangeRefs returns the references of the children of start's parent
// from start to end, honoring the inclusivity flags. Both items must share a
// parent and start must not come after end.
func (d *Document) siblingRangeRefs(start, end Item, startInclusive, endInclusive bool) ([]Ref, error) {
	if start.node().Parent != end.node().Parent {
		return nil, fmt.Errorf("range endpoints must share a parent: %w", ErrStructure)
	}
	parentRef := start.node().Parent
	if parentRef.IsZero() {
		return nil, fmt.Errorf("range endpoints must not be the body root: %w", ErrStructure)
	}
	parent, err := parentRef.Resolve(d)
	if err != nil {
		return nil, err
	}

	children := parent.node().Children
	startIndex := indexOfRef(children, start.GetRef())
	endIndex := indexOfRef(children, end.GetRef())
	if startIndex < 0 || endIndex < 0 {
		return nil, fmt.Errorf("range endpoint missing from parent %s: %w", parentRef, ErrStructure)
	}
	if !startInclusive {
		startIndex++
	}
	if endInclusive {
		endIndex++
	}
	if startIndex > endIndex {
		return nil, fmt.Errorf("range start must not come after range end: %w", ErrStructure)
	}
	return slices.Clone(children[startIndex:endIndex]), nil
}

// DeleteItemsRange deletes the contiguous sibling range from start to end
// and all its subtrees. Both endpoints must have the same parent.
func (d *Document) DeleteItemsRange(start, end Item, startInclusive, endInclusive bool) error {
	refs, err := d.siblingRangeRefs(start, end, startInclusive, endInclusive)
	if err != nil {
		return err
	}
	return d.deleteRefs(refs)
}

// ExtractItemsRange deep-copies the contiguous sibling range from start to
// end into a fresh document. With remove set, the range is also deleted from
// the receiver.
func (d *Document) ExtractItemsRange(start, end Item, startInclusive, endInclusive, remove bool) (*Document, error) {
	refs, err := d.siblingRangeRefs(start, end, startInclusive, endInclusive)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(refs))
	for _, r := range refs {
		it, err := r.Resolve(d)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	extracted := New(d.Name + " - extracted range")
	if err := extracted.AddNodeItems(items, d, nil); err != nil {
		return nil, err
	}
	if remove {
		if err := d.deleteRefs(refs); err != nil {
			return nil, err
		}
	}
	return extracted, nil
}

// InsertDocument inserts deep copies of src's body content next to sibling.
func (d *Document) InsertDocument(src *Document, sibling Item, after bool) error {
	items, err := resolveAll(src, src.Body.Children)
	if err != nil {
		return err
	}
	return d.InsertNodeItems(sibling, items, src, after)
}

// AddDocument appends deep copies of src's body content under parent (the
// body when parent is nil).
func (d *Document) AddDocument(src *Document, parent Item) error {
	items, err := resolveAll(src, src.Body.Children)
	if err != nil {
		return err
	}
	return d.AddNodeItems(items, src, parent)
}

func resolveAll(d *Document, refs []Ref) ([]Item, error) {
	items := make([]Item, 0, len(refs))
	for _, r := range refs {
		it, err := r.Resolve(d)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// AddNodeItems appends deep copies of items (and their subtrees) from src
// under parent. List items may only be added under a list group.
func (d *Document) AddNodeItems(items []Item, src *Document, parent Item) error {
	if parent == nil {
		parent = d.Body
	}
	if err := checkListItemParent(items, parent); err != nil {
		return err
	}

	newRefs, err := d.appendItemCopies(items, parent.GetRef(), src)
	if err != nil {
		return err
	}
	parent.node().Children = append(parent.node().Children, newRefs...)
	return nil
}

// InsertNodeItems inserts deep copies of items (and their subtrees) from src
// next to sibling, preserving their order.
func (d *Document) InsertNodeItems(sibling Item, items []Item, src *Document, after bool) error {
	var parent Item = d.Body
	if !sibling.node().Parent.IsZero() {
		var err error
		parent, err = sibling.node().Parent.Resolve(d)
		if err != nil {
			return err
		}
	}
	if err := checkListItemParent(items, parent); err != nil {
		return err
	}

	newRefs, err := d.appendItemCopies(items, parent.GetRef(), src)
	if err != nil {
		return err
	}

	stack, ok := d.stackOf(sibling)
	if !ok {
		return fmt.Errorf("cannot insert at %s: sibling is not reachable from the body: %w", sibling.GetRef(), ErrUnreachable)
	}

	// Inserting at a fixed stack position reverses order, so feed the refs
	// in reverse to come out in document order.
	for i := len(newRefs) - 1; i >= 0; i-- {
		if !d.Body.addSiblingAt(d, stack, newRefs[i], after) {
			return fmt.Errorf("could not insert item %s at %s: %w", newRefs[i], sibling.GetRef(), ErrStructure)
		}
	}
	return nil
}

func checkListItemParent(items []Item, parent Item) error {
	if g, ok := parent.(*GroupItem); ok && g.IsListGroup() {
		return nil
	}
	for _, it := range items {
		if t, ok := it.(*TextItem); ok && t.IsListItem() {
			return fmt.Errorf("cannot place a list item under a non-list parent: %w", ErrStructure)
		}
	}
	return nil
}

// appendItemCopies deep-copies items and their subtrees from src into the
// receiver's collections, rewriting child, caption, cross-reference,
// footnote and rich cell references to the copies' new slots.
func (d *Document) appendItemCopies(items []Item, parentRef Ref, src *Document) ([]Ref, error) {
	oldToNew := make(map[Ref]Ref)
	var copies []Item

	var appendAll func(items []Item, parentRef Ref) ([]Ref, error)
	appendAll = func(items []Item, parentRef Ref) ([]Ref, error) {
		newRefs := make([]Ref, 0, len(items))
		for _, it := range items {
			cp := copyItem(it)
			if cp == nil {
				return nil, fmt.Errorf("item type %T is not supported for insertion: %w", it, ErrStructure)
			}
			ref, err := d.appendItem(cp, parentRef)
			if err != nil {
				return nil, err
			}
			oldToNew[it.GetRef()] = ref
			copies = append(copies, cp)

			if len(cp.node().Children) > 0 {
				children, err := resolveAll(src, cp.node().Children)
				if err != nil {
					return nil, err
				}
				childRefs, err := appendAll(children, ref)
				if err != nil {
					return nil, err
				}
				cp.node().Children = childRefs
			}
			newRefs = append(newRefs, ref)
		}
		return newRefs, nil
	}

	newRefs, err := appendAll(items, parentRef)
	if err != nil {
		return nil, err
	}

	// Non-tree references between copied items must follow the copies.
	// References to items outside the copied set are kept as-is.
	retarget := func(refs []Ref) {
		for i, r := range refs {
			if nr, ok := oldToNew[r]; ok {
				refs[i] = nr
			}
		}
	}
	for _, cp := range copies {
		if f := floatingOf(cp); f != nil {
			retarget(f.Captions)
			retarget(f.References)
			retarget(f.Footnotes)
		}
		if t, ok := cp.(*TableItem); ok {
			for _, cell := range t.Data.TableCells {
				if cell.IsRich() {
					if nr, ok := oldToNew[cell.Ref]; ok {
						cell.Ref = nr
					}
				}
			}
		}
	}
	return newRefs, nil
}
