package doc

import "fmt"

// ValidateTree reports whether the subtree under root is internally
// consistent: every child's parent link points back at its parent, and every
// rich table cell's content node is parented by its table.
func (d *Document) ValidateTree(root Item) bool {
	for _, childRef := range root.node().Children {
		child, err := childRef.Resolve(d)
		if err != nil {
			return false
		}
		parent, err := child.node().Parent.Resolve(d)
		if err != nil || parent != root {
			return false
		}
		if !d.ValidateTree(child) {
			return false
		}
	}

	if t, ok := root.(*TableItem); ok {
		for _, cell := range t.Data.TableCells {
			if !cell.IsRich() {
				continue
			}
			target, err := cell.Ref.Resolve(d)
			if err != nil {
				return false
			}
			parent, err := target.node().Parent.Resolve(d)
			if err != nil || parent != root {
				return false
			}
		}
	}
	return true
}

func allLayers() map[ContentLayer]bool {
	layers := make(map[ContentLayer]bool)
	for _, l := range AllContentLayers() {
		layers[l] = true
	}
	return layers
}

// ValidateRules checks the semantic containment rules: list groups hold only
// list items, list items live only under list groups, and groups other than
// the body are not empty.
func (d *Document) ValidateRules() error {
	var err error
	o := iterateOptions{root: d.Body, withGroups: true, traversePictures: true, layers: allLayers()}
	d.iterateStack(&o, func(it Item, _ []int) bool {
		switch v := it.(type) {
		case *GroupItem:
			if v.IsListGroup() {
				for _, childRef := range v.Children {
					child, rerr := childRef.Resolve(d)
					if rerr != nil {
						err = rerr
						return false
					}
					if t, ok := child.(*TextItem); !ok || !t.IsListItem() {
						err = fmt.Errorf("list group %s contains non-list-item %s: %w",
							v.SelfRef, childRef, ErrStructure)
						return false
					}
				}
			} else if !v.Parent.IsZero() && len(v.Children) == 0 {
				err = fmt.Errorf("group %s has no children: %w", v.SelfRef, ErrStructure)
				return false
			}
		case *TextItem:
			if v.IsListItem() {
				parent, rerr := v.Parent.Resolve(d)
				if rerr != nil {
					err = fmt.Errorf("list item %s has no resolvable parent: %w", v.SelfRef, ErrStructure)
					return false
				}
				if g, ok := parent.(*GroupItem); !ok || !g.IsListGroup() {
					err = fmt.Errorf("list item %s has non-list-group parent %s: %w",
						v.SelfRef, v.Parent, ErrStructure)
					return false
				}
			}
		}
		return true
	})
	return err
}

// HealListItems repairs list items that sit under a non-list parent. Runs of
// consecutive misplaced siblings are wrapped in a fresh list group inserted
// at the position of the first item of the run; the items are deleted and
// re-added under the group with their content preserved. Calling it on a
// healthy document changes nothing.
func (d *Document) HealListItems() error {
	// Group consecutive misplaced list items sharing a parent, so
	// neighboring lists are not merged into one.
	var runs [][]*TextItem
	var prev *TextItem
	o := iterateOptions{root: d.Body, withGroups: true, traversePictures: true, layers: allLayers()}
	d.iterateStack(&o, func(it Item, _ []int) bool {
		t, ok := it.(*TextItem)
		misplaced := ok && t.IsListItem()
		if misplaced {
			parent, err := t.Parent.Resolve(d)
			if err == nil {
				if g, isGroup := parent.(*GroupItem); isGroup && g.IsListGroup() {
					misplaced = false
				}
			}
		}
		if misplaced {
			if prev != nil && prev.Parent == t.Parent {
				runs[len(runs)-1] = append(runs[len(runs)-1], t)
			} else {
				runs = append(runs, []*TextItem{t})
			}
			prev = t
		} else {
			prev = nil
		}
		return true
	})

	for i := len(runs) - 1; i >= 0; i-- {
		run := runs[i]

		group, err := d.InsertListGroup(run[0], false)
		if err != nil {
			return err
		}

		items := make([]Item, 0, len(run))
		for _, li := range run {
			items = append(items, li)
		}
		if err := d.DeleteItems(items...); err != nil {
			return err
		}

		for _, li := range run {
			opts := []ItemOption{
				WithParent(group),
				WithMarker(li.Marker),
				WithOrig(li.Orig),
				WithContentLayer(li.ContentLayer),
			}
			if li.Enumerated {
				opts = append(opts, Enumerated())
			}
			if len(li.Prov) > 0 {
				opts = append(opts, WithProv(li.Prov[0]))
			}
			if li.Formatting != nil {
				opts = append(opts, WithFormatting(*li.Formatting))
			}
			if li.Hyperlink != "" {
				opts = append(opts, WithHyperlink(li.Hyperlink))
			}
			d.AddListItem(li.Text, opts...)
		}
	}
	return nil
}
